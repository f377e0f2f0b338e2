package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

func newListCmd(c *cli) *cobra.Command {
	var prefix string
	var all bool

	cmd := &cobra.Command{
		Use:   "list [module...]",
		Short: "List shortcuts",
		Long: `Lists the shortcuts of the given modules, or of every module.
Use "/" for the root module.

Examples:
  shortcutctl list                 # every module
  shortcutctl list / Paint         # root and Paint
  shortcutctl list --prefix Edit/  # actions whose ID starts with Edit/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.manager()
			lang := c.language()

			modules := m.Shortcuts().ModuleIDs()
			if len(args) > 0 {
				modules = modules[:0]
				for _, arg := range args {
					moduleID, err := moduleArg(arg)
					if err != nil {
						return err
					}
					modules = append(modules, moduleID)
				}
			}

			t := newTable("Module", "Action", "Keys", "Name")
			rows := 0
			for _, moduleID := range modules {
				shortcuts := m.ModuleShortcuts(moduleID, prefix)
				ids := make([]string, 0, len(shortcuts))
				for id := range shortcuts {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				for _, id := range ids {
					ks := shortcuts[id]
					if ks.IsEmpty() && !all {
						continue
					}
					t.Row(m.ModuleName(moduleID, lang), actionid.Make(moduleID, id), keysText(ks), m.ActionName(moduleID, id, lang))
					rows++
				}
			}

			out := cmd.OutOrStdout()
			if rows == 0 {
				fmt.Fprintln(out, dimStyle.Render("no shortcuts"))
				return nil
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only actions whose in-module ID starts with this prefix")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled shortcuts")
	return cmd
}
