package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

func newConflictsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts [<action-id> <keys>]",
		Short: "Show shortcut conflicts",
		Long: `Without arguments, lists the conflicts found while loading the
preferences. With an action and a key sequence, lists the actions that
binding the key sequence to the action would unbind, without changing
anything.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 args, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			m := c.manager()
			name := func(ref container.Ref) string { return m.ActionName(ref.Module, ref.ID, c.language()) }

			if len(args) == 0 {
				report := c.app.LastReport()
				if report == nil || len(report.Conflicts) == 0 {
					fmt.Fprintln(out, okStyle.Render("no conflicts"))
					return nil
				}
				for _, conflict := range report.Conflicts {
					title := fmt.Sprintf("%s %s was not bound, already used by:", actionid.Make(conflict.ModuleID, conflict.InModuleID), conflict.KeySequence)
					printConflicts(out, title, conflict.With, name)
				}
				return nil
			}

			moduleID, inModuleID, err := c.actionArg("conflicts", args[0])
			if err != nil {
				return err
			}
			ks, err := keysArg(args[1])
			if err != nil {
				return err
			}
			conflicts := m.Conflicts(moduleID, inModuleID, ks)
			if len(conflicts) == 0 {
				fmt.Fprintln(out, okStyle.Render(keysText(ks)+" is free for "+args[0]))
				return nil
			}
			printConflicts(out, ks.String()+" is bound to:", conflicts.Sorted(), name)
			return nil
		},
	}
}
