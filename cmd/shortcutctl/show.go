package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <action-id>",
		Short: "Show an action and its shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleID, inModuleID, err := c.actionArg("show", args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !c.isKnown(moduleID, inModuleID) {
				return c.unknownAction(out, "show", args[0])
			}

			m := c.manager()
			lang := c.language()
			defaults, _ := m.DefaultShortcuts()

			printField(out, "Action", actionid.Make(moduleID, inModuleID))
			printField(out, "Module", m.ModuleName(moduleID, lang))
			printField(out, "Name", m.ActionName(moduleID, inModuleID, lang))
			if it, ok := m.ActionAssets(moduleID, inModuleID); ok {
				printField(out, "Tooltip", it.BestToolTip(lang))
				printField(out, "Path", it.BestPath(lang))
				if icon := it.IconFile(); icon != "" {
					printField(out, "Icon", icon)
				}
			}
			printField(out, "Keys", keysStyle.Render(keysText(m.KeySequence(moduleID, inModuleID))))
			if defaults.HasShortcut(moduleID, inModuleID) {
				printField(out, "Default", keysText(defaults.KeySequence(moduleID, inModuleID)))
			} else {
				printField(out, "Default", dimStyle.Render("(not in defaults)"))
			}
			if actionid.IsInModuleMetaID(inModuleID) {
				printField(out, "Meta", "shared by every module")
			}
			return nil
		},
	}
}
