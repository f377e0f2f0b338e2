package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/app"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

func newSetCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "set <action-id> <keys>",
		Short: "Bind a key sequence to an action",
		Long: `Binds a key sequence to an action. "none" disables the shortcut.

A key sequence already bound to an action of the same module or of the
root module is a conflict: nothing changes unless --force is given, in
which case the other actions lose their shortcut.

Examples:
  shortcutctl set /Edit/Copy "Ctrl+Shift+C"
  shortcutctl set Paint/Tools/Brush "Ctrl+K, B"
  shortcutctl set Paint/Tools/Brush none`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keysArg(args[1])
			if err != nil {
				return app.NewOperationError("set", args[0], err)
			}
			return c.bind(cmd.OutOrStdout(), "set", args[0], ks, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "unbind conflicting actions")
	return cmd
}

// bind sets the key sequence of the action named by arg and reports the
// outcome. Conflicts fail unless force is set.
func (c *cli) bind(w io.Writer, op, arg string, ks key.Sequence, force bool) error {
	moduleID, inModuleID, err := c.actionArg(op, arg)
	if err != nil {
		return err
	}

	m := c.manager()
	if !c.isKnown(moduleID, inModuleID) {
		if hints := m.SuggestActionIDs(arg, 3); len(hints) > 0 {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("note: %s is not a known action; did you mean %s?", arg, strings.Join(hints, ", "))))
		}
	}

	conflicts := m.SetShortcut(moduleID, inModuleID, ks, force)
	name := func(ref container.Ref) string { return m.ActionName(ref.Module, ref.ID, c.language()) }
	if len(conflicts) > 0 && !force {
		printConflicts(w, ks.String()+" is already bound to:", conflicts.Sorted(), name)
		return app.NewOperationError(op, arg, app.ErrConflict).WithContext(ks.String())
	}
	if len(conflicts) > 0 {
		printConflicts(w, "unbound:", conflicts.Sorted(), name)
	}

	fmt.Fprintf(w, "%s %s = %s\n", okStyle.Render("set"), actionid.Make(moduleID, inModuleID), keysStyle.Render(keysText(m.KeySequence(moduleID, inModuleID))))
	if c.dryRun {
		fmt.Fprintln(w, dimStyle.Render("dry run: user preferences not written"))
	}
	return nil
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every shortcut to its default",
		Long: `Restores the default shortcuts. Shortcuts that have no default are
disabled. The user preference file keeps only what differs from the
defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printChanges(out, c.manager().RestoreDefaults())
			if c.dryRun {
				fmt.Fprintln(out, dimStyle.Render("dry run: user preferences not written"))
			}
			return nil
		},
	}
}
