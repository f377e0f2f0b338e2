package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Show the migration of legacy shortcut sections",
		Long: `Legacy shortcut sections are migrated to the current format when the
preferences are loaded. This command shows what was migrated. Unless
--dry-run is set, the migrated shortcuts are written to the user
preference file and the legacy sections are removed from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			report := c.app.LastReport()
			if report == nil || report.Migration == nil || report.Migration.IsEmpty() {
				fmt.Fprintln(out, okStyle.Render("nothing to migrate"))
				return nil
			}
			mig := report.Migration

			if len(mig.Migrated) > 0 {
				t := newTable("From", "To", "Keys", "Generation")
				for _, e := range mig.Migrated {
					keys := keysText(e.KeySequence)
					if e.Disabled {
						keys += " " + warnStyle.Render("(disabled: clash)")
					}
					t.Row(e.From, actionid.Make(e.Module, e.ID), keys, e.Generation)
				}
				fmt.Fprintln(out, t.Render())
			}
			if mig.Skipped > 0 {
				fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Skipped:"), mig.Skipped)
			}
			for _, section := range mig.ObsoleteSections {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Removed:"), section)
			}
			for _, w := range mig.Warnings {
				fmt.Fprintln(out, warnStyle.Render("warning: "+w))
			}
			if c.dryRun {
				fmt.Fprintln(out, dimStyle.Render("dry run: user preferences not written"))
			}
			return nil
		},
	}
}
