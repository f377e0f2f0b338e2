package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/app"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload shortcuts when preference files change",
		Long: `Watches the preference, asset and mutation files and reloads the
shortcuts whenever one of them changes, printing the shortcuts that
changed. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			for _, path := range c.app.WatchedFiles() {
				fmt.Fprintln(out, dimStyle.Render("watching "+path))
			}

			return c.app.Watch(ctx, func(ev app.ReloadEvent) {
				fmt.Fprintf(out, "%s %s (%s)\n", headerStyle.Render("reloaded"), ev.Path, ev.Op)
				if ev.Err != nil {
					fmt.Fprintln(out, warnStyle.Render(ev.Err.Error()))
				}
				printChanges(out, ev.Changes)
			})
		},
	}
}

