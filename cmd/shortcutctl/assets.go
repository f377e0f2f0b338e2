package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/app"
)

func newAssetsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Work with action assets",
	}

	var output string
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Write the action assets as JSON",
		Long: `Writes the loaded action assets, including the assets made up for
actions that had none, in the JSON asset file format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return c.manager().DumpAssets(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return app.NewOperationError("dump", output, err)
			}
			if err := c.manager().DumpAssets(f); err != nil {
				_ = f.Close()
				return app.NewOperationError("dump", output, err)
			}
			if err := f.Close(); err != nil {
				return app.NewOperationError("dump", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+output))
			return nil
		},
	}
	dump.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	cmd.AddCommand(dump)
	return cmd
}
