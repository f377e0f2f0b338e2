// Command shortcutctl inspects and edits keyboard shortcuts stored in the
// shortcut preference files.
package main

import (
	"os"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
