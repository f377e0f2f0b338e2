package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/app"
	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/manager"
)

// envDefaults lists the default preference files, separated by the OS
// path list separator.
const envDefaults = "SHORTCUTS_DEFAULTS"

// cli holds the global flags and the application shared by the commands.
type cli struct {
	defaults  []string
	user      string
	envPrefix string
	logLevel  string
	logJSON   bool
	lang      string
	dryRun    bool

	app *app.Application
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "shortcutctl",
		Short: "Inspect and edit keyboard shortcuts",
		Long: `shortcutctl reads the default and user shortcut preference files,
migrates legacy shortcut sections and lets you list, search and change the
key sequences bound to actions.

Changes are written to the user preference file unless --dry-run is set.`,
		Version:            fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}

	flags := root.PersistentFlags()
	flags.StringSliceVar(&c.defaults, "defaults", nil, "default preference files (env "+envDefaults+")")
	flags.StringVar(&c.user, "user", "", "user preference file (default: user config dir)")
	flags.StringVar(&c.envPrefix, "env-prefix", "", "prefix of environment overrides (default SHORTCUTS_)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&c.logJSON, "log-json", false, "log in JSON")
	flags.StringVar(&c.lang, "lang", "", "display language (default: preferences)")
	flags.BoolVarP(&c.dryRun, "dry-run", "n", false, "do not write the user preference file")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newSetCmd(c),
		newResetCmd(c),
		newConflictsCmd(c),
		newSearchCmd(c),
		newMigrateCmd(c),
		newAssetsCmd(c),
		newCaptureCmd(c),
		newWatchCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	defaults := c.defaults
	if len(defaults) == 0 {
		if env := loader.GetEnvOrDefault(envDefaults, ""); env != "" {
			defaults = filepath.SplitList(env)
		}
	}

	stderr := cmd.ErrOrStderr()
	application, err := app.New(app.Options{
		DefaultFiles: defaults,
		UserFile:     c.user,
		EnvPrefix:    c.envPrefix,
		LogLevel:     c.logLevel,
		LogOutput:    stderr,
		LogJSON:      c.logJSON,
		NoAutoSave:   c.dryRun,
		Reporter:     manager.ReporterFunc(func(r *manager.LoadReport) { printReport(stderr, r) }),
	})
	if err != nil {
		return err
	}
	c.app = application
	return nil
}

func (c *cli) close(_ *cobra.Command, _ []string) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) manager() *manager.Manager {
	return c.app.Manager()
}

// language returns the display language.
func (c *cli) language() string {
	if c.lang != "" {
		return c.lang
	}
	return c.manager().Language()
}

// actionArg validates an action ID argument.
func (c *cli) actionArg(op, arg string) (string, string, error) {
	moduleID, inModuleID := actionid.Split(arg)
	if inModuleID == "" {
		return "", "", app.NewOperationError(op, arg, errInvalidActionID)
	}
	return moduleID, inModuleID, nil
}

// isKnown reports whether the action has a shortcut entry or assets.
func (c *cli) isKnown(moduleID, inModuleID string) bool {
	m := c.manager()
	if m.HasShortcut(moduleID, inModuleID) {
		return true
	}
	_, ok := m.ActionAssets(moduleID, inModuleID)
	return ok
}

// unknownAction builds the error for an unknown action, with suggestions.
func (c *cli) unknownAction(w io.Writer, op, actionID string) error {
	if hints := c.manager().SuggestActionIDs(actionID, 3); len(hints) > 0 {
		fmt.Fprintln(w, dimStyle.Render("did you mean: "+strings.Join(hints, ", ")))
	}
	return app.NewOperationError(op, actionID, app.ErrUnknownAction)
}

// moduleArg maps "/" to the root module.
func moduleArg(arg string) (string, error) {
	if arg == actionid.TokenSeparator {
		return actionid.RootModuleID, nil
	}
	if !actionid.IsModuleIDValid(arg) {
		return "", fmt.Errorf("%w: %q", errInvalidModuleID, arg)
	}
	return arg, nil
}

// keysArg parses a key sequence argument. "none" and "" disable.
func keysArg(arg string) (key.Sequence, error) {
	if strings.EqualFold(arg, "none") {
		return key.Sequence{}, nil
	}
	return key.ParseSequence(arg)
}

func keysText(ks key.Sequence) string {
	if ks.IsEmpty() {
		return "(none)"
	}
	return ks.String()
}
