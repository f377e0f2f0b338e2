// Package app wires the preference store, the shortcut manager and the
// file watcher together for the command-line tools. It owns the logger
// and manages the component lifecycle.
package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/config/notify"
	"github.com/dshills/shortcuts/internal/config/watcher"
	"github.com/dshills/shortcuts/internal/shortcut/manager"
)

// Application is the composition root of the shortcut tools.
type Application struct {
	mu sync.Mutex

	log     *logrus.Logger
	prefs   *config.Prefs
	manager *manager.Manager
	watcher *watcher.Watcher
	subs    []*notify.Subscription

	report  *manager.LoadReport
	unsaved atomic.Int64

	watching atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// DefaultFiles are the read-only preference files shipped with the
	// application, merged in order.
	DefaultFiles []string

	// UserFile is the writable preference file. Empty selects
	// config.DefaultUserFile().
	UserFile string

	// EnvPrefix prefixes the environment overrides. Empty selects
	// config.DefaultEnvPrefix.
	EnvPrefix string

	// LogLevel sets the logging verbosity. Empty defers to the
	// preferences.
	LogLevel string

	// LogOutput receives log output. Defaults to os.Stderr.
	LogOutput io.Writer

	// LogJSON selects JSON log output.
	LogJSON bool

	// FS is the file system preferences and assets are read from.
	// Defaults to the OS file system.
	FS loader.WritableFileSystem

	// NoAutoSave keeps shortcut changes in memory until Save.
	NoAutoSave bool

	// Reporter receives load reports with problems.
	Reporter manager.Reporter
}

// New creates an Application and loads preferences and shortcuts.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *logrus.Logger {
	return app.log
}

// Prefs returns the preference store.
func (app *Application) Prefs() *config.Prefs {
	return app.prefs
}

// Manager returns the shortcut manager.
func (app *Application) Manager() *manager.Manager {
	return app.manager
}

// LastReport returns the report of the latest load.
func (app *Application) LastReport() *manager.LoadReport {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.report
}

// Unsaved returns the number of shortcut preference changes made since the
// last Save or Reload. It is only meaningful with NoAutoSave.
func (app *Application) Unsaved() int {
	return int(app.unsaved.Load())
}

// Save writes the user preferences.
func (app *Application) Save() error {
	if err := app.prefs.Save(); err != nil {
		return NewOperationError("save", app.prefs.UserFile(), err)
	}
	app.unsaved.Store(0)
	return nil
}

// Reload re-reads the preference files and reloads the shortcuts. File
// errors are returned as an ErrorList; the reload goes on without the
// failing files.
func (app *Application) Reload() (*manager.LoadReport, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	errs := NewErrorList()
	errs.AddAll(app.prefs.Load())
	app.unsaved.Store(0)
	app.applyLogLevel()
	app.report = app.manager.Load()
	return app.report, errs.AsError()
}

// Close releases watcher and preference resources.
func (app *Application) Close() error {
	for _, s := range app.subs {
		s.Unsubscribe()
	}
	app.subs = nil
	var err error
	if app.watcher != nil && app.watcher.IsRunning() {
		err = app.watcher.Stop()
	}
	app.prefs.Close()
	return err
}

// applyLogLevel sets the log level from the options, or else from the
// preferences.
func (app *Application) applyLogLevel() {
	if app.opts.LogLevel != "" {
		app.log.SetLevel(ParseLogLevel(app.opts.LogLevel))
		return
	}
	app.log.SetLevel(app.prefs.LogLevel())
}
