package app

import (
	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/config/watcher"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
	"github.com/dshills/shortcuts/internal/shortcut/manager"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, initOrder: make([]string, 0, 4)}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogger,
		b.initPrefs,
		b.initManager,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initLogger() error {
	cfg := DefaultLoggerConfig()
	cfg.JSON = b.app.opts.LogJSON
	if b.app.opts.LogOutput != nil {
		cfg.Output = b.app.opts.LogOutput
	}
	b.app.log = NewLogger(cfg)
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

func (b *bootstrapper) initPrefs() error {
	opts := b.app.opts
	prefsOpts := []config.Option{
		config.WithLogger(WithComponent(b.app.log, "prefs")),
		config.WithDefaultFiles(opts.DefaultFiles...),
	}
	if opts.FS != nil {
		prefsOpts = append(prefsOpts, config.WithFS(opts.FS))
	}
	if opts.UserFile != "" {
		prefsOpts = append(prefsOpts, config.WithUserFile(opts.UserFile))
	}
	if opts.EnvPrefix != "" {
		prefsOpts = append(prefsOpts, config.WithEnvPrefix(opts.EnvPrefix))
	}

	b.app.prefs = config.New(prefsOpts...)
	if b.app.prefs.UserFile() == "" && !opts.NoAutoSave {
		b.app.prefs.Close()
		return &InitError{Component: "prefs", Err: config.ErrNoUserFile}
	}
	for _, err := range b.app.prefs.Load() {
		b.app.log.WithError(err).Warn("preference file skipped")
	}
	b.app.applyLogLevel()
	b.app.subscribe()
	b.initOrder = append(b.initOrder, "prefs")
	return nil
}

func (b *bootstrapper) initManager() error {
	opts := b.app.opts
	log := WithComponent(b.app.log, "shortcuts")
	mopts := []manager.Option{
		manager.WithLogger(log),
		manager.WithHistorian(historian.New(historian.WithLogger(log))),
		manager.WithAutoSave(!opts.NoAutoSave),
		manager.WithReporter(opts.Reporter),
	}
	if opts.FS != nil {
		mopts = append(mopts, manager.WithFS(opts.FS))
	}

	b.app.manager = manager.New(b.app.prefs, mopts...)
	b.app.report = b.app.manager.Load()
	b.initOrder = append(b.initOrder, "manager")
	return nil
}

func (b *bootstrapper) initWatcher() error {
	b.app.watcher = watcher.New(watcher.WithLogger(WithComponent(b.app.log, "watcher")))
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if b.app.watcher != nil && b.app.watcher.IsRunning() {
				_ = b.app.watcher.Stop()
			}
			b.app.watcher = nil
		case "manager":
			b.app.manager = nil
		case "prefs":
			for _, s := range b.app.subs {
				s.Unsubscribe()
			}
			b.app.subs = nil
			b.app.prefs.Close()
			b.app.prefs = nil
		}
	}
}
