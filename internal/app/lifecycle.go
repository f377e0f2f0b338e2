package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/config/watcher"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/manager"
)

// ReloadEvent describes a reload triggered by a file change.
type ReloadEvent struct {
	// Path is the file whose change triggered the reload.
	Path string
	// Op is the file operation.
	Op watcher.Operation
	// Report is the load report of the reload.
	Report *manager.LoadReport
	// Changes maps every shortcut that differs after the reload to its
	// key sequences before and after.
	Changes container.Changes
	// Err holds the preference file errors met while reloading.
	Err error
}

// WatchedFiles returns the preference, asset and mutation files the
// application reloads on.
func (app *Application) WatchedFiles() []string {
	files := app.prefs.Files()
	for _, f := range app.prefs.AssetFiles(false) {
		files = append(files, loader.ExpandPath(f))
	}
	for _, f := range app.prefs.MutationFiles(false) {
		files = append(files, loader.ExpandPath(f))
	}
	return files
}

// Watch reloads preferences and shortcuts whenever one of the watched
// files changes, calling onReload after each reload. It blocks until ctx
// is done.
func (app *Application) Watch(ctx context.Context, onReload func(ReloadEvent)) error {
	if !app.watching.CompareAndSwap(false, true) {
		return ErrAlreadyWatching
	}
	defer app.watching.Store(false)

	events := make(chan watcher.Event, 16)
	app.watcher.OnChange(func(ev watcher.Event) {
		if !app.watching.Load() {
			return
		}
		select {
		case events <- ev:
		default:
			app.log.WithField("path", ev.Path).Debug("reload already pending, change dropped")
		}
	})

	if err := app.watchFiles(); err != nil {
		return err
	}
	if err := app.watcher.Start(); err != nil {
		return NewOperationError("watch", "", err)
	}
	defer func() { _ = app.watcher.Stop() }()

	app.log.WithField("files", len(app.watcher.WatchedFiles())).Info("watching preference files")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			re := app.reloadFor(ev)
			// New asset or mutation files may have been listed.
			if err := app.watchFiles(); err != nil {
				app.log.WithError(err).Warn("cannot watch file")
			}
			if onReload != nil {
				onReload(re)
			}
		}
	}
}

func (app *Application) watchFiles() error {
	for _, f := range app.WatchedFiles() {
		if err := app.watcher.Watch(f); err != nil {
			return NewOperationError("watch", f, err)
		}
	}
	return nil
}

func (app *Application) reloadFor(ev watcher.Event) ReloadEvent {
	before := app.manager.Shortcuts()
	report, err := app.Reload()
	changes := before.Merge(app.manager.Shortcuts(), true, true)

	app.log.WithFields(logrus.Fields{
		"path":    ev.Path,
		"op":      ev.Op.String(),
		"changed": changes.Len(),
	}).Info("preferences reloaded")
	return ReloadEvent{Path: ev.Path, Op: ev.Op, Report: report, Changes: changes, Err: err}
}
