package app

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/config/notify"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
)

// subscribe observes preference changes: shortcut edits are counted until
// saved, and a language change is logged.
func (app *Application) subscribe() {
	prefix := historian.SectionName(historian.CurrentPrefix, "")
	app.subs = append(app.subs,
		app.prefs.SubscribeSection(prefix, app.onShortcutChange),
		app.prefs.SubscribeSection(config.SectionLanguage, app.onLanguageChange),
	)
}

func (app *Application) onShortcutChange(c notify.Change) {
	if c.Type == notify.ChangeReload {
		return
	}
	app.unsaved.Add(1)
	app.log.WithFields(logrus.Fields{
		"section": c.Section,
		"action":  c.Key,
		"keys":    c.NewValue,
		"change":  c.Type.String(),
	}).Debug("shortcut preference changed")
}

func (app *Application) onLanguageChange(c notify.Change) {
	if c.Type != notify.ChangeSet {
		return
	}
	app.log.WithFields(logrus.Fields{"from": c.OldValue, "to": c.NewValue}).Info("language preference changed")
}
