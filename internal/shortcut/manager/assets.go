package manager

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/assets"
)

// RootModuleName is shown for the root module when no asset names it.
const RootModuleName = "General"

// Assets returns the action asset store.
func (m *Manager) Assets() *assets.Store {
	return m.assets
}

// ActionAssets returns the assets of an action. If no asset file describes
// the action but a live action is registered under its ID, assets are made
// from the live action and added to the store.
func (m *Manager) ActionAssets(moduleID, inModuleID string) (assets.Item, bool) {
	stored := actionid.Resolve(moduleID, inModuleID)
	if it := m.assets.Item(stored, inModuleID); hasAssets(it) {
		return it, true
	}
	for _, a := range m.Actions(moduleID, inModuleID) {
		if it := m.ensureAssets(moduleID, inModuleID, a); hasAssets(it) {
			return it, true
		}
	}
	return assets.Item{}, false
}

// ActionName returns the display name of an action in lang, or in the
// manager's language if lang is empty.
func (m *Manager) ActionName(moduleID, inModuleID, lang string) string {
	if lang == "" {
		lang = m.lang
	}
	if it, ok := m.ActionAssets(moduleID, inModuleID); ok {
		return it.BestName(lang)
	}
	return actionid.Make(moduleID, inModuleID)
}

// ModuleName returns the display name of a module.
func (m *Manager) ModuleName(moduleID, lang string) string {
	if lang == "" {
		lang = m.lang
	}
	if t := m.assets.Module(moduleID); t != nil && hasAssets(t.Root()) {
		return t.Root().BestName(lang)
	}
	if moduleID == actionid.RootModuleID {
		return RootModuleName
	}
	return moduleID
}

// DumpAssets writes the asset store as an asset JSON document.
func (m *Manager) DumpAssets(w io.Writer) error {
	data, err := assets.EncodeJSON(m.assets)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ensureAssets makes assets for a live action the asset files do not
// describe.
func (m *Manager) ensureAssets(moduleID, inModuleID string, a Action) assets.Item {
	stored := actionid.Resolve(moduleID, inModuleID)
	if it := m.assets.Item(stored, inModuleID); hasAssets(it) {
		return it
	}

	name := a.Text()
	if name == "" {
		name = actionid.LastToken(inModuleID)
	}
	it := m.assets.EnsureModule(stored).Root().Descendant(inModuleID, true)
	it.SetIsAction(true)
	it.SetLang(m.lang, assets.LangAssets{Name: name, ToolTip: a.ToolTip()})
	if it.IconPath() == "" {
		it.SetIconPath(a.IconPath())
	}

	actionID := actionid.Make(moduleID, inModuleID)
	if _, ok := m.warned[actionID]; !ok {
		m.warned[actionID] = struct{}{}
		m.log.WithFields(logrus.Fields{"action": actionID, "name": name}).Warn("no assets for action, using the live action's text")
	}
	return it
}

func hasAssets(it assets.Item) bool {
	return it.IsValid() && len(it.Languages()) > 0
}
