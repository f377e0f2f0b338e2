package manager

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
)

// SetShortcut binds ks to the action, or disables its shortcut if ks is
// empty, and persists the change.
//
// If ks clashes with shortcuts of interfering modules, the clashing
// actions are returned. Without override nothing changes; with override
// they lose their shortcut.
func (m *Manager) SetShortcut(moduleID, inModuleID string, ks key.Sequence, override bool) container.ConflictSet {
	if !actionid.IsModuleIDValid(moduleID) || !actionid.IsInModuleIDValid(inModuleID) {
		m.log.WithFields(logrus.Fields{"module": moduleID, "action": inModuleID}).Debug("set shortcut: invalid action ID")
		return container.ConflictSet{}
	}

	conflicts := m.container.Conflicts(moduleID, inModuleID, ks)
	if len(conflicts) > 0 && !override {
		return conflicts
	}

	stored := actionid.Resolve(moduleID, inModuleID)
	target := container.Ref{Module: stored, ID: inModuleID}
	changes := container.Changes{}
	for _, ref := range conflicts.Sorted() {
		if ref == target {
			continue
		}
		changes.Record(ref, ks, key.Sequence{})
	}
	old := m.container.KeySequence(moduleID, inModuleID)
	if old != ks || !m.container.HasShortcut(moduleID, inModuleID) {
		changes.Record(target, old, ks)
	}
	if changes.Len() == 0 {
		return conflicts
	}

	m.container.SetShortcut(moduleID, inModuleID, ks, true)
	m.apply(changes, true)
	return conflicts
}

// SetShortcutByID is SetShortcut with a full action ID.
func (m *Manager) SetShortcutByID(actionID string, ks key.Sequence, override bool) container.ConflictSet {
	moduleID, inModuleID := actionid.Split(actionID)
	if inModuleID == "" {
		m.log.WithField("action", actionID).Debug("set shortcut: invalid action ID")
		return container.ConflictSet{}
	}
	return m.SetShortcut(moduleID, inModuleID, ks, override)
}

// Conflicts returns the actions whose shortcuts clash with binding ks to
// the action, without changing anything.
func (m *Manager) Conflicts(moduleID, inModuleID string, ks key.Sequence) container.ConflictSet {
	return m.container.Conflicts(moduleID, inModuleID, ks)
}

// KeySequence returns the action's key sequence, or the empty sequence.
func (m *Manager) KeySequence(moduleID, inModuleID string) key.Sequence {
	return m.container.KeySequence(moduleID, inModuleID)
}

// KeySequenceByID is KeySequence with a full action ID.
func (m *Manager) KeySequenceByID(actionID string) key.Sequence {
	moduleID, inModuleID := actionid.Split(actionID)
	return m.container.KeySequence(moduleID, inModuleID)
}

// HasShortcut reports whether the container has an entry for the action,
// including a disabled one.
func (m *Manager) HasShortcut(moduleID, inModuleID string) bool {
	return m.container.HasShortcut(moduleID, inModuleID)
}

// ModuleShortcuts returns the module's in-module ID to key sequence map,
// limited to IDs starting with idPrefix if it is not empty.
func (m *Manager) ModuleShortcuts(moduleID, idPrefix string) map[string]key.Sequence {
	return m.container.ModuleShortcutsInversed(moduleID, idPrefix)
}

// Shortcuts returns a copy of the shortcut container.
func (m *Manager) Shortcuts() *container.Container {
	return m.container.Clone()
}

// ModuleIDs returns every module known from shortcuts, assets or live
// actions, root first.
func (m *Manager) ModuleIDs() []string {
	set := map[string]struct{}{actionid.RootModuleID: {}}
	for _, id := range m.container.ModuleIDs() {
		set[id] = struct{}{}
	}
	for _, id := range m.assets.ModuleIDs() {
		set[id] = struct{}{}
	}
	for id := range m.buckets {
		set[id] = struct{}{}
	}
	return sortedKeys(set)
}

// MergeContainer merges other into the shortcuts, rebinds the affected
// actions and persists the result.
func (m *Manager) MergeContainer(other *container.Container, override, treatAbsentIncomingAsDisabled bool) container.Changes {
	changes := m.container.Merge(other, override, treatAbsentIncomingAsDisabled)
	m.apply(changes, true)
	return changes
}

// apply rebinds the live actions touched by changes. Unbinding goes first
// so that a key sequence moving between actions is never held twice.
func (m *Manager) apply(changes container.Changes, persist bool) {
	if changes.Len() == 0 {
		return
	}
	refs := changes.Refs()
	for _, ref := range refs {
		if ch, _ := changes.Get(ref.Module, ref.ID); ch.New.IsEmpty() {
			m.bind(ref, key.Sequence{})
		}
	}
	for _, ref := range refs {
		if ch, _ := changes.Get(ref.Module, ref.ID); !ch.New.IsEmpty() {
			m.bind(ref, ch.New)
		}
	}
	m.refreshAnonymousFor(changes)
	if persist {
		m.persist(changes)
	}
}

func (m *Manager) bind(ref container.Ref, ks key.Sequence) {
	for _, a := range m.Actions(ref.Module, ref.ID) {
		a.SetKeySequence(ks)
	}
}

// persist writes changes to the user preferences. A shortcut equal to its
// default is removed from the user layer instead of being repeated there.
func (m *Manager) persist(changes container.Changes) {
	if changes.Len() == 0 {
		return
	}
	prefix := m.historian.CurrentPrefix()
	for _, ref := range changes.Refs() {
		ch, _ := changes.Get(ref.Module, ref.ID)
		section := historian.SectionName(prefix, ref.Module)

		var err error
		if def, ok := m.prefs.Section(section, true)[ref.ID]; ok && sameKeys(def, ch.New) {
			err = m.prefs.RemoveValue(section, ref.ID)
		} else {
			err = m.prefs.SetValue(section, ref.ID, ch.New.String())
		}
		if err != nil {
			m.log.WithError(err).WithFields(logrus.Fields{
				"section": section,
				"action":  ref.ID,
			}).Warn("cannot persist shortcut")
		}
	}
	m.save()
}

func (m *Manager) save() {
	if !m.autoSave {
		return
	}
	if err := m.prefs.Save(); err != nil {
		m.log.WithError(err).Warn("cannot save user preferences")
	}
}

func sameKeys(text string, ks key.Sequence) bool {
	parsed, err := key.ParseSequence(text)
	return err == nil && parsed == ks
}
