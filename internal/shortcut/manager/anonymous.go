package manager

import (
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

// registerAnonymous tracks an action without a valid ID. Its key sequence
// is remembered so it can be given back once no active module claims it.
// An action registered again while unbound keeps the sequence it was
// remembered with.
func (m *Manager) registerAnonymous(a Action, remembered key.Sequence) {
	ks := a.KeySequence()
	if ks.IsEmpty() {
		ks = remembered
	}
	if ks.IsEmpty() {
		return
	}
	m.anonymous[a] = ks
	m.anonymousByKeys[ks] = append(m.anonymousByKeys[ks], a)
	m.refreshAnonymous(ks)
}

// IsAnonymous reports whether a was registered without a valid ID but
// with a key sequence.
func (m *Manager) IsAnonymous(a Action) bool {
	_, ok := m.anonymous[a]
	return ok
}

// AnonymousKeySequence returns the key sequence a was registered with.
func (m *Manager) AnonymousKeySequence(a Action) (key.Sequence, bool) {
	ks, ok := m.anonymous[a]
	return ks, ok
}

// keyTakenByActive reports whether an identified shortcut of an active
// module is bound to ks.
func (m *Manager) keyTakenByActive(ks key.Sequence) bool {
	for moduleID := range m.active {
		if _, ok := m.container.ActionAt(moduleID, ks); ok {
			return true
		}
	}
	return false
}

// refreshAnonymous unbinds the anonymous actions holding ks while an
// active module uses it and rebinds them otherwise.
func (m *Manager) refreshAnonymous(ks key.Sequence) {
	actions := m.anonymousByKeys[ks]
	if len(actions) == 0 {
		return
	}
	bound := ks
	if m.keyTakenByActive(ks) {
		bound = key.Sequence{}
	}
	for _, a := range actions {
		if a.KeySequence() != bound {
			a.SetKeySequence(bound)
		}
	}
}

func (m *Manager) refreshAnonymousFor(changes container.Changes) {
	for _, ref := range changes.Refs() {
		ch, _ := changes.Get(ref.Module, ref.ID)
		if !ch.Old.IsEmpty() {
			m.refreshAnonymous(ch.Old)
		}
		if !ch.New.IsEmpty() {
			m.refreshAnonymous(ch.New)
		}
	}
}
