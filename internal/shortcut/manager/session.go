package manager

import (
	"github.com/google/uuid"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

// Session is an editing session over a copy of the shortcuts. Edits are
// checked for clashes against the copy and reach the manager only on
// Commit. Only the actions edited in the session are written back.
type Session struct {
	ID string

	m       *Manager
	c       *container.Container
	touched container.ConflictSet
}

// NewSession starts an editing session.
func (m *Manager) NewSession() *Session {
	return &Session{
		ID: uuid.New().String(),
		m:  m,
		c:       m.container.Clone(),
		touched: container.ConflictSet{},
	}
}

// SetShortcut edits the session copy. See Manager.SetShortcut.
func (s *Session) SetShortcut(moduleID, inModuleID string, ks key.Sequence, override bool) container.ConflictSet {
	conflicts := s.c.SetShortcut(moduleID, inModuleID, ks, override)
	if len(conflicts) > 0 && !override {
		return conflicts
	}
	ref := container.Ref{Module: actionid.Resolve(moduleID, inModuleID), ID: inModuleID}
	if !s.c.HasShortcut(ref.Module, ref.ID) {
		return conflicts
	}
	s.touched.Add(ref)
	for d := range conflicts {
		s.touched.Add(d)
	}
	return conflicts
}

// Conflicts returns the actions of the session copy clashing with ks.
func (s *Session) Conflicts(moduleID, inModuleID string, ks key.Sequence) container.ConflictSet {
	return s.c.Conflicts(moduleID, inModuleID, ks)
}

// KeySequence returns the action's key sequence in the session copy.
func (s *Session) KeySequence(moduleID, inModuleID string) key.Sequence {
	return s.c.KeySequence(moduleID, inModuleID)
}

// Shortcuts returns the session copy.
func (s *Session) Shortcuts() *container.Container {
	return s.c
}

// Commit merges the actions edited in the session into the manager and
// persists them. Changes made to the manager outside the session are kept
// unless an edited action takes their key sequence.
func (s *Session) Commit() container.Changes {
	edits := container.New(container.WithLogger(s.m.log))
	for _, ref := range s.touched.Sorted() {
		edits.SetShortcut(ref.Module, ref.ID, s.c.KeySequence(ref.Module, ref.ID), true)
	}
	s.touched = container.ConflictSet{}

	changes := s.m.MergeContainer(edits, true, false)
	s.m.log.WithField("session", s.ID).WithField("changed", changes.Len()).Debug("shortcut session committed")
	return changes
}
