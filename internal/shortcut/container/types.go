package container

import (
	"sort"

	"github.com/dshills/shortcuts/internal/input/key"
)

// Ref identifies an action within a container.
type Ref struct {
	// Module is the module ID. Meta-actions always live in the root module.
	Module string
	// ID is the in-module action ID.
	ID string
}

// ConflictSet is a set of actions whose shortcuts clash with a requested one.
type ConflictSet map[Ref]struct{}

// Add inserts ref into the set.
func (s ConflictSet) Add(ref Ref) {
	s[ref] = struct{}{}
}

// Has reports whether ref is in the set.
func (s ConflictSet) Has(ref Ref) bool {
	_, ok := s[ref]
	return ok
}

// Sorted returns the set members ordered by module, then ID.
func (s ConflictSet) Sorted() []Ref {
	refs := make([]Ref, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	sortRefs(refs)
	return refs
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Module != refs[j].Module {
			return refs[i].Module < refs[j].Module
		}
		return refs[i].ID < refs[j].ID
	})
}

// Change is the key sequence of one action before and after an operation.
type Change struct {
	Old key.Sequence
	New key.Sequence
}

// Changes maps module ID, then in-module action ID, to a Change.
type Changes map[string]map[string]Change

// Record notes a transition, keeping the earliest Old value.
func (c Changes) Record(ref Ref, oldKS, newKS key.Sequence) {
	mod, ok := c[ref.Module]
	if !ok {
		mod = make(map[string]Change)
		c[ref.Module] = mod
	}
	if prev, ok := mod[ref.ID]; ok {
		oldKS = prev.Old
	}
	mod[ref.ID] = Change{Old: oldKS, New: newKS}
}

// Len returns the number of changed actions.
func (c Changes) Len() int {
	n := 0
	for _, mod := range c {
		n += len(mod)
	}
	return n
}

// Get returns the change recorded for (moduleID, inModuleID).
func (c Changes) Get(moduleID, inModuleID string) (Change, bool) {
	ch, ok := c[moduleID][inModuleID]
	return ch, ok
}

// Refs returns the changed actions ordered by module, then ID.
func (c Changes) Refs() []Ref {
	refs := make([]Ref, 0, c.Len())
	for module, mod := range c {
		for id := range mod {
			refs = append(refs, Ref{Module: module, ID: id})
		}
	}
	sortRefs(refs)
	return refs
}
