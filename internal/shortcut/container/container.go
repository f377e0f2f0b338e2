package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

// Container maps (module, in-module action ID) pairs to key sequences.
type Container struct {
	// shortcuts maps module ID to key sequence to in-module action ID.
	// Empty key sequences are never stored here.
	shortcuts map[string]map[key.Sequence]string

	// inversed maps module ID to in-module action ID to key sequence.
	// An empty key sequence marks a disabled shortcut.
	inversed map[string]map[string]key.Sequence

	log logrus.FieldLogger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates an empty container holding only the root module.
func New(opts ...Option) *Container {
	c := &Container{
		shortcuts: make(map[string]map[key.Sequence]string),
		inversed:  make(map[string]map[string]key.Sequence),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ensureModule(actionid.RootModuleID)
	return c
}

func (c *Container) ensureModule(moduleID string) {
	if _, ok := c.shortcuts[moduleID]; !ok {
		c.shortcuts[moduleID] = make(map[key.Sequence]string)
	}
	if _, ok := c.inversed[moduleID]; !ok {
		c.inversed[moduleID] = make(map[string]key.Sequence)
	}
}

// validate checks both IDs and resolves meta-actions to the root module.
func (c *Container) validate(op, moduleID, inModuleID string) (string, bool) {
	if !actionid.IsModuleIDValid(moduleID) {
		c.log.WithFields(logrus.Fields{"op": op, "module": moduleID}).Debug("invalid module ID")
		return "", false
	}
	if !actionid.IsInModuleIDValid(inModuleID) {
		c.log.WithFields(logrus.Fields{"op": op, "module": moduleID, "action": inModuleID}).Debug("invalid in-module action ID")
		return "", false
	}
	return actionid.Resolve(moduleID, inModuleID), true
}

// ModuleIDs returns all module IDs known to the container, root first.
func (c *Container) ModuleIDs() []string {
	ids := make([]string, 0, len(c.inversed))
	for id := range c.inversed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// interfering returns the modules to scan for clashes with moduleID.
func (c *Container) interfering(moduleID string) []string {
	return actionid.InterferingModules(moduleID, c.ModuleIDs())
}

// SetShortcut binds keySequence to the action, or disables the action's
// shortcut if keySequence is empty.
//
// If the key sequence is held by actions in interfering modules, those
// actions are returned. Without override nothing changes; with override
// they are disabled and the binding is made. Invalid IDs yield an empty
// set and leave the container unchanged.
func (c *Container) SetShortcut(moduleID, inModuleID string, keySequence key.Sequence, override bool) ConflictSet {
	moduleID, ok := c.validate("set shortcut", moduleID, inModuleID)
	if !ok {
		return ConflictSet{}
	}
	c.ensureModule(moduleID)

	forward := c.shortcuts[moduleID]
	inverse := c.inversed[moduleID]

	if keySequence.IsEmpty() {
		if prev, ok := inverse[inModuleID]; ok && !prev.IsEmpty() {
			delete(forward, prev)
		}
		inverse[inModuleID] = key.Sequence{}
		return ConflictSet{}
	}

	if holder, ok := forward[keySequence]; ok && holder == inModuleID {
		return ConflictSet{}
	}

	conflicts := c.collectConflicts(moduleID, keySequence)
	if len(conflicts) > 0 {
		if !override {
			return conflicts
		}
		for ref := range conflicts {
			delete(c.shortcuts[ref.Module], keySequence)
			c.inversed[ref.Module][ref.ID] = key.Sequence{}
		}
	}

	if prev, ok := inverse[inModuleID]; ok && !prev.IsEmpty() {
		delete(forward, prev)
	}
	forward[keySequence] = inModuleID
	inverse[inModuleID] = keySequence
	return conflicts
}

// Conflicts returns the actions that would clash with binding keySequence
// to the action, without changing anything.
func (c *Container) Conflicts(moduleID, inModuleID string, keySequence key.Sequence) ConflictSet {
	moduleID, ok := c.validate("get conflicts", moduleID, inModuleID)
	if !ok || keySequence.IsEmpty() {
		return ConflictSet{}
	}
	if holder, ok := c.shortcuts[moduleID][keySequence]; ok && holder == inModuleID {
		return ConflictSet{}
	}
	return c.collectConflicts(moduleID, keySequence)
}

func (c *Container) collectConflicts(moduleID string, keySequence key.Sequence) ConflictSet {
	conflicts := ConflictSet{}
	for _, m := range c.interfering(moduleID) {
		if holder, ok := c.shortcuts[m][keySequence]; ok {
			conflicts.Add(Ref{Module: m, ID: holder})
		}
	}
	return conflicts
}

// KeySequence returns the action's key sequence, or the empty sequence if
// the action has none or is unknown.
func (c *Container) KeySequence(moduleID, inModuleID string) key.Sequence {
	moduleID, ok := c.validate("get key sequence", moduleID, inModuleID)
	if !ok {
		return key.Sequence{}
	}
	return c.inversed[moduleID][inModuleID]
}

// ActionAt returns the in-module ID of the action of moduleID bound to
// keySequence.
func (c *Container) ActionAt(moduleID string, keySequence key.Sequence) (string, bool) {
	if keySequence.IsEmpty() {
		return "", false
	}
	id, ok := c.shortcuts[moduleID][keySequence]
	return id, ok
}

// HasShortcut reports whether the container holds an entry for the action,
// including a disabled one.
func (c *Container) HasShortcut(moduleID, inModuleID string) bool {
	moduleID, ok := c.validate("has shortcut", moduleID, inModuleID)
	if !ok {
		return false
	}
	_, ok = c.inversed[moduleID][inModuleID]
	return ok
}

// ModuleShortcutsInversed returns a copy of the module's action ID to key
// sequence map. If idPrefix is not empty, only IDs starting with it are
// included.
func (c *Container) ModuleShortcutsInversed(moduleID, idPrefix string) map[string]key.Sequence {
	inverse := c.inversed[moduleID]
	out := make(map[string]key.Sequence, len(inverse))
	for id, ks := range inverse {
		if idPrefix == "" || strings.HasPrefix(id, idPrefix) {
			out[id] = ks
		}
	}
	return out
}

// ModuleShortcuts returns a copy of the module's key sequence to action ID
// map. Disabled actions are not included.
func (c *Container) ModuleShortcuts(moduleID string) map[key.Sequence]string {
	forward := c.shortcuts[moduleID]
	out := make(map[key.Sequence]string, len(forward))
	for ks, id := range forward {
		out[ks] = id
	}
	return out
}

// Len returns the number of entries, disabled ones included.
func (c *Container) Len() int {
	n := 0
	for _, inverse := range c.inversed {
		n += len(inverse)
	}
	return n
}

// IsEmpty returns true if the container holds no entries.
func (c *Container) IsEmpty() bool {
	return c.Len() == 0
}

// Merge applies the entries of other to c and returns every entry it
// touched with its key sequence before and after.
//
// With override, incoming key sequences win: clashing local shortcuts are
// disabled and reported. If treatAbsentIncomingAsDisabled is also set, local
// shortcuts with no entry in other are disabled.
//
// Without override, only actions c has no entry for are taken. An incoming
// shortcut that clashes with a local one is inserted disabled and reported
// with an empty New value.
func (c *Container) Merge(other *Container, override, treatAbsentIncomingAsDisabled bool) Changes {
	changes := Changes{}
	if other == nil || other == c {
		return changes
	}

	for _, moduleID := range other.ModuleIDs() {
		inverse := other.inversed[moduleID]
		ids := make([]string, 0, len(inverse))
		for id := range inverse {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			ks := inverse[id]
			ref := Ref{Module: moduleID, ID: id}
			if override {
				c.mergeOverride(ref, ks, changes)
			} else {
				c.mergeKeep(ref, ks, changes)
			}
		}
	}

	if override && treatAbsentIncomingAsDisabled {
		for _, moduleID := range c.ModuleIDs() {
			for id, ks := range c.ModuleShortcutsInversed(moduleID, "") {
				if ks.IsEmpty() || other.HasShortcut(moduleID, id) {
					continue
				}
				c.SetShortcut(moduleID, id, key.Sequence{}, false)
				changes.Record(Ref{Module: moduleID, ID: id}, ks, key.Sequence{})
			}
		}
	}

	return changes
}

func (c *Container) mergeOverride(ref Ref, ks key.Sequence, changes Changes) {
	old, had := c.inversed[ref.Module][ref.ID]
	if had && old == ks {
		return
	}

	disabled := c.SetShortcut(ref.Module, ref.ID, ks, true)
	if old != ks {
		changes.Record(ref, old, ks)
	}
	for d := range disabled {
		changes.Record(d, ks, key.Sequence{})
	}
}

func (c *Container) mergeKeep(ref Ref, ks key.Sequence, changes Changes) {
	if _, had := c.inversed[ref.Module][ref.ID]; had {
		return
	}

	conflicts := c.SetShortcut(ref.Module, ref.ID, ks, false)
	if len(conflicts) > 0 {
		c.SetShortcut(ref.Module, ref.ID, key.Sequence{}, false)
		changes.Record(ref, key.Sequence{}, key.Sequence{})
		return
	}
	changes.Record(ref, key.Sequence{}, ks)
}

// Clone returns a deep copy of the container.
func (c *Container) Clone() *Container {
	clone := &Container{
		shortcuts: make(map[string]map[key.Sequence]string, len(c.shortcuts)),
		inversed:  make(map[string]map[string]key.Sequence, len(c.inversed)),
		log:       c.log,
	}
	for moduleID, forward := range c.shortcuts {
		clone.shortcuts[moduleID] = make(map[key.Sequence]string, len(forward))
		for ks, id := range forward {
			clone.shortcuts[moduleID][ks] = id
		}
	}
	for moduleID, inverse := range c.inversed {
		clone.inversed[moduleID] = make(map[string]key.Sequence, len(inverse))
		for id, ks := range inverse {
			clone.inversed[moduleID][id] = ks
		}
	}
	return clone
}

// String returns a multi-line dump of all entries, for debugging.
func (c *Container) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, moduleID := range c.ModuleIDs() {
		fmt.Fprintf(&sb, "\t%q\n", moduleID)
		inverse := c.inversed[moduleID]
		ids := make([]string, 0, len(inverse))
		for id := range inverse {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&sb, "\t\t%q\t%q\n", id, inverse[id].String())
		}
	}
	sb.WriteString("}")
	return sb.String()
}
