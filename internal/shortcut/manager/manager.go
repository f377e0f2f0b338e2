// Package manager binds live actions to key sequences.
//
// The Manager owns the authoritative shortcut container, the action
// assets and the registry of live actions. Shortcuts are read from the
// preference store at Load, legacy preference generations are migrated by
// the historian, and every change made through the Manager is written back
// to the user preferences as a delta against the defaults.
//
// Actions registered without a valid ID but with a key sequence are
// anonymous: they cannot be edited and yield to identified shortcuts of the
// active modules.
//
// A Manager is not safe for concurrent use. Create one at startup and
// pass it to the components that need it.
package manager

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/assets"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
)

// Preferences is the preference store the manager reads shortcuts from
// and writes changes to. Writes go to the user layer.
type Preferences interface {
	Sections(defaultOnly bool) loader.Sections
	Section(name string, defaultOnly bool) map[string]string
	SetValue(section, key, value string) error
	RemoveValue(section, key string) error
	RemoveSection(name string) error
	AssetFiles(defaultOnly bool) []string
	MutationFiles(defaultOnly bool) []string
	Language() string
	Save() error
}

// Manager is the shortcut manager.
type Manager struct {
	prefs     Preferences
	fs        loader.FileSystem
	historian *historian.Historian
	container *container.Container
	assets    *assets.Store
	reporter  Reporter
	log       logrus.FieldLogger
	autoSave  bool
	lang      string

	// buckets maps module ID, then in-module ID, to actions in
	// registration order.
	buckets    map[string]map[string][]Action
	registered map[Action]container.Ref
	hooked     map[Action]struct{}

	anonymous       map[Action]key.Sequence
	anonymousByKeys map[key.Sequence][]Action

	active       map[string]struct{}
	activeWindow WindowID
	warned       map[string]struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithFS sets the file system asset and mutation files are read from.
func WithFS(fs loader.FileSystem) Option {
	return func(m *Manager) {
		if fs != nil {
			m.fs = fs
		}
	}
}

// WithHistorian sets the historian used to migrate legacy preferences.
func WithHistorian(h *historian.Historian) Option {
	return func(m *Manager) {
		if h != nil {
			m.historian = h
		}
	}
}

// WithReporter sets the receiver of load reports.
func WithReporter(r Reporter) Option {
	return func(m *Manager) {
		m.reporter = r
	}
}

// WithAutoSave controls whether every persisted change is saved to the
// user preference file immediately. It is on by default.
func WithAutoSave(on bool) Option {
	return func(m *Manager) {
		m.autoSave = on
	}
}

// New creates a Manager over prefs. The manager is empty until Load.
func New(prefs Preferences, opts ...Option) *Manager {
	m := &Manager{
		prefs:           prefs,
		fs:              loader.DefaultFS(),
		log:             logrus.StandardLogger(),
		autoSave:        true,
		lang:            assets.DefaultLanguage,
		buckets:         make(map[string]map[string][]Action),
		registered:      make(map[Action]container.Ref),
		hooked:          make(map[Action]struct{}),
		anonymous:       make(map[Action]key.Sequence),
		anonymousByKeys: make(map[key.Sequence][]Action),
		active:          map[string]struct{}{actionid.RootModuleID: {}},
		warned:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.historian == nil {
		m.historian = historian.New(historian.WithLogger(m.log))
	}
	m.container = container.New(container.WithLogger(m.log))
	m.assets = assets.NewStore()
	return m
}

// Language returns the language used for display names.
func (m *Manager) Language() string {
	return m.lang
}

// RegisterAction binds a live action to an action ID.
//
// An action registered earlier under another ID is moved. If the container
// has an entry for the ID, the action takes its key sequence, even if
// disabled. Otherwise the action's own key sequence becomes the shortcut of
// the ID unless it clashes, in which case the action loses it.
//
// An invalid ID makes the action anonymous.
func (m *Manager) RegisterAction(id string, a Action) {
	if a == nil {
		return
	}
	moduleID, inModuleID := actionid.Split(id)
	remembered := m.anonymous[a]
	m.forget(a)
	m.hook(a)

	if inModuleID == "" {
		m.log.WithFields(logrus.Fields{"action": id, "text": a.Text()}).Debug("action registered without valid ID")
		m.registerAnonymous(a, remembered)
		return
	}

	ref := container.Ref{Module: moduleID, ID: inModuleID}
	bucket := m.buckets[moduleID]
	if bucket == nil {
		bucket = make(map[string][]Action)
		m.buckets[moduleID] = bucket
	}
	bucket[inModuleID] = append(bucket[inModuleID], a)
	m.registered[a] = ref
	m.ensureAssets(moduleID, inModuleID, a)

	if m.container.HasShortcut(moduleID, inModuleID) {
		a.SetKeySequence(m.container.KeySequence(moduleID, inModuleID))
		return
	}

	ks := a.KeySequence()
	if conflicts := m.container.SetShortcut(moduleID, inModuleID, ks, false); len(conflicts) > 0 {
		m.log.WithFields(logrus.Fields{
			"action": id,
			"keys":   ks.String(),
		}).Debug("key sequence of new action clashes and was unbound")
		a.SetKeySequence(key.Sequence{})
		return
	}
	if ks.IsEmpty() {
		return
	}

	stored := actionid.Resolve(moduleID, inModuleID)
	changes := container.Changes{}
	changes.Record(container.Ref{Module: stored, ID: inModuleID}, key.Sequence{}, ks)
	m.refreshAnonymousFor(changes)
	m.persist(changes)
}

// UnregisterAction forgets a live action. Its key sequence stays in the
// container.
func (m *Manager) UnregisterAction(a Action) {
	m.forget(a)
	delete(m.hooked, a)
}

// HasAction reports whether a is registered with a valid ID.
func (m *Manager) HasAction(a Action) bool {
	_, ok := m.registered[a]
	return ok
}

// ActionID returns the action ID a is registered under, or "".
func (m *Manager) ActionID(a Action) string {
	ref, ok := m.registered[a]
	if !ok {
		return ""
	}
	return actionid.Make(ref.Module, ref.ID)
}

// Actions returns the live actions registered under the ID. For a
// meta-action, the actions of every module registered under it are
// returned.
func (m *Manager) Actions(moduleID, inModuleID string) []Action {
	if actionid.IsInModuleMetaID(inModuleID) {
		var out []Action
		for _, mod := range sortedKeys(m.buckets) {
			out = append(out, m.buckets[mod][inModuleID]...)
		}
		return out
	}
	return append([]Action(nil), m.buckets[moduleID][inModuleID]...)
}

// IsActionEnabled reports whether any live action registered under the ID
// is enabled.
func (m *Manager) IsActionEnabled(moduleID, inModuleID string) bool {
	for _, a := range m.Actions(moduleID, inModuleID) {
		if a.Enabled() {
			return true
		}
	}
	return false
}

// SetActiveWindow sets the top-level window whose actions are toggled by
// SetActionsOfModuleEnabled and SetActionsWithPrefixInIDEnabled.
func (m *Manager) SetActiveWindow(w WindowID) {
	m.activeWindow = w
}

// ActiveModules returns the active module IDs, root first.
func (m *Manager) ActiveModules() []string {
	return sortedKeys(m.active)
}

// SetActionsOfModuleEnabled enables or disables the module's actions of
// the active window and marks the module active or inactive. Anonymous
// shortcuts clashing with the module's key sequences yield while it is
// active and come back when it is not. The root module is always active.
func (m *Manager) SetActionsOfModuleEnabled(moduleID string, enable bool) {
	if !actionid.IsModuleIDValid(moduleID) {
		m.log.WithField("module", moduleID).Debug("invalid module ID")
		return
	}
	if enable {
		m.active[moduleID] = struct{}{}
	} else if moduleID != actionid.RootModuleID {
		delete(m.active, moduleID)
	}

	for _, inModuleID := range sortedKeys(m.buckets[moduleID]) {
		for _, a := range m.buckets[moduleID][inModuleID] {
			if a.Window() == m.activeWindow {
				a.SetEnabled(enable)
			}
		}
	}
	for ks := range m.container.ModuleShortcuts(moduleID) {
		m.refreshAnonymous(ks)
	}
}

// SetActionsWithPrefixInIDEnabled enables or disables the actions of the
// active window whose in-module ID starts with prefix.
func (m *Manager) SetActionsWithPrefixInIDEnabled(prefix string, enable bool) {
	for a, ref := range m.registered {
		if a.Window() == m.activeWindow && strings.HasPrefix(ref.ID, prefix) {
			a.SetEnabled(enable)
		}
	}
}

// RebindActionsToKeySequences sets the key sequence of every live action
// from the container.
func (m *Manager) RebindActionsToKeySequences() {
	for a, ref := range m.registered {
		a.SetKeySequence(m.container.KeySequence(ref.Module, ref.ID))
	}
	for ks := range m.anonymousByKeys {
		m.refreshAnonymous(ks)
	}
}

// forget removes every trace of a from the registry.
func (m *Manager) forget(a Action) {
	if ref, ok := m.registered[a]; ok {
		bucket := m.buckets[ref.Module]
		bucket[ref.ID] = removeAction(bucket[ref.ID], a)
		if len(bucket[ref.ID]) == 0 {
			delete(bucket, ref.ID)
		}
		if len(bucket) == 0 {
			delete(m.buckets, ref.Module)
		}
		delete(m.registered, a)
	}
	if ks, ok := m.anonymous[a]; ok {
		m.anonymousByKeys[ks] = removeAction(m.anonymousByKeys[ks], a)
		if len(m.anonymousByKeys[ks]) == 0 {
			delete(m.anonymousByKeys, ks)
		}
		delete(m.anonymous, a)
	}
}

func (m *Manager) hook(a Action) {
	if _, ok := m.hooked[a]; ok {
		return
	}
	m.hooked[a] = struct{}{}
	a.OnDestroy(func() { m.UnregisterAction(a) })
}

func removeAction(actions []Action, a Action) []Action {
	for i, x := range actions {
		if x == a {
			return append(actions[:i], actions[i+1:]...)
		}
	}
	return actions
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
