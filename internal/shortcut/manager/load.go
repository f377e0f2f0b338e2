package manager

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/assets"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
)

// InvalidShortcut is a preference entry that could not be loaded.
type InvalidShortcut struct {
	Section     string
	InModuleID  string
	KeySequence string
	Reason      string
}

// Conflict is a preference entry whose key sequence was already taken.
type Conflict struct {
	ModuleID    string
	InModuleID  string
	KeySequence key.Sequence
	With        []container.Ref
}

// LoadReport describes the problems met while loading shortcuts.
type LoadReport struct {
	DefaultOnly      bool
	InvalidModuleIDs []string
	InvalidShortcuts []InvalidShortcut
	Conflicts        []Conflict
	FileErrors       []error
	Migration        *historian.Report
}

// HasProblems reports whether anything in the report needs attention.
func (r *LoadReport) HasProblems() bool {
	if len(r.InvalidModuleIDs) > 0 || len(r.InvalidShortcuts) > 0 || len(r.Conflicts) > 0 || len(r.FileErrors) > 0 {
		return true
	}
	return r.Migration != nil && len(r.Migration.Warnings) > 0
}

func (r *LoadReport) String() string {
	var sb strings.Builder
	origin := "preferences"
	if r.DefaultOnly {
		origin = "default preferences"
	}
	for _, id := range r.InvalidModuleIDs {
		fmt.Fprintf(&sb, "%s: invalid module ID %q\n", origin, id)
	}
	for _, s := range r.InvalidShortcuts {
		fmt.Fprintf(&sb, "%s: [%s] %s = %q: %s\n", origin, s.Section, s.InModuleID, s.KeySequence, s.Reason)
	}
	for _, c := range r.Conflicts {
		with := make([]string, len(c.With))
		for i, ref := range c.With {
			with[i] = actionid.Make(ref.Module, ref.ID)
		}
		fmt.Fprintf(&sb, "%s: %s: %s already bound to %s\n", origin, actionid.Make(c.ModuleID, c.InModuleID), c.KeySequence, strings.Join(with, ", "))
	}
	for _, err := range r.FileErrors {
		fmt.Fprintf(&sb, "%v\n", err)
	}
	if r.Migration != nil {
		for _, w := range r.Migration.Warnings {
			fmt.Fprintf(&sb, "migration: %s\n", w)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Reporter receives load reports that have problems. It is called for the
// user-visible load only, never for RestoreDefaults.
type Reporter interface {
	ReportLoad(r *LoadReport)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r *LoadReport)

// ReportLoad calls f(r).
func (f ReporterFunc) ReportLoad(r *LoadReport) {
	f(r)
}

// Load reads assets, shortcuts and legacy shortcuts from the preferences,
// replacing the asset store and merging the shortcuts over the current
// ones. A shortcut no longer found in any layer is disabled, so a reload
// after an entry was removed from the files unbinds it. Live actions are
// rebound. Migrated legacy shortcuts are written to
// the user preferences and the legacy sections are removed.
func (m *Manager) Load() *LoadReport {
	c, store, report := m.read(false)
	m.lang = m.prefs.Language()
	m.assets = store
	for a, ref := range m.registered {
		m.ensureAssets(ref.Module, ref.ID, a)
	}

	changes := m.container.Merge(c, true, true)
	m.apply(changes, false)

	m.log.WithFields(logrus.Fields{
		"shortcuts": m.container.Len(),
		"modules":   len(m.assets.ModuleIDs()),
		"changed":   changes.Len(),
		"language":  m.lang,
	}).Info("shortcuts loaded")
	m.report(report)
	return report
}

// RestoreDefaults replaces every shortcut with its default. Shortcuts
// without a default are disabled. The user preferences are updated.
func (m *Manager) RestoreDefaults() container.Changes {
	c, _, report := m.read(true)
	m.report(report)
	return m.MergeContainer(c, true, true)
}

// DefaultShortcuts returns the shortcuts defined by the default
// preferences alone.
func (m *Manager) DefaultShortcuts() (*container.Container, *LoadReport) {
	c, _, report := m.read(true)
	return c, report
}

// read builds a container and an asset store from the preferences.
func (m *Manager) read(defaultOnly bool) (*container.Container, *assets.Store, *LoadReport) {
	report := &LoadReport{DefaultOnly: defaultOnly}

	store, errs := assets.LoadFiles(m.fs, m.prefs.AssetFiles(defaultOnly), m.log)
	report.FileErrors = append(report.FileErrors, errs...)

	sections := m.prefs.Sections(defaultOnly)
	c := container.New(container.WithLogger(m.log))
	m.fill(c, sections, report)

	report.FileErrors = append(report.FileErrors, m.historian.LoadMutationFiles(m.fs, m.prefs.MutationFiles(defaultOnly))...)
	report.Migration = m.historian.Migrate(sections, c)
	if !defaultOnly {
		m.persistMigration(report.Migration)
	}
	return c, store, report
}

// fill loads the sections of the current generation into c.
func (m *Manager) fill(c *container.Container, sections loader.Sections, report *LoadReport) {
	prefix := m.historian.CurrentPrefix()
	for _, name := range sections.Names() {
		moduleID, ok := historian.ParseSectionName(prefix, name)
		if !ok {
			continue
		}
		if !actionid.IsModuleIDValid(moduleID) {
			report.InvalidModuleIDs = append(report.InvalidModuleIDs, moduleID)
			continue
		}

		entries := sections[name]
		for _, inModuleID := range sortedKeys(entries) {
			text := entries[inModuleID]
			invalid := func(reason string) {
				report.InvalidShortcuts = append(report.InvalidShortcuts, InvalidShortcut{
					Section: name, InModuleID: inModuleID, KeySequence: text, Reason: reason,
				})
			}

			if !actionid.IsInModuleIDValid(inModuleID) {
				invalid("invalid action ID")
				continue
			}
			if actionid.IsInModuleMetaID(inModuleID) && moduleID != actionid.RootModuleID {
				invalid("meta-action outside the root module")
				continue
			}
			ks, err := key.ParseSequence(text)
			if err != nil {
				invalid(err.Error())
				continue
			}
			if conflicts := c.SetShortcut(moduleID, inModuleID, ks, false); len(conflicts) > 0 {
				report.Conflicts = append(report.Conflicts, Conflict{
					ModuleID: moduleID, InModuleID: inModuleID, KeySequence: ks, With: conflicts.Sorted(),
				})
			}
		}
	}
}

func (m *Manager) persistMigration(r *historian.Report) {
	if r == nil || r.IsEmpty() {
		return
	}
	prefix := m.historian.CurrentPrefix()
	for _, e := range r.Migrated {
		section := historian.SectionName(prefix, e.Module)
		if err := m.prefs.SetValue(section, e.ID, e.KeySequence.String()); err != nil {
			m.log.WithError(err).WithField("section", section).Warn("cannot persist migrated shortcut")
		}
	}
	for _, name := range r.ObsoleteSections {
		if err := m.prefs.RemoveSection(name); err != nil {
			m.log.WithError(err).WithField("section", name).Debug("cannot remove legacy section")
		}
	}
	m.save()
}

func (m *Manager) report(r *LoadReport) {
	if !r.HasProblems() {
		return
	}
	m.log.WithField("default_only", r.DefaultOnly).Warn("problems loading shortcuts:\n" + r.String())
	if !r.DefaultOnly && m.reporter != nil {
		m.reporter.ReportLoad(r)
	}
}
