// Package historian migrates shortcut preferences written by earlier
// preference-schema generations into the current container.
//
// Each generation stores shortcuts in sections named
// "<prefix>:<moduleID>". Generations are ordered by semantic version.
// Action IDs may be renamed between generations by mutation tables; an
// empty new ID means the action was removed.
package historian

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

// SectionSeparator separates the section prefix from the module ID.
const SectionSeparator = ":"

// Known generations.
const (
	LegacyPrefix  = "shortcuts"
	CurrentPrefix = "shortcuts_vA1.0"
)

// SectionName returns the preference section holding the shortcuts of
// moduleID under the given generation prefix.
func SectionName(prefix, moduleID string) string {
	return prefix + SectionSeparator + moduleID
}

// ParseSectionName returns the module ID of a section of the given
// generation, and false if the section belongs to another generation.
func ParseSectionName(prefix, section string) (string, bool) {
	return strings.CutPrefix(section, prefix+SectionSeparator)
}

// Generation is one preference-schema generation.
type Generation struct {
	Prefix  string
	Version *semver.Version
}

// DefaultGenerations returns the built-in generation table.
func DefaultGenerations() []Generation {
	return []Generation{
		{Prefix: LegacyPrefix, Version: semver.MustParse("0.0.0")},
		{Prefix: CurrentPrefix, Version: semver.MustParse("1.0.0")},
	}
}

// Mutation renames action IDs between two generations.
type Mutation struct {
	PrefixOld string            `json:"sectionPrefixOld" yaml:"sectionPrefixOld"`
	PrefixNew string            `json:"sectionPrefixNew" yaml:"sectionPrefixNew"`
	OldToNew  map[string]string `json:"oldToNewActionIDMap" yaml:"oldToNewActionIDMap"`
}

// Entry is one migrated shortcut.
type Entry struct {
	Module      string
	ID          string
	KeySequence key.Sequence
	// From is the action ID the shortcut had in its source generation.
	From string
	// Generation is the prefix of the source generation.
	Generation string
	// Disabled is set if the shortcut clashed and was stored disabled.
	Disabled bool
}

// Report describes the outcome of a migration.
type Report struct {
	Migrated []Entry
	// Skipped counts entries that were dropped because the action already
	// has a shortcut, was removed by a mutation, or is invalid.
	Skipped int
	// ObsoleteSections lists the sections the caller must delete.
	ObsoleteSections []string
	Warnings         []string
}

// IsEmpty reports whether nothing was found to migrate.
func (r *Report) IsEmpty() bool {
	return len(r.Migrated) == 0 && r.Skipped == 0 && len(r.ObsoleteSections) == 0
}

// Historian holds the generation table and the mutation tables.
type Historian struct {
	generations []Generation // ascending by version
	mutations   map[string]Mutation
	log         logrus.FieldLogger
}

// Option configures a Historian.
type Option func(*Historian)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Historian) {
		if log != nil {
			h.log = log
		}
	}
}

// WithGenerations replaces the generation table.
func WithGenerations(gens []Generation) Option {
	return func(h *Historian) {
		h.generations = append([]Generation(nil), gens...)
	}
}

// New creates a Historian with the default generation table.
func New(opts ...Option) *Historian {
	h := &Historian{
		generations: DefaultGenerations(),
		mutations:   make(map[string]Mutation),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	sort.SliceStable(h.generations, func(i, j int) bool {
		return h.generations[i].Version.LessThan(h.generations[j].Version)
	})
	return h
}

// Generations returns the generation table, oldest first.
func (h *Historian) Generations() []Generation {
	return append([]Generation(nil), h.generations...)
}

// CurrentPrefix returns the prefix of the newest generation.
func (h *Historian) CurrentPrefix() string {
	if len(h.generations) == 0 {
		return CurrentPrefix
	}
	return h.generations[len(h.generations)-1].Prefix
}

func (h *Historian) generationIndex(prefix string) int {
	for i, g := range h.generations {
		if g.Prefix == prefix {
			return i
		}
	}
	return -1
}

// AddMutation registers a mutation table. The old generation must precede
// the new one. A later table for the same old generation replaces the
// earlier one.
func (h *Historian) AddMutation(m Mutation) error {
	from, to := h.generationIndex(m.PrefixOld), h.generationIndex(m.PrefixNew)
	if from < 0 {
		return fmt.Errorf("%w: unknown section prefix %q", ErrInvalidMutation, m.PrefixOld)
	}
	if to < 0 {
		return fmt.Errorf("%w: unknown section prefix %q", ErrInvalidMutation, m.PrefixNew)
	}
	if from >= to {
		return fmt.Errorf("%w: %q does not precede %q", ErrInvalidMutation, m.PrefixOld, m.PrefixNew)
	}

	clean := Mutation{PrefixOld: m.PrefixOld, PrefixNew: m.PrefixNew, OldToNew: make(map[string]string, len(m.OldToNew))}
	for oldID, newID := range m.OldToNew {
		if !actionid.IsValid(oldID) {
			h.log.WithField("action", oldID).Warn("mutation: invalid old action ID")
			continue
		}
		if newID != "" && !actionid.IsValid(newID) {
			h.log.WithFields(logrus.Fields{"action": oldID, "new": newID}).Warn("mutation: invalid new action ID")
			continue
		}
		clean.OldToNew[oldID] = newID
	}
	h.mutations[m.PrefixOld] = clean
	return nil
}

// trace follows actionID from the generation at index from to the current
// generation. It returns false if a mutation removed the action.
func (h *Historian) trace(from int, actionID string) (string, bool) {
	i := from
	for i < len(h.generations)-1 {
		m, ok := h.mutations[h.generations[i].Prefix]
		if !ok {
			i++
			continue
		}
		if newID, renamed := m.OldToNew[actionID]; renamed {
			if newID == "" {
				return "", false
			}
			actionID = newID
		}
		i = h.generationIndex(m.PrefixNew)
	}
	return actionID, true
}

// Migrate moves shortcuts from sections of older generations into c.
// Only actions c has no entry for are filled in; an entry that clashes
// with an existing shortcut is stored disabled. Newer generations are
// visited first, so when two legacy generations bind the same action the
// newer one wins. The returned report lists the obsolete sections the
// caller must delete so the migration happens once.
func (h *Historian) Migrate(sections loader.Sections, c *container.Container) *Report {
	report := &Report{}
	if len(h.generations) < 2 {
		return report
	}

	for gi := len(h.generations) - 2; gi >= 0; gi-- {
		g := h.generations[gi]
		for _, name := range sections.Names() {
			moduleID, ok := ParseSectionName(g.Prefix, name)
			if !ok {
				continue
			}
			report.ObsoleteSections = append(report.ObsoleteSections, name)
			if !actionid.IsModuleIDValid(moduleID) {
				report.Warnings = append(report.Warnings, fmt.Sprintf("section %q: invalid module ID", name))
				continue
			}

			entries := sections[name]
			ids := make([]string, 0, len(entries))
			for id := range entries {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, inModuleID := range ids {
				h.migrateEntry(g.Prefix, gi, moduleID, inModuleID, entries[inModuleID], c, report)
			}
		}
	}

	if !report.IsEmpty() {
		h.log.WithFields(logrus.Fields{
			"migrated": len(report.Migrated),
			"skipped":  report.Skipped,
			"sections": len(report.ObsoleteSections),
		}).Info("legacy shortcut preferences migrated")
	}
	return report
}

func (h *Historian) migrateEntry(prefix string, gen int, moduleID, inModuleID, keys string, c *container.Container, report *Report) {
	oldID := actionid.Make(moduleID, inModuleID)
	if oldID == "" {
		report.Skipped++
		report.Warnings = append(report.Warnings, fmt.Sprintf("section %q: invalid action ID %q", SectionName(prefix, moduleID), inModuleID))
		return
	}

	ks, err := key.ParseSequence(keys)
	if err != nil {
		report.Skipped++
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: invalid key sequence %q: %v", oldID, keys, err))
		return
	}

	newID, alive := h.trace(gen, oldID)
	if !alive {
		report.Skipped++
		h.log.WithField("action", oldID).Debug("legacy shortcut of removed action dropped")
		return
	}
	newModule, newInModule := actionid.Split(newID)
	newModule = actionid.Resolve(newModule, newInModule)

	if c.HasShortcut(newModule, newInModule) {
		report.Skipped++
		return
	}

	entry := Entry{Module: newModule, ID: newInModule, KeySequence: ks, From: oldID, Generation: prefix}
	if conflicts := c.SetShortcut(newModule, newInModule, ks, false); len(conflicts) > 0 {
		c.SetShortcut(newModule, newInModule, key.Sequence{}, false)
		entry.KeySequence = key.Sequence{}
		entry.Disabled = true
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: legacy shortcut %s clashes and was disabled", newID, ks))
	}
	report.Migrated = append(report.Migrated, entry)
}
