package manager

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/historian"
)

const (
	defaultsFile = "/res/defaults.toml"
	userFile     = "/home/user/shortcuts.toml"
	root         = "shortcuts_vA1.0:"
	paint        = "shortcuts_vA1.0:Paint"
)

const defaultPrefs = `
["shortcuts_vA1.0:"]
"Edit/Copy" = "Ctrl+C"
"Edit/Paste" = "Ctrl+V"
"#Undo" = "Ctrl+Z"

["shortcuts_vA1.0:Paint"]
"Tools/Brush" = "B"

[action_assets]
"10_base" = "/res/assets.json"

[action_id_mutations]
"10_base" = "/res/mutations.json"

[language]
language = "en"
`

const assetsJSON = `{
  "": {
    "children": {
      "Edit": {
        "isAction": false,
        "langDependentAssets": {"en": {"name": "Edit"}},
        "children": {
          "Copy": {"langDependentAssets": {"en": {"name": "Copy"}, "fr": {"name": "Copier"}}},
          "Paste": {"langDependentAssets": {"en": {"name": "Paste"}}}
        }
      }
    }
  },
  "Paint": {
    "langDependentAssets": {"en": {"name": "Painting"}},
    "children": {
      "Tools": {
        "isAction": false,
        "children": {
          "Brush": {"langDependentAssets": {"en": {"name": "Brush"}}}
        }
      }
    }
  }
}`

const mutationsJSON = `{
  "mutations": [
    {
      "sectionPrefixOld": "shortcuts",
      "sectionPrefixNew": "shortcuts_vA1.0",
      "oldToNewActionIDMap": {"Paint/Tools/OldFill": "Paint/Tools/Fill"}
    }
  ]
}`

type fakeAction struct {
	text     string
	ks       key.Sequence
	enabled  bool
	window   WindowID
	destroys []func()
}

func newAction(text, keys string) *fakeAction {
	return &fakeAction{text: text, ks: key.MustParseSequence(keys), enabled: true}
}

func (a *fakeAction) KeySequence() key.Sequence      { return a.ks }
func (a *fakeAction) SetKeySequence(ks key.Sequence) { a.ks = ks }
func (a *fakeAction) Enabled() bool                  { return a.enabled }
func (a *fakeAction) SetEnabled(on bool)             { a.enabled = on }
func (a *fakeAction) Text() string                   { return a.text }
func (a *fakeAction) ToolTip() string                { return a.text + " tip" }
func (a *fakeAction) IconPath() string               { return "" }
func (a *fakeAction) Window() WindowID               { return a.window }
func (a *fakeAction) OnDestroy(fn func())            { a.destroys = append(a.destroys, fn) }

func (a *fakeAction) destroy() {
	for _, fn := range a.destroys {
		fn()
	}
}

func ks(s string) key.Sequence {
	return key.MustParseSequence(s)
}

type fixture struct {
	mem   *loader.MemFS
	prefs *config.Prefs
	m     *Manager
	log   *test.Hook
}

func newFixture(t *testing.T, user string, opts ...Option) *fixture {
	t.Helper()
	mem := loader.NewMemFS()
	mem.AddFile(defaultsFile, defaultPrefs)
	mem.AddFile("/res/assets.json", assetsJSON)
	mem.AddFile("/res/mutations.json", mutationsJSON)
	if user != "" {
		mem.AddFile(userFile, user)
	}

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	prefs := config.New(
		config.WithFS(mem),
		config.WithDefaultFiles(defaultsFile),
		config.WithUserFile(userFile),
		config.WithEnvPrefix("SHORTCUTS_MANAGER_TEST_"),
		config.WithLogger(log),
	)
	require.Empty(t, prefs.Load())

	opts = append([]Option{WithFS(mem), WithLogger(log)}, opts...)
	return &fixture{mem: mem, prefs: prefs, m: New(prefs, opts...), log: hook}
}

func (f *fixture) userValue(t *testing.T, section, id string) (string, bool) {
	t.Helper()
	data, err := f.mem.ReadFile(userFile)
	if err != nil {
		return "", false
	}
	sections, _, err := loader.NewTOMLLoaderWithFS(f.mem, "").LoadSections(userFile, 1)
	require.NoError(t, err, string(data))
	v, ok := sections[section][id]
	return v, ok
}

func TestLoad(t *testing.T) {
	f := newFixture(t, "")
	report := f.m.Load()

	assert.False(t, report.HasProblems(), report.String())
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))
	assert.Equal(t, ks("B"), f.m.KeySequenceByID("Paint/Tools/Brush"))
	assert.Equal(t, ks("Ctrl+Z"), f.m.KeySequence("Paint", "#Undo"))
	assert.Equal(t, []string{"", "Paint"}, f.m.ModuleIDs())
	assert.Equal(t, "en", f.m.Language())
}

func TestReloadDisablesRemovedShortcuts(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()
	paste := newAction("Paste", "")
	f.m.RegisterAction("/Edit/Paste", paste)
	require.Equal(t, ks("Ctrl+V"), paste.KeySequence())

	f.mem.AddFile(defaultsFile, strings.Replace(defaultPrefs, `"Edit/Paste" = "Ctrl+V"`, "", 1))
	require.Empty(t, f.prefs.Load())
	f.m.Load()

	assert.True(t, f.m.Shortcuts().HasShortcut("", "Edit/Paste"))
	assert.True(t, f.m.KeySequence("", "Edit/Paste").IsEmpty())
	assert.True(t, paste.KeySequence().IsEmpty())
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))
}

func TestRegisterActionTakesStoredKeySequence(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	copyAction := newAction("Copy", "Ctrl+X")
	f.m.RegisterAction("/Edit/Copy", copyAction)

	assert.Equal(t, ks("Ctrl+C"), copyAction.KeySequence())
	assert.True(t, f.m.HasAction(copyAction))
	assert.Equal(t, "/Edit/Copy", f.m.ActionID(copyAction))
	assert.Equal(t, []Action{copyAction}, f.m.Actions("", "Edit/Copy"))
}

func TestRegisterNewActionKeepsItsKeySequence(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	fill := newAction("Fill", "F")
	f.m.RegisterAction("Paint/Tools/Fill", fill)

	assert.Equal(t, ks("F"), fill.KeySequence())
	assert.Equal(t, ks("F"), f.m.KeySequence("Paint", "Tools/Fill"))
	v, ok := f.userValue(t, paint, "Tools/Fill")
	require.True(t, ok)
	assert.Equal(t, ks("F").String(), v)
}

func TestRegisterActionClashUnbindsIt(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	paintCopy := newAction("Copy", "Ctrl+C")
	f.m.RegisterAction("Paint/Copy", paintCopy)

	assert.True(t, paintCopy.KeySequence().IsEmpty())
	assert.False(t, f.m.HasShortcut("Paint", "Copy"))
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))
	_, saved := f.userValue(t, paint, "Copy")
	assert.False(t, saved)
}

func TestRegisterActionMovesAndUnregisters(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	a := newAction("Copy", "")
	f.m.RegisterAction("/Edit/Copy", a)
	f.m.RegisterAction("/Edit/Paste", a)
	assert.Empty(t, f.m.Actions("", "Edit/Copy"))
	assert.Equal(t, ks("Ctrl+V"), a.KeySequence())
	assert.Len(t, a.destroys, 1)

	a.destroy()
	assert.False(t, f.m.HasAction(a))
	assert.Empty(t, f.m.Actions("", "Edit/Paste"))
	assert.Equal(t, ks("Ctrl+V"), f.m.KeySequence("", "Edit/Paste"))
}

func TestSetShortcut(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()
	copyAction := newAction("Copy", "")
	brush := newAction("Brush", "")
	f.m.RegisterAction("/Edit/Copy", copyAction)
	f.m.RegisterAction("Paint/Tools/Brush", brush)

	want := container.ConflictSet{{Module: "", ID: "Edit/Copy"}: {}}

	conflicts := f.m.SetShortcut("Paint", "Tools/Brush", ks("Ctrl+C"), false)
	assert.Equal(t, want, conflicts)
	assert.Equal(t, ks("B"), brush.KeySequence())
	assert.Equal(t, ks("Ctrl+C"), copyAction.KeySequence())

	conflicts = f.m.SetShortcut("Paint", "Tools/Brush", ks("Ctrl+C"), true)
	assert.Equal(t, want, conflicts)
	assert.Equal(t, ks("Ctrl+C"), brush.KeySequence())
	assert.True(t, copyAction.KeySequence().IsEmpty())
	assert.True(t, f.m.HasShortcut("", "Edit/Copy"))

	v, ok := f.userValue(t, root, "Edit/Copy")
	require.True(t, ok)
	assert.Empty(t, v)
	v, _ = f.userValue(t, paint, "Tools/Brush")
	assert.Equal(t, ks("Ctrl+C").String(), v)
}

func TestSetShortcutInvalidID(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	assert.Empty(t, f.m.SetShortcutByID("no-separator", ks("Ctrl+C"), true))
	assert.Empty(t, f.m.SetShortcut("Bad/Module", "Copy", ks("Ctrl+C"), true))
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))
}

func TestPersistenceStoresDeltaAgainstDefaults(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+Shift+V"), false)
	v, ok := f.userValue(t, root, "Edit/Paste")
	require.True(t, ok)
	assert.Equal(t, ks("Ctrl+Shift+V").String(), v)

	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+V"), false)
	_, ok = f.userValue(t, root, "Edit/Paste")
	assert.False(t, ok)
}

func TestMetaActions(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	paintUndo := newAction("Undo", "")
	meshUndo := newAction("Undo", "")
	f.m.RegisterAction("Paint/#Undo", paintUndo)
	f.m.RegisterAction("Mesh/#Undo", meshUndo)

	assert.Equal(t, ks("Ctrl+Z"), paintUndo.KeySequence())
	assert.Equal(t, ks("Ctrl+Z"), meshUndo.KeySequence())
	assert.ElementsMatch(t, []Action{paintUndo, meshUndo}, f.m.Actions("", "#Undo"))

	f.m.SetShortcutByID("Mesh/#Undo", ks("Ctrl+Y"), false)
	assert.Equal(t, ks("Ctrl+Y"), paintUndo.KeySequence())
	assert.Equal(t, ks("Ctrl+Y"), meshUndo.KeySequence())
	v, _ := f.userValue(t, root, "#Undo")
	assert.Equal(t, ks("Ctrl+Y").String(), v)
}

func TestAnonymousActionsYield(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	quick := newAction("Quick paste", "Ctrl+V")
	f.m.RegisterAction("", quick)
	assert.True(t, f.m.IsAnonymous(quick))
	assert.False(t, f.m.HasAction(quick))
	assert.True(t, quick.KeySequence().IsEmpty())

	f.m.SetShortcut("", "Edit/Paste", key.Sequence{}, false)
	assert.Equal(t, ks("Ctrl+V"), quick.KeySequence())

	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+V"), false)
	assert.True(t, quick.KeySequence().IsEmpty())
}

func TestAnonymousActionRegisteredAgainKeepsItsKeys(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	quick := newAction("Quick paste", "Ctrl+V")
	f.m.RegisterAction("", quick)
	require.True(t, quick.KeySequence().IsEmpty())

	f.m.RegisterAction("", quick)
	assert.True(t, f.m.IsAnonymous(quick))
	got, ok := f.m.AnonymousKeySequence(quick)
	assert.True(t, ok)
	assert.Equal(t, ks("Ctrl+V"), got)

	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+Shift+V"), false)
	assert.Equal(t, ks("Ctrl+V"), quick.KeySequence())
}

func TestAnonymousActionsFollowActiveModules(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	bold := newAction("Bold", "B")
	f.m.RegisterAction("not a valid ID", bold)
	assert.Equal(t, ks("B"), bold.KeySequence())

	f.m.SetActionsOfModuleEnabled("Paint", true)
	assert.Equal(t, []string{"", "Paint"}, f.m.ActiveModules())
	assert.True(t, bold.KeySequence().IsEmpty())

	f.m.SetActionsOfModuleEnabled("Paint", false)
	assert.Equal(t, ks("B"), bold.KeySequence())
	got, ok := f.m.AnonymousKeySequence(bold)
	assert.True(t, ok)
	assert.Equal(t, ks("B"), got)
}

func TestSetActionsOfModuleEnabledRespectsWindow(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	brush := newAction("Brush", "")
	brush.window = 1
	other := newAction("Brush", "")
	other.window = 2
	f.m.RegisterAction("Paint/Tools/Brush", brush)
	f.m.RegisterAction("Paint/Tools/Brush", other)

	f.m.SetActiveWindow(1)
	f.m.SetActionsOfModuleEnabled("Paint", false)
	assert.False(t, brush.Enabled())
	assert.True(t, other.Enabled())
	assert.True(t, f.m.IsActionEnabled("Paint", "Tools/Brush"))

	f.m.SetActionsOfModuleEnabled("", false)
	assert.Contains(t, f.m.ActiveModules(), "")
}

func TestSetActionsWithPrefixInIDEnabled(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	copyAction := newAction("Copy", "")
	paste := newAction("Paste", "")
	brush := newAction("Brush", "")
	f.m.RegisterAction("/Edit/Copy", copyAction)
	f.m.RegisterAction("/Edit/Paste", paste)
	f.m.RegisterAction("Paint/Tools/Brush", brush)

	f.m.SetActionsWithPrefixInIDEnabled("Edit/", false)
	assert.False(t, copyAction.Enabled())
	assert.False(t, paste.Enabled())
	assert.True(t, brush.Enabled())
}

func TestLoadReport(t *testing.T) {
	user := `
["shortcuts_vA1.0:Bad/Module"]
"Copy" = "Ctrl+Q"

["shortcuts_vA1.0:Paint"]
"#Redo" = "Ctrl+Y"
"Tools/#Meta" = "M"
"Tools/Eraser" = "Hyper+E"
"Tools/Smudge" = "Ctrl+C"
`
	var reported *LoadReport
	f := newFixture(t, user, WithReporter(ReporterFunc(func(r *LoadReport) { reported = r })))
	report := f.m.Load()

	require.Same(t, report, reported)
	assert.Equal(t, []string{"Bad/Module"}, report.InvalidModuleIDs)
	require.Len(t, report.InvalidShortcuts, 3)
	assert.Equal(t, "#Redo", report.InvalidShortcuts[0].InModuleID)
	assert.Equal(t, "Tools/#Meta", report.InvalidShortcuts[1].InModuleID)
	assert.Equal(t, "Tools/Eraser", report.InvalidShortcuts[2].InModuleID)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "Tools/Smudge", report.Conflicts[0].InModuleID)
	assert.Equal(t, []container.Ref{{Module: "", ID: "Edit/Copy"}}, report.Conflicts[0].With)
	assert.Contains(t, report.String(), "already bound to /Edit/Copy")

	assert.False(t, f.m.HasShortcut("Paint", "Tools/Smudge"))
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))
}

func TestLoadMigratesLegacySections(t *testing.T) {
	user := `
["shortcuts:"]
"Edit/Copy" = "Ctrl+Shift+C"

["shortcuts:Paint"]
"Tools/OldFill" = "F"
`
	f := newFixture(t, user)
	report := f.m.Load()

	require.NotNil(t, report.Migration)
	require.Len(t, report.Migration.Migrated, 1)
	assert.Equal(t, "Paint/Tools/OldFill", report.Migration.Migrated[0].From)
	assert.Equal(t, 1, report.Migration.Skipped)

	assert.Equal(t, ks("F"), f.m.KeySequence("Paint", "Tools/Fill"))
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))

	v, ok := f.userValue(t, paint, "Tools/Fill")
	require.True(t, ok)
	assert.Equal(t, ks("F").String(), v)
	assert.Empty(t, f.prefs.Section(historian.SectionName(historian.LegacyPrefix, "Paint"), false))
	assert.Empty(t, f.prefs.Section(historian.SectionName(historian.LegacyPrefix, ""), false))

	again := f.m.Load()
	assert.True(t, again.Migration.IsEmpty())
}

func TestRestoreDefaults(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()
	fill := newAction("Fill", "F")
	paste := newAction("Paste", "")
	f.m.RegisterAction("Paint/Tools/Fill", fill)
	f.m.RegisterAction("/Edit/Paste", paste)
	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+Shift+V"), false)

	changes := f.m.RestoreDefaults()

	assert.Equal(t, 2, changes.Len())
	assert.Equal(t, ks("Ctrl+V"), paste.KeySequence())
	assert.True(t, fill.KeySequence().IsEmpty())
	assert.True(t, f.m.HasShortcut("Paint", "Tools/Fill"))

	_, ok := f.userValue(t, root, "Edit/Paste")
	assert.False(t, ok)
	v, ok := f.userValue(t, paint, "Tools/Fill")
	require.True(t, ok)
	assert.Empty(t, v)
}

func TestSession(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()
	copyAction := newAction("Copy", "")
	f.m.RegisterAction("/Edit/Copy", copyAction)

	s := f.m.NewSession()
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)

	assert.Len(t, s.Conflicts("", "Edit/Copy", ks("Ctrl+V")), 1)
	assert.Empty(t, s.SetShortcut("", "Edit/Copy", ks("Ctrl+K"), false))
	assert.Equal(t, ks("Ctrl+K"), s.KeySequence("", "Edit/Copy"))
	assert.Equal(t, ks("Ctrl+C"), f.m.KeySequence("", "Edit/Copy"))

	changes := s.Commit()
	assert.Equal(t, 1, changes.Len())
	assert.Equal(t, ks("Ctrl+K"), f.m.KeySequence("", "Edit/Copy"))
	assert.Equal(t, ks("Ctrl+K"), copyAction.KeySequence())
}

func TestSessionCommitKeepsOutsideChanges(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	s := f.m.NewSession()
	require.Empty(t, s.SetShortcut("", "Edit/Copy", ks("Ctrl+K"), false))

	f.m.SetShortcut("", "Edit/Paste", ks("Ctrl+Shift+V"), false)
	f.m.SetShortcut("Paint", "Tools/Brush", ks("Ctrl+B"), false)

	changes := s.Commit()
	assert.Equal(t, 1, changes.Len())
	assert.Equal(t, ks("Ctrl+K"), f.m.KeySequence("", "Edit/Copy"))
	assert.Equal(t, ks("Ctrl+Shift+V"), f.m.KeySequence("", "Edit/Paste"))
	assert.Equal(t, ks("Ctrl+B"), f.m.KeySequence("Paint", "Tools/Brush"))

	assert.Zero(t, s.Commit().Len())
}

func TestNames(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	assert.Equal(t, "Copier", f.m.ActionName("", "Edit/Copy", "fr"))
	assert.Equal(t, "Copy", f.m.ActionName("", "Edit/Copy", ""))
	assert.Equal(t, "Painting", f.m.ModuleName("Paint", ""))
	assert.Equal(t, RootModuleName, f.m.ModuleName("", ""))
	assert.Equal(t, "Mesh", f.m.ModuleName("Mesh", ""))
	assert.Equal(t, "Mesh/Unknown", f.m.ActionName("Mesh", "Unknown", ""))
}

func TestAssetsFromLiveAction(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	fill := newAction("Flood fill", "")
	f.m.RegisterAction("Paint/Tools/Fill", fill)

	it, ok := f.m.ActionAssets("Paint", "Tools/Fill")
	require.True(t, ok)
	assert.Equal(t, "Flood fill", it.BestName("en"))
	assert.Equal(t, "Flood fill tip", it.BestToolTip("en"))
	assert.Equal(t, "Flood fill", f.m.ActionName("Paint", "Tools/Fill", "fr"))

	warnings := 0
	for _, e := range f.log.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["action"] == "Paint/Tools/Fill" {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)

	f.m.Load()
	it, ok = f.m.ActionAssets("Paint", "Tools/Fill")
	require.True(t, ok)
	assert.Equal(t, "Flood fill", it.BestName("en"))

	var buf bytes.Buffer
	require.NoError(t, f.m.DumpAssets(&buf))
	assert.Contains(t, buf.String(), "Flood fill")
}

func TestSuggestActionIDs(t *testing.T) {
	f := newFixture(t, "")
	f.m.Load()

	got := f.m.SuggestActionIDs("/Edit/Copi", 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "/Edit/Copy", got[0])
	assert.Nil(t, f.m.SuggestActionIDs("", 3))
}
