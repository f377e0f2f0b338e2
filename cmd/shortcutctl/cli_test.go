package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/shortcuts/internal/app"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/shortcut/container"
)

const testAssets = `{
  "": {
    "children": {
      "Edit": {
        "isAction": false,
        "langDependentAssets": {"en": {"name": "Edit"}},
        "children": {
          "Copy": {"langDependentAssets": {"en": {"name": "Copy", "tooltip": "Copy the selection"}}},
          "Cut": {"langDependentAssets": {"en": {"name": "Cut"}}},
          "Paste": {"langDependentAssets": {"en": {"name": "Paste"}}}
        }
      }
    }
  }
}`

type env struct {
	dir      string
	defaults string
	user     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:      dir,
		defaults: filepath.Join(dir, "defaults.toml"),
		user:     filepath.Join(dir, "user", "shortcuts.toml"),
	}
	assetsFile := filepath.Join(dir, "assets.json")
	require.NoError(t, os.WriteFile(assetsFile, []byte(testAssets), 0o644))

	defaults := fmt.Sprintf(`
["shortcuts_vA1.0:"]
"Edit/Copy" = "Ctrl+C"
"Edit/Paste" = "Ctrl+V"
"Edit/Cut" = ""

[action_assets]
"10_base" = %q

[language]
language = "en"
`, assetsFile)
	require.NoError(t, os.WriteFile(e.defaults, []byte(defaults), 0o644))
	return e
}

// run executes the root command and returns stdout, stderr and the error.
func (e *env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--defaults", e.defaults,
		"--user", e.user,
		"--env-prefix", "SHORTCUTS_CLI_TEST_",
	}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Copy")
	assert.Contains(t, out, "Ctrl+C")
	assert.NotContains(t, out, "/Edit/Cut")

	out, _, err = e.run(t, "list", "--all", "--prefix", "Edit/C")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Cut")
	assert.NotContains(t, out, "/Edit/Paste")
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "show", "/Edit/Copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Copy the selection")
	assert.Contains(t, out, "Ctrl+C")

	out, _, err = e.run(t, "show", "/Edit/Coppy")
	require.ErrorIs(t, err, app.ErrUnknownAction)
	assert.Contains(t, out, "/Edit/Copy")

	_, _, err = e.run(t, "show", "Edit")
	require.ErrorIs(t, err, errInvalidActionID)
}

func TestSetConflict(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "set", "/Edit/Cut", "Ctrl+C")
	require.ErrorIs(t, err, app.ErrConflict)
	assert.Contains(t, out, "/Edit/Copy")
	assert.NoFileExists(t, e.user)

	out, _, err = e.run(t, "set", "--force", "/Edit/Cut", "Ctrl+C")
	require.NoError(t, err)
	assert.Contains(t, out, "unbound")

	data, err := os.ReadFile(e.user)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Edit/Cut")
	assert.Contains(t, string(data), "Edit/Copy")

	out, _, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Cut")
	assert.NotContains(t, out, "/Edit/Copy")
}

func TestSetDryRun(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "--dry-run", "set", "/Edit/Copy", "Ctrl+K")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.NoFileExists(t, e.user)
}

func TestSetInvalidKeys(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "set", "/Edit/Copy", "Hyper+E")
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "set", "/Edit/Copy", "Ctrl+K")
	require.NoError(t, err)

	out, _, err := e.run(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Copy")
	assert.Contains(t, out, "Ctrl+K -> Ctrl+C")
}

func TestConflicts(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "conflicts", "/Edit/Cut", "Ctrl+V")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Paste")

	out, _, err = e.run(t, "conflicts", "/Edit/Cut", "Ctrl+X")
	require.NoError(t, err)
	assert.Contains(t, out, "is free")

	out, _, err = e.run(t, "conflicts")
	require.NoError(t, err)
	assert.Contains(t, out, "no conflicts")
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "search", "copy")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Copy")
	assert.NotContains(t, out, "/Edit/Paste")

	out, _, err = e.run(t, "search", "--fields", "keys", "ctrl+v")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Paste")

	_, _, err = e.run(t, "search", "--fields", "colour", "copy")
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.user), 0o755))
	require.NoError(t, os.WriteFile(e.user, []byte(`
["shortcuts:"]
"Edit/Find" = "Ctrl+F"
"Edit/Paste" = "Ctrl+Shift+V"
`), 0o644))

	out, _, err := e.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "/Edit/Find")
	assert.Contains(t, out, "Ctrl+F")
	assert.NotContains(t, out, "Ctrl+Shift+V")
	assert.Contains(t, out, "Skipped:")
	assert.Contains(t, out, "shortcuts:")

	data, err := os.ReadFile(e.user)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shortcuts_vA1.0")
	assert.NotContains(t, string(data), "Ctrl+Shift+V")

	out, _, err = e.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")
}

func TestAssetsDump(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "assets", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "Copy the selection")

	file := filepath.Join(e.dir, "dump.json")
	_, _, err = e.run(t, "assets", "dump", "-o", file)
	require.NoError(t, err)
	assert.FileExists(t, file)
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	return screen
}

func TestCaptureKeys(t *testing.T) {
	c := container.New()
	c.SetShortcut("", "Edit/Copy", key.MustParseSequence("Ctrl+C"), false)

	t.Run("enter finishes", func(t *testing.T) {
		screen := newSimScreen(t)
		screen.InjectKey(tcell.KeyCtrlK, 0, tcell.ModCtrl)
		screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
		screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

		ks, ok := captureKeys(screen, c, "")
		require.True(t, ok)
		assert.Equal(t, "Ctrl+K, Ctrl+C", ks.String())
	})

	t.Run("escape cancels", func(t *testing.T) {
		screen := newSimScreen(t)
		screen.InjectKey(tcell.KeyCtrlK, 0, tcell.ModCtrl)
		screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

		_, ok := captureKeys(screen, c, "")
		assert.False(t, ok)
	})

	t.Run("stops at max chords", func(t *testing.T) {
		screen := newSimScreen(t)
		for i := 0; i < key.MaxChords; i++ {
			screen.InjectKey(tcell.KeyCtrlA+tcell.Key(i), 0, tcell.ModCtrl)
		}

		ks, ok := captureKeys(screen, c, "")
		require.True(t, ok)
		assert.Equal(t, key.MaxChords, ks.Len())
	})
}

func TestBoundActions(t *testing.T) {
	c := container.New()
	c.SetShortcut("", "Edit/Copy", key.MustParseSequence("Ctrl+C"), false)
	c.SetShortcut("Paint", "Tools/Brush", key.MustParseSequence("B"), false)

	assert.Equal(t, []string{"/Edit/Copy"}, boundActions(c, "Paint", key.MustParseSequence("Ctrl+C")))
	assert.Equal(t, []string{"Paint/Tools/Brush"}, boundActions(c, "Paint", key.MustParseSequence("B")))
	assert.Empty(t, boundActions(c, "", key.MustParseSequence("B")))
	assert.Empty(t, boundActions(c, "Paint", key.Sequence{}))
}
