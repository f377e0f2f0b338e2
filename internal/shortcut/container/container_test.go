package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/shortcuts/internal/input/key"
)

func ks(s string) key.Sequence {
	return key.MustParseSequence(s)
}

func TestSetShortcutIdempotent(t *testing.T) {
	c := New()
	require.Empty(t, c.SetShortcut("Paint", "Tools/Brush", ks("B"), false))
	require.Empty(t, c.SetShortcut("Paint", "Tools/Brush", ks("B"), false))

	assert.Equal(t, ks("B"), c.KeySequence("Paint", "Tools/Brush"))
	assert.Equal(t, map[key.Sequence]string{ks("B"): "Tools/Brush"}, c.ModuleShortcuts("Paint"))
}

func TestSetShortcutReplacesPrevious(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+Insert"), false)

	assert.Equal(t, ks("Ctrl+Insert"), c.KeySequence("", "Edit/Copy"))
	_, held := c.ModuleShortcuts("")[ks("Ctrl+C")]
	assert.False(t, held, "old key sequence should be released")
	assert.Empty(t, c.Conflicts("", "Edit/Paste", ks("Ctrl+C")))
}

func TestInterference(t *testing.T) {
	c := New()
	require.Empty(t, c.SetShortcut("Paint", "Tools/Fill", ks("Ctrl+F"), false))
	require.Empty(t, c.SetShortcut("Draw", "Tools/Fill", ks("Ctrl+F"), false),
		"non-root modules never interfere")

	conflicts := c.Conflicts("", "Find", ks("Ctrl+F"))
	assert.Equal(t, []Ref{{"Draw", "Tools/Fill"}, {"Paint", "Tools/Fill"}}, conflicts.Sorted())

	c.SetShortcut("", "Save", ks("Ctrl+S"), false)
	conflicts = c.Conflicts("Paint", "Tools/Save", ks("Ctrl+S"))
	assert.True(t, conflicts.Has(Ref{"", "Save"}))
	assert.Len(t, conflicts, 1)
}

func TestSetShortcutConflictWithoutOverride(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)

	conflicts := c.SetShortcut("Paint", "Paint/Copy", ks("Ctrl+C"), false)
	assert.Equal(t, []Ref{{"", "Edit/Copy"}}, conflicts.Sorted())
	assert.False(t, c.HasShortcut("Paint", "Paint/Copy"), "state must not change")
	assert.Equal(t, ks("Ctrl+C"), c.KeySequence("", "Edit/Copy"))
}

func TestSetShortcutOverride(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)

	disabled := c.SetShortcut("Paint", "Paint/Copy", ks("Ctrl+C"), true)
	assert.Equal(t, []Ref{{"", "Edit/Copy"}}, disabled.Sorted())
	assert.True(t, c.KeySequence("", "Edit/Copy").IsEmpty())
	assert.True(t, c.HasShortcut("", "Edit/Copy"))
	assert.Equal(t, ks("Ctrl+C"), c.KeySequence("Paint", "Paint/Copy"))
}

func TestDisableKeepsEntry(t *testing.T) {
	c := New()
	c.SetShortcut("Paint", "Undo", ks("Ctrl+Z"), false)
	assert.Empty(t, c.SetShortcut("Paint", "Undo", key.Sequence{}, false))

	assert.True(t, c.HasShortcut("Paint", "Undo"))
	assert.True(t, c.KeySequence("Paint", "Undo").IsEmpty())
	assert.Empty(t, c.ModuleShortcuts("Paint"))

	assert.Empty(t, c.SetShortcut("Paint", "Redo", key.Sequence{}, false))
	assert.True(t, c.HasShortcut("Paint", "Redo"), "disabling creates a disabled entry")
}

func TestMetaActions(t *testing.T) {
	c := New()
	require.Empty(t, c.SetShortcut("Paint", "#Undo", ks("Ctrl+Z"), false))

	assert.Equal(t, ks("Ctrl+Z"), c.KeySequence("", "#Undo"))
	assert.Equal(t, ks("Ctrl+Z"), c.KeySequence("Draw", "#Undo"))
	assert.True(t, c.HasShortcut("Draw", "#Undo"))
	assert.NotContains(t, c.ModuleIDs(), "Paint")

	// Already bound to root, not to Draw.
	assert.Empty(t, c.SetShortcut("Draw", "#Undo", ks("Ctrl+Z"), false))
	assert.Empty(t, c.ModuleShortcutsInversed("Draw", ""))
}

func TestInvalidIDsAreNoOps(t *testing.T) {
	c := New()
	assert.Empty(t, c.SetShortcut("Pa/int", "Copy", ks("Ctrl+C"), true))
	assert.Empty(t, c.SetShortcut("Paint", "Edit//Copy", ks("Ctrl+C"), true))
	assert.Empty(t, c.Conflicts(" Paint", "Copy", ks("Ctrl+C")))
	assert.False(t, c.HasShortcut("Paint", ""))
	assert.True(t, c.KeySequence("Paint", "#").IsEmpty())
	assert.True(t, c.IsEmpty())
	assert.Equal(t, []string{""}, c.ModuleIDs())
}

func TestModuleShortcutsInversedPrefix(t *testing.T) {
	c := New()
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)
	c.SetShortcut("Paint", "Tools/Eraser", ks("E"), false)
	c.SetShortcut("Paint", "View/Zoom", ks("Z"), false)

	got := c.ModuleShortcutsInversed("Paint", "Tools/")
	assert.Equal(t, map[string]key.Sequence{"Tools/Brush": ks("B"), "Tools/Eraser": ks("E")}, got)
	assert.Len(t, c.ModuleShortcutsInversed("Paint", ""), 3)
	assert.Empty(t, c.ModuleShortcutsInversed("Unknown", ""))
}

func TestMergeOverride(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)

	other := New()
	other.SetShortcut("Paint", "Paint/Copy", ks("Ctrl+C"), false)
	other.SetShortcut("Paint", "Tools/Brush", ks("B"), false)

	changes := c.Merge(other, true, false)
	assert.Equal(t, 2, changes.Len())

	ch, ok := changes.Get("Paint", "Paint/Copy")
	require.True(t, ok)
	assert.True(t, ch.Old.IsEmpty())
	assert.Equal(t, ks("Ctrl+C"), ch.New)

	ch, ok = changes.Get("", "Edit/Copy")
	require.True(t, ok)
	assert.Equal(t, ks("Ctrl+C"), ch.Old)
	assert.True(t, ch.New.IsEmpty())

	_, ok = changes.Get("Paint", "Tools/Brush")
	assert.False(t, ok, "unchanged entries are not reported")
}

func TestMergeOverrideAddsDisabledEntrySilently(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)

	other := New()
	other.SetShortcut("", "Edit/Cut", key.Sequence{}, false)

	changes := c.Merge(other, true, false)
	assert.Zero(t, changes.Len())
	assert.True(t, c.HasShortcut("", "Edit/Cut"))
	assert.True(t, c.KeySequence("", "Edit/Cut").IsEmpty())
}

func TestMergeOverrideTreatAbsentIdempotent(t *testing.T) {
	a := New()
	a.SetShortcut("", "Save", ks("Ctrl+S"), false)
	a.SetShortcut("Paint", "Tools/Brush", ks("B"), false)
	a.SetShortcut("Paint", "Tools/Fill", ks("F"), false)

	b := New()
	b.SetShortcut("", "Save", ks("Ctrl+Shift+S"), false)
	b.SetShortcut("Paint", "Tools/Brush", ks("B"), false)
	b.SetShortcut("Draw", "Line", ks("L"), false)

	first := a.Merge(b, true, true)
	assert.Equal(t, []Ref{{"", "Save"}, {"Draw", "Line"}, {"Paint", "Tools/Fill"}}, first.Refs())

	ch, _ := first.Get("Paint", "Tools/Fill")
	assert.Equal(t, Change{Old: ks("F"), New: key.Sequence{}}, ch)
	assert.True(t, a.HasShortcut("Paint", "Tools/Fill"), "merge disables, never deletes")

	second := a.Merge(b, true, true)
	assert.Zero(t, second.Len())
}

func TestMergeWithoutOverride(t *testing.T) {
	c := New()
	c.SetShortcut("", "Edit/Copy", ks("Ctrl+C"), false)
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)

	other := New()
	other.SetShortcut("Paint", "Tools/Brush", ks("Shift+B"), false)
	other.SetShortcut("Paint", "Paint/Copy", ks("Ctrl+C"), false)
	other.SetShortcut("Paint", "Tools/Fill", ks("F"), false)

	changes := c.Merge(other, false, false)

	assert.Equal(t, ks("B"), c.KeySequence("Paint", "Tools/Brush"), "existing entries are kept")
	_, ok := changes.Get("Paint", "Tools/Brush")
	assert.False(t, ok)

	ch, ok := changes.Get("Paint", "Paint/Copy")
	require.True(t, ok)
	assert.True(t, ch.New.IsEmpty())
	assert.True(t, c.HasShortcut("Paint", "Paint/Copy"), "clashing entry is inserted disabled")
	assert.Equal(t, ks("Ctrl+C"), c.KeySequence("", "Edit/Copy"))

	ch, ok = changes.Get("Paint", "Tools/Fill")
	require.True(t, ok)
	assert.Equal(t, ks("F"), ch.New)
}

func TestMergeSelfAndNil(t *testing.T) {
	c := New()
	c.SetShortcut("", "Save", ks("Ctrl+S"), false)
	assert.Zero(t, c.Merge(c, true, true).Len())
	assert.Zero(t, c.Merge(nil, true, true).Len())
}

func TestClone(t *testing.T) {
	c := New()
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)

	clone := c.Clone()
	clone.SetShortcut("Paint", "Tools/Brush", ks("Shift+B"), false)
	clone.SetShortcut("Draw", "Line", ks("L"), false)

	assert.Equal(t, ks("B"), c.KeySequence("Paint", "Tools/Brush"))
	assert.False(t, c.HasShortcut("Draw", "Line"))
	assert.Equal(t, ks("Shift+B"), clone.KeySequence("Paint", "Tools/Brush"))
}

func TestString(t *testing.T) {
	c := New()
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)
	s := c.String()
	assert.Contains(t, s, `"Paint"`)
	assert.Contains(t, s, `"Tools/Brush"	"B"`)
}

func TestActionAt(t *testing.T) {
	c := New()
	c.SetShortcut("", "#Undo", ks("Ctrl+Z"), false)
	c.SetShortcut("Paint", "Tools/Brush", ks("B"), false)

	id, ok := c.ActionAt("", ks("Ctrl+Z"))
	assert.True(t, ok)
	assert.Equal(t, "#Undo", id)

	_, ok = c.ActionAt("", ks("B"))
	assert.False(t, ok)
	_, ok = c.ActionAt("Paint", key.Sequence{})
	assert.False(t, ok)

	c.SetShortcut("Paint", "Tools/Brush", key.Sequence{}, false)
	_, ok = c.ActionAt("Paint", ks("B"))
	assert.False(t, ok, "disabled shortcuts hold no key sequence")
}
