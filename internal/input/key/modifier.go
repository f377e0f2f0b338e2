package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// modifierOrder is the canonical order used when formatting.
var modifierOrder = []struct {
	mod   Modifier
	long  string
	short string
}{
	{ModCtrl, "Ctrl", "C"},
	{ModAlt, "Alt", "A"},
	{ModShift, "Shift", "S"},
	{ModMeta, "Meta", "M"},
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool { return m.Has(ModMeta) }

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns the portable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	return m.join(false, "+")
}

// ShortString returns the Vim representation like "C-A".
func (m Modifier) ShortString() string {
	return m.join(true, "-")
}

func (m Modifier) join(short bool, sep string) string {
	if m == ModNone {
		return ""
	}
	parts := make([]string, 0, len(modifierOrder))
	for _, o := range modifierOrder {
		if !m.Has(o.mod) {
			continue
		}
		if short {
			parts = append(parts, o.short)
		} else {
			parts = append(parts, o.long)
		}
	}
	return strings.Join(parts, sep)
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
}

// vimModifierMap maps single-letter Vim modifier names.
var vimModifierMap = map[string]Modifier{
	"c": ModCtrl,
	"a": ModAlt,
	"s": ModShift,
	"m": ModMeta,
	"d": ModMeta,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := modifierNameMap[name]; ok {
		return m
	}
	return vimModifierMap[name]
}

// ParseModifiers parses a modifier string like "Ctrl+Alt" or "C-A".
// Unknown names are ignored.
func ParseModifiers(s string) Modifier {
	sep := "+"
	if !strings.Contains(s, "+") && strings.Contains(s, "-") {
		sep = "-"
	}

	var result Modifier
	for _, part := range strings.Split(s, sep) {
		result = result.With(ModifierFromName(part))
	}
	return result
}
