package key

import (
	"unicode"
)

// Chord represents a single key press with its modifiers.
// Chord is comparable; use == to test equality.
type Chord struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune chords. Letters are stored upper case.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneChord creates a chord for a character key.
// Letters are normalized to upper case and a space becomes KeySpace.
func NewRuneChord(r rune, mods Modifier) Chord {
	if r == ' ' {
		return Chord{Key: KeySpace, Modifiers: mods}
	}
	return Chord{Key: KeyRune, Rune: unicode.ToUpper(r), Modifiers: mods}
}

// NewSpecialChord creates a chord for a special key.
func NewSpecialChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Modifiers: mods}
}

// IsEmpty returns true for the zero chord.
func (c Chord) IsEmpty() bool {
	return c.Key == KeyNone
}

// IsRune returns true if this is a character key chord.
func (c Chord) IsRune() bool {
	return c.Key == KeyRune && c.Rune != 0
}

// IsModified returns true if any modifier other than Shift is pressed.
func (c Chord) IsModified() bool {
	return c.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
}

// keyText returns the name of the key part alone.
func (c Chord) keyText() string {
	if c.Key == KeyRune {
		return string(c.Rune)
	}
	return c.Key.String()
}

// String returns the portable representation, e.g. "Ctrl+Shift+S".
func (c Chord) String() string {
	if c.IsEmpty() {
		return ""
	}
	mods := c.Modifiers.String()
	if mods == "" {
		return c.keyText()
	}
	return mods + "+" + c.keyText()
}

// VimString returns a Vim-style representation, e.g. "<C-S-s>" or "a".
func (c Chord) VimString() string {
	if c.IsEmpty() {
		return ""
	}

	var keyStr string
	switch {
	case c.Key == KeyRune:
		keyStr = string(unicode.ToLower(c.Rune))
		if c.Modifiers.IsEmpty() && c.Rune != '<' {
			return keyStr
		}
		if c.Rune == '<' {
			keyStr = "lt"
		}
	case c.Key == KeyReturn:
		keyStr = "CR"
	default:
		keyStr = c.Key.String()
	}

	if c.Modifiers.IsEmpty() {
		return "<" + keyStr + ">"
	}
	return "<" + c.Modifiers.ShortString() + "-" + keyStr + ">"
}
