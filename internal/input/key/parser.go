package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
	ErrTooManyChords    = errors.New("too many chords in key sequence")
)

// ParseChord parses a chord specification.
//
// Supported formats:
//   - Single character or key name: "a", "1", "@", "Enter", "F5", "PgUp"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P", "Ctrl++"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if spec != "+" && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// MustParseChord parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// parseVimStyle parses Vim-style notation like "C-s", "A-F4", "CR", "Esc".
func parseVimStyle(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}

	// "C--" binds the minus key.
	var keyPart string
	var modParts []string
	if strings.HasSuffix(inner, "--") {
		keyPart = "-"
		modParts = strings.Split(inner[:len(inner)-2], "-")
	} else {
		parts := strings.Split(inner, "-")
		keyPart = parts[len(parts)-1]
		modParts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range modParts {
		mod, ok := vimModifierMap[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	switch strings.ToLower(keyPart) {
	case "lt":
		return NewRuneChord('<', mods), nil
	case "gt":
		return NewRuneChord('>', mods), nil
	case "bar":
		return NewRuneChord('|', mods), nil
	case "bslash":
		return NewRuneChord('\\', mods), nil
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Chord, error) {
	var keyPart, modPart string
	if strings.HasSuffix(spec, "++") {
		keyPart = "+"
		modPart = spec[:len(spec)-2]
	} else {
		idx := strings.LastIndex(spec, "+")
		keyPart = spec[idx+1:]
		modPart = spec[:idx]
	}

	var mods Modifier
	for _, p := range strings.Split(modPart, "+") {
		mod, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Chord, error) {
	if keyPart != " " {
		keyPart = strings.TrimSpace(keyPart)
	}
	if keyPart == "" {
		return Chord{}, ErrInvalidSpec
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		return NewRuneChord(runes[0], mods), nil
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialChord(k, mods), nil
	}

	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// NormalizeSpec parses and re-formats a key sequence to its canonical form.
func NormalizeSpec(spec string) (string, error) {
	seq, err := ParseSequence(spec)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}
