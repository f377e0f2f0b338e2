// Package key provides key chords and key sequences for shortcut bindings.
//
// This package defines the value types the shortcut registry stores:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Chord: A single key press with modifiers
//   - Sequence: Up to MaxChords chords forming one shortcut
//
// # Key Specifications
//
// Chords can be written in multiple formats:
//
//   - Simple keys: "A", "1", "F5", "Del", "PgUp"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P", "Ctrl++"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// # Key Sequences
//
// A Sequence is written as comma-separated chords ("Ctrl+K, Ctrl+C"), as
// continuous Vim-style chords ("<C-k><C-c>") or as space-separated chords
// ("C-k C-c"). Sequence is a comparable value: it can be used as a map key
// and its zero value is the empty sequence, which marks a disabled shortcut.
//
// String forms are canonical: modifiers are ordered Ctrl, Alt, Shift, Meta
// and letter keys are upper case, so two sequences are equal exactly when
// their String forms are equal.
package key
