package key

import (
	"fmt"
	"strings"
)

// MaxChords is the maximum number of chords in a Sequence.
const MaxChords = 4

// chordSeparator separates chords in the portable text form.
const chordSeparator = ", "

// Sequence represents up to MaxChords chords forming a shortcut.
// Examples: "Ctrl+S", "Ctrl+K, Ctrl+C".
//
// Sequence is a comparable value. The zero value is the empty sequence,
// which marks a disabled shortcut.
type Sequence struct {
	chords [MaxChords]Chord
	n      uint8
}

// NewSequence creates a sequence from the given chords.
// Empty chords are skipped; chords beyond MaxChords are dropped.
func NewSequence(chords ...Chord) Sequence {
	var s Sequence
	for _, c := range chords {
		if c.IsEmpty() {
			continue
		}
		if int(s.n) == MaxChords {
			break
		}
		s.chords[s.n] = c
		s.n++
	}
	return s
}

// Len returns the number of chords in the sequence.
func (s Sequence) Len() int {
	return int(s.n)
}

// IsEmpty returns true if the sequence has no chords.
func (s Sequence) IsEmpty() bool {
	return s.n == 0
}

// Chords returns a copy of the chords in order.
func (s Sequence) Chords() []Chord {
	out := make([]Chord, s.n)
	copy(out, s.chords[:s.n])
	return out
}

// At returns the chord at index, or the zero chord if out of bounds.
func (s Sequence) At(index int) Chord {
	if index < 0 || index >= int(s.n) {
		return Chord{}
	}
	return s.chords[index]
}

// Append returns a new sequence with c added at the end.
// The second result is false when the sequence is already full.
func (s Sequence) Append(c Chord) (Sequence, bool) {
	if c.IsEmpty() || int(s.n) == MaxChords {
		return s, false
	}
	s.chords[s.n] = c
	s.n++
	return s, true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if prefix.n > s.n {
		return false
	}
	for i := 0; i < int(prefix.n); i++ {
		if s.chords[i] != prefix.chords[i] {
			return false
		}
	}
	return true
}

// String returns the portable representation, e.g. "Ctrl+K, Ctrl+C".
// The empty sequence formats as "".
func (s Sequence) String() string {
	if s.n == 0 {
		return ""
	}
	parts := make([]string, s.n)
	for i := 0; i < int(s.n); i++ {
		parts[i] = s.chords[i].String()
	}
	return strings.Join(parts, chordSeparator)
}

// VimString returns a Vim-style representation, e.g. "<C-k><C-c>".
func (s Sequence) VimString() string {
	var sb strings.Builder
	for i := 0; i < int(s.n); i++ {
		sb.WriteString(s.chords[i].VimString())
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Sequence) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sequence) UnmarshalText(text []byte) error {
	seq, err := ParseSequence(string(text))
	if err != nil {
		return err
	}
	*s = seq
	return nil
}

// ParseSequence parses a key sequence string.
// An empty or blank string yields the empty sequence without error.
//
// Accepted forms:
//   - comma-separated: "Ctrl+K, Ctrl+C"
//   - continuous Vim-style: "<C-k><C-c>", "<Esc>gg"
//   - space-separated: "C-k C-c", "Ctrl+K Ctrl+C"
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sequence{}, nil
	}

	var parts []string
	switch {
	case strings.Contains(s, ","):
		parts = splitPortable(s)
	case strings.Contains(s, " "):
		parts = strings.Fields(s)
		for i, p := range parts {
			if isVimShorthand(p) {
				parts[i] = "<" + p + ">"
			}
		}
	default:
		return parseContinuous(s)
	}

	if len(parts) > MaxChords {
		return Sequence{}, fmt.Errorf("%w: %q", ErrTooManyChords, s)
	}

	var seq Sequence
	for _, part := range parts {
		c, err := ParseChord(part)
		if err != nil {
			return Sequence{}, err
		}
		seq, _ = seq.Append(c)
	}
	return seq, nil
}

// splitPortable splits "Ctrl+K, Ctrl+," style text on commas that
// separate chords. A comma that is itself the key stays with its chord.
func splitPortable(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		// The comma is a key when it ends a chord ("Ctrl+,") or
		// stands alone.
		if i == start || s[i-1] == '+' || strings.TrimSpace(s[start:i]) == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(s[start:i]))
		start = i + 1
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// isVimShorthand reports whether p looks like "C-k" written without brackets.
func isVimShorthand(p string) bool {
	idx := strings.LastIndex(p, "-")
	if idx <= 0 || idx == len(p)-1 {
		return false
	}
	for _, m := range strings.Split(p[:idx], "-") {
		if _, ok := vimModifierMap[strings.ToLower(m)]; !ok {
			return false
		}
	}
	return true
}

// parseContinuous parses a single chord or continuous Vim-style chords.
func parseContinuous(s string) (Sequence, error) {
	if !strings.HasPrefix(s, "<") || !strings.Contains(s[1:], "<") {
		c, err := ParseChord(s)
		if err == nil {
			return NewSequence(c), nil
		}
		if !strings.HasPrefix(s, "<") {
			return Sequence{}, err
		}
	}

	var seq Sequence
	i := 0
	for i < len(s) {
		var c Chord
		if s[i] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end == -1 {
				return Sequence{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, s)
			}
			var err error
			c, err = ParseChord(s[i : i+end+1])
			if err != nil {
				return Sequence{}, err
			}
			i += end + 1
		} else {
			c = NewRuneChord(rune(s[i]), ModNone)
			i++
		}
		var ok bool
		if seq, ok = seq.Append(c); !ok {
			return Sequence{}, fmt.Errorf("%w: %q", ErrTooManyChords, s)
		}
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
