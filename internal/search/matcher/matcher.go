// Package matcher scores how well a free-text input matches a query
// sentence.
//
// A query is split into words. The matcher tries the words in the query
// order and, unless exact order is requested, in every other order up to a
// cap. Fuzzy mode adds a variant of each word where every letter may be
// followed by more word characters, so "cpy" finds "Copy".
//
// Match returns a cost: 0 for an exact or near-exact match, larger values
// for weaker matches and +Inf when nothing matches.
package matcher

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultMaxPermutations caps the word orders tried for a query (5!).
const DefaultMaxPermutations = 120

const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`

	// wordGap lets a word end early and skips to the next word.
	wordGap = wordChar + `*` + nonWordChar + `+`
)

// pattern is a compiled word set: anchored sentences plus the words of
// the query-order sentence used by the any-word fallback.
type pattern struct {
	sentences []*regexp.Regexp
	words     []*regexp.Regexp
}

// SentenceMatcher matches inputs against a query sentence.
// It is not safe for concurrent use.
type SentenceMatcher struct {
	exactOrder      bool
	fuzzy           bool
	caseSensitive   bool
	maxPermutations int

	query    string
	queryLen int
	words    []string

	literal    pattern
	fuzzyWords pattern

	folder cases.Caser
}

// Option configures a SentenceMatcher.
type Option func(*SentenceMatcher)

// WithExactWordOrder disables word-order permutations.
func WithExactWordOrder(on bool) Option {
	return func(m *SentenceMatcher) {
		m.exactOrder = on
	}
}

// WithFuzzyWords enables or disables fuzzy word variants.
func WithFuzzyWords(on bool) Option {
	return func(m *SentenceMatcher) {
		m.fuzzy = on
	}
}

// WithCaseSensitive enables case-sensitive matching.
func WithCaseSensitive(on bool) Option {
	return func(m *SentenceMatcher) {
		m.caseSensitive = on
	}
}

// WithMaxPermutations sets the maximum number of word orders tried.
func WithMaxPermutations(n int) Option {
	return func(m *SentenceMatcher) {
		if n > 0 {
			m.maxPermutations = n
		}
	}
}

// New creates a matcher with an empty query. By default word order is
// free, fuzzy words are on and matching ignores case.
func New(opts ...Option) *SentenceMatcher {
	m := &SentenceMatcher{
		fuzzy:           true,
		maxPermutations: DefaultMaxPermutations,
		folder:          cases.Fold(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Query returns the simplified query.
func (m *SentenceMatcher) Query() string { return m.query }

// Words returns the query words.
func (m *SentenceMatcher) Words() []string {
	return append([]string(nil), m.words...)
}

// IsCaseSensitive reports whether matching is case-sensitive.
func (m *SentenceMatcher) IsCaseSensitive() bool { return m.caseSensitive }

// UsesExactWordOrder reports whether permutations are disabled.
func (m *SentenceMatcher) UsesExactWordOrder() bool { return m.exactOrder }

// UsesFuzzyWords reports whether fuzzy variants are used.
func (m *SentenceMatcher) UsesFuzzyWords() bool { return m.fuzzy }

// SetQuery sets the query. Whitespace runs are collapsed. It reports
// whether the query changed.
func (m *SentenceMatcher) SetQuery(query string) bool {
	words := strings.Fields(query)
	simplified := strings.Join(words, " ")
	if simplified == m.query && m.words != nil {
		return false
	}
	m.query = simplified
	m.queryLen = utf8.RuneCountInString(simplified)
	m.words = words
	m.compile()
	return true
}

// SetExactWordOrder toggles permutations.
func (m *SentenceMatcher) SetExactWordOrder(on bool) {
	if m.exactOrder == on {
		return
	}
	m.exactOrder = on
	m.compile()
}

// SetFuzzyWords toggles fuzzy variants.
func (m *SentenceMatcher) SetFuzzyWords(on bool) {
	if m.fuzzy == on {
		return
	}
	m.fuzzy = on
	m.compile()
}

// SetCaseSensitive toggles case sensitivity.
func (m *SentenceMatcher) SetCaseSensitive(on bool) {
	if m.caseSensitive == on {
		return
	}
	m.caseSensitive = on
	m.compile()
}

// Match returns the cost of matching input against the query. Lower is
// better; +Inf means no match. An empty query matches nothing.
//
// Lengths are counted in runes of input and of the query as given, even
// when case folding changes the rune count.
func (m *SentenceMatcher) Match(input string) float64 {
	if len(m.words) == 0 {
		return math.Inf(1)
	}
	in := m.foldInput(input)
	inLen := utf8.RuneCountInString(input)

	n := m.literal.match(in, inLen)
	if n != inLen && m.fuzzy {
		if nf := m.fuzzyWords.match(in, inLen); nf > n {
			n = nf
		}
	}
	if n <= 0 {
		return math.Inf(1)
	}

	l := max(inLen, m.queryLen)
	if n > l {
		return 0
	}
	return float64(l - n)
}

// String describes the matcher state.
func (m *SentenceMatcher) String() string {
	var b strings.Builder
	b.WriteString("query: " + m.query)
	b.WriteString("; words: " + strings.Join(m.words, ", "))
	if m.exactOrder {
		b.WriteString("; exact order")
	}
	if m.fuzzy {
		b.WriteString("; fuzzy")
	}
	if m.caseSensitive {
		b.WriteString("; case sensitive")
	}
	return b.String()
}

func (m *SentenceMatcher) fold(s string) string {
	if m.caseSensitive {
		return s
	}
	return m.folder.String(s)
}

// folded is an input after case folding. runeAt maps each byte of text to
// the index of the input rune it came from.
type folded struct {
	text   string
	runeAt []int
}

func (m *SentenceMatcher) foldInput(s string) folded {
	var b strings.Builder
	runeAt := make([]int, 0, len(s))
	i := 0
	for _, r := range s {
		f := string(r)
		if !m.caseSensitive {
			f = m.folder.String(f)
		}
		b.WriteString(f)
		for j := 0; j < len(f); j++ {
			runeAt = append(runeAt, i)
		}
		i++
	}
	return folded{text: b.String(), runeAt: runeAt}
}

func (m *SentenceMatcher) compile() {
	m.literal = pattern{}
	m.fuzzyWords = pattern{}
	if len(m.words) == 0 {
		return
	}

	literal := make([]string, len(m.words))
	for i, w := range m.words {
		literal[i] = regexp.QuoteMeta(m.fold(w))
	}
	m.literal = m.build(literal)

	if m.fuzzy {
		fuzzy := make([]string, len(m.words))
		for i, w := range m.words {
			fuzzy[i] = fuzzyWord(m.fold(w))
		}
		m.fuzzyWords = m.build(fuzzy)
	}
}

func (m *SentenceMatcher) build(words []string) pattern {
	sentences := [][]string{words}
	if !m.exactOrder {
		sentences = Permutations(words, m.maxPermutations)
	}
	p := pattern{
		sentences: make([]*regexp.Regexp, 0, len(sentences)),
		words:     make([]*regexp.Regexp, 0, len(words)),
	}
	for _, s := range sentences {
		p.sentences = append(p.sentences, regexp.MustCompile("^"+strings.Join(s, wordGap)))
	}
	for _, w := range words {
		p.words = append(p.words, regexp.MustCompile(w))
	}
	return p
}

// match returns the number of input runes covered by the best match.
func (p pattern) match(in folded, inLen int) int {
	best := 0
	for _, re := range p.sentences {
		if n := matchLen(re, in); n > best {
			best = n
			if best == inLen {
				return best
			}
		}
	}

	// The same input text may be counted for several words.
	sum := 0
	for _, re := range p.words {
		sum += matchLen(re, in)
	}
	return max(best, sum)
}

func matchLen(re *regexp.Regexp, in folded) int {
	loc := re.FindStringIndex(in.text)
	if loc == nil || loc[0] == loc[1] {
		return 0
	}
	return in.runeAt[loc[1]-1] - in.runeAt[loc[0]] + 1
}

func fuzzyWord(word string) string {
	var b strings.Builder
	for _, r := range word {
		b.WriteString(regexp.QuoteMeta(string(r)))
		b.WriteString(wordChar + "*")
	}
	return b.String()
}
