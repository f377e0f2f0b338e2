package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCosts(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		query string
		input string
		want  float64
	}{
		{"exact", nil, "copy", "Copy", 0},
		{"prefix of longer input", nil, "copy", "Copy selection", 10},
		{"permuted fuzzy covers all", nil, "sel copy", "Copy selection", 0},
		{"permuted literal", []Option{WithFuzzyWords(false)}, "sel copy", "Copy selection", 6},
		{"fuzzy abbreviation", nil, "cpy", "Copy", 0},
		{"no match", nil, "paste", "Copy selection", math.Inf(1)},
		{"case sensitive miss", []Option{WithCaseSensitive(true), WithFuzzyWords(false)}, "copy", "Copy", math.Inf(1)},
		{"case sensitive hit", []Option{WithCaseSensitive(true)}, "Copy", "Copy", 0},
		{"query longer than input", []Option{WithFuzzyWords(false)}, "copy", "Cop", math.Inf(1)},
		{"any word fallback", []Option{WithFuzzyWords(false)}, "paste copy", "Edit Copy", 6},
		{"regex characters are literal", []Option{WithFuzzyWords(false)}, "a.b", "axb", math.Inf(1)},
		{"unicode letters", nil, "éditer", "Éditer tout", 5},
		{"folding that changes length", nil, "strasse", "Straße Nord", 5},
		{"empty query", nil, "", "Copy", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.opts...)
			m.SetQuery(tt.query)
			assert.Equal(t, tt.want, m.Match(tt.input))
		})
	}
}

func TestExactWordOrder(t *testing.T) {
	m := New(WithFuzzyWords(false))
	m.SetQuery("selection copy")
	free := m.Match("Copy selection")

	m.SetExactWordOrder(true)
	exact := m.Match("Copy selection")

	assert.Equal(t, 0.0, free)
	assert.Greater(t, exact, free)
	assert.False(t, math.IsInf(exact, 1), "words still match anywhere")
}

func TestSetQuerySimplifies(t *testing.T) {
	m := New()
	require.True(t, m.SetQuery("  copy   all "))
	assert.Equal(t, "copy all", m.Query())
	assert.Equal(t, []string{"copy", "all"}, m.Words())
	assert.False(t, m.SetQuery("copy all"))
	assert.True(t, m.SetQuery("copy"))
}

func TestToggleCaseSensitivity(t *testing.T) {
	m := New(WithFuzzyWords(false))
	m.SetQuery("COPY")
	assert.Equal(t, 0.0, m.Match("copy"))

	m.SetCaseSensitive(true)
	assert.True(t, m.IsCaseSensitive())
	assert.True(t, math.IsInf(m.Match("copy"), 1))

	m.SetCaseSensitive(false)
	assert.Equal(t, 0.0, m.Match("copy"))
}

func TestPermutations(t *testing.T) {
	perms := Permutations([]string{"sel", "copy"}, DefaultMaxPermutations)
	assert.Equal(t, [][]string{{"sel", "copy"}, {"copy", "sel"}}, perms)

	perms = Permutations([]string{"c", "a", "e", "b", "d"}, DefaultMaxPermutations)
	assert.Len(t, perms, 120)
	assert.Equal(t, []string{"c", "a", "e", "b", "d"}, perms[0])

	perms = Permutations([]string{"a", "b", "c", "d", "e", "f"}, DefaultMaxPermutations)
	assert.Len(t, perms, 120)

	perms = Permutations([]string{"a", "a", "b"}, DefaultMaxPermutations)
	assert.Len(t, perms, 3)

	assert.Len(t, Permutations([]string{"a", "b", "c"}, 2), 2)
	assert.Len(t, Permutations(nil, 10), 1)
}

func TestNextPrevPermutation(t *testing.T) {
	p := []string{"a", "b", "c"}
	require.True(t, nextPermutation(p))
	assert.Equal(t, []string{"a", "c", "b"}, p)
	require.True(t, prevPermutation(p))
	assert.Equal(t, []string{"a", "b", "c"}, p)
	assert.False(t, prevPermutation(p))

	last := []string{"c", "b", "a"}
	assert.False(t, nextPermutation(last))
	assert.Equal(t, []string{"c", "b", "a"}, last)
}
