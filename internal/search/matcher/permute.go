package matcher

import (
	"slices"
	"strings"
)

// Permutations returns distinct orderings of words, starting with words
// itself, at most limit of them. Orders are produced by stepping
// lexicographically forward and backward from the original order in turn.
func Permutations(words []string, limit int) [][]string {
	first := slices.Clone(words)
	out := [][]string{first}
	if limit <= 1 || len(words) < 2 {
		return out
	}

	seen := map[string]struct{}{permKey(first): {}}
	add := func(p []string) bool {
		k := permKey(p)
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
		out = append(out, slices.Clone(p))
		return len(out) < limit
	}

	next := slices.Clone(words)
	prev := slices.Clone(words)
	hasNext, hasPrev := true, true
	for hasNext || hasPrev {
		if hasNext {
			if hasNext = nextPermutation(next); hasNext && !add(next) {
				break
			}
		}
		if hasPrev {
			if hasPrev = prevPermutation(prev); hasPrev && !add(prev) {
				break
			}
		}
	}
	return out
}

func permKey(p []string) string {
	return strings.Join(p, "\x00")
}

// nextPermutation rearranges p into the next lexicographic permutation.
// It returns false, leaving p unchanged, if p is the last one.
func nextPermutation(p []string) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// prevPermutation rearranges p into the previous lexicographic permutation.
// It returns false, leaving p unchanged, if p is the first one.
func prevPermutation(p []string) bool {
	i := len(p) - 2
	for i >= 0 && p[i] <= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] >= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}
