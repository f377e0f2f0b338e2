package manager

import (
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/assets"
)

// minSuggestionSimilarity is the similarity below which an ID is not
// suggested.
const minSuggestionSimilarity = 0.6

// SuggestActionIDs returns up to limit known action IDs resembling query,
// most similar first. It backs "did you mean" hints for mistyped IDs.
func (m *Manager) SuggestActionIDs(query string, limit int) []string {
	if query == "" || limit <= 0 {
		return nil
	}
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	type scored struct {
		id    string
		score float64
	}
	var candidates []scored
	for _, id := range m.knownActionIDs() {
		if s := strutil.Similarity(query, id, jw); s >= minSuggestionSimilarity {
			candidates = append(candidates, scored{id: id, score: s})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// knownActionIDs returns the IDs of actions with a shortcut entry, assets
// or a live action.
func (m *Manager) knownActionIDs() []string {
	set := make(map[string]struct{})
	for _, moduleID := range m.container.ModuleIDs() {
		for id := range m.container.ModuleShortcutsInversed(moduleID, "") {
			set[actionid.Make(moduleID, id)] = struct{}{}
		}
	}
	for _, moduleID := range m.assets.ModuleIDs() {
		m.assets.Module(moduleID).Root().Walk(func(it assets.Item) bool {
			if it.IsAction() {
				set[it.ActionID()] = struct{}{}
			}
			return true
		})
	}
	for _, ref := range m.registered {
		set[actionid.Make(ref.Module, ref.ID)] = struct{}{}
	}
	delete(set, "")
	return sortedKeys(set)
}
