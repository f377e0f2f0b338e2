package assets

import "sort"

// DefaultLanguage is the language tried after the requested one.
const DefaultLanguage = "en"

// LangPriority is the fallback order after the requested language.
var LangPriority = []string{DefaultLanguage, "fr"}

// LangAssets are the language-dependent assets of a node.
type LangAssets struct {
	Name    string `json:"name" yaml:"name"`
	ToolTip string `json:"tooltip" yaml:"tooltip"`
}

// IsEmpty reports whether both fields are empty.
func (a LangAssets) IsEmpty() bool {
	return a.Name == "" && a.ToolTip == ""
}

// normalize applies the file rule: a missing name is taken from the
// tooltip, and an entry without a name is invalid.
func (a LangAssets) normalize() (LangAssets, bool) {
	if a.Name == "" {
		a.Name = a.ToolTip
	}
	return a, a.Name != ""
}

// merge applies other onto a field by field. A field is replaced if it is
// empty locally, or if override is set and the incoming value is not empty.
func (a LangAssets) merge(other LangAssets, override bool) LangAssets {
	if a.Name == "" || (override && other.Name != "") {
		a.Name = other.Name
	}
	if a.ToolTip == "" || (override && other.ToolTip != "") {
		a.ToolTip = other.ToolTip
	}
	return a
}

// languageOrder returns lang, then LangPriority, then the remaining
// available languages in sorted order, without duplicates.
func languageOrder(lang string, available map[string]LangAssets) []string {
	seen := make(map[string]bool, len(available)+len(LangPriority)+1)
	order := make([]string, 0, len(available)+len(LangPriority)+1)
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			order = append(order, l)
		}
	}
	add(lang)
	for _, l := range LangPriority {
		add(l)
	}
	rest := make([]string, 0, len(available))
	for l := range available {
		rest = append(rest, l)
	}
	sort.Strings(rest)
	for _, l := range rest {
		add(l)
	}
	return order
}
