// Package searcher finds actions whose assets match a text query.
//
// A Searcher keeps its result set between configuration changes. A change
// that can only remove matches re-tests the current results, a change that
// can only add matches tests the remaining actions, and any other change
// rescans everything. Each step reports whether the result set changed and
// whether some match cost changed, so a view can choose between rebuilding
// and re-sorting.
package searcher

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/search/matcher"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/assets"
)

// Catalog provides the searchable actions.
type Catalog interface {
	// Assets returns the assets forest. Action items are searched.
	Assets() *assets.Store

	// IsActionEnabled reports whether any live action bound to the ID is
	// enabled.
	IsActionEnabled(moduleID, inModuleID string) bool

	// KeySequence returns the key sequence bound to the ID.
	KeySequence(moduleID, inModuleID string) key.Sequence
}

// KeySequenceFunc looks up the key sequence of an action.
type KeySequenceFunc func(moduleID, inModuleID string) key.Sequence

// Result is a matched action.
type Result struct {
	ModuleID   string
	InModuleID string
	Item       assets.Item
	Cost       float64
}

// ActionID returns the full action ID of the result.
func (r Result) ActionID() string {
	return actionid.Make(r.ModuleID, r.InModuleID)
}

// Searcher matches action assets against a query.
// It is not safe for concurrent use.
type Searcher struct {
	catalog     Catalog
	matcher     *matcher.SentenceMatcher
	keySequence KeySequenceFunc
	log         logrus.FieldLogger

	modules         map[string]struct{}
	includeDisabled bool
	fields          Field

	results map[string]map[string]*Result
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Searcher) {
		if log != nil {
			s.log = log
		}
	}
}

// WithKeySequenceFunc replaces the catalog key-sequence lookup.
func WithKeySequenceFunc(fn KeySequenceFunc) Option {
	return func(s *Searcher) {
		s.keySequence = fn
	}
}

// WithMatcher sets the sentence matcher.
func WithMatcher(m *matcher.SentenceMatcher) Option {
	return func(s *Searcher) {
		if m != nil {
			s.matcher = m
		}
	}
}

// New creates a Searcher over the root module, matching names and
// tooltips of enabled actions, ignoring case.
func New(catalog Catalog, opts ...Option) *Searcher {
	s := &Searcher{
		catalog: catalog,
		matcher: matcher.New(),
		log:     logrus.StandardLogger(),
		modules: map[string]struct{}{actionid.RootModuleID: {}},
		fields:  DefaultFields,
		results: make(map[string]map[string]*Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.keySequence == nil {
		s.keySequence = catalog.KeySequence
	}
	return s
}

// Query returns the current query.
func (s *Searcher) Query() string { return s.matcher.Query() }

// Fields returns the matched fields.
func (s *Searcher) Fields() Field { return s.fields }

// IncludedModules returns the searched module IDs, sorted.
func (s *Searcher) IncludedModules() []string {
	ids := make([]string, 0, len(s.modules))
	for id := range s.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetQuery sets the query text and rescans. It reports whether the result
// set changed.
func (s *Searcher) SetQuery(query string) bool {
	if !s.matcher.SetQuery(query) {
		return false
	}
	changed, _ := s.Filter()
	return changed
}

// SetIncludedModules sets the searched modules. Results of dropped modules
// are removed and actions of added modules are tested.
func (s *Searcher) SetIncludedModules(moduleIDs ...string) bool {
	next := make(map[string]struct{}, len(moduleIDs))
	for _, id := range moduleIDs {
		next[id] = struct{}{}
	}
	if sameSet(next, s.modules) {
		return false
	}

	changed := false
	for id := range s.results {
		if _, ok := next[id]; !ok {
			delete(s.results, id)
			changed = true
		}
	}
	added := make([]string, 0)
	for id := range next {
		if _, ok := s.modules[id]; !ok {
			added = append(added, id)
		}
	}
	s.modules = next

	store := s.catalog.Assets()
	for _, id := range added {
		if s.scanModule(store, id, false) {
			changed = true
		}
	}
	return changed
}

// IncludeDisabledActions sets whether disabled actions are searched.
func (s *Searcher) IncludeDisabledActions(on bool) bool {
	if s.includeDisabled == on {
		return false
	}
	s.includeDisabled = on
	if on {
		changed, _ := s.ExtendResults()
		return changed
	}
	changed, _ := s.FilterResults()
	return changed
}

// SetFields sets the matched fields. Fewer fields narrow the results and
// more fields widen them.
func (s *Searcher) SetFields(fields Field) bool {
	if s.fields == fields {
		return false
	}
	old := s.fields
	s.fields = fields

	if fields == FieldNone {
		changed := len(s.results) > 0
		s.results = make(map[string]map[string]*Result)
		return changed
	}

	var changed bool
	switch {
	case old.Has(fields):
		changed, _ = s.FilterResults()
	case fields.Has(old):
		changed, _ = s.ExtendResults()
	default:
		changed, _ = s.Filter()
	}
	return changed
}

// SetCaseSensitive sets case sensitivity. Turning it on narrows the
// results and turning it off widens them.
func (s *Searcher) SetCaseSensitive(on bool) bool {
	if s.matcher.IsCaseSensitive() == on {
		return false
	}
	s.matcher.SetCaseSensitive(on)
	if on {
		changed, _ := s.FilterResults()
		return changed
	}
	changed, _ := s.ExtendResults()
	return changed
}

// Filter rescans every action of the included modules.
func (s *Searcher) Filter() (setChanged, costChanged bool) {
	store := s.catalog.Assets()
	for _, moduleID := range s.IncludedModules() {
		found := s.results[moduleID]
		s.eachAction(store, moduleID, func(inModuleID string, it assets.Item) {
			cost := s.matchAction(moduleID, inModuleID, it)
			if r, ok := found[inModuleID]; ok {
				if math.IsInf(cost, 1) {
					delete(found, inModuleID)
					setChanged = true
				} else if r.Cost != cost {
					r.Cost = cost
					costChanged = true
				}
				return
			}
			if !math.IsInf(cost, 1) {
				found = s.add(moduleID, inModuleID, it, cost)
				setChanged = true
			}
		})
		if found != nil && len(found) == 0 {
			delete(s.results, moduleID)
		}
	}
	s.log.WithFields(logrus.Fields{
		"query":   s.matcher.Query(),
		"results": s.Len(),
	}).Debug("search filtered")
	return setChanged, costChanged
}

// FilterResults re-tests only the current results.
func (s *Searcher) FilterResults() (setChanged, costChanged bool) {
	for moduleID, found := range s.results {
		for inModuleID, r := range found {
			cost := s.matchAction(moduleID, inModuleID, r.Item)
			if math.IsInf(cost, 1) {
				delete(found, inModuleID)
				setChanged = true
				continue
			}
			if r.Cost != cost {
				r.Cost = cost
				costChanged = true
			}
		}
		if len(found) == 0 {
			delete(s.results, moduleID)
		}
	}
	return setChanged, costChanged
}

// ExtendResults tests only the actions that are not results yet. Current
// results are kept as they are, so the cost flag is always false.
func (s *Searcher) ExtendResults() (setChanged, costChanged bool) {
	store := s.catalog.Assets()
	for _, moduleID := range s.IncludedModules() {
		if s.scanModule(store, moduleID, true) {
			setChanged = true
		}
	}
	return setChanged, false
}

// Results returns the matches ordered by cost, then by action ID.
func (s *Searcher) Results() []Result {
	out := make([]Result, 0, s.Len())
	for _, found := range s.results {
		for _, r := range found {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		if out[i].ModuleID != out[j].ModuleID {
			return out[i].ModuleID < out[j].ModuleID
		}
		return out[i].InModuleID < out[j].InModuleID
	})
	return out
}

// Len returns the number of results.
func (s *Searcher) Len() int {
	n := 0
	for _, found := range s.results {
		n += len(found)
	}
	return n
}

// String describes the configuration and the result count.
func (s *Searcher) String() string {
	var b strings.Builder
	b.WriteString("matcher: {" + s.matcher.String() + "}")
	b.WriteString("; modules: [" + strings.Join(s.IncludedModules(), ", ") + "]")
	if s.includeDisabled {
		b.WriteString("; disabled included")
	}
	b.WriteString("; fields: " + s.fields.String())
	return b.String()
}

// scanModule adds matching actions of a module. With skipFound, actions
// already in the results are not re-tested.
func (s *Searcher) scanModule(store *assets.Store, moduleID string, skipFound bool) bool {
	changed := false
	s.eachAction(store, moduleID, func(inModuleID string, it assets.Item) {
		if _, ok := s.results[moduleID][inModuleID]; ok && skipFound {
			return
		}
		cost := s.matchAction(moduleID, inModuleID, it)
		if !math.IsInf(cost, 1) {
			s.add(moduleID, inModuleID, it, cost)
			changed = true
		}
	})
	return changed
}

func (s *Searcher) add(moduleID, inModuleID string, it assets.Item, cost float64) map[string]*Result {
	found := s.results[moduleID]
	if found == nil {
		found = make(map[string]*Result)
		s.results[moduleID] = found
	}
	found[inModuleID] = &Result{ModuleID: moduleID, InModuleID: inModuleID, Item: it, Cost: cost}
	return found
}

func (s *Searcher) eachAction(store *assets.Store, moduleID string, fn func(string, assets.Item)) {
	if store == nil {
		return
	}
	tree := store.Module(moduleID)
	if tree == nil {
		return
	}
	tree.Root().Walk(func(it assets.Item) bool {
		if it.IsAction() {
			fn(it.InModuleID(), it)
		}
		return true
	})
}

// matchAction returns the lowest cost over the matched fields.
func (s *Searcher) matchAction(moduleID, inModuleID string, it assets.Item) float64 {
	best := math.Inf(1)
	if !it.IsValid() {
		return best
	}
	if !s.includeDisabled && !s.catalog.IsActionEnabled(moduleID, inModuleID) {
		return best
	}
	try := func(cost float64) {
		if cost < best {
			best = cost
		}
	}

	for _, lang := range it.Languages() {
		a, _ := it.Lang(lang)
		if s.fields.Has(FieldName) {
			try(s.matcher.Match(a.Name))
		}
		if s.fields.Has(FieldToolTip) {
			try(s.matcher.Match(a.ToolTip))
		}
		if s.fields.Has(FieldPath) {
			try(s.matcher.Match(it.BestPath(lang)))
		}
	}
	if s.fields.Has(FieldID) {
		try(s.matcher.Match(actionid.Make(moduleID, inModuleID)))
	}
	if s.fields.Has(FieldKeySequence) {
		try(KeySequenceCost(s.matcher.Query(), s.keySequence(moduleID, inModuleID).String(), s.matcher.IsCaseSensitive()))
	}
	return best
}

// KeySequenceCost returns 0 if text equals query, the number of extra
// characters if text contains query, and +Inf otherwise.
func KeySequenceCost(query, text string, caseSensitive bool) float64 {
	if query == "" || text == "" {
		return math.Inf(1)
	}
	if !caseSensitive {
		query = strings.ToLower(query)
		text = strings.ToLower(text)
	}
	if query == text {
		return 0
	}
	if strings.Contains(text, query) {
		return float64(utf8.RuneCountInString(text) - utf8.RuneCountInString(query))
	}
	return math.Inf(1)
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
