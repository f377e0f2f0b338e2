package assets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

// ItemID indexes a node within its Tree.
type ItemID int32

// NoItem is the ItemID of an invalid Item.
const NoItem ItemID = -1

// rootItem is the index of the module root.
const rootItem ItemID = 0

// NodeKind classifies a node.
type NodeKind uint8

const (
	// KindFolder is a pure folder: it groups actions and is not one.
	KindFolder NodeKind = iota
	// KindAction is a leaf action.
	KindAction
	// KindActionFolder is an action that also has children.
	KindActionFolder
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindAction:
		return "action"
	case KindActionFolder:
		return "action-folder"
	default:
		return "unknown"
	}
}

type node struct {
	token    string
	parent   ItemID
	children map[string]ItemID
	isAction bool
	langs    map[string]LangAssets
	iconPath string
	iconFile string // iconPath with variables substituted
}

// Tree is the assets tree of one module.
type Tree struct {
	moduleID string
	nodes    []node

	// pathCache memoizes BestPath per language. Any structural or asset
	// change clears it.
	pathCache map[string]map[ItemID]string
}

// NewTree creates a tree holding only the module root.
func NewTree(moduleID string) *Tree {
	t := &Tree{moduleID: moduleID}
	t.nodes = append(t.nodes, node{
		token:    moduleID,
		parent:   NoItem,
		children: make(map[string]ItemID),
		langs:    make(map[string]LangAssets),
	})
	return t
}

// ModuleID returns the ID of the module the tree belongs to.
func (t *Tree) ModuleID() string {
	return t.moduleID
}

// Root returns the module root item.
func (t *Tree) Root() Item {
	return Item{tree: t, id: rootItem}
}

// Len returns the number of nodes, the module root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Item returns the item at inModuleID, or an invalid Item.
func (t *Tree) Item(inModuleID string) Item {
	return t.Root().FindDescendant(inModuleID)
}

// Merge merges other into t. Both trees must belong to the same module;
// merging trees of different modules is a programming error and panics.
func (t *Tree) Merge(other *Tree, override bool) {
	if other == nil {
		return
	}
	if other.moduleID != t.moduleID {
		panic(fmt.Sprintf("assets: merging tree of module %q into tree of module %q", other.moduleID, t.moduleID))
	}
	t.Root().MergeFrom(other.Root(), override)
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() (*Tree, error) {
	clone := &Tree{moduleID: t.moduleID, nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		c := n
		c.children = make(map[string]ItemID, len(n.children))
		for token, id := range n.children {
			c.children[token] = id
		}
		c.langs = make(map[string]LangAssets, len(n.langs))
		if err := copier.CopyWithOption(&c.langs, n.langs, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("cloning assets of %q: %w", n.token, err)
		}
		clone.nodes[i] = c
	}
	return clone, nil
}

func (t *Tree) invalidate() {
	t.pathCache = nil
}

func (t *Tree) addChild(parent ItemID, token string, isAction bool) ItemID {
	id := ItemID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		token:    token,
		parent:   parent,
		children: make(map[string]ItemID),
		isAction: isAction,
		langs:    make(map[string]LangAssets),
	})
	t.nodes[parent].children[token] = id
	t.invalidate()
	return id
}

// Item is a non-owning handle to a node of a Tree. The zero Item is
// invalid; methods on an invalid Item return zero values.
type Item struct {
	tree *Tree
	id   ItemID
}

// IsValid reports whether the handle refers to a node.
func (it Item) IsValid() bool {
	return it.tree != nil && it.id >= 0 && int(it.id) < len(it.tree.nodes)
}

func (it Item) node() *node {
	return &it.tree.nodes[it.id]
}

// Tree returns the tree the item belongs to.
func (it Item) Tree() *Tree {
	return it.tree
}

// IsModuleRoot reports whether the item is the module root.
func (it Item) IsModuleRoot() bool {
	return it.IsValid() && it.id == rootItem
}

// Token returns the last path token, or the module ID for the module root.
func (it Item) Token() string {
	if !it.IsValid() {
		return ""
	}
	return it.node().token
}

// ModuleID returns the ID of the owning module.
func (it Item) ModuleID() string {
	if !it.IsValid() {
		return ""
	}
	return it.tree.moduleID
}

// InModuleID returns the "/"-joined path from the module root.
// The module root has an empty in-module ID.
func (it Item) InModuleID() string {
	if !it.IsValid() || it.id == rootItem {
		return ""
	}
	var tokens []string
	for id := it.id; id != rootItem; id = it.tree.nodes[id].parent {
		tokens = append(tokens, it.tree.nodes[id].token)
	}
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return strings.Join(tokens, actionid.TokenSeparator)
}

// ActionID returns the full action ID, or "" for the module root.
func (it Item) ActionID() string {
	if !it.IsValid() || it.id == rootItem {
		return ""
	}
	return actionid.Make(it.tree.moduleID, it.InModuleID())
}

// Parent returns the parent item; the module root has none.
func (it Item) Parent() Item {
	if !it.IsValid() || it.id == rootItem {
		return Item{}
	}
	return Item{tree: it.tree, id: it.node().parent}
}

// Child returns the direct child with the given token.
func (it Item) Child(token string) Item {
	if !it.IsValid() {
		return Item{}
	}
	id, ok := it.node().children[token]
	if !ok {
		return Item{}
	}
	return Item{tree: it.tree, id: id}
}

// Children returns the direct children ordered by token.
func (it Item) Children() []Item {
	if !it.IsValid() {
		return nil
	}
	n := it.node()
	tokens := make([]string, 0, len(n.children))
	for token := range n.children {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	out := make([]Item, len(tokens))
	for i, token := range tokens {
		out[i] = Item{tree: it.tree, id: n.children[token]}
	}
	return out
}

// HasChildren reports whether the item has any children.
func (it Item) HasChildren() bool {
	return it.IsValid() && len(it.node().children) > 0
}

// Kind classifies the item.
func (it Item) Kind() NodeKind {
	if !it.IsValid() || !it.node().isAction {
		return KindFolder
	}
	if len(it.node().children) > 0 {
		return KindActionFolder
	}
	return KindAction
}

// IsAction reports whether the item is an action (possibly also a folder).
func (it Item) IsAction() bool {
	return it.IsValid() && it.node().isAction
}

// SetIsAction marks the item as an action or a pure folder.
// The module root is always a folder.
func (it Item) SetIsAction(isAction bool) {
	if !it.IsValid() || it.id == rootItem {
		return
	}
	it.node().isAction = isAction
}

// Lang returns the assets for one language.
func (it Item) Lang(lang string) (LangAssets, bool) {
	if !it.IsValid() {
		return LangAssets{}, false
	}
	a, ok := it.node().langs[lang]
	return a, ok
}

// Languages returns the languages with assets, sorted.
func (it Item) Languages() []string {
	if !it.IsValid() {
		return nil
	}
	langs := make([]string, 0, len(it.node().langs))
	for l := range it.node().langs {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// SetLang sets the assets for one language. Empty assets remove the language.
func (it Item) SetLang(lang string, a LangAssets) {
	if !it.IsValid() {
		return
	}
	if a.IsEmpty() {
		delete(it.node().langs, lang)
	} else {
		it.node().langs[lang] = a
	}
	it.tree.invalidate()
}

// IconPath returns the icon path as written in the asset file.
func (it Item) IconPath() string {
	if !it.IsValid() {
		return ""
	}
	return it.node().iconPath
}

// IconFile returns the icon path with environment variables substituted.
func (it Item) IconFile() string {
	if !it.IsValid() {
		return ""
	}
	return it.node().iconFile
}

// SetIconPath sets the icon path and re-resolves the icon file.
func (it Item) SetIconPath(path string) {
	if !it.IsValid() {
		return
	}
	n := it.node()
	n.iconPath = path
	n.iconFile = ""
	if path != "" {
		n.iconFile = loader.ExpandPath(path)
	}
}

// BestName returns the name in the first language of: lang, the default
// language, any available language. Without any name it returns the token.
func (it Item) BestName(lang string) string {
	if !it.IsValid() {
		return ""
	}
	n := it.node()
	for _, l := range languageOrder(lang, n.langs) {
		if a, ok := n.langs[l]; ok && a.Name != "" {
			return a.Name
		}
	}
	return n.token
}

// BestToolTip resolves the tooltip like BestName resolves the name.
func (it Item) BestToolTip(lang string) string {
	if !it.IsValid() {
		return ""
	}
	n := it.node()
	for _, l := range languageOrder(lang, n.langs) {
		if a, ok := n.langs[l]; ok && a.ToolTip != "" {
			return a.ToolTip
		}
	}
	return n.token
}

// BestPath returns the "/"-joined best names of the item and its
// ancestors, the module root excluded.
func (it Item) BestPath(lang string) string {
	if !it.IsValid() || it.id == rootItem {
		return ""
	}
	t := it.tree
	if t.pathCache == nil {
		t.pathCache = make(map[string]map[ItemID]string)
	}
	cache, ok := t.pathCache[lang]
	if !ok {
		cache = make(map[ItemID]string)
		t.pathCache[lang] = cache
	}
	if p, ok := cache[it.id]; ok {
		return p
	}

	p := it.BestName(lang)
	if parent := it.Parent(); parent.id != rootItem {
		p = parent.BestPath(lang) + actionid.TokenSeparator + p
	}
	cache[it.id] = p
	return p
}

// Descendant walks relativePath from the item, creating missing nodes.
// Intermediate nodes are created as pure folders and the terminal node
// with the requested action flag; an existing terminal node is returned
// unchanged. An empty path returns the item itself.
func (it Item) Descendant(relativePath string, isActionIfCreated bool) Item {
	if !it.IsValid() {
		return Item{}
	}
	tokens := actionid.Tokens(relativePath)
	for _, token := range tokens {
		if token == "" {
			return Item{}
		}
	}

	cur := it.id
	for i, token := range tokens {
		next, ok := it.tree.nodes[cur].children[token]
		if !ok {
			next = it.tree.addChild(cur, token, i == len(tokens)-1 && isActionIfCreated)
		}
		cur = next
	}
	return Item{tree: it.tree, id: cur}
}

// FindDescendant walks relativePath from the item without creating
// anything. It returns an invalid Item if any segment is missing.
func (it Item) FindDescendant(relativePath string) Item {
	if !it.IsValid() {
		return Item{}
	}
	cur := it.id
	for _, token := range actionid.Tokens(relativePath) {
		next, ok := it.tree.nodes[cur].children[token]
		if !ok {
			return Item{}
		}
		cur = next
	}
	return Item{tree: it.tree, id: cur}
}

// Walk visits the item and its descendants depth-first, children in token
// order. If fn returns false the children of that item are skipped.
func (it Item) Walk(fn func(Item) bool) {
	if !it.IsValid() {
		return
	}
	if !fn(it) {
		return
	}
	for _, child := range it.Children() {
		child.Walk(fn)
	}
}

// MergeFrom merges the assets and descendants of other into the item.
// Language-dependent fields and the icon path are replaced if empty
// locally, or if override is set and the incoming value is not empty.
// Locally absent children are created.
func (it Item) MergeFrom(other Item, override bool) {
	if !it.IsValid() || !other.IsValid() {
		return
	}
	dst, src := it.node(), other.node()

	for lang, in := range src.langs {
		dst.langs[lang] = dst.langs[lang].merge(in, override)
	}
	if dst.iconPath == "" || (override && src.iconPath != "") {
		it.SetIconPath(src.iconPath)
	}
	if it.id != rootItem && src.isAction {
		it.node().isAction = true
	}

	for _, child := range other.Children() {
		local := it.Child(child.Token())
		if !local.IsValid() {
			local = Item{tree: it.tree, id: it.tree.addChild(it.id, child.Token(), child.IsAction())}
		}
		local.MergeFrom(child, override)
	}
	it.tree.invalidate()
}
