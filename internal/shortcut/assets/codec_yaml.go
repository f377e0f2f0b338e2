package assets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

// yamlItem mirrors the asset object shape for YAML documents.
type yamlItem struct {
	IconPath   string                `yaml:"iconPath,omitempty"`
	LangAssets map[string]LangAssets `yaml:"langDependentAssets,omitempty"`
	IsAction   *bool                 `yaml:"isAction,omitempty"`
	Children   map[string]yamlItem   `yaml:"children,omitempty"`
}

// DecodeYAML decodes a YAML asset document into a new Store.
func DecodeYAML(data []byte) (*Store, []string, error) {
	var doc map[string]yamlItem
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	store := NewStore()
	var warnings []string
	for moduleID, item := range doc {
		if !actionid.IsModuleIDValid(moduleID) {
			warnings = append(warnings, fmt.Sprintf("invalid module ID %q", moduleID))
			continue
		}
		decodeItemYAML(store.EnsureModule(moduleID).Root(), item, &warnings)
	}
	return store, warnings, nil
}

func decodeItemYAML(it Item, y yamlItem, warnings *[]string) {
	for lang, la := range y.LangAssets {
		a, ok := la.normalize()
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("%s: %q assets have neither name nor tooltip", describe(it), lang))
			continue
		}
		it.SetLang(lang, a)
	}
	if y.IconPath != "" {
		it.SetIconPath(y.IconPath)
	}
	for token, child := range y.Children {
		if !isValidToken(token) {
			*warnings = append(*warnings, fmt.Sprintf("%s: invalid child token %q", describe(it), token))
			continue
		}
		isAction := child.IsAction == nil || *child.IsAction
		c := it.Descendant(token, isAction)
		c.SetIsAction(isAction)
		decodeItemYAML(c, child, warnings)
	}
}

// EncodeYAML encodes the whole store as a YAML asset document.
func EncodeYAML(s *Store) ([]byte, error) {
	doc := make(map[string]yamlItem, len(s.ModuleIDs()))
	for _, moduleID := range s.ModuleIDs() {
		doc[moduleID] = encodeItemYAML(s.Module(moduleID).Root())
	}
	return yaml.Marshal(doc)
}

func encodeItemYAML(it Item) yamlItem {
	y := yamlItem{IconPath: it.IconPath()}
	if langs := it.Languages(); len(langs) > 0 {
		y.LangAssets = make(map[string]LangAssets, len(langs))
		for _, lang := range langs {
			y.LangAssets[lang], _ = it.Lang(lang)
		}
	}
	if !it.IsModuleRoot() && !it.IsAction() {
		f := false
		y.IsAction = &f
	}
	if it.HasChildren() {
		y.Children = make(map[string]yamlItem)
		for _, child := range it.Children() {
			y.Children[child.Token()] = encodeItemYAML(child)
		}
	}
	return y
}
