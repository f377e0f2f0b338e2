package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

// JSON keys of the asset document.
const (
	keyLangAssets = "langDependentAssets"
	keyIconPath   = "iconPath"
	keyChildren   = "children"
	keyIsAction   = "isAction"
	keyName       = "name"
	keyToolTip    = "tooltip"
)

// ErrInvalidDocument indicates an asset document that is not a JSON object.
var ErrInvalidDocument = errors.New("invalid asset document")

// DecodeJSON decodes an asset document into a new Store. Invalid entries
// are skipped and described in the returned warnings.
func DecodeJSON(data []byte) (*Store, []string, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, nil, fmt.Errorf("%w: top level is not an object", ErrInvalidDocument)
	}

	store := NewStore()
	var warnings []string
	doc.ForEach(func(k, v gjson.Result) bool {
		moduleID := k.String()
		if !actionid.IsModuleIDValid(moduleID) {
			warnings = append(warnings, fmt.Sprintf("invalid module ID %q", moduleID))
			return true
		}
		if !v.IsObject() {
			warnings = append(warnings, fmt.Sprintf("module %q: assets are not an object", moduleID))
			return true
		}
		decodeItemJSON(store.EnsureModule(moduleID).Root(), v, &warnings)
		return true
	})
	return store, warnings, nil
}

// decodeItemJSON applies the fields of v to it and creates its children.
func decodeItemJSON(it Item, v gjson.Result, warnings *[]string) {
	v.Get(keyLangAssets).ForEach(func(lang, la gjson.Result) bool {
		a, ok := LangAssets{
			Name:    la.Get(keyName).String(),
			ToolTip: la.Get(keyToolTip).String(),
		}.normalize()
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("%s: %q assets have neither name nor tooltip", describe(it), lang.String()))
			return true
		}
		it.SetLang(lang.String(), a)
		return true
	})

	if icon := v.Get(keyIconPath); icon.Exists() {
		it.SetIconPath(icon.String())
	}

	v.Get(keyChildren).ForEach(func(k, child gjson.Result) bool {
		token := k.String()
		if !isValidToken(token) {
			*warnings = append(*warnings, fmt.Sprintf("%s: invalid child token %q", describe(it), token))
			return true
		}
		if !child.IsObject() {
			*warnings = append(*warnings, fmt.Sprintf("%s: child %q is not an object", describe(it), token))
			return true
		}
		isAction := true
		if flag := child.Get(keyIsAction); flag.Exists() {
			isAction = flag.Bool()
		}
		c := it.Descendant(token, isAction)
		c.SetIsAction(isAction)
		decodeItemJSON(c, child, warnings)
		return true
	})
}

func isValidToken(token string) bool {
	return token != "" && !strings.Contains(token, actionid.TokenSeparator) && token == actionid.Simplified(token)
}

func describe(it Item) string {
	if it.IsModuleRoot() {
		return fmt.Sprintf("module %q", it.ModuleID())
	}
	return fmt.Sprintf("item %q", it.ActionID())
}

// ToJSON encodes the item and its descendants as an asset object.
func (it Item) ToJSON() ([]byte, error) {
	if !it.IsValid() {
		return nil, errors.New("assets: encoding invalid item")
	}

	doc := []byte("{}")
	var err error

	if icon := it.IconPath(); icon != "" {
		if doc, err = sjson.SetBytes(doc, keyIconPath, icon); err != nil {
			return nil, err
		}
	}

	langs := []byte("{}")
	for _, lang := range it.Languages() {
		a, _ := it.Lang(lang)
		obj := []byte("{}")
		if obj, err = sjson.SetBytes(obj, keyName, a.Name); err != nil {
			return nil, err
		}
		if obj, err = sjson.SetBytes(obj, keyToolTip, a.ToolTip); err != nil {
			return nil, err
		}
		if langs, err = sjson.SetRawBytes(langs, escapeKey(lang), obj); err != nil {
			return nil, err
		}
	}
	if doc, err = sjson.SetRawBytes(doc, keyLangAssets, langs); err != nil {
		return nil, err
	}

	if !it.IsModuleRoot() && !it.IsAction() {
		if doc, err = sjson.SetBytes(doc, keyIsAction, false); err != nil {
			return nil, err
		}
	}

	if it.HasChildren() {
		children := []byte("{}")
		for _, child := range it.Children() {
			raw, err := child.ToJSON()
			if err != nil {
				return nil, err
			}
			if children, err = sjson.SetRawBytes(children, escapeKey(child.Token()), raw); err != nil {
				return nil, err
			}
		}
		if doc, err = sjson.SetRawBytes(doc, keyChildren, children); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// FromJSON applies an asset object to the item, creating children as
// needed. Fields present in data replace local values.
func (it Item) FromJSON(data []byte) ([]string, error) {
	if !it.IsValid() {
		return nil, errors.New("assets: decoding into invalid item")
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: item assets are not an object", ErrInvalidDocument)
	}

	var warnings []string
	if !it.IsModuleRoot() {
		isAction := true
		if flag := v.Get(keyIsAction); flag.Exists() {
			isAction = flag.Bool()
		}
		it.SetIsAction(isAction)
	}
	decodeItemJSON(it, v, &warnings)
	return warnings, nil
}

// EncodeJSON encodes the whole store as an indented asset document with
// modules in ID order.
func EncodeJSON(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, moduleID := range s.ModuleIDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		// The root module's key is empty, which sjson paths cannot address.
		k, err := json.Marshal(moduleID)
		if err != nil {
			return nil, err
		}
		raw, err := s.Module(moduleID).Root().ToJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return pretty.Pretty(buf.Bytes()), nil
}

// escapeKey escapes the characters sjson treats as path syntax.
func escapeKey(k string) string {
	var sb strings.Builder
	for _, r := range k {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', ':', '!', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
