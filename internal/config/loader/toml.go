package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// includeKey names the top-level key listing files to include.
const includeKey = "@include"

// Sections is a two-level key-value document: section name to key to value.
type Sections map[string]map[string]string

// Names returns the section names in sorted order.
func (s Sections) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (s Sections) Clone() Sections {
	out := make(Sections, len(s))
	for name, kv := range s {
		section := make(map[string]string, len(kv))
		for k, v := range kv {
			section[k] = v
		}
		out[name] = section
	}
	return out
}

// TOMLLoader loads preference files in TOML format.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fsys,
		path: path,
	}
}

// Load reads the configured path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads a specific path.
// A missing file is not an error: it yields nil, nil.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading preference file %s: %w", path, err)
	}

	return l.parse(path, data)
}

// LoadFromReader reads TOML from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	return l.parse("<reader>", data)
}

func (l *TOMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	return doc, nil
}

// LoadWithIncludes loads a TOML file and processes @include directives.
// Included files are lower priority than the including file. The maxDepth
// parameter limits nested includes to prevent infinite loops.
func (l *TOMLLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepthExceeded, path)
	}

	doc, err := l.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	includes, hasIncludes := doc[includeKey]
	if !hasIncludes {
		return doc, nil
	}
	delete(doc, includeKey)

	var includeList []string
	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be string or array of strings", includeKey)
			}
			includeList = append(includeList, s)
		}
	default:
		return nil, fmt.Errorf("%s must be string or array of strings, got %T", includeKey, includes)
	}

	baseDir := filepath.Dir(path)
	for _, inc := range includeList {
		incPath := ExpandPath(inc)
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, incPath)
		}

		incDoc, err := l.LoadWithIncludes(incPath, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}

		doc = DeepMerge(incDoc, doc)
	}

	return doc, nil
}

// LoadSections loads a TOML file with includes and converts it to Sections.
// Top-level scalar keys and nested tables are not sections; they are
// returned as warnings and otherwise ignored.
func (l *TOMLLoader) LoadSections(path string, maxDepth int) (Sections, []string, error) {
	doc, err := l.LoadWithIncludes(path, maxDepth)
	if err != nil {
		return nil, nil, err
	}
	sections, warnings := ToSections(doc)
	return sections, warnings, nil
}

// ToSections converts a decoded TOML document into Sections.
// Non-string values are formatted with %v.
func ToSections(doc map[string]any) (Sections, []string) {
	sections := make(Sections, len(doc))
	var warnings []string
	for name, raw := range doc {
		table, ok := raw.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("top-level key %q is not a section", name))
			continue
		}
		section := make(map[string]string, len(table))
		for k, v := range table {
			switch val := v.(type) {
			case string:
				section[k] = val
			case map[string]any, []any:
				warnings = append(warnings, fmt.Sprintf("section %q: key %q holds a nested value", name, k))
			default:
				section[k] = fmt.Sprintf("%v", val)
			}
		}
		sections[name] = section
	}
	sort.Strings(warnings)
	return sections, warnings
}

// EncodeSections marshals Sections as TOML with sorted keys.
func EncodeSections(s Sections) ([]byte, error) {
	if s == nil {
		s = Sections{}
	}
	data, err := toml.Marshal(map[string]map[string]string(s))
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}
	return data, nil
}

// ErrIncludeDepthExceeded indicates too many nested @include directives.
var ErrIncludeDepthExceeded = errors.New("include depth exceeded")

// ParseError represents an error while parsing a file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}
