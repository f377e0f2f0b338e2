package historian

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/shortcuts/internal/config/loader"
)

// ErrInvalidMutation indicates a mutation table that cannot be applied.
var ErrInvalidMutation = errors.New("invalid action ID mutation")

type mutationFile struct {
	Mutations []Mutation `yaml:"mutations"`
}

// DecodeMutations decodes a mutation document. The format is chosen from
// the extension of path; files without one are read as JSON.
func DecodeMutations(path string, data []byte) ([]Mutation, error) {
	switch loader.FormatFromPath(path) {
	case loader.FormatJSON:
		return decodeMutationsJSON(data)
	case loader.FormatYAML:
		var f mutationFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMutation, err)
		}
		return f.Mutations, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file format: %s", ErrInvalidMutation, path)
	}
}

func decodeMutationsJSON(data []byte) ([]Mutation, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidMutation)
	}
	list := gjson.GetBytes(data, "mutations")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: \"mutations\" is not an array", ErrInvalidMutation)
	}

	var out []Mutation
	for _, v := range list.Array() {
		m := Mutation{
			PrefixOld: v.Get("sectionPrefixOld").String(),
			PrefixNew: v.Get("sectionPrefixNew").String(),
			OldToNew:  make(map[string]string),
		}
		v.Get("oldToNewActionIDMap").ForEach(func(k, id gjson.Result) bool {
			m.OldToNew[k.String()] = id.String()
			return true
		})
		out = append(out, m)
	}
	return out, nil
}

// LoadMutationFiles reads mutation files in order and registers their
// tables. Files that cannot be read or decoded, and tables that cannot be
// applied, are returned as errors; loading continues with the rest.
func (h *Historian) LoadMutationFiles(fs loader.FileSystem, paths []string) []error {
	var errs []error
	for _, raw := range paths {
		path := loader.ExpandPath(raw)
		data, err := fs.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("mutation file %s: %w", path, err))
			continue
		}
		muts, err := DecodeMutations(path, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("mutation file %s: %w", path, err))
			continue
		}
		for _, m := range muts {
			if err := h.AddMutation(m); err != nil {
				errs = append(errs, fmt.Errorf("mutation file %s: %w", path, err))
			}
		}
		h.log.WithField("path", path).Debug("mutation file loaded")
	}
	return errs
}
