package assets

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
	"github.com/dshills/shortcuts/internal/shortcut/actionid"
)

// Store is a forest of asset trees, one per module.
type Store struct {
	modules map[string]*Tree
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{modules: make(map[string]*Tree)}
}

// Module returns the tree of a module, or nil if the store has none.
func (s *Store) Module(moduleID string) *Tree {
	return s.modules[moduleID]
}

// EnsureModule returns the tree of a module, creating it if needed.
func (s *Store) EnsureModule(moduleID string) *Tree {
	t, ok := s.modules[moduleID]
	if !ok {
		t = NewTree(moduleID)
		s.modules[moduleID] = t
	}
	return t
}

// ModuleIDs returns the IDs of all modules in sorted order.
func (s *Store) ModuleIDs() []string {
	ids := make([]string, 0, len(s.modules))
	for id := range s.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Item returns the item of an action or folder, or an invalid Item.
func (s *Store) Item(moduleID, inModuleID string) Item {
	t := s.modules[moduleID]
	if t == nil {
		return Item{}
	}
	return t.Item(inModuleID)
}

// ActionItem resolves a full action ID to its item.
func (s *Store) ActionItem(actionID string) Item {
	moduleID, inModuleID := actionid.Split(actionID)
	if moduleID == "" && inModuleID == "" {
		return Item{}
	}
	return s.Item(moduleID, inModuleID)
}

// Merge merges every module of other into s.
func (s *Store) Merge(other *Store, override bool) {
	if other == nil || other == s {
		return
	}
	for _, id := range other.ModuleIDs() {
		s.EnsureModule(id).Merge(other.modules[id], override)
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() (*Store, error) {
	c := NewStore()
	for id, t := range s.modules {
		tc, err := t.Clone()
		if err != nil {
			return nil, err
		}
		c.modules[id] = tc
	}
	return c, nil
}

// Decode decodes an asset document, choosing the codec from the file
// extension of path. Files without an extension are read as JSON.
func Decode(path string, data []byte) (*Store, []string, error) {
	switch loader.FormatFromPath(path) {
	case loader.FormatJSON:
		return DecodeJSON(data)
	case loader.FormatYAML:
		return DecodeYAML(data)
	default:
		return nil, nil, fmt.Errorf("unsupported asset file format: %s", path)
	}
}

// FileError records an asset file that could not be used.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("asset file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadFiles reads the asset files in order and merges them with override,
// so later files win. Unreadable or malformed files are logged and
// returned as errors without stopping the load.
func LoadFiles(fs loader.FileSystem, paths []string, log logrus.FieldLogger) (*Store, []error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	store := NewStore()
	var errs []error
	for _, raw := range paths {
		path := loader.ExpandPath(raw)
		data, err := fs.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("cannot read asset file")
			errs = append(errs, &FileError{Path: path, Err: err})
			continue
		}
		s, warnings, err := Decode(path, data)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("cannot decode asset file")
			errs = append(errs, &FileError{Path: path, Err: err})
			continue
		}
		for _, w := range warnings {
			log.WithField("path", path).Warn(w)
		}
		store.Merge(s, true)
		log.WithFields(logrus.Fields{"path": path, "modules": len(s.modules)}).Debug("asset file loaded")
	}
	return store, errs
}
