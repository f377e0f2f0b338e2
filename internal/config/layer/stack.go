package layer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/shortcuts/internal/config/loader"
)

// ErrReadOnly is returned when editing a read-only layer.
var ErrReadOnly = errors.New("layer is read-only")

// Stack holds one layer per source. It is safe for concurrent use.
type Stack struct {
	mu     sync.RWMutex
	layers [numSources]*Layer
	merged loader.Sections // cache of all layers, nil when stale
}

// NewStack returns a stack of empty layers.
func NewStack() *Stack {
	s := &Stack{}
	for src := Source(0); src < numSources; src++ {
		s.layers[src] = &Layer{Source: src, Data: make(loader.Sections)}
	}
	return s
}

// Replace swaps the content of a layer. Read-only layers can be replaced;
// this is how they are loaded.
func (s *Stack) Replace(src Source, path string, data loader.Sections) {
	if data == nil {
		data = make(loader.Sections)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[src] = &Layer{Source: src, Path: path, Data: data}
	s.merged = nil
}

// Layer returns a copy of a layer.
func (s *Stack) Layer(src Source) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layers[src].Clone()
}

// Merged returns a copy of the listed layers merged in stack order, or of
// all layers if none is listed.
func (s *Stack) Merged(sources ...Source) loader.Sections {
	if len(sources) == 0 {
		return s.mergedAll()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(loader.Sections)
	for _, l := range s.layers {
		if contains(sources, l.Source) {
			result = Merge(result, l.Data)
		}
	}
	return result
}

func (s *Stack) mergedAll() loader.Sections {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merged == nil {
		s.merged = make(loader.Sections)
		for _, l := range s.layers {
			s.merged = Merge(s.merged, l.Data)
		}
	}
	return s.merged.Clone()
}

// Lookup returns the value of a key from the highest listed layer that
// has it, or from the highest of all layers if none is listed.
func (s *Stack) Lookup(section, key string, sources ...Source) (string, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if len(sources) > 0 && !contains(sources, l.Source) {
			continue
		}
		if v, ok := Get(l.Data, section, key); ok {
			return v, l.Source, true
		}
	}
	return "", 0, false
}

// Set writes a value to a writable layer.
func (s *Stack) Set(src Source, section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.writable(src)
	if err != nil {
		return err
	}
	Set(l.Data, section, key, value)
	s.merged = nil
	return nil
}

// Delete removes a key from a writable layer and reports whether it was
// there.
func (s *Stack) Delete(src Source, section, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.writable(src)
	if err != nil {
		return false, err
	}
	if !Delete(l.Data, section, key) {
		return false, nil
	}
	s.merged = nil
	return true, nil
}

// DeleteSection removes a section from a writable layer and reports
// whether it was there.
func (s *Stack) DeleteSection(src Source, section string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.writable(src)
	if err != nil {
		return false, err
	}
	if !DeleteSection(l.Data, section) {
		return false, nil
	}
	s.merged = nil
	return true, nil
}

func (s *Stack) writable(src Source) (*Layer, error) {
	if src >= numSources {
		return nil, fmt.Errorf("unknown layer %d", src)
	}
	if src.ReadOnly() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, src)
	}
	return s.layers[src], nil
}

func contains(sources []Source, src Source) bool {
	for _, s := range sources {
		if s == src {
			return true
		}
	}
	return false
}
