// Package layer stacks preference sections read from several sources.
//
// Three sources are stacked, lowest first: the shipped defaults, the user
// file and the environment. A key set in a higher layer hides the same key
// of the lower layers; other keys of the section stay visible.
package layer

import "github.com/dshills/shortcuts/internal/config/loader"

// Source identifies a layer.
type Source uint8

const (
	// Defaults holds the shipped preference files. Read-only.
	Defaults Source = iota
	// User holds the user preference file. The only writable layer.
	User
	// Env holds environment overrides. Read-only.
	Env

	numSources
)

// String returns the layer name.
func (s Source) String() string {
	switch s {
	case Defaults:
		return "defaults"
	case User:
		return "user"
	case Env:
		return "environment"
	default:
		return "unknown"
	}
}

// ReadOnly reports whether values of the source cannot be edited.
func (s Source) ReadOnly() bool {
	return s != User
}

// Layer is the content of one source.
type Layer struct {
	Source Source
	// Path is the file the layer was read from, if any.
	Path string
	Data loader.Sections
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{Source: l.Source, Path: l.Path, Data: l.Data.Clone()}
}
