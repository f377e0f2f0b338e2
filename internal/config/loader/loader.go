// Package loader provides file loading for preferences, asset files and
// action ID mutation files.
//
// The loader package handles file system access behind an interface (so
// tests can run against an in-memory file system), TOML preference
// parsing with @include support, format detection by file extension,
// path expansion, and environment variable overrides.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// WritableFileSystem is a FileSystem that can also write files.
type WritableFileSystem interface {
	FileSystem
	// WriteFile writes data to path, creating parent directories.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// OSFS implements WritableFileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// WriteFile writes data to path atomically, creating parent directories.
func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() WritableFileSystem {
	return OSFS{}
}

// Format identifies a structured document format.
type Format uint8

const (
	// FormatUnknown is returned for unrecognized extensions.
	FormatUnknown Format = iota
	// FormatJSON is JSON.
	FormatJSON
	// FormatYAML is YAML.
	FormatYAML
	// FormatTOML is TOML.
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath detects the document format from the file extension.
// Files without a recognized extension are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json", "":
		return FormatJSON
	default:
		return FormatUnknown
	}
}
