package config

import (
	"errors"

	"github.com/dshills/shortcuts/internal/config/layer"
	"github.com/dshills/shortcuts/internal/config/loader"
)

// Errors returned by preference operations.
var (
	// ErrNoUserFile indicates Save was called without a user file path.
	ErrNoUserFile = errors.New("no user preference file configured")

	// ErrReadOnly indicates modification was attempted on a read-only layer.
	ErrReadOnly = layer.ErrReadOnly

	// ErrIncludeDepthExceeded indicates too many nested @include directives.
	ErrIncludeDepthExceeded = loader.ErrIncludeDepthExceeded
)

// ParseError represents an error while parsing a preference file.
type ParseError = loader.ParseError
