package app

import (
	"errors"
	"fmt"
	"strings"
)

// Application errors.
var (
	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")

	// ErrAlreadyWatching indicates Watch was called while watching.
	ErrAlreadyWatching = errors.New("already watching")

	// ErrUnknownAction indicates an action ID with no shortcut, asset or
	// live action behind it.
	ErrUnknownAction = errors.New("unknown action")

	// ErrConflict indicates a key sequence already bound elsewhere.
	ErrConflict = errors.New("key sequence conflict")
)

// OperationError is a failed user-facing operation, such as setting a
// shortcut or saving the preferences.
type OperationError struct {
	Op      string // "set", "save", "reload", ...
	Target  string // action ID or file path
	Context string // e.g. the key sequence involved
	Err     error
}

// NewOperationError returns an OperationError for op on target.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

// WithContext sets the context and returns e. A nil e stays nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e != nil {
		e.Context = ctx
	}
	return e
}

// Error formats as "op target (context): err", omitting empty parts.
func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteString(" " + e.Target)
	}
	if e.Context != "" {
		b.WriteString(" (" + e.Context + ")")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInitialization, e.Component, e.Err)
}

func (e *InitError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

// ErrorList gathers the errors of a step that goes on after a failure,
// such as loading several preference files. It is not safe for
// concurrent use.
type ErrorList struct {
	errs []error
}

// NewErrorList returns an empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends err unless it is nil.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// AddAll appends the non-nil errors of errs.
func (l *ErrorList) AddAll(errs []error) {
	for _, err := range errs {
		l.Add(err)
	}
}

func (l *ErrorList) HasErrors() bool { return l.Len() > 0 }

func (l *ErrorList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.errs)
}

// Errors returns a copy of the collected errors.
func (l *ErrorList) Errors() []error {
	if l.Len() == 0 {
		return nil
	}
	return append([]error(nil), l.errs...)
}

// Error joins every message with "; ".
func (l *ErrorList) Error() string {
	msgs := make([]string, 0, l.Len())
	for _, err := range l.Errors() {
		msgs = append(msgs, err.Error())
	}
	if len(msgs) > 1 {
		return fmt.Sprintf("%d errors: %s", len(msgs), strings.Join(msgs, "; "))
	}
	return strings.Join(msgs, "")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l *ErrorList) Unwrap() []error {
	return l.Errors()
}

// AsError returns l, or nil if l is empty.
func (l *ErrorList) AsError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
