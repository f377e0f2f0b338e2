package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "save"},
			expected: "save",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "set", Target: "/Edit/Copy"},
			expected: "set /Edit/Copy",
		},
		{
			name:     "op, target, and context",
			err:      &OperationError{Op: "set", Target: "/Edit/Copy", Context: "Ctrl+C"},
			expected: "set /Edit/Copy (Ctrl+C)",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "set", Target: "/Edit/Copy", Context: "Ctrl+C", Err: ErrConflict},
			expected: "set /Edit/Copy (Ctrl+C): key sequence conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("set", "/Edit/Copy", ErrUnknownAction)
	if !errors.Is(err, ErrUnknownAction) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil Unwrap on nil receiver")
	}
	if nilErr.WithContext("x") != nil {
		t.Error("expected nil WithContext on nil receiver")
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	err := &InitError{Component: "prefs", Err: cause}
	if !errors.Is(err, ErrInitialization) {
		t.Error("expected ErrInitialization")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause")
	}
	if got, want := err.Error(), "initialization failed: prefs: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.AsError() != nil {
		t.Error("empty list should be a nil error")
	}
	list.Add(nil)
	list.AddAll([]error{ErrConflict, nil, ErrUnknownAction})
	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	if got, want := list.Error(), "2 errors: key sequence conflict; unknown action"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(list.AsError(), ErrUnknownAction) {
		t.Error("expected errors.Is to search the list")
	}

	errs := list.Errors()
	errs[0] = nil
	if list.Errors()[0] == nil {
		t.Error("Errors() must return a copy")
	}
}
