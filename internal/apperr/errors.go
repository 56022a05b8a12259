// Package apperr defines the error kinds shared by the stores and the state machine.
// Callers wrap them with fmt.Errorf("...: %w") and test with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means an operation referenced a path or id that is not present.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a create or rename target already exists.
	ErrConflict = errors.New("already exists")
	// ErrIO wraps read, write and permission failures from the filesystem.
	ErrIO = errors.New("i/o failure")
	// ErrParseWarning marks degraded input (malformed front matter or task JSON).
	ErrParseWarning = errors.New("parse warning")
	// ErrInvalid means input failed validation before reaching the store.
	ErrInvalid = errors.New("invalid")
)

// Kind returns a short label for the first error kind err matches, or "error".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrIO):
		return "i/o"
	case errors.Is(err, ErrParseWarning):
		return "warning"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}
