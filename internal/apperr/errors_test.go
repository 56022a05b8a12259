package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("note %q: %w", "a.md", ErrNotFound), "not found"},
		{fmt.Errorf("rename: %w", ErrConflict), "conflict"},
		{fmt.Errorf("read: %w: %w", ErrIO, errors.New("permission denied")), "i/o"},
		{fmt.Errorf("read: not valid UTF-8: %w", ErrParseWarning), "warning"},
		{fmt.Errorf("description: %w", ErrInvalid), "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
