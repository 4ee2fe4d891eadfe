package reconciler

import (
	"errors"
	"fmt"
)

// ErrRecordIDMissing indicates a Differ was invoked without a record id.
// This is a programming error on the caller's side, not a data error, and
// it is always fatal to the reconciliation in progress.
var ErrRecordIDMissing = errors.New("record id must be provided")

// UnsupportedDiffError is returned by writers that are handed a diff of a
// kind they do not know how to persist.
type UnsupportedDiffError struct {
	Kind Kind
}

func (e *UnsupportedDiffError) Error() string {
	return fmt.Sprintf("unsupported diff kind: %q", string(e.Kind))
}
