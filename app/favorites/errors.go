package favorites

import (
	"errors"
	"fmt"
)

// ErrMissingKey rejects events whose paper carries neither an id nor a url.
var ErrMissingKey = errors.New("paper id or url required")

// ErrUnknownAction rejects actions other than "add" and "remove".
var ErrUnknownAction = errors.New("action must be 'add' or 'remove'")

// StorageError wraps an I/O failure against the partition directory. For an
// append it means the action did not durably take effect and the caller may
// retry; for a projection it means the result would be incomplete.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
