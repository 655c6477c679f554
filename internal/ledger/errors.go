package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks rejected input. No state was changed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to an unknown user, group, expense or split.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an attempt to edit another user's profile.
	ErrForbidden = errors.New("forbidden")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// PersistenceWarning reports a failed snapshot load or save. It never fails
// the mutation that triggered it; the in-memory state stays authoritative.
// Mutations return it in place of a nil error, together with their result.
type PersistenceWarning struct {
	Op  string // "load" or "save"
	Err error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", w.Op, w.Err)
}

func (w *PersistenceWarning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err is only a persistence warning, meaning the
// mutation itself succeeded.
func IsWarning(err error) bool {
	var warn *PersistenceWarning
	return errors.As(err, &warn)
}

func failed(err error) bool {
	return err != nil && !IsWarning(err)
}
