// Package collab marks failures of external collaborators (embedding service,
// document store, session store) so callers can distinguish them from domain
// errors. The core never retries these beyond configured backoff.
package collab

import (
	"errors"
	"fmt"
)

// UnavailableError wraps an I/O failure from a named external collaborator.
type UnavailableError struct {
	Collaborator string
	Err          error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("collaborator %s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as an UnavailableError for the named collaborator.
// Returns nil when err is nil.
func Unavailable(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Collaborator: collaborator, Err: err}
}

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
