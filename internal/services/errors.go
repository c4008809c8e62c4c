// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced entity is absent. Update-by-id paths
// that promise a nil result instead of an error translate it before
// returning; everything else surfaces it directly.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or missing required input. The operation
// aborts before any write.
type ValidationError struct {
	Message string
	Fields  interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError reports a uniqueness violation surfaced by the store after
// the allocator's single retry was spent.
type ConflictError struct {
	Resource string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %v", e.Resource, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// CollaboratorError wraps a failure of an out-of-band collaborator
// (geolocation, email, payment gateway). It never aborts the owning store
// transaction.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
