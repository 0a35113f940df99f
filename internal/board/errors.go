package board

import (
	"errors"
	"fmt"
)

// Validation failures. A *ValidationError wraps exactly one of these.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrWeakPassword  = errors.New("weak password")
	ErrInvalidText   = errors.New("invalid task text")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid date")
)

var (
	// ErrDuplicateUser is returned when registering a name that is taken
	ErrDuplicateUser = errors.New("user already exists")
	// ErrAuth does not say whether the user or the password was wrong
	ErrAuth = errors.New("invalid username or password")
	// ErrImport is returned for import files of no known shape
	ErrImport = errors.New("invalid import file")
	// ErrTaskNotFound is returned by operations addressing an unknown task id
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports rejected input. Reason is meant for the user.
type ValidationError struct {
	Field  string
	Reason string
	kind   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

func invalid(kind error, field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, kind: kind}
}
