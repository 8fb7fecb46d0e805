package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is the root of every authentication failure.
var ErrUnauthorized = errors.New("could not validate credentials")

var (
	ErrMissingToken   = fmt.Errorf("%w: missing authorization token", ErrUnauthorized)
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrUnknownSubject = fmt.Errorf("%w: unknown token subject", ErrUnauthorized)
)

// ErrInvalidCredentials is returned by login for both an unknown email and a
// wrong password.
var ErrInvalidCredentials = errors.New("Incorrect username or password")

var (
	ErrEmailTaken        = NewValidationError("Email already registered")
	ErrSelfDeletion      = NewValidationError("Cannot delete your own account")
	ErrIncorrectPassword = NewValidationError("Incorrect current password")
)

// ValidationError describes a request the caller can fix.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationErrorf creates a ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing resource and matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

// NewNotFoundError creates a NotFoundError for the named resource.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
