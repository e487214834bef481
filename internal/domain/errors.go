package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means an external collaborator (AI provider, printer)
	// has no credentials or endpoint. The operation is aborted.
	ErrNotConfigured   = errors.New("not configured")
	ErrUpstream        = errors.New("upstream failure")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBanned          = errors.New("account is banned")
	ErrConflict        = errors.New("conflict")
)

// ValidationError is a user error. Nothing was mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UpstreamError carries a message that is safe to show to the user while
// keeping the underlying cause for logs.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string { return e.Message }
func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Cause}
}
