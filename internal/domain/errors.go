package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("resume not found")
	ErrForbidden    = errors.New("not authorized to access this resume")
	ErrConflict     = errors.New("public id already taken")
	ErrHTMLRequired = errors.New("HTML content is required")
)

// ValidationError carries field-level problems that block an operation.
// Fields is keyed by editor field key; Messages is the ordered list shown
// to the user.
type ValidationError struct {
	Fields   map[string]string
	Messages []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Fields: map[string]string{}, Messages: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
