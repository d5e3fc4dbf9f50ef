package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Account lookup
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already taken")

	// ErrAmbiguousUser is returned when a username lookup matches more than
	// one row. The store carries no unique index, so a bug or an out-of-band
	// write can break the uniqueness invariant; reads refuse to guess which
	// row is the real one.
	ErrAmbiguousUser = errors.New("multiple records share one username")

	// Account validation
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooWeak  = errors.New("password does not meet security requirements")

	// Generic
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ValidationErrors collects field-level validation failures so a caller can
// report all of them at once instead of one per round-trip.
type ValidationErrors struct {
	Fields map[string][]string
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: make(map[string][]string)}
}

// Add records a validation failure for the given field.
func (e *ValidationErrors) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any failures have been recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationErrors) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
