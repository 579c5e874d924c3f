package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds shared by every layer. Callers match them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthenticated      = errors.New("not logged in")
	ErrAlreadyAuthenticated = errors.New("already logged in")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrConflict             = errors.New("conflict")
	ErrInvalidImage         = errors.New("invalid image")
	// ErrStaleWrite is returned when an optimistic update lost a race
	// against a concurrent writer.
	ErrStaleWrite = errors.New("stale write")
)

// ValidationError holds field level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
