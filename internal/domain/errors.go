package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Concrete errors below match them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrConnectivity = errors.New("store unreachable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed or missing input for a single field.
// The caller can always recover by correcting the input.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a ValidationError for field with the given message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a uniqueness violation, e.g. a duplicate event slug.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports that a referenced entity does not exist. Key names the
// lookup field and defaults to the entity's id.
type NotFoundError struct {
	Entity string
	Key    string
	ID     string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.Entity == "event" && e.Key == "slug":
		return "Event not found for slug: " + e.ID
	case e.Entity == "event":
		return "Event not found for eventId: " + e.ID
	case e.Key != "":
		return fmt.Sprintf("%s not found for %s: %s", e.Entity, e.Key, e.ID)
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConnectivityError wraps a failure to reach the store.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func (e *ConnectivityError) Is(target error) bool { return target == ErrConnectivity }
