// Package fault defines the error taxonomy shared by the application
// services. Each type maps to one HTTP status at the transport boundary;
// services stay transport-agnostic and return these directly.
package fault

import (
	"fmt"
	"strings"
)

// FieldError carries a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field message and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func Invalid(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// AuthorizationError reports that the principal lacks rights over the
// target entity.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func Forbidden(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// CapacityError reports a guest count above the listing limit.
type CapacityError struct {
	MaxGuests int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("number of guests exceeds the maximum allowed for this listing (%d)", e.MaxGuests)
}

// ConflictError reports a business-rule conflict, such as unavailable
// dates or a duplicate account.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports a status transition attempted from a state
// that does not permit it, naming the current status.
type InvalidStateError struct {
	Current string
}

func (e *InvalidStateError) Error() string { return "booking already " + e.Current }
