// Package apperr holds the error kinds shared by the ordering core.
// Callers wrap a kind with context using fmt.Errorf("%w: ...", kind) and
// test for it with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotFound           = errors.New("not found")
	ErrAssignmentConflict = errors.New("assignment conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrExternalWrite      = errors.New("external write failure")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInProgress         = errors.New("request already in progress")
)

// Validation returns an ErrValidation carrying msg.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// ExternalWrite wraps a collaborator failure so both the kind and the cause match errors.Is.
func ExternalWrite(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalWrite, op, cause)
}

// Code returns a stable snake_case code for err's kind, or "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAssignmentConflict):
		return "assignment_conflict"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrExternalWrite):
		return "external_write_failure"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInProgress):
		return "in_progress"
	default:
		return "internal"
	}
}
