package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers match with errors.Is; the
// HTTP layer maps them to status codes.
var (
	// ErrNotFound marks a missing appointment, mechanic, workshop, vehicle or
	// driver.
	ErrNotFound = errors.New("not found")

	// ErrSlotConflict marks an appointment slot overlapping an existing
	// booking in the same workshop. Retryable with a different slot.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrInvalidTransition marks an appointment status change outside the
	// state machine table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCollaboratorUnavailable marks a failed directory lookup. The one
	// retryable category; the core itself never retries.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// ValidationError reports a malformed value at construction time. Always a
// client input defect, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundf wraps ErrNotFound with a description of what was missing.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// CollaboratorErr wraps a directory failure so callers can match
// ErrCollaboratorUnavailable while keeping the cause in the message.
func CollaboratorErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCollaboratorUnavailable, name, err)
}
