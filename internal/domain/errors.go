package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state for operation")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a rejected create request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StateError reports an operation refused because of the job's current
// status. The current status is included for diagnosis.
type StateError struct {
	Op      string
	Current JobStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s job in status %s", e.Op, e.Current)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
