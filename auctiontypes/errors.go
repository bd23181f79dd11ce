package auctiontypes

import (
	"errors"
	"fmt"
)

var ErrAlreadyAborted = errors.New("session already aborted")
var ErrSessionNotFound = errors.New("session not found")

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an operation that the session's current
// phase does not allow. The session is left untouched.
type InvalidTransitionError struct {
	From      SessionStatus
	Operation string
	Aborted   bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Aborted {
		return fmt.Sprintf("cannot %s: session was aborted while %s", e.Operation, e.From)
	}
	return fmt.Sprintf("cannot %s: session is %s", e.Operation, e.From)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
