// Package apperr holds the user-facing error taxonomy shared by the wizard and the ticket handler.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the user-facing layer.
type Kind int

const (
	// KindUnexpected is anything that is not one of the other kinds.
	KindUnexpected Kind = iota

	// KindNotFound is a referenced panel, ticket, message or channel that does not exist.
	KindNotFound

	// KindPermissionDenied is an actor without the required role or capability.
	KindPermissionDenied

	// KindStateConflict is an action against a record already in the target state.
	KindStateConflict

	// KindValidation is input that does not satisfy the operation's requirements.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindStateConflict:
		return "state_conflict"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

// Error is an error that is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a permission-denied error.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a state-conflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

// Invalid creates a validation error.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the error, or KindUnexpected if it is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// UserMessage returns the message to show to the user and whether the error is a known kind.
func UserMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
