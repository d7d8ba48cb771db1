package academic

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnknown      Code = "UNKNOWN"
)

// ValidationError reports input rejected before any write.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// AuthorizationError reports an actor acting for a student they neither are
// nor are a guardian of.
type AuthorizationError struct {
	ActorID   string
	StudentID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s is not authorized to act for student %s", e.ActorID, e.StudentID)
}

// NotFoundError reports a missing record required by a lookup.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsAuthorization reports whether err wraps an *AuthorizationError.
func IsAuthorization(err error) bool {
	var a *AuthorizationError
	return errors.As(err, &a)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// CodeOf classifies err into a Code.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return CodeValidation
	case IsAuthorization(err):
		return CodeUnauthorized
	case IsNotFound(err):
		return CodeNotFound
	default:
		return CodeUnknown
	}
}
