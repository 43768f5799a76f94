// Package service implements the application's use cases on top of the
// storage, calculator and cache layers. Services authorize every operation
// against the acting user ID passed in explicitly; they never trust
// client-supplied identity fields.
package service

import "fmt"

// ValidationError reports client input that fails a domain rule, such as a
// non-positive amount or splits that do not add up.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports an operation the acting user is not allowed to
// perform, such as reading a group they are not a member of.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func authorizationErrorf(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing record referenced by ID.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFoundErrorf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
