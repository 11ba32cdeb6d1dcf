// Package errs defines the typed errors shared by the service layers.
package errs

import (
	"errors"
	"fmt"
)

const (
	CodeValidation   = "VALIDATION"
	CodeStorage      = "STORAGE"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
)

// Error is a typed error used for stable API mapping.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a typed error with an optional cause.
func New(code, msg string, cause error) error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

func Validation(msg string) error         { return New(CodeValidation, msg, nil) }
func Storage(msg string, cause error) error { return New(CodeStorage, msg, cause) }
func NotFound(msg string) error           { return New(CodeNotFound, msg, nil) }
func Unauthorized(msg string) error       { return New(CodeUnauthorized, msg, nil) }
func Conflict(msg string) error           { return New(CodeConflict, msg, nil) }

// CodeOf returns the code of a typed error, or empty for anything else.
func CodeOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return ""
}
