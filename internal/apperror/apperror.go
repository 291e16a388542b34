// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services return these errors; the HTTP handlers translate them to status
// codes in one place (handler/response.go). Nothing below the handler layer
// ever sees an HTTP status code.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these to classify an error chain.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("duplicate identity")
	ErrUpstream   = errors.New("upstream failure")
)

// FieldError is a single field-level validation failure.
// Validation responses carry a list of these, one per offending field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"msg"`
}

// AppError wraps a sentinel error with a human-readable message and, for
// validation failures, the list of field errors that caused it.
type AppError struct {
	Err     error        // sentinel: ErrNotFound, ErrValidation, ...
	Message string       // human-readable summary
	Fields  []FieldError // populated only for validation failures
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a referenced resource does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found for %s", resource, id),
	}
}

// ValidationFailed reports a single malformed or missing input field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Validation reports several field failures at once. The API contract is a
// structured list of field/message pairs, so callers that check multiple
// fields accumulate FieldErrors and hand them all over in one error.
func Validation(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

// Duplicate reports that an identity (e.g. a registration email) is already
// taken.
func Duplicate(message string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: message,
	}
}

// Upstream reports a failed call to a third-party service. Every upstream
// failure mode — bad input, non-success response, network error — collapses
// to this one error; the specific reason is logged, never surfaced.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
	}
}
