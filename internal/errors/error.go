package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// Category represents the type of error.
type Category string

const (
	CategoryState    Category = "state"
	CategoryProducer Category = "producer"
	CategorySnapshot Category = "snapshot"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// RenderStateError is a coded error with an optional hint and wrapped cause.
type RenderStateError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RenderStateError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		return msg + ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RenderStateError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *RenderStateError) Is(target error) bool {
	t, ok := target.(*RenderStateError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RenderStateError) WithSuggestion(s string) *RenderStateError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *RenderStateError) WithDetail(d string) *RenderStateError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RenderStateError) Wrap(err error) *RenderStateError {
	e.Wrapped = err
	return e
}

// Attr returns the code as a slog attribute for diagnostics.
func (e *RenderStateError) Attr() slog.Attr {
	return slog.String("code", e.Code)
}

// New creates a RenderStateError from a registered error code.
func New(code string) *RenderStateError {
	template, ok := registry[code]
	if !ok {
		return &RenderStateError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RenderStateError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new RenderStateError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RenderStateError {
	return &RenderStateError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RenderStateError.
// Errors that already carry a code are returned as is.
func FromError(err error, code string) *RenderStateError {
	if err == nil {
		return nil
	}
	var re *RenderStateError
	if errors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code carried by err, or "" if it has none.
func Code(err error) string {
	var re *RenderStateError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
