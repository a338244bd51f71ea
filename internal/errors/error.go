package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryStore   Category = "store"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// PrshError is a structured error with a code, explanation and suggestion.
type PrshError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (runtime, store, etc.).
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
func (e *PrshError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PrshError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PrshError with the same code.
// Sentinels created with New therefore match errors built later from the
// same code, whatever they wrap.
func (e *PrshError) Is(target error) bool {
	t, ok := target.(*PrshError)
	if !ok || e.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PrshError) WithSuggestion(s string) *PrshError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation of the error.
func (e *PrshError) WithDetail(d string) *PrshError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PrshError) Wrap(err error) *PrshError {
	e.Wrapped = err
	return e
}

// New creates a PrshError from a registered error code.
func New(code string) *PrshError {
	template, ok := registry[code]
	if !ok {
		return &PrshError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PrshError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new PrshError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *PrshError {
	return &PrshError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a PrshError.
func FromError(err error, code string) *PrshError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PrshError); ok {
		return pe
	}
	return New(code).Wrap(err)
}

// FromPanic converts a recovered panic value into a PrshError with the given
// code. Error values are wrapped as-is so errors.Is keeps working.
func FromPanic(recovered any, code string) *PrshError {
	switch v := recovered.(type) {
	case *PrshError:
		return New(code).Wrap(v)
	case error:
		return New(code).Wrap(v)
	default:
		return New(code).Wrap(fmt.Errorf("%v", v))
	}
}
