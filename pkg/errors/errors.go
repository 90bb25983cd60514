// Package errors provides structured error types for floorpack.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the batch runner and the HTTP API can react to it
// without string matching:
//   - PARSE_ERROR: malformed instance or solution text
//   - ENCODING_ERROR: an instance that cannot be encoded for the requested
//     height bound (a module fits in no allowed orientation)
//   - TIMEOUT: the solver exhausted its time budget
//   - INFEASIBLE: no height in the estimated range admits a packing
//   - INVALID_SOLUTION: a placement overlaps, leaves the board, or does not
//     match its module
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: expected 2 fields", n)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // report and skip the instance
//	}
//
//	err := errors.Wrap(errors.ErrCodeBackend, cause, "solver %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeParse        Code = "PARSE_ERROR"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Model and solving errors
	ErrCodeEncoding        Code = "ENCODING_ERROR"
	ErrCodeTimeout         Code = "TIMEOUT"
	ErrCodeInfeasible      Code = "INFEASIBLE"
	ErrCodeInvalidSolution Code = "INVALID_SOLUTION"
	ErrCodeBackend         Code = "BACKEND_ERROR"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// The first *Error found in the chain decides.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseError locates a parse failure inside a named input.
type ParseError struct {
	Source string // file name or "<stdin>"
	Line   int    // 1-based, 0 when the failure is not tied to a line
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

// Code returns the error code for this error type.
func (e *ParseError) Code() Code {
	return ErrCodeParse
}

// Parse builds a PARSE_ERROR whose cause is a *ParseError.
func Parse(source string, line int, format string, args ...any) *Error {
	pe := &ParseError{Source: source, Line: line, Reason: fmt.Sprintf(format, args...)}
	return &Error{Code: ErrCodeParse, Message: pe.Error(), Cause: pe}
}
