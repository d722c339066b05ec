package errors

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError indicates malformed or unsafe user input. It is always
// surfaced before any external process is spawned and is never silently
// corrected. Input carries the offending value verbatim.
type ValidationError struct {
	Input  string
	Reason string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// NewValidationError creates a new ValidationError instance.
func NewValidationError(input, reason string) error {
	return &ValidationError{Input: input, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExternalToolError represents a nonzero exit from a spawned process,
// keeping the captured output for diagnostics.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface for ExternalToolError.
func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %v", e.Tool, e.ExitCode, e.Err)
}

// Unwrap returns the underlying process error.
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// NewExternalToolError creates a new ExternalToolError instance.
func NewExternalToolError(tool string, args []string, exitCode int, stdout, stderr string, err error) error {
	return &ExternalToolError{
		Tool:     tool,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}

// TimeoutError indicates a long-running external operation exceeded its
// deadline. Treated as terminal for that operation, never retried.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

// Error implements the error interface for TimeoutError.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %v", e.Operation, e.Limit)
}

// NewTimeoutError creates a new TimeoutError instance.
func NewTimeoutError(operation string, limit time.Duration) error {
	return &TimeoutError{Operation: operation, Limit: limit}
}

// ParseError indicates a parsing strategy failed on engine output. It stays
// internal to the findings normalizer, which falls back to the next strategy
// instead of propagating it.
type ParseError struct {
	Strategy string
	Err      error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse strategy %q failed: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError instance.
func NewParseError(strategy string, err error) error {
	return &ParseError{Strategy: strategy, Err: err}
}

// ErrOperationInFlight is returned when a scan or rewrite is requested while
// another one is already running in the same session.
var ErrOperationInFlight = errors.New("another operation is already in flight for this session")
