// Package errors provides structured error handling for the pipecheck CLI.
// Errors are categorized so the exit-code boundary can distinguish
// configuration problems from missing sources and from report-writing
// failures, and each error carries actionable remediation guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error that occurred. The category decides
// the process exit code: configuration and source errors abort before any
// check results are produced, reporting errors occur after verification
// has completed.
type Category int

const (
	// Configuration errors are caused by an invalid or inconsistent
	// configuration document (unknown log source reference, duplicate check
	// id, invalid verification level, malformed criterion).
	Configuration Category = iota
	// Source errors occur when a declared input cannot be read
	// (missing log file, unreachable registry).
	Source
	// Reporting errors occur when a report cannot be written after
	// verification itself completed.
	Reporting
	// Internal errors are unexpected engine failures.
	Internal
)

// String returns a human-readable name for the error category.
func (c Category) String() string {
	switch c {
	case Configuration:
		return "Configuration Error"
	case Source:
		return "Source Error"
	case Reporting:
		return "Reporting Error"
	case Internal:
		return "Internal Error"
	default:
		return "Error"
	}
}

// Sentinel errors for the well-known failure modes. Wrapped errors keep
// these matchable with errors.Is across package boundaries.
var (
	// ErrSourceNotFound indicates a declared log source path does not exist.
	ErrSourceNotFound = stderrors.New("log source not found")
	// ErrRegistryUnavailable indicates neither registry source is reachable.
	ErrRegistryUnavailable = stderrors.New("registry unavailable")
)

// VerifyError is a structured error with a category, an optional wrapped
// cause, and remediation guidance.
type VerifyError struct {
	// Category is the type of error (Configuration, Source, ...).
	Category Category
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As matching.
func (e *VerifyError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *VerifyError {
	return &VerifyError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewSourceError creates a new source error.
func NewSourceError(message string, remediation ...string) *VerifyError {
	return &VerifyError{
		Category:    Source,
		Message:     message,
		Remediation: remediation,
	}
}

// NewReportingError creates a new reporting error.
func NewReportingError(message string, remediation ...string) *VerifyError {
	return &VerifyError{
		Category:    Reporting,
		Message:     message,
		Remediation: remediation,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, remediation ...string) *VerifyError {
	return &VerifyError{
		Category:    Internal,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a VerifyError, preserving the original
// error for errors.Is matching.
func Wrap(err error, category Category, remediation ...string) *VerifyError {
	if err == nil {
		return nil
	}
	return &VerifyError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category Category, message string, remediation ...string) *VerifyError {
	if err == nil {
		return nil
	}
	return &VerifyError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsVerifyError attempts to convert an error to a VerifyError.
// Returns nil if the error (or any error in its chain) is not a VerifyError.
func AsVerifyError(err error) *VerifyError {
	var verifyErr *VerifyError
	if stderrors.As(err, &verifyErr) {
		return verifyErr
	}
	return nil
}

// CategoryOf returns the category of an error, defaulting to Internal for
// errors that are not VerifyErrors.
func CategoryOf(err error) Category {
	if verifyErr := AsVerifyError(err); verifyErr != nil {
		return verifyErr.Category
	}
	return Internal
}
