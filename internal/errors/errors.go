// Package errors provides centralized error definitions and error handling utilities
// for groupview. It defines sentinel errors, semantic error types, error
// constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain errors come from the grouping engine:
//   - AccessorError: a field accessor failed while reading or writing a row
//   - PreconditionError: an operation was invoked in a state that forbids it
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a named resource (usually a field) does not exist
//   - ValidationError: invalid input or configuration
//
// # Usage
//
//	err := errors.NewNotFoundError("field", "Categry")
//	if errors.Is(err, errors.ErrFieldNotFound) { ... }
//
//	var pre *errors.PreconditionError
//	if errors.As(err, &pre) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Grouping sentinel errors
var (
	// ErrFieldNotFound indicates that a named field does not exist on the rows.
	ErrFieldNotFound = New("field not found")
	// ErrNotAttached indicates that no upstream collection is attached.
	ErrNotAttached = New("no source attached")
	// ErrHeaderEdit indicates an attempt to edit a group header row.
	ErrHeaderEdit = New("group header rows cannot be edited")
	// ErrAccessorFailed indicates that reading or writing a row field failed.
	ErrAccessorFailed = New("field accessor failed")
	// ErrInvalidRow indicates that a row has the wrong shape for its accessor.
	ErrInvalidRow = New("invalid row")
	// ErrIndexOutOfRange indicates a display or source index outside its bounds.
	ErrIndexOutOfRange = New("index out of range")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// GroupviewError is the base interface for all groupview errors.
type GroupviewError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// AccessorError represents a field accessor failure on a specific row.
//
// Example:
//
//	err := errors.NewAccessorError("Score", cause).WithRowIndex(12)
//	fmt.Println(err) // "accessor error [field=Score, row=12]: field accessor failed: ..."
type AccessorError struct {
	baseError
	Field    string
	RowIndex int
}

// NewAccessorError creates a new AccessorError for the given field.
func NewAccessorError(field string, cause error) *AccessorError {
	return &AccessorError{
		baseError: baseError{
			message:    ErrAccessorFailed.Error(),
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Field:    field,
		RowIndex: -1,
	}
}

// WithRowIndex adds the source row index to the error context.
func (e *AccessorError) WithRowIndex(i int) *AccessorError {
	e.RowIndex = i
	return e
}

// Error returns the formatted error message.
func (e *AccessorError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("row=%d", e.RowIndex))
	}

	prefix := "accessor error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("accessor error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *AccessorError) Is(target error) bool {
	if _, ok := target.(*AccessorError); ok {
		return true
	}
	if target == ErrAccessorFailed {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// PreconditionError represents an operation invoked in a state that forbids it,
// most commonly a mutating view operation before a source is attached.
//
// Example:
//
//	err := errors.NewPreconditionError("ExpandAll", errors.ErrNotAttached)
//	fmt.Println(err) // "ExpandAll: precondition failed: no source attached"
type PreconditionError struct {
	baseError
	Operation string
}

// NewPreconditionError creates a new PreconditionError.
func NewPreconditionError(operation string, cause error) *PreconditionError {
	return &PreconditionError{
		baseError: baseError{
			message:    "precondition failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: false,
		},
		Operation: operation,
	}
}

// Error returns the formatted error message.
func (e *PreconditionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.message)
}

// Is checks if this error matches the target.
func (e *PreconditionError) Is(target error) bool {
	if _, ok := target.(*PreconditionError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("field", "Categry")
//	fmt.Println(err) // "field 'Categry' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target. A NotFoundError for a field
// always matches ErrFieldNotFound.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrFieldNotFound && e.ResourceType == "field" {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("must be asc, desc or none").WithField("grouping.sort")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds the field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error")
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.message)
	if e.Value != nil {
		fmt.Fprintf(&b, " (got: %v)", e.Value)
	}
	return b.String()
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var gvErr GroupviewError
	if As(err, &gvErr) {
		return gvErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement GroupviewError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var gvErr GroupviewError
	if As(err, &gvErr) {
		return gvErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
