// Package shared contains common domain types and errors used across the
// attendance and report packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Attendance engine errors
	ErrInvalidRange          = errors.New("invalid date range")
	ErrDataIntegrity         = errors.New("data integrity violation")
	ErrSourceUnavailable     = errors.New("data source unavailable")
	ErrPerStudentComputation = errors.New("per-student computation failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "attendance", "report", "query"
	Op      string // Operation that failed, e.g., "Aggregate", "Assemble"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// InvalidRange builds an ErrInvalidRange error for the given operation.
func InvalidRange(op, message string) *DomainError {
	return NewDomainError("attendance", op, ErrInvalidRange, message)
}

// DataIntegrity builds an ErrDataIntegrity error for the given operation.
func DataIntegrity(op, message string) *DomainError {
	return NewDomainError("attendance", op, ErrDataIntegrity, message)
}

// SourceUnavailable wraps a failed fetch from an external data source.
func SourceUnavailable(op, message string, err error) *DomainError {
	return WrapError("source", op, ErrSourceUnavailable, message, err)
}

// PerStudent wraps a failure isolated to a single student's computation.
func PerStudent(studentID string, err error) *DomainError {
	return WrapError("report", "ComputeStudent", ErrPerStudentComputation,
		fmt.Sprintf("student %s", studentID), err)
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsInvalidRange checks if the error is caused by a malformed date window.
func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsDataIntegrity checks if the error reports an attendance row outside the closed state set.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}

// IsSourceUnavailable checks if the roster or records could not be fetched.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsPerStudent checks if the error is isolated to a single student.
func IsPerStudent(err error) bool {
	return errors.Is(err, ErrPerStudentComputation)
}
