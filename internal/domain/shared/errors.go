// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrAccessDenied = errors.New("access denied")

	// Consistency errors
	ErrConsistency = errors.New("consistency violation")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrTimeout          = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "catalog", "enrollment", "progress"
	Op      string // Operation that failed, e.g., "GetCourseTree", "Activate"
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

// Catalog domain errors
var (
	ErrCourseNotFound  = NewDomainError("catalog", "GetCourse", ErrNotFound, "course not found")
	ErrModuleNotFound  = NewDomainError("catalog", "GetModule", ErrNotFound, "module not found")
	ErrLessonNotFound  = NewDomainError("catalog", "GetLesson", ErrNotFound, "lesson not found")
	ErrCourseInactive  = NewDomainError("catalog", "GetCourse", ErrNotFound, "course is not active")
	ErrInvalidPosition = NewDomainError("catalog", "Validate", ErrValueOutOfRange, "invalid order position")
)

// Enrollment domain errors
var (
	ErrEnrollmentNotFound        = NewDomainError("enrollment", "Find", ErrNotFound, "enrollment not found")
	ErrNoActiveEnrollment        = NewDomainError("enrollment", "CheckAccess", ErrAccessDenied, "no active enrollment for course")
	ErrDuplicateActiveEnrollment = NewDomainError("enrollment", "Activate", ErrAlreadyExists, "active enrollment already exists for learner and course")
	ErrEnrollmentConsistency     = NewDomainError("enrollment", "FindActive", ErrConsistency, "more than one active enrollment for learner and course")
	ErrInvalidEnrollmentStatus   = NewDomainError("enrollment", "Transition", ErrStateTransition, "invalid enrollment status transition")
)

// Progress domain errors
var (
	ErrProgressForbidden = NewDomainError("progress", "Mark", ErrAccessDenied, "progress records may only be mutated by the owning learner")
)

// Identity domain errors
var (
	ErrLearnerNotFound    = NewDomainError("identity", "Find", ErrNotFound, "learner not found")
	ErrEmailTaken         = NewDomainError("identity", "Register", ErrAlreadyExists, "email already registered")
	ErrInvalidCredentials = NewDomainError("identity", "Authenticate", ErrUnauthorized, "invalid credentials")
	ErrInvalidToken       = NewDomainError("identity", "VerifyToken", ErrUnauthorized, "token invalid or expired")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsAccessDenied checks if the error is an authorization failure.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrUnauthorized)
}

// IsConsistency checks if the error indicates store corruption.
func IsConsistency(err error) bool {
	return errors.Is(err, ErrConsistency)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsTransient checks if the error is a transient store failure that is
// safe to retry. Non-retryable kinds (NotFound, AccessDenied, duplicates)
// never match.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrTimeout)
}
