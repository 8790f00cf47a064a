// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"math"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// LearnerID represents a unique learner identifier (UUID format).
type LearnerID string

// IsValid checks if the learner ID is a valid UUID.
func (l LearnerID) IsValid() bool {
	return uuidRegex.MatchString(string(l))
}

// String returns the string representation.
func (l LearnerID) String() string {
	return string(l)
}

// IsEmpty checks if the ID is empty.
func (l LearnerID) IsEmpty() bool {
	return l == ""
}

// NewLearnerID creates a new LearnerID with validation.
func NewLearnerID(id string) (LearnerID, error) {
	lid := LearnerID(strings.ToLower(strings.TrimSpace(id)))
	if !lid.IsValid() {
		return "", NewDomainError("shared", "NewLearnerID", ErrInvalidID, "invalid learner ID format")
	}
	return lid, nil
}

// CourseID represents a unique course identifier (UUID format).
type CourseID string

// IsValid checks if the course ID is a valid UUID.
func (c CourseID) IsValid() bool {
	return uuidRegex.MatchString(string(c))
}

// String returns the string representation.
func (c CourseID) String() string {
	return string(c)
}

// IsEmpty checks if the ID is empty.
func (c CourseID) IsEmpty() bool {
	return c == ""
}

// ModuleID represents a unique module identifier (UUID format).
type ModuleID string

// IsValid checks if the module ID is a valid UUID.
func (m ModuleID) IsValid() bool {
	return uuidRegex.MatchString(string(m))
}

// String returns the string representation.
func (m ModuleID) String() string {
	return string(m)
}

// LessonID represents a unique lesson identifier (UUID format).
type LessonID string

// IsValid checks if the lesson ID is a valid UUID.
func (l LessonID) IsValid() bool {
	return uuidRegex.MatchString(string(l))
}

// String returns the string representation.
func (l LessonID) String() string {
	return string(l)
}

// IsEmpty checks if the ID is empty.
func (l LessonID) IsEmpty() bool {
	return l == ""
}

// ═══════════════════════════════════════════════════════════════════════════
// Percent Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Percent represents a completion percentage in [0, 100],
// rounded to two decimal places.
type Percent float64

// NewPercent computes completed/total as a percentage.
// Returns 0 when total is 0 (empty denominator is defined as zero progress).
func NewPercent(completed, total int) Percent {
	if total <= 0 {
		return 0
	}
	return Percent(roundHalfUp(float64(completed) / float64(total) * 100))
}

// roundHalfUp rounds to 2 decimal places, ties away from zero for
// non-negative input. Matches Postgres ROUND(numeric, 2).
func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// IsValid checks if the percentage is within [0, 100].
func (p Percent) IsValid() bool {
	return p >= 0 && p <= 100
}

// Float64 returns the underlying float64 value.
func (p Percent) Float64() float64 {
	return float64(p)
}

// IsComplete reports whether the percentage is exactly 100.
func (p Percent) IsComplete() bool {
	return p == 100
}
