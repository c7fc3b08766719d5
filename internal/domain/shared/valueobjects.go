// Package shared contains common domain types, errors and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"math"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID identifies a student as known to the recording subsystem.
type StudentID string

// IsValid checks if the student ID is non-blank.
func (s StudentID) IsValid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.TrimSpace(id))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewStudentID", ErrEmptyValue, "student ID cannot be empty")
	}
	return sid, nil
}

// CourseID identifies a course (a class group attended daily).
type CourseID string

// IsValid checks if the course ID is non-blank.
func (c CourseID) IsValid() bool {
	return strings.TrimSpace(string(c)) != ""
}

// String returns the string representation.
func (c CourseID) String() string {
	return string(c)
}

// NewCourseID creates a new CourseID with validation.
func NewCourseID(id string) (CourseID, error) {
	cid := CourseID(strings.TrimSpace(id))
	if !cid.IsValid() {
		return "", NewDomainError("shared", "NewCourseID", ErrEmptyValue, "course ID cannot be empty")
	}
	return cid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Percentage Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Percentage is a value in the closed interval [0, 100].
type Percentage float64

// Float64 returns the raw value.
func (p Percentage) Float64() float64 {
	return float64(p)
}

// String formats the percentage with one decimal, e.g. "85.0%".
func (p Percentage) String() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}

// ClampPercentage limits v to [0, 100]. NaN maps to 0.
func ClampPercentage(v float64) Percentage {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return Percentage(v)
	}
}

// PercentOf returns 100*part/total, or 0 when total is not positive.
func PercentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
