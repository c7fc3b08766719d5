package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
)

// ErrCacheMiss is returned by Cache.Get when no report is stored under the key.
var ErrCacheMiss = errors.New("report: cache miss")

// CacheKey identifies a cached report. Reports built under another policy
// never share a key.
type CacheKey struct {
	CourseID          string
	Range             attendance.DateRange
	PolicyFingerprint string
}

// String returns "course:start..end:fingerprint".
func (k CacheKey) String() string {
	return k.CourseID + ":" + k.Range.String() + ":" + k.PolicyFingerprint
}

// Cache stores computed reports. Implemented in infrastructure (redis).
type Cache interface {
	// Get returns the cached report or an error matching ErrCacheMiss.
	Get(ctx context.Context, key CacheKey) (*CourseReport, error)

	// Set stores the report for ttl.
	Set(ctx context.Context, key CacheKey, rep *CourseReport, ttl time.Duration) error

	// InvalidateCourse drops every cached report of a course.
	InvalidateCourse(ctx context.Context, courseID string) error
}

// Run is an audit entry of a generated report.
type Run struct {
	ID             uuid.UUID
	CourseID       string
	Range          attendance.DateRange
	GeneratedAt    time.Time
	TotalStudents  int
	RegularCount   int
	AtRiskCount    int
	WithdrawnCount int
	FailedCount    int
	Report         *CourseReport
}

// NewRun creates an audit entry for rep with a fresh id.
func NewRun(rep *CourseReport) Run {
	return Run{
		ID:             uuid.New(),
		CourseID:       rep.Course.ID,
		Range:          rep.Range,
		GeneratedAt:    rep.GeneratedAt,
		TotalStudents:  rep.TotalStudents,
		RegularCount:   rep.RegularCount,
		AtRiskCount:    rep.AtRiskCount,
		WithdrawnCount: rep.WithdrawnCount,
		FailedCount:    rep.FailedCount,
		Report:         rep,
	}
}

// RunStore persists report runs. Implemented in infrastructure (postgres).
type RunStore interface {
	Save(ctx context.Context, run Run) error
	ListByCourse(ctx context.Context, courseID string, limit int) ([]Run, error)
}
