// Package report composes attendance tallies and regularity results into
// per-course reports, at-risk lists and period comparisons.
// Every function here is pure; fetching lives behind attendance.RecordSource
// and attendance.RosterSource.
package report

import (
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
)

// ═══════════════════════════════════════════════════════════════════════════
// Report types
// ═══════════════════════════════════════════════════════════════════════════

// StudentStats is one roster entry with its tally and regularity.
// A failed computation carries a zeroed tally, an empty result and Err.
type StudentStats struct {
	Student    attendance.Student          `json:"student"`
	Tally      attendance.Tally            `json:"tally"`
	Regularity attendance.RegularityResult `json:"regularity"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the student's computation was isolated as a failure.
func (s StudentStats) Failed() bool {
	return s.Error != ""
}

// GeneralStats is the course-wide state distribution.
type GeneralStats struct {
	Counts      attendance.Counts      `json:"counts"`
	Percentages attendance.Percentages `json:"percentages"`
}

// CourseReport is built fresh per request and must not be mutated once returned.
type CourseReport struct {
	Course       attendance.Course    `json:"course"`
	Range        attendance.DateRange `json:"range"`
	BusinessDays int                  `json:"business_days"`

	General   GeneralStats               `json:"general"`
	Students  []StudentStats             `json:"students"`
	ByWeekday [7]attendance.WeekdayStats `json:"by_weekday"`

	TopJustificationReasons []attendance.ReasonCount `json:"top_justification_reasons"`
	TopExclusionReasons     []attendance.ReasonCount `json:"top_exclusion_reasons"`

	// ── Summary ──
	TotalStudents  int     `json:"total_students"`
	RegularCount   int     `json:"regular_count"`
	AtRiskCount    int     `json:"at_risk_count"`
	WithdrawnCount int     `json:"withdrawn_count"`
	FailedCount    int     `json:"failed_count"`
	RegularPct     float64 `json:"regular_pct"`
	AtRiskPct      float64 `json:"at_risk_pct"`
	WithdrawnPct   float64 `json:"withdrawn_pct"`

	// RegularThreshold is the policy boundary used to build the report.
	RegularThreshold float64   `json:"regular_threshold"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// FindStudent returns the stats of one student, if present on the roster.
func (r *CourseReport) FindStudent(studentID string) (StudentStats, bool) {
	for _, s := range r.Students {
		if s.Student.ID == studentID {
			return s, true
		}
	}
	return StudentStats{}, false
}

// FailedStudents returns the students whose computation was isolated.
func (r *CourseReport) FailedStudents() []StudentStats {
	var out []StudentStats
	for _, s := range r.Students {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}
