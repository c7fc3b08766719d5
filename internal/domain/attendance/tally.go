package attendance

import (
	"fmt"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Counts
// ═══════════════════════════════════════════════════════════════════════════

// Counts holds the number of records per state.
type Counts struct {
	Present             int `json:"present"`
	Absent              int `json:"absent"`
	ThreeQuarterAbsence int `json:"three_quarter_absence"`
	HalfAbsence         int `json:"half_absence"`
	QuarterAbsence      int `json:"quarter_absence"`
	Justified           int `json:"justified"`
	Excluded            int `json:"excluded"`
	Total               int `json:"total"`
}

// Get returns the count for a state. Unknown states yield 0.
func (c Counts) Get(s State) int {
	switch s {
	case StatePresent:
		return c.Present
	case StateAbsent:
		return c.Absent
	case StateThreeQuarterAbsence:
		return c.ThreeQuarterAbsence
	case StateHalfAbsence:
		return c.HalfAbsence
	case StateQuarterAbsence:
		return c.QuarterAbsence
	case StateJustified:
		return c.Justified
	case StateExcluded:
		return c.Excluded
	}
	return 0
}

// Add increments the bucket of a state and the total.
func (c *Counts) Add(s State) error {
	switch s {
	case StatePresent:
		c.Present++
	case StateAbsent:
		c.Absent++
	case StateThreeQuarterAbsence:
		c.ThreeQuarterAbsence++
	case StateHalfAbsence:
		c.HalfAbsence++
	case StateQuarterAbsence:
		c.QuarterAbsence++
	case StateJustified:
		c.Justified++
	case StateExcluded:
		c.Excluded++
	default:
		return shared.DataIntegrity("Counts.Add", fmt.Sprintf("unknown attendance state %q", string(s)))
	}
	c.Total++
	return nil
}

// Percentages holds 100*count/total per state.
type Percentages struct {
	Present             float64 `json:"present"`
	Absent              float64 `json:"absent"`
	ThreeQuarterAbsence float64 `json:"three_quarter_absence"`
	HalfAbsence         float64 `json:"half_absence"`
	QuarterAbsence      float64 `json:"quarter_absence"`
	Justified           float64 `json:"justified"`
	Excluded            float64 `json:"excluded"`
}

// Percentages derives per-state shares of the total. All zero when Total is 0.
func (c Counts) Percentages() Percentages {
	return Percentages{
		Present:             shared.PercentOf(c.Present, c.Total),
		Absent:              shared.PercentOf(c.Absent, c.Total),
		ThreeQuarterAbsence: shared.PercentOf(c.ThreeQuarterAbsence, c.Total),
		HalfAbsence:         shared.PercentOf(c.HalfAbsence, c.Total),
		QuarterAbsence:      shared.PercentOf(c.QuarterAbsence, c.Total),
		Justified:           shared.PercentOf(c.Justified, c.Total),
		Excluded:            shared.PercentOf(c.Excluded, c.Total),
	}
}

// Aggregate tallies records per state. A record outside the closed state set
// fails the whole aggregation.
func Aggregate(records []Record) (Counts, error) {
	var c Counts
	for _, r := range records {
		if err := c.Add(r.State); err != nil {
			return Counts{}, shared.DataIntegrity("Aggregate",
				fmt.Sprintf("unknown attendance state %q for student %s on %s",
					string(r.State), r.StudentID, timeutil.FormatDate(r.Date)))
		}
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Tally
// ═══════════════════════════════════════════════════════════════════════════

// Tally is a student's counts for a window together with the calendar basis.
type Tally struct {
	StudentID      string `json:"student_id"`
	Counts         Counts `json:"counts"`
	BusinessDays   int    `json:"business_days"`
	ComputableDays int    `json:"computable_days"`
}

// NewTally derives ComputableDays as business days minus excluded days.
func NewTally(studentID string, counts Counts, businessDays int) Tally {
	return Tally{
		StudentID:      studentID,
		Counts:         counts,
		BusinessDays:   businessDays,
		ComputableDays: businessDays - counts.Excluded,
	}
}
