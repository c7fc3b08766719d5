package attendance

import "github.com/school-hub/attendance-regularity/internal/domain/shared"

// Status is a student's formal standing for a window.
type Status string

const (
	StatusRegular   Status = "regular"
	StatusAtRisk    Status = "at_risk"
	StatusWithdrawn Status = "withdrawn"
)

// String returns the wire value.
func (s Status) String() string {
	return string(s)
}

// RegularityResult is derived from a Tally and never stored by the engine.
type RegularityResult struct {
	WeightedAbsences     float64 `json:"weighted_absences"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	Status               Status  `json:"status,omitempty"`
}

// Calculator evaluates tallies against a policy.
type Calculator struct {
	policy RegularityPolicy
}

// NewCalculator creates a calculator. A zero policy falls back to DefaultPolicy.
func NewCalculator(policy RegularityPolicy) Calculator {
	if policy.IsZero() {
		policy = DefaultPolicy()
	}
	return Calculator{policy: policy}
}

// Policy returns the policy used by the calculator.
func (c Calculator) Policy() RegularityPolicy {
	return c.policy
}

// WeightedAbsences sums every partial or full absence times its weight.
// Justified, present and excluded days contribute nothing.
func (c Calculator) WeightedAbsences(counts Counts) float64 {
	return float64(counts.Absent)*c.policy.Weight(StateAbsent) +
		float64(counts.ThreeQuarterAbsence)*c.policy.Weight(StateThreeQuarterAbsence) +
		float64(counts.HalfAbsence)*c.policy.Weight(StateHalfAbsence) +
		float64(counts.QuarterAbsence)*c.policy.Weight(StateQuarterAbsence)
}

// Evaluate computes the regularity of a tally.
//
// With no computable days the student is withdrawn at 0%. Otherwise the
// percentage is 100 * (computable - weighted) / computable, clamped to [0, 100].
func (c Calculator) Evaluate(t Tally) RegularityResult {
	weighted := c.WeightedAbsences(t.Counts)
	computable := t.BusinessDays - t.Counts.Excluded

	if computable <= 0 {
		return RegularityResult{
			WeightedAbsences:     weighted,
			AttendancePercentage: 0,
			Status:               StatusWithdrawn,
		}
	}

	presentEquivalent := float64(computable) - weighted
	pct := shared.ClampPercentage(100 * presentEquivalent / float64(computable)).Float64()

	return RegularityResult{
		WeightedAbsences:     weighted,
		AttendancePercentage: pct,
		Status:               c.policy.Classify(pct),
	}
}

// Evaluate computes the regularity of a tally with DefaultPolicy.
func Evaluate(t Tally) RegularityResult {
	return NewCalculator(DefaultPolicy()).Evaluate(t)
}
