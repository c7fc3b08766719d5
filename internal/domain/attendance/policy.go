package attendance

import (
	"fmt"
	"math"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// Default institutional thresholds, in percent.
const (
	DefaultRegularThreshold = 85.0
	DefaultAtRiskThreshold  = 75.0
)

// AbsenceWeights is the fraction of a full absence charged per partial state.
// Present, justified and excluded days always weigh zero.
type AbsenceWeights struct {
	Absent       float64 `json:"absent" yaml:"absent"`
	ThreeQuarter float64 `json:"three_quarter_absence" yaml:"three_quarter_absence"`
	Half         float64 `json:"half_absence" yaml:"half_absence"`
	Quarter      float64 `json:"quarter_absence" yaml:"quarter_absence"`
}

// DefaultAbsenceWeights returns 1, 0.75, 0.5 and 0.25.
func DefaultAbsenceWeights() AbsenceWeights {
	return AbsenceWeights{Absent: 1.0, ThreeQuarter: 0.75, Half: 0.5, Quarter: 0.25}
}

// RegularityPolicy is an immutable set of thresholds and absence weights.
// Build it with NewPolicy or DefaultPolicy.
type RegularityPolicy struct {
	regular float64
	atRisk  float64
	weights AbsenceWeights
}

// NewPolicy validates and builds a policy.
func NewPolicy(regularThreshold, atRiskThreshold float64, weights AbsenceWeights) (RegularityPolicy, error) {
	p := RegularityPolicy{regular: regularThreshold, atRisk: atRiskThreshold, weights: weights}
	if err := p.Validate(); err != nil {
		return RegularityPolicy{}, err
	}
	return p, nil
}

// DefaultPolicy returns the 85/75 policy with the standard weights.
func DefaultPolicy() RegularityPolicy {
	return RegularityPolicy{
		regular: DefaultRegularThreshold,
		atRisk:  DefaultAtRiskThreshold,
		weights: DefaultAbsenceWeights(),
	}
}

// Validate checks 0 <= at-risk <= regular <= 100 and every weight in [0, 1].
func (p RegularityPolicy) Validate() error {
	if !inUnit(p.atRisk/100) || !inUnit(p.regular/100) {
		return shared.NewDomainError("attendance", "RegularityPolicy.Validate", shared.ErrValueOutOfRange,
			fmt.Sprintf("thresholds must be within [0, 100], got regular=%g at_risk=%g", p.regular, p.atRisk))
	}
	if p.atRisk > p.regular {
		return shared.NewDomainError("attendance", "RegularityPolicy.Validate", shared.ErrInvalidInput,
			fmt.Sprintf("at-risk threshold %g exceeds regular threshold %g", p.atRisk, p.regular))
	}
	for name, w := range map[string]float64{
		"absent":                p.weights.Absent,
		"three_quarter_absence": p.weights.ThreeQuarter,
		"half_absence":          p.weights.Half,
		"quarter_absence":       p.weights.Quarter,
	} {
		if !inUnit(w) {
			return shared.NewDomainError("attendance", "RegularityPolicy.Validate", shared.ErrValueOutOfRange,
				fmt.Sprintf("weight for %s must be within [0, 1], got %g", name, w))
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// RegularThreshold is the minimum percentage for regular status.
func (p RegularityPolicy) RegularThreshold() float64 { return p.regular }

// AtRiskThreshold is the minimum percentage for at-risk status.
func (p RegularityPolicy) AtRiskThreshold() float64 { return p.atRisk }

// Weights returns a copy of the absence weights.
func (p RegularityPolicy) Weights() AbsenceWeights { return p.weights }

// IsZero reports whether the policy was never initialised.
func (p RegularityPolicy) IsZero() bool {
	return p == RegularityPolicy{}
}

// Weight returns the absence weight charged for one day in state s.
func (p RegularityPolicy) Weight(s State) float64 {
	switch s {
	case StateAbsent:
		return p.weights.Absent
	case StateThreeQuarterAbsence:
		return p.weights.ThreeQuarter
	case StateHalfAbsence:
		return p.weights.Half
	case StateQuarterAbsence:
		return p.weights.Quarter
	default:
		return 0
	}
}

// Classify maps a percentage to a status; the first matching threshold wins.
func (p RegularityPolicy) Classify(pct float64) Status {
	switch {
	case pct >= p.regular:
		return StatusRegular
	case pct >= p.atRisk:
		return StatusAtRisk
	default:
		return StatusWithdrawn
	}
}

// Fingerprint is a stable textual identity of the policy, used in cache keys.
func (p RegularityPolicy) Fingerprint() string {
	return fmt.Sprintf("r%g-a%g-w%g-%g-%g-%g",
		p.regular, p.atRisk, p.weights.Absent, p.weights.ThreeQuarter, p.weights.Half, p.weights.Quarter)
}
