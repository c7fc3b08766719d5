package report

// Trend is the direction of the regular share between two periods.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// Comparison holds period 2 minus period 1 deltas of the status shares.
type Comparison struct {
	RegularPctDelta   float64 `json:"regular_pct_delta"`
	AtRiskPctDelta    float64 `json:"at_risk_pct_delta"`
	WithdrawnPctDelta float64 `json:"withdrawn_pct_delta"`
	Trend             Trend   `json:"trend"`
}

// PeriodComparison is the two reports with their comparison.
type PeriodComparison struct {
	Period1    *CourseReport `json:"period_1"`
	Period2    *CourseReport `json:"period_2"`
	Comparison Comparison    `json:"comparison"`
}

// Compare derives deltas and trend from two reports of the same course.
func Compare(p1, p2 *CourseReport) Comparison {
	c := Comparison{
		RegularPctDelta:   p2.RegularPct - p1.RegularPct,
		AtRiskPctDelta:    p2.AtRiskPct - p1.AtRiskPct,
		WithdrawnPctDelta: p2.WithdrawnPct - p1.WithdrawnPct,
	}
	switch {
	case p2.RegularPct > p1.RegularPct:
		c.Trend = TrendImproving
	case p2.RegularPct < p1.RegularPct:
		c.Trend = TrendWorsening
	default:
		c.Trend = TrendStable
	}
	return c
}

// NewPeriodComparison bundles two reports with their comparison.
func NewPeriodComparison(p1, p2 *CourseReport) *PeriodComparison {
	return &PeriodComparison{Period1: p1, Period2: p2, Comparison: Compare(p1, p2)}
}
