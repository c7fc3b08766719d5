package report

import "sort"

// SelectAtRisk returns students below threshold, most critical first.
// Ties keep roster order. Failed students are skipped.
func SelectAtRisk(students []StudentStats, threshold float64) []StudentStats {
	out := make([]StudentStats, 0)
	for _, s := range students {
		if s.Failed() {
			continue
		}
		if s.Regularity.AttendancePercentage < threshold {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Regularity.AttendancePercentage < out[j].Regularity.AttendancePercentage
	})
	return out
}

// AtRisk selects the report's students below threshold.
func (r *CourseReport) AtRisk(threshold float64) []StudentStats {
	return SelectAtRisk(r.Students, threshold)
}

// AtRiskDefault selects students below the regular threshold the report was built with.
func (r *CourseReport) AtRiskDefault() []StudentStats {
	return r.AtRisk(r.RegularThreshold)
}
