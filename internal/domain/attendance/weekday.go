package attendance

import (
	"fmt"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

// WeekdayStats is the distribution of records falling on one weekday.
type WeekdayStats struct {
	Weekday     time.Weekday `json:"weekday"`
	Name        string       `json:"name"`
	Counts      Counts       `json:"counts"`
	Percentages Percentages  `json:"percentages"`
}

// ByWeekday buckets records by the Gregorian weekday of their date,
// Sunday=0 through Saturday=6. Empty buckets report zero percentages.
func ByWeekday(records []Record) ([7]WeekdayStats, error) {
	var out [7]WeekdayStats
	for i := range out {
		wd := time.Weekday(i)
		out[i] = WeekdayStats{Weekday: wd, Name: timeutil.WeekdayNameEs(wd)}
	}

	for _, r := range records {
		wd := r.Date.Weekday()
		if err := out[wd].Counts.Add(r.State); err != nil {
			return [7]WeekdayStats{}, shared.DataIntegrity("ByWeekday",
				fmt.Sprintf("unknown attendance state %q for student %s on %s",
					string(r.State), r.StudentID, timeutil.FormatDate(r.Date)))
		}
	}

	for i := range out {
		out[i].Percentages = out[i].Counts.Percentages()
	}
	return out, nil
}
