package attendance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

// DateRange is an inclusive window of civil dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a window from two dates, dropping their clock component.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, shared.InvalidRange("NewDateRange", "start and end dates are required")
	}
	r := DateRange{Start: timeutil.CivilDate(start), End: timeutil.CivilDate(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, shared.InvalidRange("NewDateRange",
			fmt.Sprintf("end %s is before start %s", timeutil.FormatDate(r.End), timeutil.FormatDate(r.Start)))
	}
	return r, nil
}

// ParseDateRange builds a window from two Y-m-d strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := timeutil.ParseDate(start)
	if err != nil {
		return DateRange{}, shared.WrapError("attendance", "ParseDateRange", shared.ErrInvalidRange, "malformed start date", err)
	}
	e, err := timeutil.ParseDate(end)
	if err != nil {
		return DateRange{}, shared.WrapError("attendance", "ParseDateRange", shared.ErrInvalidRange, "malformed end date", err)
	}
	return NewDateRange(s, e)
}

// Validate re-checks a range that may have been built without NewDateRange.
func (r DateRange) Validate() error {
	_, err := NewDateRange(r.Start, r.End)
	return err
}

// Days returns the number of calendar days in the window.
func (r DateRange) Days() int {
	return timeutil.DaysBetween(r.Start, r.End) + 1
}

// Contains checks if the civil date of t falls inside the window.
func (r DateRange) Contains(t time.Time) bool {
	d := timeutil.CivilDate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// BusinessDays counts Monday to Friday days in the window, both ends included.
func (r DateRange) BusinessDays() int {
	days := r.Days()
	if days <= 0 {
		return 0
	}

	fullWeeks := days / 7
	count := fullWeeks * 5

	// The remainder spans fewer than seven days starting at the same weekday as Start.
	wd := r.Start.Weekday()
	for i := 0; i < days%7; i++ {
		if d := (wd + time.Weekday(i)) % 7; d != time.Saturday && d != time.Sunday {
			count++
		}
	}
	return count
}

// String formats the window as "start..end".
func (r DateRange) String() string {
	return timeutil.FormatDate(r.Start) + ".." + timeutil.FormatDate(r.End)
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MarshalJSON encodes the window with Y-m-d dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{Start: timeutil.FormatDate(r.Start), End: timeutil.FormatDate(r.End)})
}

// UnmarshalJSON decodes and validates a Y-m-d window.
func (r *DateRange) UnmarshalJSON(data []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDateRange(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CountBusinessDays counts Monday to Friday days between start and end inclusive.
func CountBusinessDays(start, end time.Time) (int, error) {
	r, err := NewDateRange(start, end)
	if err != nil {
		return 0, err
	}
	return r.BusinessDays(), nil
}
