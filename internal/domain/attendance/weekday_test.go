package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

func TestByWeekday(t *testing.T) {
	// 3 March 2025 is a Monday, 8 March a Saturday.
	records := []Record{
		rec("s1", 3, StatePresent),
		rec("s2", 3, StateAbsent),
		rec("s1", 10, StatePresent),
		rec("s1", 5, StateHalfAbsence),
		rec("s1", 8, StateExcluded),
	}

	got, err := ByWeekday(records)
	require.NoError(t, err)

	monday := got[time.Monday]
	assert.Equal(t, "Lunes", monday.Name)
	assert.Equal(t, 3, monday.Counts.Total)
	assert.Equal(t, 2, monday.Counts.Present)
	assert.InDelta(t, 66.666, monday.Percentages.Present, 0.001)

	assert.Equal(t, 1, got[time.Wednesday].Counts.HalfAbsence)
	assert.Equal(t, 100.0, got[time.Saturday].Percentages.Excluded)

	sunday := got[time.Sunday]
	assert.Equal(t, "Domingo", sunday.Name)
	assert.Equal(t, 0, sunday.Counts.Total)
	assert.Equal(t, Percentages{}, sunday.Percentages)

	for i, b := range got {
		assert.Equal(t, time.Weekday(i), b.Weekday)
	}
}

func TestByWeekday_UnknownState(t *testing.T) {
	_, err := ByWeekday([]Record{rec("s1", 3, State("?"))})
	assert.True(t, shared.IsDataIntegrity(err))
}
