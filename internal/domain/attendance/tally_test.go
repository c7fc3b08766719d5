package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

func rec(student string, day int, st State) Record {
	return Record{
		StudentID: student,
		CourseID:  "c-1",
		Date:      timeutil.Date(2025, 3, day),
		State:     st,
	}
}

func TestAggregate_CountsEveryState(t *testing.T) {
	records := []Record{
		rec("s1", 3, StatePresent),
		rec("s1", 4, StatePresent),
		rec("s1", 5, StateAbsent),
		rec("s1", 6, StateThreeQuarterAbsence),
		rec("s1", 7, StateHalfAbsence),
		rec("s2", 3, StateQuarterAbsence),
		rec("s2", 4, StateJustified),
		rec("s2", 5, StateExcluded),
	}

	c, err := Aggregate(records)
	require.NoError(t, err)

	assert.Equal(t, Counts{
		Present:             2,
		Absent:              1,
		ThreeQuarterAbsence: 1,
		HalfAbsence:         1,
		QuarterAbsence:      1,
		Justified:           1,
		Excluded:            1,
		Total:               8,
	}, c)

	sum := 0
	for _, st := range AllStates() {
		sum += c.Get(st)
	}
	assert.Equal(t, c.Total, sum)

	p := c.Percentages()
	assert.Equal(t, 25.0, p.Present)
	assert.Equal(t, 12.5, p.Excluded)
}

func TestAggregate_UnknownStateIsDataIntegrityError(t *testing.T) {
	records := []Record{
		rec("s1", 3, StatePresent),
		rec("s1", 4, State("tardanza")),
	}

	_, err := Aggregate(records)
	require.Error(t, err)
	assert.True(t, shared.IsDataIntegrity(err))
	assert.Contains(t, err.Error(), "tardanza")
	assert.Contains(t, err.Error(), "s1")
	assert.Contains(t, err.Error(), "2025-03-04")
}

func TestCounts_PercentagesZeroTotal(t *testing.T) {
	c, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, Percentages{}, c.Percentages())
}

func TestNewTally_ComputableDays(t *testing.T) {
	tally := NewTally("s1", Counts{Excluded: 5, Absent: 2, Total: 7}, 20)
	assert.Equal(t, 20, tally.BusinessDays)
	assert.Equal(t, 15, tally.ComputableDays)
}

func TestParseState(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{"present", StatePresent},
		{"presente", StatePresent},
		{"ausente", StateAbsent},
		{"tres_cuartos_falta", StateThreeQuarterAbsence},
		{"media_falta", StateHalfAbsence},
		{"cuarto_falta", StateQuarterAbsence},
		{" JUSTIFICADA ", StateJustified},
		{"no_computa", StateExcluded},
		{"excluded", StateExcluded},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseState("late")
	assert.True(t, shared.IsDataIntegrity(err))

	assert.Equal(t, State("late"), NormalizeState("late"))
	assert.False(t, StateExcluded.CountsTowardDenominator())
	assert.True(t, StateJustified.CountsTowardDenominator())
}
