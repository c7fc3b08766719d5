package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

func ids(stats []report.StudentStats) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.Student.ID
	}
	return out
}

func TestGetAtRiskStudents(t *testing.T) {
	src, window := fixture()
	h := NewGetAtRiskStudentsHandler(testHandler(src))
	ctx := context.Background()

	res, err := h.Handle(ctx, GetAtRiskStudentsQuery{CourseID: "c-1", Range: window})
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultRegularThreshold, res.Threshold)
	assert.Equal(t, []string{"s-c", "s-b"}, ids(res.Students))

	threshold := 60.0
	res, err = h.Handle(ctx, GetAtRiskStudentsQuery{CourseID: "c-1", Range: window, Threshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, []string{"s-c"}, ids(res.Students))

	bad := 101.0
	_, err = h.Handle(ctx, GetAtRiskStudentsQuery{CourseID: "c-1", Range: window, Threshold: &bad})
	assert.True(t, shared.IsValidation(err))
}

func TestComparePeriods(t *testing.T) {
	src, _ := fixture()
	h := NewComparePeriodsHandler(testHandler(src))

	// Every absence of the fixture falls in the first two weeks.
	p1, err := attendance.ParseDateRange("2025-03-03", "2025-03-14")
	require.NoError(t, err)
	p2, err := attendance.ParseDateRange("2025-03-17", "2025-03-28")
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), ComparePeriodsQuery{CourseID: "c-1", Period1: p1, Period2: p2})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Period1.RegularPct)
	assert.Equal(t, 100.0, res.Period2.RegularPct)
	assert.Equal(t, report.TrendImproving, res.Comparison.Trend)
	assert.Equal(t, 100.0, res.Comparison.RegularPctDelta)
	assert.Equal(t, p1, res.Period1.Range)
	assert.Equal(t, p2, res.Period2.Range)
}

func TestComparePeriods_NamesFailingPeriod(t *testing.T) {
	src, window := fixture()
	h := NewComparePeriodsHandler(testHandler(src))

	_, err := h.Handle(context.Background(), ComparePeriodsQuery{CourseID: "c-1", Period1: window})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period 2")
	assert.True(t, shared.IsInvalidRange(err))

	_, err = h.Handle(context.Background(), ComparePeriodsQuery{CourseID: "c-1", Period2: window})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period 1")
}

func TestGetStudentSummary(t *testing.T) {
	src, window := fixture()
	h := NewGetStudentSummaryHandler(testHandler(src))
	ctx := context.Background()

	res, err := h.Handle(ctx, GetStudentSummaryQuery{CourseID: "c-1", StudentID: "s-b", Range: window})
	require.NoError(t, err)
	assert.Equal(t, "Benítez, Bruno", res.Stats.Student.FullName())
	assert.Equal(t, 80.0, res.Stats.Regularity.AttendancePercentage)
	assert.Equal(t, 4.0, res.Stats.Regularity.WeightedAbsences)
	assert.Equal(t, 20, res.BusinessDays)
	assert.Equal(t, attendance.DefaultAtRiskThreshold, res.AtRiskThreshold)

	_, err = h.Handle(ctx, GetStudentSummaryQuery{CourseID: "c-1", StudentID: "s-z", Range: window})
	assert.True(t, shared.IsNotFound(err))

	_, err = h.Handle(ctx, GetStudentSummaryQuery{CourseID: "c-1", Range: window})
	assert.True(t, shared.IsValidation(err))
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	res, err = h.Handle(ctx, GetStudentSummaryQuery{CourseID: "c-1", StudentID: " s-a ", Range: window})
	require.NoError(t, err)
	assert.Equal(t, "s-a", res.Stats.Student.ID)
}
