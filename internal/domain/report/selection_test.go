package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
)

func stats(id string, pct float64) StudentStats {
	return StudentStats{
		Student:    attendance.Student{ID: id},
		Regularity: attendance.RegularityResult{AttendancePercentage: pct, Status: attendance.DefaultPolicy().Classify(pct)},
	}
}

func TestSelectAtRisk_SortsMostCriticalFirst(t *testing.T) {
	students := []StudentStats{
		stats("s1", 90),
		stats("s2", 80),
		stats("s3", 50),
		stats("s4", 80),
		stats("s5", 85),
		{Student: attendance.Student{ID: "s6"}, Error: "report.ComputeStudent: student s6"},
	}

	got := SelectAtRisk(students, attendance.DefaultRegularThreshold)

	assert.Equal(t, []string{"s3", "s2", "s4"}, studentIDs(got))
}

func TestSelectAtRisk_CustomThreshold(t *testing.T) {
	students := []StudentStats{stats("s1", 74.999), stats("s2", 75), stats("s3", 10)}

	got := SelectAtRisk(students, attendance.DefaultAtRiskThreshold)

	assert.Equal(t, []string{"s3", "s1"}, studentIDs(got))
}

func TestCourseReport_AtRiskDefault(t *testing.T) {
	rep := &CourseReport{
		Students:         []StudentStats{stats("s1", 92), stats("s2", 88)},
		RegularThreshold: 90,
	}

	assert.Equal(t, []string{"s2"}, studentIDs(rep.AtRiskDefault()))
	assert.Empty(t, rep.AtRisk(50))
}

func TestCourseReport_FindStudent(t *testing.T) {
	rep := &CourseReport{Students: []StudentStats{stats("s1", 92)}}

	got, ok := rep.FindStudent("s1")
	assert.True(t, ok)
	assert.Equal(t, 92.0, got.Regularity.AttendancePercentage)

	_, ok = rep.FindStudent("nobody")
	assert.False(t, ok)
}
