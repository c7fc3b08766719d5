package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveReport(t *testing.T) {
	c := NewCollector()

	c.ObserveReport("success", 20*time.Millisecond)
	c.ObserveReport("success", 30*time.Millisecond)
	c.ObserveReport("error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.reports.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reports.WithLabelValues("error")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_ObserveStudentFailures(t *testing.T) {
	c := NewCollector()

	c.ObserveStudentFailures("c-1", 2)
	c.ObserveStudentFailures("c-1", 0)
	c.ObserveStudentFailures("c-1", 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.studentFailures.WithLabelValues("c-1")))
}

func TestCollector_ObserveStatus(t *testing.T) {
	c := NewCollector()

	c.ObserveStatus("c-1", 5, 2, 1)
	c.ObserveStatus("c-1", 4, 3, 1)

	expected := `
# HELP attendance_regularity_students Students per regularity status in the last computed report.
# TYPE attendance_regularity_students gauge
attendance_regularity_students{course_id="c-1",status="at_risk"} 3
attendance_regularity_students{course_id="c-1",status="regular"} 4
attendance_regularity_students{course_id="c-1",status="withdrawn"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "attendance_regularity_students"))
}
