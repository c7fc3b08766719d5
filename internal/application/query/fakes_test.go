package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/logger"
	"github.com/school-hub/attendance-regularity/pkg/retry"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

// memorySource is an in-memory RosterSource and RecordSource.
type memorySource struct {
	mu      sync.Mutex
	courses map[string]attendance.Course
	roster  map[string][]attendance.Student
	records []attendance.Record

	rosterErr  error
	recordsErr error
	calls      int
}

func newMemorySource() *memorySource {
	return &memorySource{
		courses: map[string]attendance.Course{},
		roster:  map[string][]attendance.Student{},
	}
}

func (m *memorySource) GetCourse(_ context.Context, courseID string) (*attendance.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok {
		return nil, shared.NewDomainError("memory", "GetCourse", shared.ErrNotFound, "course not found")
	}
	return &c, nil
}

func (m *memorySource) ActiveRoster(_ context.Context, courseID string) ([]attendance.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.rosterErr != nil {
		return nil, m.rosterErr
	}
	return m.roster[courseID], nil
}

func (m *memorySource) FindCourseRecords(_ context.Context, courseID string, window attendance.DateRange) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordsErr != nil {
		return nil, m.recordsErr
	}
	var out []attendance.Record
	for _, r := range m.records {
		if r.CourseID == courseID && window.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memorySource) rosterCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// add records one row per workday in [from, to] for a student, absent on the listed days.
func (m *memorySource) add(courseID, studentID string, from, to time.Time, absentDays ...int) {
	absent := map[int]bool{}
	for _, d := range absentDays {
		absent[d] = true
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !timeutil.IsWorkday(d) {
			continue
		}
		st := attendance.StatePresent
		if absent[d.Day()] {
			st = attendance.StateAbsent
		}
		m.records = append(m.records, attendance.Record{StudentID: studentID, CourseID: courseID, Date: d, State: st})
	}
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*report.CourseReport
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*report.CourseReport{}}
}

func (c *memoryCache) Get(_ context.Context, key report.CacheKey) (*report.CourseReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rep, ok := c.entries[key.String()]
	if !ok {
		return nil, report.ErrCacheMiss
	}
	return rep, nil
}

func (c *memoryCache) Set(_ context.Context, key report.CacheKey, rep *report.CourseReport, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = rep
	c.sets++
	return nil
}

func (c *memoryCache) InvalidateCourse(_ context.Context, courseID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, courseID+":") {
			delete(c.entries, k)
		}
	}
	return nil
}

type memoryRuns struct {
	mu   sync.Mutex
	runs []report.Run
	err  error
}

func (s *memoryRuns) Save(_ context.Context, run report.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *memoryRuns) ListByCourse(_ context.Context, courseID string, limit int) ([]report.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []report.Run
	for _, r := range s.runs {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	failures int
}

func (m *recordingMetrics) ObserveReport(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObserveStudentFailures(_ string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures += n
}

func (m *recordingMetrics) ObserveStatus(string, int, int, int) {}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connection refused")

func fastRetrier() *retry.Retrier {
	return retry.SourceRetrier(2, time.Millisecond)
}

func testHandler(src *memorySource, opts ...ReportOption) *GetCourseReportHandler {
	opts = append([]ReportOption{
		WithRetrier(fastRetrier()),
		WithClock(func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }),
	}, opts...)
	return NewGetCourseReportHandler(src, src, attendance.DefaultPolicy(), logger.Discard(), opts...)
}
