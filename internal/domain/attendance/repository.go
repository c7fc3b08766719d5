package attendance

import "context"

// RecordSource supplies attendance rows. Implemented in infrastructure.
type RecordSource interface {
	// FindCourseRecords returns every row of the course whose date falls in the window.
	FindCourseRecords(ctx context.Context, courseID string, window DateRange) ([]Record, error)
}

// RosterSource supplies courses and their enrolled students.
type RosterSource interface {
	// GetCourse returns the course or an error matching shared.ErrNotFound.
	GetCourse(ctx context.Context, courseID string) (*Course, error)

	// ActiveRoster returns currently enrolled students ordered by surname, given name.
	ActiveRoster(ctx context.Context, courseID string) ([]Student, error)
}
