package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPOSITORY
// Implements attendance.RecordSource and attendance.RosterSource.
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRepository reads courses, rosters and attendance rows.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// GetCourse returns a course by id.
func (r *AttendanceRepository) GetCourse(ctx context.Context, courseID string) (*attendance.Course, error) {
	var c attendance.Course
	err := r.conn.QueryRow(ctx, `SELECT id, name FROM courses WHERE id = $1`, courseID).Scan(&c.ID, &c.Name)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError("postgres", "GetCourse", shared.ErrNotFound,
				fmt.Sprintf("course %s not found", courseID))
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

// ActiveRoster returns the course's active enrollments ordered by surname, given name.
func (r *AttendanceRepository) ActiveRoster(ctx context.Context, courseID string) ([]attendance.Student, error) {
	query := `
		SELECT s.id, s.given_name, s.surname, COALESCE(s.document_id, '')
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		WHERE e.course_id = $1 AND e.status = 'active'
		ORDER BY s.surname, s.given_name, s.id
	`

	rows, err := r.conn.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	students := make([]attendance.Student, 0)
	for rows.Next() {
		var s attendance.Student
		if err := rows.Scan(&s.ID, &s.GivenName, &s.Surname, &s.DocumentID); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// FindCourseRecords returns every row of the course dated within the window.
func (r *AttendanceRepository) FindCourseRecords(ctx context.Context, courseID string, window attendance.DateRange) ([]attendance.Record, error) {
	query := `
		SELECT student_id, course_id, date, state,
		       justification_reason, exclusion_reason, other_reason_text
		FROM attendance_records
		WHERE course_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, student_id
	`

	rows, err := r.conn.Query(ctx, query, courseID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(
			&row.StudentID, &row.CourseID, &row.Date, &row.State,
			&row.JustificationReason, &row.ExclusionReason, &row.OtherReasonText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, row.toRecord())
	}
	return records, rows.Err()
}

// recordRow mirrors an attendance_records row.
type recordRow struct {
	StudentID           string
	CourseID            string
	Date                time.Time
	State               string
	JustificationReason *string
	ExclusionReason     *string
	OtherReasonText     *string
}

// toRecord normalises legacy state codes and drops blank optional text.
// Unknown states are kept so aggregation can reject them.
func (row recordRow) toRecord() attendance.Record {
	return attendance.Record{
		StudentID:           row.StudentID,
		CourseID:            row.CourseID,
		Date:                time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), 0, 0, 0, 0, time.UTC),
		State:               attendance.NormalizeState(row.State),
		JustificationReason: nonBlank(row.JustificationReason),
		ExclusionReason:     nonBlank(row.ExclusionReason),
		OtherReasonText:     nonBlank(row.OtherReasonText),
	}
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
