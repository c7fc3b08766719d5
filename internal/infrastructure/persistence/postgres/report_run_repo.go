package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT RUN REPOSITORY
// Implements report.RunStore: an audit trail of generated reports.
// ══════════════════════════════════════════════════════════════════════════════

// ReportRunRepository stores report runs with their JSON payload.
type ReportRunRepository struct {
	conn *Connection
}

// NewReportRunRepository creates a new ReportRunRepository.
func NewReportRunRepository(conn *Connection) *ReportRunRepository {
	return &ReportRunRepository{conn: conn}
}

// Save inserts a run. Saving the same id twice is an ErrAlreadyExists error.
func (r *ReportRunRepository) Save(ctx context.Context, run report.Run) error {
	payload, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	query := `
		INSERT INTO report_runs (
			id, course_id, range_start, range_end, generated_at,
			total_students, regular_count, at_risk_count, withdrawn_count, failed_count, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	err = r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			run.ID,
			run.CourseID,
			run.Range.Start,
			run.Range.End,
			run.GeneratedAt,
			run.TotalStudents,
			run.RegularCount,
			run.AtRiskCount,
			run.WithdrawnCount,
			run.FailedCount,
			payload,
		)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("postgres", "SaveReportRun", shared.ErrAlreadyExists, "report run already recorded", err)
		}
		return fmt.Errorf("failed to save report run: %w", err)
	}
	return nil
}

// ListByCourse returns the most recent runs of a course, newest first.
func (r *ReportRunRepository) ListByCourse(ctx context.Context, courseID string, limit int) ([]report.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, course_id, generated_at,
		       total_students, regular_count, at_risk_count, withdrawn_count, failed_count, payload
		FROM report_runs
		WHERE course_id = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer rows.Close()

	runs := make([]report.Run, 0)
	for rows.Next() {
		var (
			run     report.Run
			payload []byte
		)
		if err := rows.Scan(
			&run.ID, &run.CourseID, &run.GeneratedAt,
			&run.TotalStudents, &run.RegularCount, &run.AtRiskCount, &run.WithdrawnCount, &run.FailedCount,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}

		var rep report.CourseReport
		if err := json.Unmarshal(payload, &rep); err != nil {
			return nil, fmt.Errorf("failed to decode report payload %s: %w", run.ID, err)
		}
		run.Report = &rep
		run.Range = rep.Range
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
