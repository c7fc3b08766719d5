package query

import (
	"context"
	"fmt"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AT-RISK STUDENTS QUERY
// Students below a threshold, most critical first.
// ══════════════════════════════════════════════════════════════════════════════

// GetAtRiskStudentsQuery contains the parameters of the at-risk list.
type GetAtRiskStudentsQuery struct {
	CourseID string
	Range    attendance.DateRange

	// Threshold defaults to the policy's regular threshold when nil.
	Threshold *float64
}

// Validate checks the query parameters.
func (q *GetAtRiskStudentsQuery) Validate() error {
	if q.Threshold != nil && (*q.Threshold < 0 || *q.Threshold > 100) {
		return fmt.Errorf("threshold must be within [0, 100], got %g", *q.Threshold)
	}
	return nil
}

// AtRiskResult is the filtered list with the context it was selected in.
type AtRiskResult struct {
	Course    attendance.Course     `json:"course"`
	Range     attendance.DateRange  `json:"range"`
	Threshold float64               `json:"threshold"`
	Students  []report.StudentStats `json:"students"`
}

// GetAtRiskStudentsHandler handles at-risk queries.
type GetAtRiskStudentsHandler struct {
	reports *GetCourseReportHandler
}

// NewGetAtRiskStudentsHandler creates a new handler.
func NewGetAtRiskStudentsHandler(reports *GetCourseReportHandler) *GetAtRiskStudentsHandler {
	return &GetAtRiskStudentsHandler{reports: reports}
}

// Handle executes the query.
func (h *GetAtRiskStudentsHandler) Handle(ctx context.Context, query GetAtRiskStudentsQuery) (*AtRiskResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAtRiskStudents", shared.ErrValidation, err.Error(), err)
	}

	rep, err := h.reports.Handle(ctx, GetCourseReportQuery{CourseID: query.CourseID, Range: query.Range})
	if err != nil {
		return nil, err
	}

	threshold := rep.RegularThreshold
	if query.Threshold != nil {
		threshold = *query.Threshold
	}

	return &AtRiskResult{
		Course:    rep.Course,
		Range:     rep.Range,
		Threshold: threshold,
		Students:  rep.AtRisk(threshold),
	}, nil
}
