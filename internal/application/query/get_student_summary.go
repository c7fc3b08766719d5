package query

import (
	"context"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT SUMMARY QUERY
// One student's tally and regularity within a course report.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentSummaryQuery identifies the student and window.
type GetStudentSummaryQuery struct {
	CourseID  string
	StudentID string
	Range     attendance.DateRange
}

// Validate checks the query parameters.
func (q *GetStudentSummaryQuery) Validate() error {
	id, err := shared.NewStudentID(q.StudentID)
	if err != nil {
		return err
	}
	q.StudentID = id.String()
	return nil
}

// StudentSummary is one student's standing for a window.
type StudentSummary struct {
	Course           attendance.Course    `json:"course"`
	Range            attendance.DateRange `json:"range"`
	BusinessDays     int                  `json:"business_days"`
	Stats            report.StudentStats  `json:"stats"`
	RegularThreshold float64              `json:"regular_threshold"`
	AtRiskThreshold  float64              `json:"at_risk_threshold"`
}

// GetStudentSummaryHandler handles student summary queries.
type GetStudentSummaryHandler struct {
	reports *GetCourseReportHandler
}

// NewGetStudentSummaryHandler creates a new handler.
func NewGetStudentSummaryHandler(reports *GetCourseReportHandler) *GetStudentSummaryHandler {
	return &GetStudentSummaryHandler{reports: reports}
}

// Handle executes the query. A student who is not on the active roster is not found.
func (h *GetStudentSummaryHandler) Handle(ctx context.Context, query GetStudentSummaryQuery) (*StudentSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStudentSummary", shared.ErrValidation, err.Error(), err)
	}

	rep, err := h.reports.Handle(ctx, GetCourseReportQuery{CourseID: query.CourseID, Range: query.Range})
	if err != nil {
		return nil, err
	}

	stats, ok := rep.FindStudent(query.StudentID)
	if !ok {
		return nil, shared.NewDomainError("query", "GetStudentSummary", shared.ErrNotFound,
			"student "+query.StudentID+" is not enrolled in course "+rep.Course.ID)
	}

	return &StudentSummary{
		Course:           rep.Course,
		Range:            rep.Range,
		BusinessDays:     rep.BusinessDays,
		Stats:            stats,
		RegularThreshold: h.reports.Policy().RegularThreshold(),
		AtRiskThreshold:  h.reports.Policy().AtRiskThreshold(),
	}, nil
}
