package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPARE PERIODS QUERY
// Builds two reports of one course and derives the trend between them.
// The windows may overlap.
// ══════════════════════════════════════════════════════════════════════════════

// ComparePeriodsQuery contains the two windows to compare.
type ComparePeriodsQuery struct {
	CourseID string
	Period1  attendance.DateRange
	Period2  attendance.DateRange
}

// ComparePeriodsHandler handles period comparisons.
type ComparePeriodsHandler struct {
	reports *GetCourseReportHandler
}

// NewComparePeriodsHandler creates a new handler.
func NewComparePeriodsHandler(reports *GetCourseReportHandler) *ComparePeriodsHandler {
	return &ComparePeriodsHandler{reports: reports}
}

// Handle builds both reports concurrently. If either fails the error names the period.
func (h *ComparePeriodsHandler) Handle(ctx context.Context, query ComparePeriodsQuery) (*report.PeriodComparison, error) {
	var p1, p2 *report.CourseReport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep, err := h.reports.Handle(gctx, GetCourseReportQuery{CourseID: query.CourseID, Range: query.Period1})
		if err != nil {
			return shared.WrapError("query", "ComparePeriods", nil, "period 1", err)
		}
		p1 = rep
		return nil
	})
	g.Go(func() error {
		rep, err := h.reports.Handle(gctx, GetCourseReportQuery{CourseID: query.CourseID, Range: query.Period2})
		if err != nil {
			return shared.WrapError("query", "ComparePeriods", nil, "period 2", err)
		}
		p2 = rep
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.NewPeriodComparison(p1, p2), nil
}
