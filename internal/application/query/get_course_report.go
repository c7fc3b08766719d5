// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/pkg/logger"
	"github.com/school-hub/attendance-regularity/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE REPORT QUERY
// Fetches the roster and attendance rows of a course, then assembles the
// regularity report. Every other query in this package builds on it.
// ══════════════════════════════════════════════════════════════════════════════

// Report outcomes recorded by ReportMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)

// DefaultReportCacheTTL is used when no TTL option is given.
const DefaultReportCacheTTL = 10 * time.Minute

// GetCourseReportQuery contains the parameters of a course report.
type GetCourseReportQuery struct {
	CourseID string
	Range    attendance.DateRange

	// SkipCache forces a fresh computation; the result is still cached.
	SkipCache bool
}

// Validate checks the query parameters.
func (q *GetCourseReportQuery) Validate() error {
	id, err := shared.NewCourseID(q.CourseID)
	if err != nil {
		return err
	}
	q.CourseID = id.String()
	return nil
}

// ReportMetrics receives report computation measurements.
type ReportMetrics interface {
	ObserveReport(outcome string, elapsed time.Duration)
	ObserveStudentFailures(courseID string, n int)
	ObserveStatus(courseID string, regular, atRisk, withdrawn int)
}

// GetCourseReportHandler handles course report queries.
type GetCourseReportHandler struct {
	roster  attendance.RosterSource
	records attendance.RecordSource
	policy  attendance.RegularityPolicy
	log     *logger.Logger

	// ── optional ──
	cache         report.Cache
	cacheTTL      time.Duration
	runs          report.RunStore
	metrics       ReportMetrics
	retrier       *retry.Retrier
	justification attendance.ReasonCatalog
	exclusion     attendance.ReasonCatalog
	now           func() time.Time
}

// ReportOption configures a GetCourseReportHandler.
type ReportOption func(*GetCourseReportHandler)

// WithReportCache caches reports for ttl.
func WithReportCache(c report.Cache, ttl time.Duration) ReportOption {
	return func(h *GetCourseReportHandler) {
		h.cache = c
		if ttl > 0 {
			h.cacheTTL = ttl
		}
	}
}

// WithRunStore records every computed report.
func WithRunStore(s report.RunStore) ReportOption {
	return func(h *GetCourseReportHandler) { h.runs = s }
}

// WithMetrics records computation metrics.
func WithMetrics(m ReportMetrics) ReportOption {
	return func(h *GetCourseReportHandler) { h.metrics = m }
}

// WithRetrier replaces the retrier used around source fetches.
func WithRetrier(r *retry.Retrier) ReportOption {
	return func(h *GetCourseReportHandler) { h.retrier = r }
}

// WithReasonCatalogs replaces the predefined reason label tables.
func WithReasonCatalogs(justification, exclusion attendance.ReasonCatalog) ReportOption {
	return func(h *GetCourseReportHandler) {
		h.justification = justification
		h.exclusion = exclusion
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ReportOption {
	return func(h *GetCourseReportHandler) { h.now = now }
}

// NewGetCourseReportHandler creates a new handler.
func NewGetCourseReportHandler(
	roster attendance.RosterSource,
	records attendance.RecordSource,
	policy attendance.RegularityPolicy,
	log *logger.Logger,
	opts ...ReportOption,
) *GetCourseReportHandler {
	if policy.IsZero() {
		policy = attendance.DefaultPolicy()
	}
	if log == nil {
		log = logger.Default()
	}
	h := &GetCourseReportHandler{
		roster:   roster,
		records:  records,
		policy:   policy,
		log:      log.With(logger.Component("course_report")),
		cacheTTL: DefaultReportCacheTTL,
		retrier:  retry.SourceRetrier(3, 100*time.Millisecond),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Policy returns the regularity policy reports are built with.
func (h *GetCourseReportHandler) Policy() attendance.RegularityPolicy {
	return h.policy
}

// InvalidateCourse drops the cached reports of a course, for every window and
// policy. It is a no-op without a cache.
func (h *GetCourseReportHandler) InvalidateCourse(ctx context.Context, courseID string) error {
	id, err := shared.NewCourseID(courseID)
	if err != nil {
		return err
	}
	if h.cache == nil {
		return nil
	}
	return h.cache.InvalidateCourse(ctx, id.String())
}

// Handle executes the query.
func (h *GetCourseReportHandler) Handle(ctx context.Context, query GetCourseReportQuery) (*report.CourseReport, error) {
	const op = "GetCourseReport"

	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", op, shared.ErrValidation, err.Error(), err)
	}
	if err := query.Range.Validate(); err != nil {
		return nil, err
	}

	started := h.now()
	log := h.log.With(logger.CourseID(query.CourseID), logger.Period(query.Range.Start, query.Range.End))
	key := report.CacheKey{CourseID: query.CourseID, Range: query.Range, PolicyFingerprint: h.policy.Fingerprint()}

	if h.cache != nil && !query.SkipCache {
		cached, err := h.cache.Get(ctx, key)
		switch {
		case err == nil:
			h.observe(OutcomeCacheHit, started)
			log.Debug("course report served from cache")
			return cached, nil
		case !errors.Is(err, report.ErrCacheMiss):
			log.Warn("report cache read failed", logger.Err(err))
		}
	}

	in, err := h.fetch(ctx, query.CourseID, query.Range)
	if err != nil {
		h.observe(OutcomeError, started)
		log.Error("course report fetch failed", logger.Err(err))
		return nil, err
	}

	rep, err := report.Assemble(in)
	if err != nil {
		h.observe(OutcomeError, started)
		log.Error("course report aborted", logger.Err(err))
		return nil, err
	}

	for _, s := range rep.FailedStudents() {
		log.Warn("student regularity not computed", logger.StudentID(s.Student.ID), logger.Err(s.Err))
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, rep, h.cacheTTL); err != nil {
			log.Warn("report cache write failed", logger.Err(err))
		}
	}
	if h.runs != nil {
		if err := h.runs.Save(ctx, report.NewRun(rep)); err != nil {
			log.Warn("report run not recorded", logger.Err(err))
		}
	}

	h.observe(OutcomeSuccess, started)
	if h.metrics != nil {
		h.metrics.ObserveStudentFailures(query.CourseID, rep.FailedCount)
		h.metrics.ObserveStatus(query.CourseID, rep.RegularCount, rep.AtRiskCount, rep.WithdrawnCount)
	}

	log.Info("course report built",
		logger.Int("students", rep.TotalStudents),
		logger.Int("failed", rep.FailedCount),
		logger.Float64("regular_pct", rep.RegularPct),
		logger.Latency(h.now().Sub(started)),
	)
	return rep, nil
}

// fetch loads the course, its roster and its rows. A missing course is
// reported as not found; any other failure is a SourceUnavailable error.
func (h *GetCourseReportHandler) fetch(ctx context.Context, courseID string, window attendance.DateRange) (report.Input, error) {
	const op = "GetCourseReport.fetch"

	course, err := retry.DoWithData(ctx, h.retrier, func(ctx context.Context) (*attendance.Course, error) {
		c, err := h.roster.GetCourse(ctx, courseID)
		if shared.IsNotFound(err) {
			return nil, retry.Permanent(err)
		}
		return c, err
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return report.Input{}, shared.WrapError("query", op, shared.ErrNotFound, "course not found", err)
		}
		return report.Input{}, shared.SourceUnavailable(op, "fetch course", err)
	}
	if course == nil {
		return report.Input{}, shared.NewDomainError("query", op, shared.ErrNotFound, "course not found")
	}

	var (
		students []attendance.Student
		rows     []attendance.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = retry.DoWithData(gctx, h.retrier, func(ctx context.Context) ([]attendance.Student, error) {
			return h.roster.ActiveRoster(ctx, courseID)
		})
		if err != nil {
			return shared.SourceUnavailable(op, "fetch roster", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = retry.DoWithData(gctx, h.retrier, func(ctx context.Context) ([]attendance.Record, error) {
			return h.records.FindCourseRecords(ctx, courseID, window)
		})
		if err != nil {
			return shared.SourceUnavailable(op, "fetch attendance records", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.Input{}, err
	}

	return report.Input{
		Course:               *course,
		Range:                window,
		Roster:               students,
		Records:              rows,
		Policy:               h.policy,
		JustificationCatalog: h.justification,
		ExclusionCatalog:     h.exclusion,
		Now:                  h.now,
	}, nil
}

func (h *GetCourseReportHandler) observe(outcome string, started time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveReport(outcome, h.now().Sub(started))
	}
}
