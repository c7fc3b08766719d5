package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/school-hub/attendance-regularity/internal/application/query"
	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/internal/infrastructure/persistence/postgres"
	"github.com/school-hub/attendance-regularity/pkg/logger"
)

type rootOptions struct {
	logLevel   string
	policyFile string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Attendance regularity reports",
		Long: `Regularity turns daily attendance rows into weighted absence totals,
regularity status, weekday distributions and reason rankings for a course
and date window. Every command prints JSON on stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.policyFile, "policy-file", "", "YAML regularity policy; overrides POLICY_FILE")

	cmd.AddCommand(
		reportCmd(opts),
		atRiskCmd(opts),
		compareCmd(opts),
		studentCmd(opts),
		runsCmd(opts),
		invalidateCmd(opts),
		migrateCmd(opts),
		versionCmd(),
	)
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

type windowFlags struct {
	course string
	from   string
	to     string
}

func (w *windowFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.course, "course", "", "Course id")
	cmd.Flags().StringVar(&w.from, "from", "", "First day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&w.to, "to", "", "Last day of the window (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func (w *windowFlags) window() (attendance.DateRange, error) {
	return attendance.ParseDateRange(w.from, w.to)
}

func reportCmd(root *rootOptions) *cobra.Command {
	var (
		w       windowFlags
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Full course report for a date window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := w.window()
			if err != nil {
				return err
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				rep, err := a.reports.Handle(ctx, query.GetCourseReportQuery{
					CourseID:  w.course,
					Range:     window,
					SkipCache: noCache,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
	w.bind(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Recompute even if a cached report exists")
	return cmd
}

func atRiskCmd(root *rootOptions) *cobra.Command {
	var (
		w         windowFlags
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "at-risk",
		Short: "Students below a regularity threshold, worst first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := w.window()
			if err != nil {
				return err
			}
			q := query.GetAtRiskStudentsQuery{CourseID: w.course, Range: window}
			if cmd.Flags().Changed("threshold") {
				q.Threshold = &threshold
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				res, err := query.NewGetAtRiskStudentsHandler(a.reports).Handle(ctx, q)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	w.bind(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Threshold in percent (defaults to the policy's regular threshold)")
	return cmd
}

func compareCmd(root *rootOptions) *cobra.Command {
	var course, from1, to1, from2, to2 string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the general attendance of two windows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p1, err := attendance.ParseDateRange(from1, to1)
			if err != nil {
				return fmt.Errorf("period 1: %w", err)
			}
			p2, err := attendance.ParseDateRange(from2, to2)
			if err != nil {
				return fmt.Errorf("period 2: %w", err)
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				res, err := query.NewComparePeriodsHandler(a.reports).Handle(ctx, query.ComparePeriodsQuery{
					CourseID: course,
					Period1:  p1,
					Period2:  p2,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "Course id")
	cmd.Flags().StringVar(&from1, "from1", "", "First day of period 1")
	cmd.Flags().StringVar(&to1, "to1", "", "Last day of period 1")
	cmd.Flags().StringVar(&from2, "from2", "", "First day of period 2")
	cmd.Flags().StringVar(&to2, "to2", "", "Last day of period 2")
	for _, name := range []string{"course", "from1", "to1", "from2", "to2"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func studentCmd(root *rootOptions) *cobra.Command {
	var (
		w       windowFlags
		student string
	)
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Statistics of one student of a course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := w.window()
			if err != nil {
				return err
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				res, err := query.NewGetStudentSummaryHandler(a.reports).Handle(ctx, query.GetStudentSummaryQuery{
					CourseID:  w.course,
					StudentID: student,
					Range:     window,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	w.bind(cmd)
	cmd.Flags().StringVar(&student, "student", "", "Student id")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// MAINTENANCE COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func runsCmd(root *rootOptions) *cobra.Command {
	var (
		course string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded report runs of a course, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				runs, err := a.runs.ListByCourse(ctx, course, limit)
				if err != nil {
					return err
				}
				type runView struct {
					ID             string               `json:"id"`
					Range          attendance.DateRange `json:"range"`
					GeneratedAt    string               `json:"generated_at"`
					TotalStudents  int                  `json:"total_students"`
					RegularCount   int                  `json:"regular_count"`
					AtRiskCount    int                  `json:"at_risk_count"`
					WithdrawnCount int                  `json:"withdrawn_count"`
					FailedCount    int                  `json:"failed_count"`
				}
				out := make([]runView, 0, len(runs))
				for _, r := range runs {
					out = append(out, runView{
						ID:             r.ID.String(),
						Range:          r.Range,
						GeneratedAt:    r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
						TotalStudents:  r.TotalStudents,
						RegularCount:   r.RegularCount,
						AtRiskCount:    r.AtRiskCount,
						WithdrawnCount: r.WithdrawnCount,
						FailedCount:    r.FailedCount,
					})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "Course id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func invalidateCmd(root *rootOptions) *cobra.Command {
	var course string
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop every cached report of a course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				if err := a.reports.InvalidateCourse(ctx, course); err != nil {
					return err
				}
				a.log.Info("course cache invalidated", logger.CourseID(course))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "Course id")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func migrateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or list database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			log := newLogger(cfg).With(logger.Operation("migrate"))
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.App.CommandTimeout)
			defer cancel()

			db, err := openDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			m := postgres.NewMigrator(db)
			switch action {
			case "down":
				if err := m.Rollback(ctx); err != nil {
					return err
				}
				log.Info("rolled back latest migration")
				return nil
			case "status":
				status, err := m.Status(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), status)
			default:
				applied, err := m.Migrate(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations applied", logger.Int("count", len(applied)), logger.Any("versions", applied))
				return nil
			}
		},
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// withApp loads configuration, wires the infrastructure and runs fn under the
// command timeout.
func withApp(cmd *cobra.Command, root *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log := newLogger(cfg).With(logger.Operation(cmd.Name()))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.App.CommandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := fn(ctx, a); err != nil {
		log.Error("command failed", logger.Err(err))
		return err
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode maps error kinds to process exit codes: 2 for bad input,
// 3 for unknown courses or students, 4 for unreachable data sources.
func exitCode(err error) int {
	switch {
	case shared.IsValidation(err), shared.IsInvalidRange(err):
		return 2
	case shared.IsNotFound(err):
		return 3
	case shared.IsSourceUnavailable(err), errors.Is(err, context.DeadlineExceeded):
		return 4
	case strings.HasPrefix(err.Error(), "required flag"), strings.HasPrefix(err.Error(), "unknown"):
		return 2
	default:
		return 1
	}
}
