package main

import (
	"context"
	"errors"
	"time"

	"github.com/school-hub/attendance-regularity/config"
	"github.com/school-hub/attendance-regularity/internal/application/query"
	"github.com/school-hub/attendance-regularity/internal/domain/shared"
	"github.com/school-hub/attendance-regularity/internal/infrastructure/metrics"
	"github.com/school-hub/attendance-regularity/internal/infrastructure/persistence/postgres"
	"github.com/school-hub/attendance-regularity/internal/infrastructure/persistence/redis"
	"github.com/school-hub/attendance-regularity/pkg/logger"
	"github.com/school-hub/attendance-regularity/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

// app holds the infrastructure shared by every report command.
type app struct {
	cfg *config.Config
	log *logger.Logger

	db      *postgres.Connection
	cache   *redis.Cache
	metrics *metrics.Collector

	attendance *postgres.AttendanceRepository
	runs       *postgres.ReportRunRepository
	reports    *query.GetCourseReportHandler
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Observability.LogLevel = opts.logLevel
	}
	if opts.policyFile != "" {
		pc, err := config.LoadPolicyFile(opts.policyFile)
		if err != nil {
			return nil, err
		}
		cfg.Policy = pc
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	return logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("version", Version),
	)
}

func databaseConfig(cfg config.DatabaseConfig) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.URL = cfg.URL
	pc.MaxConns = int32(cfg.MaxConns)
	pc.MinConns = int32(cfg.MinConns)
	pc.MaxConnLifetime = cfg.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.ConnMaxIdleTime
	pc.ConnectTimeout = cfg.ConnectTimeout
	return pc
}

func redisConfig(cfg config.RedisConfig) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Host
	rc.Port = cfg.Port
	rc.Password = cfg.Password
	rc.DB = cfg.DB
	rc.PoolSize = cfg.PoolSize
	rc.MinIdleConns = cfg.MinIdleConns
	rc.DialTimeout = cfg.DialTimeout
	rc.ReadTimeout = cfg.ReadTimeout
	rc.WriteTimeout = cfg.WriteTimeout
	return rc
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	db, err := postgres.NewConnection(ctx, databaseConfig(cfg.Database))
	if err != nil {
		return nil, shared.SourceUnavailable("cmd.openDatabase", "cannot connect to the attendance database", err)
	}
	log.Debug("connected to PostgreSQL")
	return db, nil
}

// newApp connects to the database and, when available, Redis. A Redis
// outage only disables caching.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	policy, err := cfg.Policy.RegularityPolicy()
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		attendance: postgres.NewAttendanceRepository(db),
		runs:       postgres.NewReportRunRepository(db),
	}

	retrier := retry.New(
		retry.WithMaxAttempts(cfg.Report.FetchAttempts),
		retry.WithInitialDelay(cfg.Report.FetchInitialDelay),
		retry.WithMaxDelay(2*time.Second),
		retry.WithJitter(0.05),
		retry.WithRetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("retrying data source fetch",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)

	opts := []query.ReportOption{query.WithRetrier(retrier)}

	if !cfg.Redis.Disabled {
		cache, err := redis.NewCache(redisConfig(cfg.Redis))
		if err != nil {
			log.Warn("redis unavailable, report cache disabled", logger.Err(err))
		} else {
			a.cache = cache
			opts = append(opts, query.WithReportCache(redis.NewReportCache(cache), cfg.Report.CacheTTL))
		}
	}

	if cfg.Report.RecordRuns {
		opts = append(opts, query.WithRunStore(a.runs))
	}

	if cfg.Observability.MetricsEnabled {
		a.metrics = metrics.NewCollector()
		opts = append(opts, query.WithMetrics(a.metrics))
	}

	a.reports = query.NewGetCourseReportHandler(a.attendance, a.attendance, policy, log, opts...)
	return a, nil
}

// close pushes metrics and releases connections.
func (a *app) close(ctx context.Context) {
	if a.metrics != nil {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := a.metrics.Push(pushCtx, a.cfg.Observability.MetricsPushURL, a.cfg.Observability.MetricsJob); err != nil {
			a.log.Warn("failed to push metrics", logger.Err(err))
		}
		cancel()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("failed to close redis", logger.Err(err))
		}
	}
	a.db.Close()
}
