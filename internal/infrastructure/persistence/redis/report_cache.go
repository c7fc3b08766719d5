package redis

import (
	"context"
	"errors"
	"time"

	"github.com/school-hub/attendance-regularity/internal/domain/report"
)

// ReportCache implements report.Cache over Cache.
type ReportCache struct {
	cache *Cache
}

// NewReportCache creates a report cache backed by c.
func NewReportCache(c *Cache) *ReportCache {
	return &ReportCache{cache: c}
}

// ReportKey returns the Redis key for a cached report.
func ReportKey(key report.CacheKey) string {
	return PrefixReport + key.String()
}

// CoursePattern matches every cached report of a course.
func CoursePattern(courseID string) string {
	return PrefixReport + courseID + ":*"
}

// Get returns the cached report, or an error matching report.ErrCacheMiss.
func (r *ReportCache) Get(ctx context.Context, key report.CacheKey) (*report.CourseReport, error) {
	var rep report.CourseReport
	if err := r.cache.Get(ctx, ReportKey(key), &rep); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, report.ErrCacheMiss
		}
		return nil, err
	}
	return &rep, nil
}

// Set stores rep under key for ttl.
func (r *ReportCache) Set(ctx context.Context, key report.CacheKey, rep *report.CourseReport, ttl time.Duration) error {
	if rep == nil {
		return ErrCacheNilValue
	}
	return r.cache.Set(ctx, ReportKey(key), rep, ttl)
}

// InvalidateCourse drops every cached report of the course, whatever its window or policy.
func (r *ReportCache) InvalidateCourse(ctx context.Context, courseID string) error {
	return r.cache.DeleteByPattern(ctx, CoursePattern(courseID))
}
