package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-hub/attendance-regularity/internal/domain/attendance"
	"github.com/school-hub/attendance-regularity/internal/domain/report"
	"github.com/school-hub/attendance-regularity/pkg/timeutil"
)

func TestReportKey(t *testing.T) {
	window, err := attendance.NewDateRange(timeutil.Date(2025, 3, 3), timeutil.Date(2025, 3, 28))
	require.NoError(t, err)

	key := report.CacheKey{CourseID: "c-1", Range: window, PolicyFingerprint: "r85-a75-w1-0.75-0.5-0.25"}

	assert.Equal(t, "report:c-1:2025-03-03..2025-03-28:r85-a75-w1-0.75-0.5-0.25", ReportKey(key))
	assert.Equal(t, "report:c-1:*", CoursePattern("c-1"))
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
}

func TestCache_ArgumentChecks(t *testing.T) {
	c := NewCacheFromClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	defer c.Close()
	ctx := context.Background()

	assert.ErrorIs(t, c.Set(ctx, "", 1, time.Minute), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, time.Minute), ErrCacheNilValue)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, -time.Second), ErrCacheInvalidTTL)
	assert.ErrorIs(t, c.Get(ctx, "", new(int)), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.DeleteByPattern(ctx, ""), ErrCacheKeyEmpty)
	assert.NoError(t, c.Delete(ctx))
}

func TestReportCache_ClosedClientIsNotAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	require.NoError(t, client.Close())
	rc := NewReportCache(NewCacheFromClient(client))

	_, err := rc.Get(context.Background(), report.CacheKey{CourseID: "c-1"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, report.ErrCacheMiss))
	assert.ErrorIs(t, rc.Set(context.Background(), report.CacheKey{CourseID: "c-1"}, nil, time.Minute), ErrCacheNilValue)
}
