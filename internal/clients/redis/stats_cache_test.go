package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/courseware-backend/internal/observability"
)

func unreachableClient(t *testing.T) goredis.UniversalClient {
	t.Helper()
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNilCourseStatsCacheIsMiss(t *testing.T) {
	var c *CourseStatsCache
	var out map[string]int
	ok, err := c.Get(context.Background(), 1, &out)
	if ok || err != nil {
		t.Fatalf("nil cache Get: ok=%v err=%v", ok, err)
	}
	if err := c.Set(context.Background(), 1, map[string]int{"a": 1}); err != nil {
		t.Fatalf("nil cache Set: %v", err)
	}
	c.InvalidateCourse(context.Background(), 1)

	if NewCourseStatsCache(nil, time.Minute, nil, nil) != nil {
		t.Fatalf("constructor without client should return nil")
	}
}

func TestCourseStatsCacheKeyAndDefaults(t *testing.T) {
	c := NewCourseStatsCache(unreachableClient(t), 0, nil, nil)
	if c.ttl != defaultStatsTTL {
		t.Fatalf("ttl: want=%s got=%s", defaultStatsTTL, c.ttl)
	}
	if got := c.key(42); got != "cw:course_stats:42" {
		t.Fatalf("key: got=%q", got)
	}
}

func TestCourseStatsCacheUnavailable(t *testing.T) {
	m := observability.NewMetrics()
	c := NewCourseStatsCache(unreachableClient(t), time.Minute, nil, m)
	ctx := context.Background()

	var out map[string]int
	ok, err := c.Get(ctx, 7, &out)
	if ok || err == nil {
		t.Fatalf("Get against unreachable redis: ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, 7, map[string]int{"lessons": 3}); err == nil {
		t.Fatalf("Set against unreachable redis should fail")
	}
	c.InvalidateCourse(ctx, 7)

	expected := `
# HELP cw_course_stats_cache_total Course stats cache lookups by result.
# TYPE cw_course_stats_cache_total counter
cw_course_stats_cache_total{result="error"} 3
`
	if err := promtestutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "cw_course_stats_cache_total"); err != nil {
		t.Fatalf("cache metrics: %v", err)
	}
}
