package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

const (
	defaultStatsTTL    = 5 * time.Minute
	defaultStatsPrefix = "cw:course_stats:"
)

// CourseStatsCache stores JSON encoded course stats keyed by course id. A nil
// cache is valid and behaves as a permanent miss.
type CourseStatsCache struct {
	rdb     goredis.UniversalClient
	log     *logger.Logger
	metrics *observability.Metrics
	ttl     time.Duration
	prefix  string
}

func NewCourseStatsCache(rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger, metrics *observability.Metrics) *CourseStatsCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CourseStatsCache{
		rdb:     rdb,
		log:     log.With("client", "CourseStatsCache"),
		metrics: metrics,
		ttl:     ttl,
		prefix:  defaultStatsPrefix,
	}
}

func (c *CourseStatsCache) key(courseID uint) string {
	return fmt.Sprintf("%s%d", c.prefix, courseID)
}

// Get decodes the cached entry into out. It reports false on a miss.
func (c *CourseStatsCache) Get(ctx context.Context, courseID uint, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, c.key(courseID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.metrics.IncStatsCache("miss")
		return false, nil
	}
	if err != nil {
		c.metrics.IncStatsCache("error")
		return false, fmt.Errorf("stats cache get: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.metrics.IncStatsCache("error")
		c.log.Warn("dropping undecodable stats entry", "course_id", courseID, "error", err)
		_ = c.rdb.Del(ctx, c.key(courseID)).Err()
		return false, nil
	}
	c.metrics.IncStatsCache("hit")
	return true, nil
}

func (c *CourseStatsCache) Set(ctx context.Context, courseID uint, v interface{}) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(courseID), raw, c.ttl).Err(); err != nil {
		c.metrics.IncStatsCache("error")
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

// InvalidateCourse drops the cached stats of a course. It runs after the
// owning transaction committed; a failure is logged and the entry ages out
// with its TTL.
func (c *CourseStatsCache) InvalidateCourse(ctx context.Context, courseID uint) {
	if c == nil || courseID == 0 {
		return
	}
	if err := c.rdb.Del(ctx, c.key(courseID)).Err(); err != nil {
		c.metrics.IncStatsCache("error")
		c.log.Warn("stats cache invalidate failed", "course_id", courseID, "error", err)
		return
	}
	c.metrics.IncStatsCache("invalidate")
}
