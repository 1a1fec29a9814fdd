package services

import (
	"context"
	"math"
	"time"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

// CourseStats holds the derived course values that are never stored on the
// course row.
type CourseStats struct {
	CourseID             uint      `json:"course_id"`
	AverageRating        float64   `json:"average_rating"`
	ReviewCount          int64     `json:"review_count"`
	ActiveEnrollments    int64     `json:"active_enrollments"`
	CompletedEnrollments int64     `json:"completed_enrollments"`
	LessonCount          int64     `json:"lesson_count"`
	IsFree               bool      `json:"is_free"`
	Tags                 []string  `json:"tags"`
	ComputedAt           time.Time `json:"computed_at"`
}

// StatsCache is the read-through store in front of the stats queries.
type StatsCache interface {
	Get(ctx context.Context, courseID uint, out interface{}) (bool, error)
	Set(ctx context.Context, courseID uint, v interface{}) error
}

type CourseStatsService interface {
	Get(ctx context.Context, courseID uint) (*CourseStats, error)
}

type courseStatsService struct {
	log   *logger.Logger
	repos *repos.Set
	cache StatsCache
	now   func() time.Time
}

// NewCourseStatsService builds the service. cache may be nil.
func NewCourseStatsService(log *logger.Logger, set *repos.Set, cache StatsCache) CourseStatsService {
	if log == nil {
		log = logger.Nop()
	}
	return &courseStatsService{
		log:   log.With("service", "CourseStatsService"),
		repos: set,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *courseStatsService) Get(ctx context.Context, courseID uint) (*CourseStats, error) {
	const op = "CourseStats.Get"
	if courseID == 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course_id required", nil)
	}
	if s.cache != nil {
		var cached CourseStats
		ok, err := s.cache.Get(ctx, courseID, &cached)
		if err != nil {
			s.log.Warn("stats cache read failed, computing", "course_id", courseID, "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	stats, err := s.compute(dbctx.Context{Ctx: ctx}, courseID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, courseID, stats); err != nil {
			s.log.Warn("stats cache write failed", "course_id", courseID, "error", err)
		}
	}
	return stats, nil
}

func (s *courseStatsService) compute(dbc dbctx.Context, courseID uint) (*CourseStats, error) {
	const op = "CourseStats.Get"
	course, err := s.repos.Course.GetByID(dbc, courseID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "course not found", nil)
	}

	rating, err := s.repos.CourseReview.RatingSummary(dbc, courseID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	active, err := s.repos.Enrollment.CountByCourseAndStatus(dbc, courseID, types.EnrollmentActive)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	completed, err := s.repos.Enrollment.CountByCourseAndStatus(dbc, courseID, types.EnrollmentCompleted)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	lessons, err := s.repos.Lesson.CountByCourseID(dbc, courseID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	tags, err := s.repos.CourseTag.TagNamesByCourseID(dbc, courseID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if tags == nil {
		tags = []string{}
	}

	return &CourseStats{
		CourseID:             courseID,
		AverageRating:        math.Round(rating.Average*100) / 100,
		ReviewCount:          rating.Count,
		ActiveEnrollments:    active,
		CompletedEnrollments: completed,
		LessonCount:          lessons,
		IsFree:               course.IsFree(),
		Tags:                 tags,
		ComputedAt:           s.now(),
	}, nil
}
