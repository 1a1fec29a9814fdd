package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type RatingSummary struct {
	Average float64
	Count   int64
}

type CourseReviewRepo interface {
	Create(dbc dbctx.Context, rows []*types.CourseReview) ([]*types.CourseReview, error)
	// RatingSummary aggregates approved, visible reviews of a course.
	RatingSummary(dbc dbctx.Context, courseID uint) (RatingSummary, error)
}

type courseReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseReviewRepo(db *gorm.DB, baseLog *logger.Logger) CourseReviewRepo {
	return &courseReviewRepo{db: db, log: baseLog.With("repo", "CourseReviewRepo")}
}

func (r *courseReviewRepo) Create(dbc dbctx.Context, rows []*types.CourseReview) ([]*types.CourseReview, error) {
	if len(rows) == 0 {
		return []*types.CourseReview{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseReviewRepo) RatingSummary(dbc dbctx.Context, courseID uint) (RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := dbc.DB(r.db).
		Model(&types.CourseReview{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("course_id = ? AND is_approved = ? AND is_visible = ?", courseID, true, true).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}
	out := RatingSummary{Count: row.Count}
	if row.Average != nil {
		out.Average = *row.Average
	}
	return out, nil
}
