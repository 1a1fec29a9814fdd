package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error)

	GetByID(dbc dbctx.Context, id uint) (*types.Lesson, error)
	ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error)
	CountByCourseID(dbc dbctx.Context, courseID uint) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uint) (*types.Lesson, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *lessonRepo) ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if courseID == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) CountByCourseID(dbc dbctx.Context, courseID uint) (int64, error) {
	var n int64
	if courseID == 0 {
		return 0, nil
	}
	err := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&n).Error
	return n, err
}
