package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error)

	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Course, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Course, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error) {
	if len(rows) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Course, error) {
	var out []*types.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Course, error) {
	if id == 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseRepo) LockByID(dbc dbctx.Context, id uint) (*types.Course, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Course
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(updates).Error
}
