package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Enrollment) ([]*types.Enrollment, error)

	GetByID(dbc dbctx.Context, id uint) (*types.Enrollment, error)
	GetByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Enrollment, error)
	ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Enrollment, error)
	CountByCourseAndStatus(dbc dbctx.Context, courseID uint, status types.EnrollmentStatus) (int64, error)

	LockByID(dbc dbctx.Context, id uint) (*types.Enrollment, error)
	LockByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Enrollment, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, rows []*types.Enrollment) ([]*types.Enrollment, error) {
	if len(rows) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uint) (*types.Enrollment, error) {
	return r.first(dbc.DB(r.db).Where("id = ?", id), id != 0)
}

func (r *enrollmentRepo) GetByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Enrollment, error) {
	return r.first(
		dbc.DB(r.db).Where("user_id = ? AND course_id = ?", userID, courseID),
		userID != uuid.Nil && courseID != 0,
	)
}

func (r *enrollmentRepo) ListByCourseID(dbc dbctx.Context, courseID uint) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if courseID == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("course_id = ?", courseID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourseAndStatus(dbc dbctx.Context, courseID uint, status types.EnrollmentStatus) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, status).
		Count(&n).Error
	return n, err
}

func (r *enrollmentRepo) LockByID(dbc dbctx.Context, id uint) (*types.Enrollment, error) {
	return r.first(
		dbc.DB(r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id),
		id != 0,
	)
}

func (r *enrollmentRepo) LockByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Enrollment, error) {
	return r.first(
		dbc.DB(r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ? AND course_id = ?", userID, courseID),
		userID != uuid.Nil && courseID != 0,
	)
}

func (r *enrollmentRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Enrollment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *enrollmentRepo) first(q *gorm.DB, valid bool) (*types.Enrollment, error) {
	if !valid {
		return nil, nil
	}
	var row types.Enrollment
	if err := q.Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
