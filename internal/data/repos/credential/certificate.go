package credential

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type CertificateRepo interface {
	Create(dbc dbctx.Context, rows []*types.Certificate) ([]*types.Certificate, error)

	GetByID(dbc dbctx.Context, id uint) (*types.Certificate, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Certificate, error)
	GetByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Certificate, error)
	NumberExists(dbc dbctx.Context, number string) (bool, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(dbc dbctx.Context, rows []*types.Certificate) ([]*types.Certificate, error) {
	if len(rows) == 0 {
		return []*types.Certificate{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *certificateRepo) GetByID(dbc dbctx.Context, id uint) (*types.Certificate, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

func (r *certificateRepo) LockByID(dbc dbctx.Context, id uint) (*types.Certificate, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *certificateRepo) GetByUserAndCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (*types.Certificate, error) {
	if userID == uuid.Nil || courseID == 0 {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("user_id = ? AND course_id = ?", userID, courseID))
}

func (r *certificateRepo) NumberExists(dbc dbctx.Context, number string) (bool, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Certificate{}).
		Where("certificate_number = ?", number).
		Count(&n).Error
	return n > 0, err
}

func (r *certificateRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Certificate{}).Where("id = ?", id).Updates(updates).Error
}

func (r *certificateRepo) first(q *gorm.DB) (*types.Certificate, error) {
	var row types.Certificate
	if err := q.Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
