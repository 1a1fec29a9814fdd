package assessment

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error)

	GetByID(dbc dbctx.Context, id uint) (*types.Quiz, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Quiz, error)
	// ListActiveCourseLevel returns active quizzes of a course that are not tied to a lesson.
	ListActiveCourseLevel(dbc dbctx.Context, courseID uint) ([]*types.Quiz, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error) {
	if len(rows) == 0 {
		return []*types.Quiz{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uint) (*types.Quiz, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Quiz
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *quizRepo) LockByID(dbc dbctx.Context, id uint) (*types.Quiz, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Quiz
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

func (r *quizRepo) ListActiveCourseLevel(dbc dbctx.Context, courseID uint) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if courseID == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("course_id = ? AND lesson_id IS NULL AND is_active = ?", courseID, true).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Quiz{}).Where("id = ?", id).Updates(updates).Error
}
