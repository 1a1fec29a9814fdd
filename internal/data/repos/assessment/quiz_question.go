package assessment

import (
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type QuizQuestionRepo interface {
	// Create inserts questions together with their options.
	Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error)

	// ListByQuizID returns the quiz's questions in order with options preloaded.
	ListByQuizID(dbc dbctx.Context, quizID uint) ([]*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	if len(rows) == 0 {
		return []*types.QuizQuestion{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizQuestionRepo) ListByQuizID(dbc dbctx.Context, quizID uint) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	if quizID == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
