package assessment

import (
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type QuizAnswerRepo interface {
	Create(dbc dbctx.Context, rows []*types.QuizAnswer) ([]*types.QuizAnswer, error)
	ListByAttemptID(dbc dbctx.Context, attemptID uint) ([]*types.QuizAnswer, error)
}

type quizAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuizAnswerRepo {
	return &quizAnswerRepo{db: db, log: baseLog.With("repo", "QuizAnswerRepo")}
}

func (r *quizAnswerRepo) Create(dbc dbctx.Context, rows []*types.QuizAnswer) ([]*types.QuizAnswer, error) {
	if len(rows) == 0 {
		return []*types.QuizAnswer{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizAnswerRepo) ListByAttemptID(dbc dbctx.Context, attemptID uint) ([]*types.QuizAnswer, error) {
	var out []*types.QuizAnswer
	if attemptID == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("quiz_attempt_id = ?", attemptID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
