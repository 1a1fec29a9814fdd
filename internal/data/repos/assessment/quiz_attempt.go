package assessment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, rows []*types.QuizAttempt) ([]*types.QuizAttempt, error)

	GetByID(dbc dbctx.Context, id uint) (*types.QuizAttempt, error)
	LockByID(dbc dbctx.Context, id uint) (*types.QuizAttempt, error)
	CountByUserAndQuiz(dbc dbctx.Context, userID uuid.UUID, quizID uint) (int64, error)
	// PassedQuizIDs returns the subset of quizIDs the user has at least one passed attempt for.
	PassedQuizIDs(dbc dbctx.Context, userID uuid.UUID, quizIDs []uint) (map[uint]bool, error)
	// BestScores returns the highest completed score per quiz for the user.
	BestScores(dbc dbctx.Context, userID uuid.UUID, quizIDs []uint) (map[uint]int, error)

	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, rows []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	if len(rows) == 0 {
		return []*types.QuizAttempt{}, nil
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizAttemptRepo) GetByID(dbc dbctx.Context, id uint) (*types.QuizAttempt, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.QuizAttempt
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *quizAttemptRepo) LockByID(dbc dbctx.Context, id uint) (*types.QuizAttempt, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.QuizAttempt
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

func (r *quizAttemptRepo) CountByUserAndQuiz(dbc dbctx.Context, userID uuid.UUID, quizID uint) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&n).Error
	return n, err
}

func (r *quizAttemptRepo) PassedQuizIDs(dbc dbctx.Context, userID uuid.UUID, quizIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	if userID == uuid.Nil || len(quizIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Distinct().
		Where("user_id = ? AND quiz_id IN ? AND is_completed = ? AND is_passed = ?", userID, quizIDs, true, true).
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *quizAttemptRepo) BestScores(dbc dbctx.Context, userID uuid.UUID, quizIDs []uint) (map[uint]int, error) {
	out := map[uint]int{}
	if userID == uuid.Nil || len(quizIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		QuizID uint
		Best   int
	}
	err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Select("quiz_id, MAX(score) AS best").
		Where("user_id = ? AND quiz_id IN ? AND is_completed = ?", userID, quizIDs, true).
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.QuizID] = row.Best
	}
	return out, nil
}

func (r *quizAttemptRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.QuizAttempt{}).Where("id = ?", id).Updates(updates).Error
}
