package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type LearningProgressRepo interface {
	// Ensure inserts row unless (user, lesson) already exists. It reports whether
	// this call created the row; concurrent callers see exactly one creation.
	Ensure(dbc dbctx.Context, row *types.LearningProgress) (bool, error)

	GetByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonID uint) (*types.LearningProgress, error)

	// AddTimeSpent atomically increments time_spent_minutes and applies updates.
	AddTimeSpent(dbc dbctx.Context, userID uuid.UUID, lessonID uint, minutes int, updates map[string]interface{}) error
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	// LinkEnrollment attaches unlinked rows of the user in the course to enrollmentID.
	LinkEnrollment(dbc dbctx.Context, userID uuid.UUID, courseID uint, enrollmentID uint) (int64, error)

	// CountCompletedInCourse counts completed rows of the user for lessons that
	// currently belong to courseID.
	CountCompletedInCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (int64, error)
}

type learningProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningProgressRepo(db *gorm.DB, baseLog *logger.Logger) LearningProgressRepo {
	return &learningProgressRepo{db: db, log: baseLog.With("repo", "LearningProgressRepo")}
}

func (r *learningProgressRepo) Ensure(dbc dbctx.Context, row *types.LearningProgress) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.LessonID == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *learningProgressRepo) GetByUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonID uint) (*types.LearningProgress, error) {
	if userID == uuid.Nil || lessonID == 0 {
		return nil, nil
	}
	var row types.LearningProgress
	err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
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

func (r *learningProgressRepo) AddTimeSpent(dbc dbctx.Context, userID uuid.UUID, lessonID uint, minutes int, updates map[string]interface{}) error {
	if userID == uuid.Nil || lessonID == 0 {
		return nil
	}
	set := map[string]interface{}{}
	for k, v := range updates {
		set[k] = v
	}
	if minutes > 0 {
		set["time_spent_minutes"] = gorm.Expr("time_spent_minutes + ?", minutes)
	}
	if len(set) == 0 {
		return nil
	}
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Model(&types.LearningProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Updates(set).Error
}

func (r *learningProgressRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.LearningProgress{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *learningProgressRepo) LinkEnrollment(dbc dbctx.Context, userID uuid.UUID, courseID uint, enrollmentID uint) (int64, error) {
	if userID == uuid.Nil || courseID == 0 || enrollmentID == 0 {
		return 0, nil
	}
	t := dbc.DB(r.db)
	lessonIDs := t.Session(&gorm.Session{NewDB: true}).
		Model(&types.Lesson{}).
		Select("id").
		Where("course_id = ?", courseID)
	res := t.Model(&types.LearningProgress{}).
		Where("user_id = ? AND enrollment_id IS NULL AND lesson_id IN (?)", userID, lessonIDs).
		Update("enrollment_id", enrollmentID)
	return res.RowsAffected, res.Error
}

func (r *learningProgressRepo) CountCompletedInCourse(dbc dbctx.Context, userID uuid.UUID, courseID uint) (int64, error) {
	var n int64
	if userID == uuid.Nil || courseID == 0 {
		return 0, nil
	}
	err := dbc.DB(r.db).
		Model(&types.LearningProgress{}).
		Joins("JOIN lesson ON lesson.id = learning_progress.lesson_id").
		Where("learning_progress.user_id = ? AND learning_progress.status = ? AND lesson.course_id = ?",
			userID, types.ProgressCompleted, courseID).
		Count(&n).Error
	return n, err
}
