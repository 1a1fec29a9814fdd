package learning

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressSkipped    ProgressStatus = "skipped"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case ProgressNotStarted, ProgressInProgress, ProgressCompleted, ProgressSkipped:
		return true
	default:
		return false
	}
}

// LearningProgress is a learner's per-lesson state, unique per (user, lesson).
// TimeSpentMinutes only ever grows.
type LearningProgress struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_learning_progress_user_lesson,priority:1" json:"user_id"`
	LessonID     uint      `gorm:"column:lesson_id;not null;uniqueIndex:idx_learning_progress_user_lesson,priority:2;index" json:"lesson_id"`
	EnrollmentID *uint     `gorm:"column:enrollment_id;index" json:"enrollment_id,omitempty"`

	Status           ProgressStatus `gorm:"column:status;not null;index" json:"status"`
	TimeSpentMinutes int            `gorm:"column:time_spent_minutes;not null" json:"time_spent_minutes"`
	Score            *float64       `gorm:"column:score;type:decimal(5,2)" json:"score,omitempty"`
	Notes            string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	IsBookmarked     bool           `gorm:"column:is_bookmarked;not null" json:"is_bookmarked"`

	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastAccessedAt *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LearningProgress) TableName() string { return "learning_progress" }

// ProgressPercent returns 100*completed/total rounded to two decimals.
// A course without lessons has no progress.
func ProgressPercent(completed, total int64) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return Round2(100 * float64(completed) / float64(total))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
