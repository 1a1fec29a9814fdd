package assessment

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxScore is the scale of QuizAttempt.Score.
const MaxScore = 100

type AttemptState string

const (
	AttemptNotStarted AttemptState = "not_started"
	AttemptInProgress AttemptState = "in_progress"
	AttemptCompleted  AttemptState = "completed"
)

// QuizAttempt numbers are unique per (user, quiz) and start at 1.
type QuizAttempt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"column:quiz_id;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:2;index" json:"quiz_id"`
	UserID        uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:1" json:"user_id"`
	AttemptNumber int       `gorm:"column:attempt_number;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:3" json:"attempt_number"`

	Score          int  `gorm:"column:score;not null" json:"score"`
	MaxScore       int  `gorm:"column:max_score;not null" json:"max_score"`
	PointsEarned   int  `gorm:"column:points_earned;not null" json:"points_earned"`
	PointsPossible int  `gorm:"column:points_possible;not null" json:"points_possible"`
	IsPassed       bool `gorm:"column:is_passed;not null;index" json:"is_passed"`
	IsCompleted    bool `gorm:"column:is_completed;not null" json:"is_completed"`

	StartedAt   time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	Answers []*QuizAnswer `gorm:"foreignKey:QuizAttemptID" json:"answers,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) State() AttemptState {
	switch {
	case a == nil:
		return AttemptNotStarted
	case a.IsCompleted:
		return AttemptCompleted
	default:
		return AttemptInProgress
	}
}

// QuizAnswer is unique per (attempt, question).
type QuizAnswer struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	QuizAttemptID    uint    `gorm:"column:quiz_attempt_id;not null;uniqueIndex:idx_quiz_answer_attempt_question,priority:1" json:"quiz_attempt_id"`
	QuizQuestionID   uint    `gorm:"column:quiz_question_id;not null;uniqueIndex:idx_quiz_answer_attempt_question,priority:2;index" json:"quiz_question_id"`
	SelectedOptionID *uint   `gorm:"column:selected_option_id;index" json:"selected_option_id,omitempty"`
	AnswerText       *string `gorm:"column:answer_text;type:text" json:"answer_text,omitempty"`

	IsCorrect    bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	PointsEarned int       `gorm:"column:points_earned;not null" json:"points_earned"`
	AnsweredAt   time.Time `gorm:"column:answered_at;not null" json:"answered_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizAnswer) TableName() string { return "quiz_answer" }

// ScorePercent converts earned/possible points to the 0..100 integer scale.
func ScorePercent(earned, possible int) int {
	if possible <= 0 || earned <= 0 {
		return 0
	}
	if earned >= possible {
		return MaxScore
	}
	return int(math.Round(float64(MaxScore) * float64(earned) / float64(possible)))
}
