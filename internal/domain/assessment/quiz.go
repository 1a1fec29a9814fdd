package assessment

import "time"

type QuizType string

const (
	QuizTypeQuiz       QuizType = "quiz"
	QuizTypeAssignment QuizType = "assignment"
	QuizTypeFinalExam  QuizType = "final_exam"
)

const (
	DefaultPassingScore = 70
	DefaultMaxAttempts  = 3
)

// Quiz belongs to a course and optionally to one lesson of it. Quizzes without
// a lesson are course-level and gate certification while active.
type Quiz struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	CourseID uint  `gorm:"column:course_id;not null;index" json:"course_id"`
	LessonID *uint `gorm:"column:lesson_id;index" json:"lesson_id,omitempty"`

	Title              string   `gorm:"column:title;not null" json:"title"`
	Description        string   `gorm:"column:description;type:text" json:"description,omitempty"`
	Type               QuizType `gorm:"column:type;not null" json:"type"`
	PassingScore       int      `gorm:"column:passing_score;not null" json:"passing_score"`
	TimeLimitMinutes   int      `gorm:"column:time_limit_minutes;not null" json:"time_limit_minutes"`
	MaxAttempts        int      `gorm:"column:max_attempts;not null" json:"max_attempts"`
	AllowRetakes       bool     `gorm:"column:allow_retakes;not null" json:"allow_retakes"`
	ShowCorrectAnswers bool     `gorm:"column:show_correct_answers;not null" json:"show_correct_answers"`
	IsActive           bool     `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

// NewQuiz returns a quiz carrying the platform defaults.
func NewQuiz(courseID uint, lessonID *uint, title string) *Quiz {
	return &Quiz{
		CourseID:     courseID,
		LessonID:     lessonID,
		Title:        title,
		Type:         QuizTypeQuiz,
		PassingScore: DefaultPassingScore,
		MaxAttempts:  DefaultMaxAttempts,
		AllowRetakes: true,
		IsActive:     true,
	}
}

// IsCourseLevel reports whether the quiz is attached to the course rather than a lesson.
func (q *Quiz) IsCourseLevel() bool { return q != nil && q.LessonID == nil }

// AttemptCap is the effective number of attempts a learner gets; 0 means unlimited.
func (q *Quiz) AttemptCap() int {
	if q == nil {
		return 0
	}
	if !q.AllowRetakes {
		return 1
	}
	if q.MaxAttempts < 0 {
		return 0
	}
	return q.MaxAttempts
}

// Deadline returns when an attempt started at startedAt runs out of time.
func (q *Quiz) Deadline(startedAt time.Time) (time.Time, bool) {
	if q == nil || q.TimeLimitMinutes <= 0 {
		return time.Time{}, false
	}
	return startedAt.Add(time.Duration(q.TimeLimitMinutes) * time.Minute), true
}
