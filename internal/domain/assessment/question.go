package assessment

import "time"

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionEssay          QuestionType = "essay"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionEssay, QuestionFillInBlank:
		return true
	default:
		return false
	}
}

// IsChoice reports whether answers are graded from the selected option.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

type QuizQuestion struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	QuizID uint `gorm:"column:quiz_id;not null;index" json:"quiz_id"`

	Text        string       `gorm:"column:text;type:text;not null" json:"text"`
	Type        QuestionType `gorm:"column:type;not null" json:"type"`
	Points      int          `gorm:"column:points;not null" json:"points"`
	OrderIndex  int          `gorm:"column:order_index;not null" json:"order_index"`
	Explanation string       `gorm:"column:explanation;type:text" json:"explanation,omitempty"`

	Options []*QuizOption `gorm:"foreignKey:QuizQuestionID" json:"options,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

type QuizOption struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	QuizQuestionID uint   `gorm:"column:quiz_question_id;not null;index" json:"quiz_question_id"`
	Text           string `gorm:"column:text;type:text;not null" json:"text"`
	IsCorrect      bool   `gorm:"column:is_correct;not null" json:"is_correct"`
	OrderIndex     int    `gorm:"column:order_index;not null" json:"order_index"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizOption) TableName() string { return "quiz_option" }
