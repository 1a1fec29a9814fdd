package aggregates

import (
	"testing"
	"time"

	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func TestGradeSubmission(t *testing.T) {
	questions := []*assessment.QuizQuestion{
		{ID: 1, Type: assessment.QuestionMultipleChoice, Points: 2, Options: []*assessment.QuizOption{
			{ID: 10, QuizQuestionID: 1, IsCorrect: true},
			{ID: 11, QuizQuestionID: 1},
		}},
		{ID: 2, Type: assessment.QuestionTrueFalse, Points: 1, Options: []*assessment.QuizOption{
			{ID: 20, QuizQuestionID: 2},
			{ID: 21, QuizQuestionID: 2, IsCorrect: true},
		}},
		{ID: 3, Type: assessment.QuestionEssay, Points: 1},
	}
	opt := func(id uint) *uint { return &id }
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := gradeSubmission(questions, []domainagg.AnswerInput{
		{QuestionID: 1, SelectedOptionID: opt(10)},
		{QuestionID: 2, SelectedOptionID: opt(20)},
	}, at)
	if err != nil {
		t.Fatalf("gradeSubmission: %v", err)
	}
	if got.Earned != 2 || got.Possible != 4 || len(got.Answers) != 2 {
		t.Fatalf("unexpected grading: earned=%d possible=%d answers=%d", got.Earned, got.Possible, len(got.Answers))
	}
	if !got.Answers[0].IsCorrect || got.Answers[1].IsCorrect || !got.Answers[0].AnsweredAt.Equal(at) {
		t.Fatalf("unexpected answers: %+v %+v", got.Answers[0], got.Answers[1])
	}
	if assessment.ScorePercent(got.Earned, got.Possible) != 50 {
		t.Fatalf("score: want=50")
	}

	_, err = gradeSubmission(questions, []domainagg.AnswerInput{{QuestionID: 2, SelectedOptionID: opt(10)}}, at)
	if !domainagg.IsCode(err, domainagg.CodeInvalidAnswerReference) {
		t.Fatalf("option of another question: got %v", err)
	}
	_, err = gradeSubmission(questions, []domainagg.AnswerInput{{QuestionID: 99}}, at)
	if !domainagg.IsCode(err, domainagg.CodeInvalidAnswerReference) {
		t.Fatalf("unknown question: got %v", err)
	}

	empty, err := gradeSubmission(questions, nil, at)
	if err != nil || empty.Earned != 0 || empty.Possible != 4 {
		t.Fatalf("empty submission: %+v %v", empty, err)
	}
}
