package aggregates

import (
	"fmt"
	"time"

	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

type gradedSubmission struct {
	Answers  []*assessment.QuizAnswer
	Earned   int
	Possible int
}

// gradeSubmission checks every answer against the quiz's questions and grades
// it. Nothing is graded when any reference is invalid.
func gradeSubmission(questions []*assessment.QuizQuestion, answers []domainagg.AnswerInput, at time.Time) (gradedSubmission, error) {
	out := gradedSubmission{Possible: possiblePoints(questions)}
	byID := make(map[uint]*assessment.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	seen := make(map[uint]bool, len(answers))
	for _, in := range answers {
		q := byID[in.QuestionID]
		if q == nil {
			return gradedSubmission{}, codedError(domainagg.CodeInvalidAnswerReference,
				fmt.Sprintf("question %d does not belong to this quiz", in.QuestionID), nil)
		}
		if seen[q.ID] {
			return gradedSubmission{}, codedError(domainagg.CodeInvalidAnswerReference,
				fmt.Sprintf("question %d is answered more than once", q.ID), nil)
		}
		seen[q.ID] = true

		var selected *assessment.QuizOption
		if in.SelectedOptionID != nil {
			selected = optionOf(q, *in.SelectedOptionID)
			if selected == nil {
				return gradedSubmission{}, codedError(domainagg.CodeInvalidAnswerReference,
					fmt.Sprintf("option %d does not belong to question %d", *in.SelectedOptionID, q.ID), nil)
			}
		}

		correct := false
		if q.Type.IsChoice() {
			correct = selected != nil && selected.IsCorrect
		} else {
			correct = in.GradedCorrect != nil && *in.GradedCorrect
		}
		points := 0
		if correct && q.Points > 0 {
			points = q.Points
		}
		out.Earned += points
		out.Answers = append(out.Answers, &assessment.QuizAnswer{
			QuizQuestionID:   q.ID,
			SelectedOptionID: in.SelectedOptionID,
			AnswerText:       in.AnswerText,
			IsCorrect:        correct,
			PointsEarned:     points,
			AnsweredAt:       at,
		})
	}
	return out, nil
}

func possiblePoints(questions []*assessment.QuizQuestion) int {
	total := 0
	for _, q := range questions {
		if q.Points > 0 {
			total += q.Points
		}
	}
	return total
}

func optionOf(q *assessment.QuizQuestion, optionID uint) *assessment.QuizOption {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o
		}
	}
	return nil
}
