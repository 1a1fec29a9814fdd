package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

var QuizAggregateContract = Contract{
	Name:             "Assessment.QuizAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns attempt numbering under the attempt cap and all-or-nothing grading of submissions.",
}

// QuizAggregate starts and grades quiz attempts.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePreconditionFailed, CodeAttemptLimitExceeded,
// CodeAttemptAlreadyCompleted, CodeInvalidAnswerReference, CodeConflict,
// CodeRetryable, CodeInternal.
type QuizAggregate interface {
	Aggregate

	// StartAttempt creates the next numbered attempt for (user, quiz).
	StartAttempt(ctx context.Context, in StartAttemptInput) (StartAttemptResult, error)

	// SubmitAnswers grades an open attempt and closes it.
	SubmitAnswers(ctx context.Context, in SubmitAnswersInput) (SubmitAnswersResult, error)

	// ExpireAttempt closes an overdue open attempt with whatever was answered.
	ExpireAttempt(ctx context.Context, in ExpireAttemptInput) (SubmitAnswersResult, error)
}

type StartAttemptInput struct {
	UserID    uuid.UUID
	QuizID    uint
	StartedAt time.Time
}

type StartAttemptResult struct {
	Attempt *assessment.QuizAttempt
	// RemainingAttempts is -1 when the quiz has no cap.
	RemainingAttempts int
}

// AnswerInput is one answer in a submission. SelectedOptionID is used for choice
// questions; AnswerText for free-text ones. GradedCorrect carries an external
// grader's verdict for free-text answers and is ignored for choice questions.
type AnswerInput struct {
	QuestionID       uint
	SelectedOptionID *uint
	AnswerText       *string
	GradedCorrect    *bool
}

type SubmitAnswersInput struct {
	AttemptID   uint
	Answers     []AnswerInput
	SubmittedAt time.Time
	Client      learning.ClientInfo
}

type SubmitAnswersResult struct {
	Attempt *assessment.QuizAttempt
	Answers []*assessment.QuizAnswer
	// Certificate is populated when a passed course-level quiz triggered evaluation.
	Certificate *EvaluateCertificateResult
}

type ExpireAttemptInput struct {
	AttemptID uint
	At        time.Time
}
