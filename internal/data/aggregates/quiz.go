package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

type QuizAggregateDeps struct {
	Base   BaseDeps
	Stores Stores
	Stats  CourseStatsInvalidator
}

type quizAggregate struct {
	deps QuizAggregateDeps
	flow completionFlow
}

func NewQuizAggregate(deps QuizAggregateDeps) domainagg.QuizAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Stats = invalidatorOrNoop(deps.Stats)
	return &quizAggregate{deps: deps, flow: completionFlow{s: deps.Stores}}
}

func (a *quizAggregate) Contract() domainagg.Contract {
	return domainagg.QuizAggregateContract
}

func (a *quizAggregate) StartAttempt(ctx context.Context, in domainagg.StartAttemptInput) (domainagg.StartAttemptResult, error) {
	const op = "quiz.start_attempt"
	out := domainagg.StartAttemptResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.UserID == uuid.Nil || in.QuizID == 0 {
		return out, MapError(op, ValidationError("user_id and quiz_id are required"))
	}
	at := a.deps.Base.at(in.StartedAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// The quiz row lock serializes attempt numbering for the quiz.
		quiz, err := a.deps.Stores.Quizzes.LockByID(dbc, in.QuizID)
		if err != nil {
			return err
		}
		if quiz == nil {
			return NotFoundError(fmt.Sprintf("quiz %d not found", in.QuizID))
		}
		if !quiz.IsActive {
			return PreconditionError(fmt.Sprintf("quiz %d is not active", in.QuizID))
		}

		used, err := a.deps.Stores.Attempts.CountByUserAndQuiz(dbc, in.UserID, in.QuizID)
		if err != nil {
			return err
		}
		limit := quiz.AttemptCap()
		if limit > 0 && int(used) >= limit {
			return codedError(domainagg.CodeAttemptLimitExceeded,
				fmt.Sprintf("all %d attempts used", limit), nil)
		}

		row := &assessment.QuizAttempt{
			QuizID:        quiz.ID,
			UserID:        in.UserID,
			AttemptNumber: int(used) + 1,
			MaxScore:      assessment.MaxScore,
			StartedAt:     at,
		}
		if _, err := a.deps.Stores.Attempts.Create(dbc, []*assessment.QuizAttempt{row}); err != nil {
			if IsUniqueViolation(err) {
				if limit > 0 && row.AttemptNumber >= limit {
					return codedError(domainagg.CodeAttemptLimitExceeded,
						fmt.Sprintf("all %d attempts used", limit), err)
				}
				return ConflictError("attempt started concurrently")
			}
			return err
		}
		out.Attempt = row
		out.RemainingAttempts = -1
		if limit > 0 {
			out.RemainingAttempts = limit - row.AttemptNumber
		}
		return nil
	})
	if err != nil {
		return domainagg.StartAttemptResult{}, err
	}
	return out, nil
}

func (a *quizAggregate) SubmitAnswers(ctx context.Context, in domainagg.SubmitAnswersInput) (domainagg.SubmitAnswersResult, error) {
	const op = "quiz.submit_answers"
	out := domainagg.SubmitAnswersResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.AttemptID == 0 {
		return out, MapError(op, ValidationError("attempt_id is required"))
	}
	at := a.deps.Base.at(in.SubmittedAt)

	var courseCompleted bool
	var courseID uint
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		attempt, quiz, err := a.openAttempt(dbc, in.AttemptID)
		if err != nil {
			return err
		}
		courseID = quiz.CourseID
		questions, err := a.deps.Stores.Questions.ListByQuizID(dbc, quiz.ID)
		if err != nil {
			return err
		}
		graded, err := gradeSubmission(questions, in.Answers, at)
		if err != nil {
			return err
		}
		res, err := a.close(dbc, quiz, attempt, graded, at, at, in.Client)
		if err != nil {
			return err
		}
		out = res
		courseCompleted = res.Certificate != nil && res.Certificate.Certificate != nil && !res.Certificate.AlreadyIssued
		return nil
	})
	if err != nil {
		return domainagg.SubmitAnswersResult{}, err
	}
	if courseCompleted {
		a.deps.Stats.InvalidateCourse(ctx, courseID)
	}
	return out, nil
}

func (a *quizAggregate) ExpireAttempt(ctx context.Context, in domainagg.ExpireAttemptInput) (domainagg.SubmitAnswersResult, error) {
	const op = "quiz.expire_attempt"
	out := domainagg.SubmitAnswersResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.AttemptID == 0 {
		return out, MapError(op, ValidationError("attempt_id is required"))
	}
	at := a.deps.Base.at(in.At)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		attempt, quiz, err := a.openAttempt(dbc, in.AttemptID)
		if err != nil {
			return err
		}
		deadline, ok := quiz.Deadline(attempt.StartedAt)
		if !ok {
			return PreconditionError(fmt.Sprintf("quiz %d has no time limit", quiz.ID))
		}
		if at.Before(deadline) {
			return PreconditionError(fmt.Sprintf("attempt %d is still within its time limit", attempt.ID))
		}
		questions, err := a.deps.Stores.Questions.ListByQuizID(dbc, quiz.ID)
		if err != nil {
			return err
		}
		saved, err := a.deps.Stores.Answers.ListByAttemptID(dbc, attempt.ID)
		if err != nil {
			return err
		}
		graded := gradedSubmission{Possible: possiblePoints(questions)}
		for _, ans := range saved {
			graded.Earned += ans.PointsEarned
		}
		res, err := a.close(dbc, quiz, attempt, graded, deadline.UTC(), at, learning.ClientInfo{})
		if err != nil {
			return err
		}
		res.Answers = saved
		out = res
		return nil
	})
	if err != nil {
		return domainagg.SubmitAnswersResult{}, err
	}
	return out, nil
}

// openAttempt locks an attempt and returns it with its quiz; completed attempts are rejected.
func (a *quizAggregate) openAttempt(dbc dbctx.Context, attemptID uint) (*assessment.QuizAttempt, *assessment.Quiz, error) {
	attempt, err := a.deps.Stores.Attempts.LockByID(dbc, attemptID)
	if err != nil {
		return nil, nil, err
	}
	switch attempt.State() {
	case assessment.AttemptNotStarted:
		return nil, nil, NotFoundError(fmt.Sprintf("attempt %d not found", attemptID))
	case assessment.AttemptCompleted:
		return nil, nil, codedError(domainagg.CodeAttemptAlreadyCompleted,
			fmt.Sprintf("attempt %d is already completed", attemptID), nil)
	}
	quiz, err := a.deps.Stores.Quizzes.GetByID(dbc, attempt.QuizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, NotFoundError(fmt.Sprintf("quiz %d not found", attempt.QuizID))
	}
	return attempt, quiz, nil
}

// close writes graded answers and the final score, records a quiz event, then
// feeds the result into lesson progress or certificate evaluation.
func (a *quizAggregate) close(dbc dbctx.Context, quiz *assessment.Quiz, attempt *assessment.QuizAttempt, graded gradedSubmission, completedAt, submittedAt time.Time, client learning.ClientInfo) (domainagg.SubmitAnswersResult, error) {
	out := domainagg.SubmitAnswersResult{}

	for _, ans := range graded.Answers {
		ans.QuizAttemptID = attempt.ID
	}
	if len(graded.Answers) > 0 {
		if _, err := a.deps.Stores.Answers.Create(dbc, graded.Answers); err != nil {
			return out, err
		}
	}

	score := assessment.ScorePercent(graded.Earned, graded.Possible)
	passed := score >= quiz.PassingScore
	ok, err := a.deps.Base.CASGuard.UpdateWhenFalse(dbc, assessment.QuizAttempt{}.TableName(), attempt.ID, "is_completed", map[string]any{
		"score":           score,
		"max_score":       assessment.MaxScore,
		"points_earned":   graded.Earned,
		"points_possible": graded.Possible,
		"is_passed":       passed,
		"is_completed":    true,
		"completed_at":    completedAt,
		"submitted_at":    submittedAt,
		"updated_at":      submittedAt,
	})
	if err != nil {
		return out, err
	}
	if !ok {
		return out, codedError(domainagg.CodeAttemptAlreadyCompleted,
			fmt.Sprintf("attempt %d is already completed", attempt.ID), nil)
	}
	attempt.Score = score
	attempt.MaxScore = assessment.MaxScore
	attempt.PointsEarned = graded.Earned
	attempt.PointsPossible = graded.Possible
	attempt.IsPassed = passed
	attempt.IsCompleted = true
	attempt.CompletedAt = &completedAt
	attempt.SubmittedAt = &submittedAt
	attempt.Answers = graded.Answers
	out.Attempt = attempt
	out.Answers = graded.Answers

	ev := learning.NewEvent(attempt.UserID, learning.ActionQuiz, submittedAt, client)
	ev.CourseID = &quiz.CourseID
	ev.LessonID = quiz.LessonID
	ev.ContentType = learning.ContentQuiz
	ev.ContentID = &quiz.ID
	if d := completedAt.Sub(attempt.StartedAt); d > 0 {
		ev.DurationMinutes = int(d / time.Minute)
	}
	if err := a.deps.Stores.Analytics.Create(dbc, ev); err != nil {
		return out, err
	}

	if quiz.LessonID != nil {
		if err := a.recordLessonScore(dbc, attempt.UserID, *quiz.LessonID, score, submittedAt); err != nil {
			return out, err
		}
	}
	if passed && quiz.IsCourseLevel() {
		e, err := a.deps.Stores.Enrollments.LockByUserAndCourse(dbc, attempt.UserID, quiz.CourseID)
		if err != nil {
			return out, err
		}
		if e != nil {
			cert, err := a.flow.evaluate(dbc, e, submittedAt)
			if err != nil {
				return out, err
			}
			out.Certificate = &cert
		}
	}
	return out, nil
}

// recordLessonScore stores the latest quiz score on the lesson's progress row.
func (a *quizAggregate) recordLessonScore(dbc dbctx.Context, userID uuid.UUID, lessonID uint, score int, at time.Time) error {
	value := float64(score)
	row := &learning.LearningProgress{
		UserID:         userID,
		LessonID:       lessonID,
		Status:         learning.ProgressInProgress,
		Score:          &value,
		StartedAt:      &at,
		LastAccessedAt: &at,
	}
	created, err := a.deps.Stores.Progress.Ensure(dbc, row)
	if err != nil || created {
		return err
	}
	cur, err := a.deps.Stores.Progress.GetByUserAndLesson(dbc, userID, lessonID)
	if err != nil {
		return err
	}
	if cur == nil {
		return RetryableError("progress row vanished during update")
	}
	return a.deps.Stores.Progress.UpdateFields(dbc, cur.ID, map[string]interface{}{
		"score":            value,
		"last_accessed_at": at,
		"updated_at":       at,
	})
}

func (a *quizAggregate) validate(op string) error {
	if a == nil || !a.deps.Stores.complete() {
		return domainagg.NewError(domainagg.CodeInternal, op, "quiz aggregate dependencies are not configured", nil)
	}
	return nil
}
