package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

var ProgressAggregateContract = Contract{
	Name:             "Learning.ProgressAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns per-lesson progress rows and the enrollment progress percentage derived from them.",
}

// ProgressAggregate records lesson activity and keeps Enrollment.Progress equal to
// the share of the course's lessons the learner has completed.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	// RecordLessonAccess upserts the (user, lesson) row and adds time spent.
	RecordLessonAccess(ctx context.Context, in RecordLessonAccessInput) (RecordLessonAccessResult, error)

	// MarkLessonCompleted completes the lesson and recomputes enrollment progress.
	MarkLessonCompleted(ctx context.Context, in MarkLessonCompletedInput) (MarkLessonCompletedResult, error)

	// ToggleBookmark sets the bookmark flag on an existing progress row.
	ToggleBookmark(ctx context.Context, in ToggleBookmarkInput) (*learning.LearningProgress, error)

	// RecomputeCourse recomputes progress for every enrollment of a course.
	RecomputeCourse(ctx context.Context, courseID uint) (RecomputeCourseResult, error)
}

type RecordLessonAccessInput struct {
	UserID           uuid.UUID
	LessonID         uint
	TimeSpentMinutes int
	Notes            *string
	Bookmarked       *bool
	AccessedAt       time.Time
	// Client is copied onto the recorded view event.
	Client learning.ClientInfo
}

type RecordLessonAccessResult struct {
	Progress *learning.LearningProgress
	Created  bool
}

type MarkLessonCompletedInput struct {
	UserID      uuid.UUID
	LessonID    uint
	CompletedAt time.Time
	Client      learning.ClientInfo
}

type MarkLessonCompletedResult struct {
	Progress *learning.LearningProgress
	// Enrollment is nil when the learner is not enrolled in the lesson's course.
	Enrollment *learning.Enrollment
	// CourseCompleted is true when this call moved the enrollment to completed.
	CourseCompleted bool
	Certificate     EvaluateCertificateResult
}

type ToggleBookmarkInput struct {
	UserID   uuid.UUID
	LessonID uint
	Value    bool
}

type RecomputeCourseResult struct {
	CourseID    uint
	Enrollments int
	Completed   int
}
