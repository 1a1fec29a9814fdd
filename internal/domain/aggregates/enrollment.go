package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

var EnrollmentAggregateContract = Contract{
	Name:             "Learning.EnrollmentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns enrollment creation and status transitions; uniqueness per (user, course) is decided by the storage unique index.",
}

// EnrollmentAggregate owns the enrollment lifecycle.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePreconditionFailed, CodeDuplicateEnrollment,
// CodeInvariantViolation, CodeConflict, CodeRetryable, CodeInternal.
type EnrollmentAggregate interface {
	Aggregate

	// Enroll creates an active enrollment with progress 0.
	Enroll(ctx context.Context, in EnrollInput) (EnrollResult, error)

	// MarkCompleted completes an enrollment whose recomputed progress is 100.
	MarkCompleted(ctx context.Context, in MarkEnrollmentCompletedInput) (MarkEnrollmentCompletedResult, error)

	// ChangeStatus moves an enrollment along the status transition table.
	ChangeStatus(ctx context.Context, in ChangeEnrollmentStatusInput) (ChangeEnrollmentStatusResult, error)
}

type EnrollInput struct {
	UserID     uuid.UUID
	CourseID   uint
	PricePaid  float64
	EnrolledAt time.Time
}

type EnrollResult struct {
	Enrollment *learning.Enrollment
}

type MarkEnrollmentCompletedInput struct {
	EnrollmentID uint
	CompletedAt  time.Time
}

type MarkEnrollmentCompletedResult struct {
	Enrollment       *learning.Enrollment
	AlreadyCompleted bool
	// Certificate is the evaluation run after completion.
	Certificate EvaluateCertificateResult
}

type ChangeEnrollmentStatusInput struct {
	EnrollmentID uint
	Status       learning.EnrollmentStatus
	ChangedAt    time.Time
}

type ChangeEnrollmentStatusResult struct {
	Enrollment     *learning.Enrollment
	PreviousStatus learning.EnrollmentStatus
	Changed        bool
}
