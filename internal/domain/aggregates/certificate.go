package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/credential"
)

var CertificateAggregateContract = Contract{
	Name:             "Credential.CertificateAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns idempotent certificate issuance per (user, course) and revocation.",
}

// CertificateAggregate issues and revokes completion certificates.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
// An already issued certificate is not an error; see EvaluateCertificateResult.AlreadyIssued.
type CertificateAggregate interface {
	Aggregate

	// EvaluateAndIssue issues a certificate when the learner is eligible.
	EvaluateAndIssue(ctx context.Context, in EvaluateCertificateInput) (EvaluateCertificateResult, error)

	// Revoke deactivates a certificate without deleting it.
	Revoke(ctx context.Context, in RevokeCertificateInput) (*credential.Certificate, error)
}

type EvaluateCertificateInput struct {
	UserID   uuid.UUID
	CourseID uint
	At       time.Time
}

type EvaluateCertificateResult struct {
	Eligible bool
	// Certificate is the issued or pre-existing certificate when eligible.
	Certificate *credential.Certificate
	// AlreadyIssued reports that Certificate existed before this call.
	AlreadyIssued bool
	// EnrollmentNotCompleted and MissingQuizIDs explain ineligibility.
	EnrollmentNotCompleted bool
	MissingQuizIDs         []uint
}

type RevokeCertificateInput struct {
	CertificateID uint
	At            time.Time
}
