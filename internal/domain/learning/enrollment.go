package learning

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentSuspended EnrollmentStatus = "suspended"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentExpired   EnrollmentStatus = "expired"
)

// enrollmentTransitions lists the statuses reachable from each status through a
// plain status change. Completion is reached only through the completion path,
// which checks progress first.
var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentActive:    {EnrollmentSuspended, EnrollmentCancelled, EnrollmentExpired},
	EnrollmentSuspended: {EnrollmentActive, EnrollmentCancelled, EnrollmentExpired},
	EnrollmentCancelled: {EnrollmentActive},
	EnrollmentExpired:   {EnrollmentActive, EnrollmentCancelled},
	EnrollmentCompleted: {EnrollmentExpired},
}

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentSuspended, EnrollmentCancelled, EnrollmentExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a direct status change from s to next is allowed.
// Same-status changes are not transitions and return false.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	for _, allowed := range enrollmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Enrollment binds a learner to a course. It is unique per (user, course).
type Enrollment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_enrollment_user_course,priority:1" json:"user_id"`
	CourseID uint      `gorm:"column:course_id;not null;uniqueIndex:idx_enrollment_user_course,priority:2;index" json:"course_id"`

	Status    EnrollmentStatus `gorm:"column:status;not null;index" json:"status"`
	Progress  float64          `gorm:"column:progress;type:decimal(5,2);not null" json:"progress"`
	PricePaid float64          `gorm:"column:price_paid;type:decimal(10,2);not null" json:"price_paid"`

	EnrolledAt          time.Time  `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	CompletedAt         *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastAccessedAt      *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`
	CertificateIssuedAt *time.Time `gorm:"column:certificate_issued_at" json:"certificate_issued_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }
