package credential

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const NumberPrefix = "CERT"

// Certificate is unique per (user, course) and carries a globally unique number.
// CourseID is cleared when the course is deleted; the certificate survives.
type Certificate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_certificate_user_course,priority:1" json:"user_id"`
	CourseID     *uint     `gorm:"column:course_id;uniqueIndex:idx_certificate_user_course,priority:2;index" json:"course_id,omitempty"`
	EnrollmentID *uint     `gorm:"column:enrollment_id;index" json:"enrollment_id,omitempty"`

	CertificateNumber string `gorm:"column:certificate_number;not null;uniqueIndex:idx_certificate_number" json:"certificate_number"`
	Title             string `gorm:"column:title;not null" json:"title"`
	Description       string `gorm:"column:description;type:text" json:"description,omitempty"`
	CertificateURL    string `gorm:"column:certificate_url" json:"certificate_url,omitempty"`

	IssuedAt  time.Time  `gorm:"column:issued_at;not null" json:"issued_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	IsActive  bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Certificate) TableName() string { return "certificate" }

// NewCertificateNumber formats CERT-YYYYMMDD-XXXXXXXX with entropy taken from a random uuid.
func NewCertificateNumber(issuedAt time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s-%s", NumberPrefix, issuedAt.UTC().Format("20060102"), strings.ToUpper(raw[:8]))
}
