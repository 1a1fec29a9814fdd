package catalog

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// CourseReview is unique per (user, course).
type CourseReview struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_course_review_user_course,priority:1" json:"user_id"`
	CourseID uint      `gorm:"column:course_id;not null;uniqueIndex:idx_course_review_user_course,priority:2;index" json:"course_id"`

	Rating     int    `gorm:"column:rating;not null" json:"rating"`
	Comment    string `gorm:"column:comment;type:text" json:"comment,omitempty"`
	IsApproved bool   `gorm:"column:is_approved;not null" json:"is_approved"`
	IsVisible  bool   `gorm:"column:is_visible;not null" json:"is_visible"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CourseReview) TableName() string { return "course_review" }

func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }
