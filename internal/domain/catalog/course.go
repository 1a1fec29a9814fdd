package catalog

import (
	"time"

	"github.com/google/uuid"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// Course is the catalog entry learners enroll in. Aggregate figures such as
// rating or enrollment counts are derived by the course stats service and are
// never stored here.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InstructorID uuid.UUID `gorm:"type:uuid;column:instructor_id;not null;index" json:"instructor_id"`
	CategoryID   *uint     `gorm:"column:category_id;index" json:"category_id,omitempty"`

	Title            string      `gorm:"column:title;not null" json:"title"`
	ShortDescription string      `gorm:"column:short_description" json:"short_description,omitempty"`
	Description      string      `gorm:"column:description;type:text" json:"description,omitempty"`
	Level            CourseLevel `gorm:"column:level;not null" json:"level"`
	Price            float64     `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	DurationMinutes  int         `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Language         string      `gorm:"column:language" json:"language,omitempty"`

	IsPublished bool       `gorm:"column:is_published;not null;index" json:"is_published"`
	IsActive    bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	IsFeatured  bool       `gorm:"column:is_featured;not null" json:"is_featured"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// IsFree reports whether the course can be taken without payment.
func (c *Course) IsFree() bool { return c != nil && c.Price <= 0 }

// OpenForEnrollment reports whether new enrollments may be created.
func (c *Course) OpenForEnrollment() bool { return c != nil && c.IsPublished && c.IsActive }
