package catalog

import "time"

// Lesson ordering is advisory; OrderIndex is indexed per course but not unique.
type Lesson struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CourseID uint `gorm:"column:course_id;not null;index:idx_lesson_course_order,priority:1" json:"course_id"`

	Title           string `gorm:"column:title;not null" json:"title"`
	Description     string `gorm:"column:description;type:text" json:"description,omitempty"`
	Content         string `gorm:"column:content;type:text" json:"content,omitempty"`
	VideoURL        string `gorm:"column:video_url" json:"video_url,omitempty"`
	OrderIndex      int    `gorm:"column:order_index;not null;index:idx_lesson_course_order,priority:2" json:"order_index"`
	DurationMinutes int    `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	IsPreview       bool   `gorm:"column:is_preview;not null" json:"is_preview"`
	IsActive        bool   `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

type LessonResource struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	LessonID      uint   `gorm:"column:lesson_id;not null;index" json:"lesson_id"`
	Title         string `gorm:"column:title;not null" json:"title"`
	URL           string `gorm:"column:url;not null" json:"url"`
	ResourceType  string `gorm:"column:resource_type" json:"resource_type,omitempty"`
	FileSizeBytes int64  `gorm:"column:file_size_bytes;not null" json:"file_size_bytes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonResource) TableName() string { return "lesson_resource" }
