package catalog

import "time"

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex:idx_tag_name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Tag) TableName() string { return "tag" }

type CourseTag struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CourseID uint `gorm:"column:course_id;not null;uniqueIndex:idx_course_tag_course_tag,priority:1" json:"course_id"`
	TagID    uint `gorm:"column:tag_id;not null;uniqueIndex:idx_course_tag_course_tag,priority:2;index" json:"tag_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CourseTag) TableName() string { return "course_tag" }
