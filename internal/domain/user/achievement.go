package user

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement and UserSkill keep their history when the course they came
// from is deleted; CourseID is cleared instead.
type UserAchievement struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	CourseID *uint     `gorm:"column:course_id;index" json:"course_id,omitempty"`

	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Kind        string    `gorm:"column:kind;not null" json:"kind"`
	Points      int       `gorm:"column:points;not null" json:"points"`
	EarnedAt    time.Time `gorm:"column:earned_at;not null" json:"earned_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

type UserSkill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_user_skill_user_name,priority:1" json:"user_id"`
	SkillName string    `gorm:"column:skill_name;not null;uniqueIndex:idx_user_skill_user_name,priority:2" json:"skill_name"`
	CourseID  *uint     `gorm:"column:course_id;index" json:"course_id,omitempty"`
	Level     int       `gorm:"column:level;not null" json:"level"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserSkill) TableName() string { return "user_skill" }
