package learning

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsAction string

const (
	ActionView     AnalyticsAction = "view"
	ActionComplete AnalyticsAction = "complete"
	ActionQuiz     AnalyticsAction = "quiz"
)

type AnalyticsContent string

const (
	ContentLesson AnalyticsContent = "lesson"
	ContentQuiz   AnalyticsContent = "quiz"
)

// LearningAnalytics is an append-only activity event. Course and lesson
// references survive as NULL when the referenced row is deleted.
type LearningAnalytics struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_learning_analytics_user_time,priority:1" json:"user_id"`
	CourseID *uint     `gorm:"column:course_id;index" json:"course_id,omitempty"`
	LessonID *uint     `gorm:"column:lesson_id;index" json:"lesson_id,omitempty"`

	ActionType      AnalyticsAction  `gorm:"column:action_type;size:50;not null;index" json:"action_type"`
	ContentType     AnalyticsContent `gorm:"column:content_type;size:100" json:"content_type,omitempty"`
	ContentID       *uint            `gorm:"column:content_id" json:"content_id,omitempty"`
	DurationMinutes int              `gorm:"column:duration_minutes;not null" json:"duration_minutes"`

	DeviceInfo string `gorm:"column:device_info;size:200" json:"device_info,omitempty"`
	IPAddress  string `gorm:"column:ip_address;size:50" json:"ip_address,omitempty"`
	UserAgent  string `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`

	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_learning_analytics_user_time,priority:2" json:"timestamp"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LearningAnalytics) TableName() string { return "learning_analytics" }

// ClientInfo describes the device an event came from. All fields are optional.
type ClientInfo struct {
	DeviceInfo string
	IPAddress  string
	UserAgent  string
}

// NewEvent builds an event with the client fields clipped to their column sizes.
func NewEvent(userID uuid.UUID, action AnalyticsAction, at time.Time, client ClientInfo) *LearningAnalytics {
	return &LearningAnalytics{
		UserID:     userID,
		ActionType: action,
		Timestamp:  at,
		DeviceInfo: truncate(client.DeviceInfo, 200),
		IPAddress:  truncate(client.IPAddress, 50),
		UserAgent:  truncate(client.UserAgent, 500),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
