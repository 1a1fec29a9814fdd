package catalog

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:name;not null;uniqueIndex:idx_category_name" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool   `gorm:"column:is_active;not null" json:"is_active"`
	SortOrder   int    `gorm:"column:sort_order;not null" json:"sort_order"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }
