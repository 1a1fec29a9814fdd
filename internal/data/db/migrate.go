package db

import (
	"fmt"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates or updates every table. Unique and composite indexes
// are declared on the models, so the schema carries the uniqueness invariants
// for both dialects.
func AutoMigrateAll(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("auto migrate: nil db")
	}
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
