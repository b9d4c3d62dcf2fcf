package database

import (
	"fmt"

	"gorm.io/gorm"

	"maven/internal/infrastructure/persistence/models"
)

// Migrate creates or updates the schema for every persistence model.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	if err := db.AutoMigrate(
		&models.UserModel{},
		&models.PasskeyCredentialModel{},
		&models.SeriesModel{},
		&models.UnitModel{},
		&models.EditGrantModel{},
		&models.SettingModel{},
	); err != nil {
		return fmt.Errorf("failed to run schema migration: %w", err)
	}
	return nil
}
