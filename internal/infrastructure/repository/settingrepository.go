package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maven/internal/domain/setting"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/logger"
)

const authSettingsKey = "auth"

// SettingRepository implements setting.Repository. Each settings record is a
// single row holding a JSON document.
type SettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSettingRepository(db *gorm.DB, logger logger.Interface) setting.Repository {
	return &SettingRepository{db: db, logger: logger}
}

func (r *SettingRepository) GetAuth(ctx context.Context) (setting.AuthSettings, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).Where("setting_key = ?", authSettingsKey).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return setting.DefaultAuthSettings(), nil
		}
		r.logger.Errorw("failed to load auth settings", "error", err)
		return setting.AuthSettings{}, fmt.Errorf("failed to load auth settings: %w", err)
	}

	// Unmarshal over the defaults so fields added after the row was written
	// keep their default values.
	settings := setting.DefaultAuthSettings()
	if err := json.Unmarshal([]byte(model.Value), &settings); err != nil {
		r.logger.Errorw("failed to decode auth settings record", "error", err)
		return setting.AuthSettings{}, fmt.Errorf("failed to decode auth settings: %w", err)
	}
	return settings, nil
}

func (r *SettingRepository) SaveAuth(ctx context.Context, settings setting.AuthSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode auth settings: %w", err)
	}

	model := models.SettingModel{
		SettingKey: authSettingsKey,
		Value:      string(value),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error; err != nil {
		r.logger.Errorw("failed to save auth settings", "error", err)
		return fmt.Errorf("failed to save auth settings: %w", err)
	}

	r.logger.Infow("auth settings saved")
	return nil
}
