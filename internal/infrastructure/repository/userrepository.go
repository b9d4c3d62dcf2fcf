// Package repository implements the domain repository contracts on GORM.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"maven/internal/domain/user"
	"maven/internal/infrastructure/persistence/mappers"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/logger"
)

// UserRepository implements user.Repository.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Infow("user created", "urn", model.URN, "username", model.Username)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user entity: %w", err)
	}

	// Update by URN with explicit columns so zero values are written too.
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("urn = ?", model.URN).
		Updates(map[string]interface{}{
			"username":                model.Username,
			"password_hash":           model.PasswordHash,
			"role":                    model.Role,
			"password_login_disabled": model.PasswordLoginDisabled,
			"external_subject":        model.ExternalSubject,
			"updated_at":              model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user in database", "urn", model.URN, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s not found for update", model.URN)
	}
	return nil
}

func (r *UserRepository) GetByURN(ctx context.Context, userURN string) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("urn = ?", userURN).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by URN", "urn", userURN, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by username", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepository) GetByExternalSubject(ctx context.Context, subject string) (*user.User, error) {
	if subject == "" {
		return nil, nil
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("external_subject = ?", subject).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by external subject", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check username existence", "error", err)
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
