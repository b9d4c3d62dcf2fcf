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

// PasskeyCredentialRepository implements user.PasskeyCredentialRepository.
type PasskeyCredentialRepository struct {
	db     *gorm.DB
	mapper mappers.PasskeyCredentialMapper
	logger logger.Interface
}

func NewPasskeyCredentialRepository(db *gorm.DB, logger logger.Interface) user.PasskeyCredentialRepository {
	return &PasskeyCredentialRepository{
		db:     db,
		mapper: mappers.NewPasskeyCredentialMapper(),
		logger: logger,
	}
}

func (r *PasskeyCredentialRepository) Create(ctx context.Context, cred *user.PasskeyCredential) error {
	model, err := r.mapper.ToModel(cred)
	if err != nil {
		return fmt.Errorf("failed to map passkey credential entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create passkey credential in database", "error", err)
		return fmt.Errorf("failed to create passkey credential: %w", err)
	}

	if err := cred.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set passkey credential ID: %w", err)
	}

	r.logger.Infow("passkey credential created", "sid", model.SID, "user_urn", model.UserURN)
	return nil
}

func (r *PasskeyCredentialRepository) Update(ctx context.Context, cred *user.PasskeyCredential) error {
	model, err := r.mapper.ToModel(cred)
	if err != nil {
		return fmt.Errorf("failed to map passkey credential entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update passkey credential in database", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update passkey credential: %w", err)
	}
	return nil
}

func (r *PasskeyCredentialRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PasskeyCredentialModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete passkey credential", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete passkey credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("passkey credential not found for deletion", "id", id)
	}
	return nil
}

func (r *PasskeyCredentialRepository) GetBySID(ctx context.Context, sid string) (*user.PasskeyCredential, error) {
	var model models.PasskeyCredentialModel
	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get passkey credential by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get passkey credential: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PasskeyCredentialRepository) GetByCredentialID(ctx context.Context, credentialID []byte) (*user.PasskeyCredential, error) {
	var model models.PasskeyCredentialModel
	if err := r.db.WithContext(ctx).Where("credential_id = ?", credentialID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get passkey credential by credential ID", "error", err)
		return nil, fmt.Errorf("failed to get passkey credential: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PasskeyCredentialRepository) GetByUserURN(ctx context.Context, userURN string) ([]*user.PasskeyCredential, error) {
	var credentialModels []*models.PasskeyCredentialModel
	if err := r.db.WithContext(ctx).Where("user_urn = ?", userURN).Order("created_at DESC").Find(&credentialModels).Error; err != nil {
		r.logger.Errorw("failed to get passkey credentials by user URN", "user_urn", userURN, "error", err)
		return nil, fmt.Errorf("failed to get passkey credentials: %w", err)
	}
	return r.mapper.ToEntities(credentialModels)
}
