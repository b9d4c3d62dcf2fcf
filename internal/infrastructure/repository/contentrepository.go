package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"maven/internal/domain/content"
	"maven/internal/infrastructure/persistence/mappers"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/logger"
)

// SeriesRepository implements content.SeriesRepository.
type SeriesRepository struct {
	db     *gorm.DB
	mapper mappers.ContentMapper
	logger logger.Interface
}

func NewSeriesRepository(db *gorm.DB, logger logger.Interface) content.SeriesRepository {
	return &SeriesRepository{
		db:     db,
		mapper: mappers.NewContentMapper(),
		logger: logger,
	}
}

func (r *SeriesRepository) GetByURN(ctx context.Context, seriesURN string) (*content.Series, error) {
	var model models.SeriesModel
	if err := r.db.WithContext(ctx).Where("urn = ?", seriesURN).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get series by URN", "urn", seriesURN, "error", err)
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return r.mapper.SeriesToEntity(&model)
}

func (r *SeriesRepository) Update(ctx context.Context, s *content.Series) error {
	model, err := r.mapper.SeriesToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map series entity: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&models.SeriesModel{}).
		Where("urn = ?", model.URN).
		Updates(map[string]interface{}{
			"title":      model.Title,
			"created_by": model.CreatedBy,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update series", "urn", model.URN, "error", result.Error)
		return fmt.Errorf("failed to update series: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("series %s not found for update", model.URN)
	}
	return nil
}

// UnitRepository implements content.UnitRepository.
type UnitRepository struct {
	db     *gorm.DB
	mapper mappers.ContentMapper
	logger logger.Interface
}

func NewUnitRepository(db *gorm.DB, logger logger.Interface) content.UnitRepository {
	return &UnitRepository{
		db:     db,
		mapper: mappers.NewContentMapper(),
		logger: logger,
	}
}

func (r *UnitRepository) GetByURN(ctx context.Context, unitURN string) (*content.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).Where("urn = ?", unitURN).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get unit by URN", "urn", unitURN, "error", err)
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return r.mapper.UnitToEntity(&model)
}

// EditGrantRepository implements content.EditGrantRepository.
type EditGrantRepository struct {
	db     *gorm.DB
	mapper mappers.ContentMapper
	logger logger.Interface
}

func NewEditGrantRepository(db *gorm.DB, logger logger.Interface) content.EditGrantRepository {
	return &EditGrantRepository{
		db:     db,
		mapper: mappers.NewContentMapper(),
		logger: logger,
	}
}

func (r *EditGrantRepository) Create(ctx context.Context, grant *content.EditGrant) error {
	model, err := r.mapper.GrantToModel(grant)
	if err != nil {
		return fmt.Errorf("failed to map edit grant entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create edit grant", "resource", model.ResourceURN, "error", err)
		return fmt.Errorf("failed to create edit grant: %w", err)
	}

	if err := grant.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set edit grant ID: %w", err)
	}

	r.logger.Infow("edit grant created", "resource", model.ResourceURN, "grantee", model.GranteeURN)
	return nil
}

func (r *EditGrantRepository) Delete(ctx context.Context, resourceURN, granteeURN string) error {
	result := r.db.WithContext(ctx).
		Where("resource_urn = ? AND grantee_urn = ?", resourceURN, granteeURN).
		Delete(&models.EditGrantModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete edit grant", "resource", resourceURN, "error", result.Error)
		return fmt.Errorf("failed to delete edit grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.logger.Infow("edit grant deleted", "resource", resourceURN, "grantee", granteeURN)
	return nil
}

func (r *EditGrantRepository) Exists(ctx context.Context, resourceURN, granteeURN string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EditGrantModel{}).
		Where("resource_urn = ? AND grantee_urn = ?", resourceURN, granteeURN).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check edit grant existence", "resource", resourceURN, "error", err)
		return false, fmt.Errorf("failed to check edit grant existence: %w", err)
	}
	return count > 0, nil
}

func (r *EditGrantRepository) ListByResource(ctx context.Context, resourceURN string) ([]*content.EditGrant, error) {
	var grantModels []*models.EditGrantModel
	if err := r.db.WithContext(ctx).
		Where("resource_urn = ?", resourceURN).
		Order("created_at ASC").
		Find(&grantModels).Error; err != nil {
		r.logger.Errorw("failed to list edit grants", "resource", resourceURN, "error", err)
		return nil, fmt.Errorf("failed to list edit grants: %w", err)
	}
	return r.mapper.GrantsToEntities(grantModels)
}
