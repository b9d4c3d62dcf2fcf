package mappers

import (
	"fmt"

	"maven/internal/domain/content"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/mapper"
)

// ContentMapper converts series, unit, and edit grant records.
type ContentMapper interface {
	SeriesToEntity(model *models.SeriesModel) (*content.Series, error)
	SeriesToModel(entity *content.Series) (*models.SeriesModel, error)
	UnitToEntity(model *models.UnitModel) (*content.Unit, error)
	GrantToEntity(model *models.EditGrantModel) (*content.EditGrant, error)
	GrantToModel(entity *content.EditGrant) (*models.EditGrantModel, error)
	GrantsToEntities(models []*models.EditGrantModel) ([]*content.EditGrant, error)
}

type contentMapper struct{}

func NewContentMapper() ContentMapper {
	return &contentMapper{}
}

func (m *contentMapper) SeriesToEntity(model *models.SeriesModel) (*content.Series, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := content.ReconstructSeries(model.URN, model.Title, model.CreatedBy, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct series entity: %w", err)
	}
	return entity, nil
}

func (m *contentMapper) SeriesToModel(entity *content.Series) (*models.SeriesModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.SeriesModel{
		URN:       entity.URN(),
		Title:     entity.Title(),
		CreatedBy: entity.CreatedBy(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *contentMapper) UnitToEntity(model *models.UnitModel) (*content.Unit, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := content.ReconstructUnit(model.URN, model.SeriesURN, model.Title, model.CreatedBy, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct unit entity: %w", err)
	}
	return entity, nil
}

func (m *contentMapper) GrantToEntity(model *models.EditGrantModel) (*content.EditGrant, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := content.ReconstructEditGrant(model.ID, model.ResourceURN, model.GranteeURN, model.GrantedBy, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct edit grant entity: %w", err)
	}
	return entity, nil
}

func (m *contentMapper) GrantToModel(entity *content.EditGrant) (*models.EditGrantModel, error) {
	if entity == nil {
		return nil, nil
	}
	return &models.EditGrantModel{
		ID:          entity.ID(),
		ResourceURN: entity.ResourceURN(),
		GranteeURN:  entity.GranteeURN(),
		GrantedBy:   entity.GrantedBy(),
		CreatedAt:   entity.CreatedAt(),
	}, nil
}

func (m *contentMapper) GrantsToEntities(modelList []*models.EditGrantModel) ([]*content.EditGrant, error) {
	return mapper.MapSlicePtrWithID(modelList, m.GrantToEntity, func(model *models.EditGrantModel) uint { return model.ID })
}
