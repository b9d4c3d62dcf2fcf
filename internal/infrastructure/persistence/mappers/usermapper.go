// Package mappers converts between domain entities and persistence models.
package mappers

import (
	"fmt"

	"maven/internal/domain/user"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/authorization"
)

// UserMapper handles the conversion between user entities and models.
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := user.Reconstruct(
		model.URN,
		model.Username,
		model.PasswordHash,
		authorization.ParseRole(model.Role),
		model.PasswordLoginDisabled,
		model.ExternalSubject,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func (m *userMapper) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UserModel{
		URN:                   entity.URN(),
		Username:              entity.Username(),
		PasswordHash:          entity.PasswordHash(),
		Role:                  entity.Role().String(),
		PasswordLoginDisabled: entity.PasswordLoginDisabled(),
		ExternalSubject:       entity.ExternalSubject(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}
