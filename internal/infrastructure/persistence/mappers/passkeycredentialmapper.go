package mappers

import (
	"encoding/json"
	"fmt"

	"maven/internal/domain/user"
	"maven/internal/infrastructure/persistence/models"
	"maven/internal/shared/mapper"
)

// PasskeyCredentialMapper handles the conversion between passkey credential
// entities and models.
type PasskeyCredentialMapper interface {
	ToEntity(model *models.PasskeyCredentialModel) (*user.PasskeyCredential, error)
	ToModel(entity *user.PasskeyCredential) (*models.PasskeyCredentialModel, error)
	ToEntities(models []*models.PasskeyCredentialModel) ([]*user.PasskeyCredential, error)
}

type passkeyCredentialMapper struct{}

func NewPasskeyCredentialMapper() PasskeyCredentialMapper {
	return &passkeyCredentialMapper{}
}

func (m *passkeyCredentialMapper) ToEntity(model *models.PasskeyCredentialModel) (*user.PasskeyCredential, error) {
	if model == nil {
		return nil, nil
	}

	var transports []string
	if len(model.Transports) > 0 {
		if err := json.Unmarshal(model.Transports, &transports); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transports: %w", err)
		}
	}

	credential, err := user.ReconstructPasskeyCredential(
		model.ID,
		model.SID,
		model.UserURN,
		model.CredentialID,
		model.PublicKey,
		model.AttestationType,
		model.AAGUID,
		model.SignCount,
		model.BackupEligible,
		model.BackupState,
		transports,
		model.Label,
		model.LastUsedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct passkey credential entity: %w", err)
	}
	return credential, nil
}

func (m *passkeyCredentialMapper) ToModel(entity *user.PasskeyCredential) (*models.PasskeyCredentialModel, error) {
	if entity == nil {
		return nil, nil
	}

	var transportsJSON []byte
	if len(entity.Transports()) > 0 {
		var err error
		transportsJSON, err = json.Marshal(entity.Transports())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transports: %w", err)
		}
	}

	return &models.PasskeyCredentialModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		UserURN:         entity.UserURN(),
		CredentialID:    entity.CredentialID(),
		PublicKey:       entity.PublicKey(),
		AttestationType: entity.AttestationType(),
		AAGUID:          entity.AAGUID(),
		SignCount:       entity.SignCount(),
		BackupEligible:  entity.BackupEligible(),
		BackupState:     entity.BackupState(),
		Transports:      transportsJSON,
		Label:           entity.Label(),
		LastUsedAt:      entity.LastUsedAt(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *passkeyCredentialMapper) ToEntities(modelList []*models.PasskeyCredentialModel) ([]*user.PasskeyCredential, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.PasskeyCredentialModel) uint { return model.ID })
}
