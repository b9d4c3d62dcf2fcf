package usecases

import (
	"context"
	"fmt"

	"maven/internal/domain/user"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

// ManagePasskeysUseCase covers the owner-facing credential management
// operations: list, rename, delete. Every operation is scoped to the
// caller's own credentials.
type ManagePasskeysUseCase struct {
	passkeyRepo user.PasskeyCredentialRepository
	logger      logger.Interface
}

func NewManagePasskeysUseCase(passkeyRepo user.PasskeyCredentialRepository, logger logger.Interface) *ManagePasskeysUseCase {
	return &ManagePasskeysUseCase{passkeyRepo: passkeyRepo, logger: logger}
}

func (uc *ManagePasskeysUseCase) List(ctx context.Context, userURN string) ([]user.PasskeyDisplayInfo, error) {
	credentials, err := uc.passkeyRepo.GetByUserURN(ctx, userURN)
	if err != nil {
		uc.logger.Errorw("failed to list passkeys", "urn", userURN, "error", err)
		return nil, fmt.Errorf("failed to list passkeys: %w", err)
	}

	infos := make([]user.PasskeyDisplayInfo, len(credentials))
	for i, cred := range credentials {
		infos[i] = cred.GetDisplayInfo()
	}
	return infos, nil
}

func (uc *ManagePasskeysUseCase) Rename(ctx context.Context, userURN, sid, label string) (*user.PasskeyDisplayInfo, error) {
	credential, err := uc.ownedCredential(ctx, userURN, sid)
	if err != nil {
		return nil, err
	}

	if err := credential.UpdateLabel(label); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.passkeyRepo.Update(ctx, credential); err != nil {
		uc.logger.Errorw("failed to rename passkey", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to update passkey: %w", err)
	}

	info := credential.GetDisplayInfo()
	return &info, nil
}

func (uc *ManagePasskeysUseCase) Delete(ctx context.Context, userURN, sid string) error {
	credential, err := uc.ownedCredential(ctx, userURN, sid)
	if err != nil {
		return err
	}

	if err := uc.passkeyRepo.Delete(ctx, credential.ID()); err != nil {
		uc.logger.Errorw("failed to delete passkey", "sid", sid, "error", err)
		return fmt.Errorf("failed to delete passkey: %w", err)
	}

	uc.logger.Infow("passkey deleted", "urn", userURN, "sid", sid)
	return nil
}

// ownedCredential loads a credential and checks it belongs to the caller.
// Someone else's sid reports not-found rather than forbidden.
func (uc *ManagePasskeysUseCase) ownedCredential(ctx context.Context, userURN, sid string) (*user.PasskeyCredential, error) {
	credential, err := uc.passkeyRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get passkey", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get passkey: %w", err)
	}
	if credential == nil || credential.UserURN() != userURN {
		return nil, errors.NewNotFoundError("Passkey not found")
	}
	return credential, nil
}
