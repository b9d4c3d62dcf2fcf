package usecases

import (
	"context"
	"fmt"

	"maven/internal/domain/user"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type ChangePasswordCommand struct {
	UserURN         string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordUseCase rotates an account's password after verifying the
// current one. Outstanding session tokens stay valid until natural expiry.
type ChangePasswordUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	logger   logger.Interface
}

func NewChangePasswordUseCase(userRepo user.Repository, hasher PasswordHasher, logger logger.Interface) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

func (uc *ChangePasswordUseCase) Execute(ctx context.Context, cmd ChangePasswordCommand) error {
	existingUser, err := uc.userRepo.GetByURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user", "urn", cmd.UserURN, "error", err)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		return errors.NewNotFoundError("User not found")
	}

	if !existingUser.HasPassword() {
		return errors.NewValidationError("This account has no password set")
	}
	if err := uc.hasher.Verify(cmd.CurrentPassword, existingUser.PasswordHash()); err != nil {
		return errors.NewUnauthorizedError("Current password is incorrect")
	}

	if err := user.ValidatePasswordStrength(cmd.NewPassword); err != nil {
		return errors.NewValidationError(err.Error())
	}

	hash, err := uc.hasher.Hash(cmd.NewPassword)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := existingUser.SetPasswordHash(hash); err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}

	if err := uc.userRepo.Update(ctx, existingUser); err != nil {
		uc.logger.Errorw("failed to update user password", "urn", cmd.UserURN, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Infow("password changed", "urn", cmd.UserURN)
	return nil
}
