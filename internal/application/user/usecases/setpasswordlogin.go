package usecases

import (
	"context"
	"fmt"

	"maven/internal/domain/user"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type SetPasswordLoginCommand struct {
	UserURN  string
	Disabled bool
}

// SetPasswordLoginUseCase toggles password login for an account. Admin only;
// the gate sits at the HTTP layer. Disabling does not clear the stored hash,
// so re-enabling restores the old password.
type SetPasswordLoginUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewSetPasswordLoginUseCase(userRepo user.Repository, logger logger.Interface) *SetPasswordLoginUseCase {
	return &SetPasswordLoginUseCase{userRepo: userRepo, logger: logger}
}

func (uc *SetPasswordLoginUseCase) Execute(ctx context.Context, cmd SetPasswordLoginCommand) error {
	existingUser, err := uc.userRepo.GetByURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user", "urn", cmd.UserURN, "error", err)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		return errors.NewNotFoundError("User not found")
	}

	existingUser.SetPasswordLoginDisabled(cmd.Disabled)
	if err := uc.userRepo.Update(ctx, existingUser); err != nil {
		uc.logger.Errorw("failed to update user", "urn", cmd.UserURN, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Infow("password login toggled", "urn", cmd.UserURN, "disabled", cmd.Disabled)
	return nil
}
