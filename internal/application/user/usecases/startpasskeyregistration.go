package usecases

import (
	"context"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/application/user/helpers"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/cache"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type StartPasskeyRegistrationCommand struct {
	UserURN string
}

type StartPasskeyRegistrationResult struct {
	ChallengeID string
	Options     *protocol.CredentialCreation
}

// StartPasskeyRegistrationUseCase begins a registration ceremony for an
// authenticated account. Existing credentials are sent as exclusions so the
// authenticator refuses to register twice.
type StartPasskeyRegistrationUseCase struct {
	userRepo        user.Repository
	passkeyRepo     user.PasskeyCredentialRepository
	webAuthnService CeremonyVerifier
	challengeStore  cache.ChallengeStore
	logger          logger.Interface
}

func NewStartPasskeyRegistrationUseCase(
	userRepo user.Repository,
	passkeyRepo user.PasskeyCredentialRepository,
	webAuthnService CeremonyVerifier,
	challengeStore cache.ChallengeStore,
	logger logger.Interface,
) *StartPasskeyRegistrationUseCase {
	return &StartPasskeyRegistrationUseCase{
		userRepo:        userRepo,
		passkeyRepo:     passkeyRepo,
		webAuthnService: webAuthnService,
		challengeStore:  challengeStore,
		logger:          logger,
	}
}

func (uc *StartPasskeyRegistrationUseCase) Execute(ctx context.Context, cmd StartPasskeyRegistrationCommand) (*StartPasskeyRegistrationResult, error) {
	existingUser, err := uc.userRepo.GetByURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	if !existingUser.Role().CanUsePasskeys() {
		return nil, errors.NewForbiddenError("Passkeys are not available for this account")
	}

	credentials, err := uc.passkeyRepo.GetByUserURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user passkeys", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to get passkeys: %w", err)
	}

	webAuthnUser := helpers.NewWebAuthnUser(existingUser, credentials)

	options, sessionData, err := uc.webAuthnService.BeginRegistration(
		webAuthnUser,
		webauthn.WithExclusions(webAuthnUser.CredentialDescriptors()),
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementPreferred),
	)
	if err != nil {
		uc.logger.Errorw("failed to begin passkey registration", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to begin registration: %w", err)
	}

	challengeID, err := uc.challengeStore.Store(ctx, sessionData, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to store registration challenge", "error", err)
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return &StartPasskeyRegistrationResult{
		ChallengeID: challengeID,
		Options:     options,
	}, nil
}
