package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-webauthn/webauthn/protocol"

	"maven/internal/application/user/helpers"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/cache"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

const defaultPasskeyLabel = "Passkey"

type FinishPasskeyRegistrationCommand struct {
	UserURN     string
	ChallengeID string
	Label       string
	Response    *protocol.ParsedCredentialCreationData
}

type FinishPasskeyRegistrationResult struct {
	Credential user.PasskeyDisplayInfo
}

// FinishPasskeyRegistrationUseCase verifies the authenticator's response and
// stores the new credential. The challenge is consumed before verification,
// so a failed attempt cannot be retried with the same challenge.
type FinishPasskeyRegistrationUseCase struct {
	userRepo        user.Repository
	passkeyRepo     user.PasskeyCredentialRepository
	webAuthnService CeremonyVerifier
	challengeStore  cache.ChallengeStore
	logger          logger.Interface
}

func NewFinishPasskeyRegistrationUseCase(
	userRepo user.Repository,
	passkeyRepo user.PasskeyCredentialRepository,
	webAuthnService CeremonyVerifier,
	challengeStore cache.ChallengeStore,
	logger logger.Interface,
) *FinishPasskeyRegistrationUseCase {
	return &FinishPasskeyRegistrationUseCase{
		userRepo:        userRepo,
		passkeyRepo:     passkeyRepo,
		webAuthnService: webAuthnService,
		challengeStore:  challengeStore,
		logger:          logger,
	}
}

func (uc *FinishPasskeyRegistrationUseCase) Execute(ctx context.Context, cmd FinishPasskeyRegistrationCommand) (*FinishPasskeyRegistrationResult, error) {
	challenge, err := uc.challengeStore.Consume(ctx, cmd.ChallengeID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired challenge")
	}
	if challenge.UserURN != cmd.UserURN {
		uc.logger.Warnw("registration challenge bound to a different account", "urn", cmd.UserURN)
		return nil, errors.NewUnauthorizedError("Invalid or expired challenge")
	}

	existingUser, err := uc.userRepo.GetByURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		return nil, errors.NewNotFoundError("User not found")
	}

	credentials, err := uc.passkeyRepo.GetByUserURN(ctx, cmd.UserURN)
	if err != nil {
		uc.logger.Errorw("failed to get user passkeys", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to get passkeys: %w", err)
	}

	webAuthnUser := helpers.NewWebAuthnUser(existingUser, credentials)

	credential, err := uc.webAuthnService.FinishRegistration(webAuthnUser, *challenge.Session, cmd.Response)
	if err != nil {
		uc.logger.Warnw("passkey registration verification failed", "urn", cmd.UserURN, "error", err)
		return nil, errors.NewValidationError("Passkey registration could not be verified")
	}

	duplicate, err := uc.passkeyRepo.GetByCredentialID(ctx, credential.ID)
	if err != nil {
		uc.logger.Errorw("failed to check credential uniqueness", "error", err)
		return nil, fmt.Errorf("failed to check credential: %w", err)
	}
	if duplicate != nil {
		return nil, errors.NewConflictError("This passkey is already registered")
	}

	label := strings.TrimSpace(cmd.Label)
	if label == "" {
		label = defaultPasskeyLabel
	}

	newCredential, err := user.NewPasskeyCredentialFromWebAuthn(cmd.UserURN, credential, label)
	if err != nil {
		return nil, fmt.Errorf("failed to build passkey credential: %w", err)
	}

	if err := uc.passkeyRepo.Create(ctx, newCredential); err != nil {
		uc.logger.Errorw("failed to store passkey credential", "urn", cmd.UserURN, "error", err)
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	uc.logger.Infow("passkey registered", "urn", cmd.UserURN, "sid", newCredential.SID())

	return &FinishPasskeyRegistrationResult{Credential: newCredential.GetDisplayInfo()}, nil
}
