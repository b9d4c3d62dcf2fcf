package usecases

import (
	"context"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"

	"maven/internal/application/user/helpers"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/cache"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type StartPasskeyAuthenticationCommand struct {
	// Username is optional. When empty a discoverable (usernameless)
	// ceremony is started.
	Username string
}

type StartPasskeyAuthenticationResult struct {
	ChallengeID string
	Options     *protocol.CredentialAssertion
}

// StartPasskeyAuthenticationUseCase begins an authentication ceremony. With
// a username the assertion is scoped to that account's credentials; without
// one the client relies on resident credentials.
type StartPasskeyAuthenticationUseCase struct {
	userRepo        user.Repository
	passkeyRepo     user.PasskeyCredentialRepository
	webAuthnService CeremonyVerifier
	challengeStore  cache.ChallengeStore
	logger          logger.Interface
}

func NewStartPasskeyAuthenticationUseCase(
	userRepo user.Repository,
	passkeyRepo user.PasskeyCredentialRepository,
	webAuthnService CeremonyVerifier,
	challengeStore cache.ChallengeStore,
	logger logger.Interface,
) *StartPasskeyAuthenticationUseCase {
	return &StartPasskeyAuthenticationUseCase{
		userRepo:        userRepo,
		passkeyRepo:     passkeyRepo,
		webAuthnService: webAuthnService,
		challengeStore:  challengeStore,
		logger:          logger,
	}
}

func (uc *StartPasskeyAuthenticationUseCase) Execute(ctx context.Context, cmd StartPasskeyAuthenticationCommand) (*StartPasskeyAuthenticationResult, error) {
	if cmd.Username == "" {
		options, sessionData, err := uc.webAuthnService.BeginDiscoverableLogin()
		if err != nil {
			uc.logger.Errorw("failed to begin discoverable passkey login", "error", err)
			return nil, fmt.Errorf("failed to begin login: %w", err)
		}

		challengeID, err := uc.challengeStore.Store(ctx, sessionData, "")
		if err != nil {
			uc.logger.Errorw("failed to store authentication challenge", "error", err)
			return nil, fmt.Errorf("failed to store challenge: %w", err)
		}
		return &StartPasskeyAuthenticationResult{ChallengeID: challengeID, Options: options}, nil
	}

	normalized, err := user.NormalizeUsername(cmd.Username)
	if err != nil {
		return nil, errors.NewNoPasskeysError()
	}

	existingUser, err := uc.userRepo.GetByUsername(ctx, normalized)
	if err != nil {
		uc.logger.Errorw("failed to get user by username", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existingUser == nil {
		// Same error as zero credentials: the client falls back to password
		// login without learning whether the account exists.
		return nil, errors.NewNoPasskeysError()
	}

	credentials, err := uc.passkeyRepo.GetByUserURN(ctx, existingUser.URN())
	if err != nil {
		uc.logger.Errorw("failed to get user passkeys", "urn", existingUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to get passkeys: %w", err)
	}
	if len(credentials) == 0 {
		return nil, errors.NewNoPasskeysError()
	}

	webAuthnUser := helpers.NewWebAuthnUser(existingUser, credentials)

	options, sessionData, err := uc.webAuthnService.BeginLogin(webAuthnUser)
	if err != nil {
		uc.logger.Errorw("failed to begin passkey login", "urn", existingUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to begin login: %w", err)
	}

	challengeID, err := uc.challengeStore.Store(ctx, sessionData, existingUser.URN())
	if err != nil {
		uc.logger.Errorw("failed to store authentication challenge", "error", err)
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return &StartPasskeyAuthenticationResult{ChallengeID: challengeID, Options: options}, nil
}
