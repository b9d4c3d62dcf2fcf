package usecases

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/application/user/helpers"
	"maven/internal/domain/setting"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/cache"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type FinishPasskeyAuthenticationCommand struct {
	ChallengeID string
	Response    *protocol.ParsedCredentialAssertionData
}

type FinishPasskeyAuthenticationResult struct {
	User        *user.User
	AccessToken string
	ExpiresIn   int64
}

// FinishPasskeyAuthenticationUseCase verifies an assertion and mints a
// session token. The signature counter is checked strictly: a non-increasing
// counter on a counter-bearing authenticator fails the login.
type FinishPasskeyAuthenticationUseCase struct {
	userRepo        user.Repository
	passkeyRepo     user.PasskeyCredentialRepository
	settingRepo     setting.Repository
	webAuthnService CeremonyVerifier
	challengeStore  cache.ChallengeStore
	tokenIssuer     TokenIssuer
	logger          logger.Interface
}

func NewFinishPasskeyAuthenticationUseCase(
	userRepo user.Repository,
	passkeyRepo user.PasskeyCredentialRepository,
	settingRepo setting.Repository,
	webAuthnService CeremonyVerifier,
	challengeStore cache.ChallengeStore,
	tokenIssuer TokenIssuer,
	logger logger.Interface,
) *FinishPasskeyAuthenticationUseCase {
	return &FinishPasskeyAuthenticationUseCase{
		userRepo:        userRepo,
		passkeyRepo:     passkeyRepo,
		settingRepo:     settingRepo,
		webAuthnService: webAuthnService,
		challengeStore:  challengeStore,
		tokenIssuer:     tokenIssuer,
		logger:          logger,
	}
}

func (uc *FinishPasskeyAuthenticationUseCase) Execute(ctx context.Context, cmd FinishPasskeyAuthenticationCommand) (*FinishPasskeyAuthenticationResult, error) {
	challenge, err := uc.challengeStore.Consume(ctx, cmd.ChallengeID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired challenge")
	}

	var authenticatedUser *user.User
	var verified *webauthn.Credential

	if challenge.UserURN == "" {
		verified, err = uc.webAuthnService.FinishDiscoverableLogin(
			func(rawID, userHandle []byte) (webauthn.User, error) {
				// The user handle is the account URN in bytes.
				handleUser, lookupErr := uc.userRepo.GetByURN(ctx, string(userHandle))
				if lookupErr != nil {
					return nil, fmt.Errorf("failed to get user: %w", lookupErr)
				}
				if handleUser == nil {
					return nil, fmt.Errorf("user not found")
				}

				credentials, lookupErr := uc.passkeyRepo.GetByUserURN(ctx, handleUser.URN())
				if lookupErr != nil {
					return nil, fmt.Errorf("failed to get passkeys: %w", lookupErr)
				}

				authenticatedUser = handleUser
				return helpers.NewWebAuthnUser(handleUser, credentials), nil
			},
			*challenge.Session,
			cmd.Response,
		)
		if err != nil {
			uc.logger.Warnw("discoverable passkey login failed", "error", err)
			return nil, errors.NewUnauthorizedError("Passkey could not be verified")
		}
	} else {
		authenticatedUser, err = uc.userRepo.GetByURN(ctx, challenge.UserURN)
		if err != nil {
			uc.logger.Errorw("failed to get user", "urn", challenge.UserURN, "error", err)
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if authenticatedUser == nil {
			return nil, errors.NewUnauthorizedError("Passkey could not be verified")
		}

		credentials, err := uc.passkeyRepo.GetByUserURN(ctx, authenticatedUser.URN())
		if err != nil {
			uc.logger.Errorw("failed to get user passkeys", "urn", authenticatedUser.URN(), "error", err)
			return nil, fmt.Errorf("failed to get passkeys: %w", err)
		}

		webAuthnUser := helpers.NewWebAuthnUser(authenticatedUser, credentials)
		verified, err = uc.webAuthnService.FinishLogin(webAuthnUser, *challenge.Session, cmd.Response)
		if err != nil {
			uc.logger.Warnw("passkey login failed", "urn", authenticatedUser.URN(), "error", err)
			return nil, errors.NewUnauthorizedError("Passkey could not be verified")
		}
	}

	if authenticatedUser == nil || verified == nil {
		return nil, errors.NewUnauthorizedError("Passkey could not be verified")
	}
	if !authenticatedUser.Role().CanUsePasskeys() {
		return nil, errors.NewForbiddenError("Passkeys are not available for this account")
	}

	storedCredential, err := uc.passkeyRepo.GetByCredentialID(ctx, verified.ID)
	if err != nil {
		uc.logger.Errorw("failed to load verified credential", "error", err)
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if storedCredential == nil || !bytes.Equal(storedCredential.CredentialID(), verified.ID) {
		uc.logger.Errorw("verified credential missing from store", "urn", authenticatedUser.URN())
		return nil, errors.NewUnauthorizedError("Passkey could not be verified")
	}

	if err := storedCredential.UpdateSignCount(verified.Authenticator.SignCount); err != nil {
		uc.logger.Errorw("possible cloned passkey detected", "sid", storedCredential.SID(), "error", err)
		return nil, errors.NewUnauthorizedError("Passkey could not be verified")
	}
	storedCredential.UpdateLastUsed()
	if err := uc.passkeyRepo.Update(ctx, storedCredential); err != nil {
		// Non-critical; the next successful login writes the counter again.
		uc.logger.Warnw("failed to persist passkey sign count", "sid", storedCredential.SID(), "error", err)
	}

	settings, err := uc.settingRepo.GetAuth(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load auth settings", "error", err)
		return nil, fmt.Errorf("failed to load auth settings: %w", err)
	}
	if settings.MaintenanceMode && !authenticatedUser.Role().IsAdmin() {
		return nil, errors.NewMaintenanceModeError()
	}

	token, err := uc.tokenIssuer.Generate(authenticatedUser.URN(), authenticatedUser.Username(), authenticatedUser.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate session token", "urn", authenticatedUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Infow("user logged in via passkey", "urn", authenticatedUser.URN(), "sid", storedCredential.SID())

	return &FinishPasskeyAuthenticationResult{
		User:        authenticatedUser,
		AccessToken: token,
		ExpiresIn:   int64(settings.TokenExpiry().Seconds()),
	}, nil
}
