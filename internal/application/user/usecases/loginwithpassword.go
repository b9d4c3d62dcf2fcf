package usecases

import (
	"context"
	"fmt"

	"maven/internal/domain/setting"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/auth"
	"maven/internal/infrastructure/ratelimit"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type LoginWithPasswordCommand struct {
	Username       string
	Password       string
	ChallengeToken string
	IPAddress      string
}

type LoginWithPasswordResult struct {
	User        *user.User
	AccessToken string
	ExpiresIn   int64
}

// LoginWithPasswordUseCase authenticates a username/password pair. Every
// credential failure records against both lockout axes and returns the same
// generic error so responses never reveal which accounts exist.
type LoginWithPasswordUseCase struct {
	userRepo     user.Repository
	settingRepo  setting.Repository
	hasher       PasswordHasher
	tokenIssuer  TokenIssuer
	limiter      ratelimit.LoginLimiter
	botChallenge BotChallengeVerifier
	logger       logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	settingRepo setting.Repository,
	hasher PasswordHasher,
	tokenIssuer TokenIssuer,
	limiter ratelimit.LoginLimiter,
	botChallenge BotChallengeVerifier,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo:     userRepo,
		settingRepo:  settingRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		limiter:      limiter,
		botChallenge: botChallenge,
		logger:       logger,
	}
}

func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*LoginWithPasswordResult, error) {
	normalized, err := user.NormalizeUsername(cmd.Username)
	if err != nil {
		// A malformed username can never match an account; still burns a
		// failure against the IP axis.
		uc.limiter.RecordFailure("", cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	if uc.limiter.IsLocked(normalized, cmd.IPAddress) {
		uc.logger.Warnw("login attempt while locked out", "username", normalized, "ip", cmd.IPAddress)
		return nil, errors.NewAccountLockedError()
	}

	settings, err := uc.settingRepo.GetAuth(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load auth settings", "error", err)
		return nil, fmt.Errorf("failed to load auth settings: %w", err)
	}

	if err := uc.botChallenge.Validate(ctx, auth.BotChallengePolicy{
		Enabled:   settings.BotChallengeEnabled,
		SecretKey: settings.BotChallengeSecretKey,
	}, cmd.ChallengeToken, cmd.IPAddress); err != nil {
		uc.logger.Warnw("bot challenge verification failed on login", "username", normalized, "error", err)
		return nil, errors.NewChallengeFailedError()
	}

	existingUser, err := uc.userRepo.GetByUsername(ctx, normalized)
	if err != nil {
		uc.logger.Errorw("failed to get user by username", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser == nil || !existingUser.CanLoginWithPassword() {
		// Burn a hash comparison anyway so the timing profile matches the
		// wrong-password path.
		uc.hasher.DummyVerify(cmd.Password)
		uc.limiter.RecordFailure(normalized, cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := uc.hasher.Verify(cmd.Password, existingUser.PasswordHash()); err != nil {
		uc.limiter.RecordFailure(normalized, cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	if settings.MaintenanceMode && !existingUser.Role().IsAdmin() {
		return nil, errors.NewMaintenanceModeError()
	}

	// Opportunistic rehash while the plaintext is available.
	if uc.hasher.NeedsRehash(existingUser.PasswordHash()) {
		if newHash, hashErr := uc.hasher.Hash(cmd.Password); hashErr == nil {
			if setErr := existingUser.SetPasswordHash(newHash); setErr == nil {
				if updateErr := uc.userRepo.Update(ctx, existingUser); updateErr != nil {
					uc.logger.Warnw("failed to persist rehashed password", "urn", existingUser.URN(), "error", updateErr)
				}
			}
		}
	}

	uc.limiter.ClearOnSuccess(normalized)

	token, err := uc.tokenIssuer.Generate(existingUser.URN(), existingUser.Username(), existingUser.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate session token", "urn", existingUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Infow("user logged in", "urn", existingUser.URN(), "username", existingUser.Username())

	return &LoginWithPasswordResult{
		User:        existingUser,
		AccessToken: token,
		ExpiresIn:   int64(settings.TokenExpiry().Seconds()),
	}, nil
}
