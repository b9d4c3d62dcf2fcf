package usecases

import (
	"context"
	"fmt"

	"maven/internal/domain/setting"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/auth"
	"maven/internal/shared/authorization"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type RegisterWithPasswordCommand struct {
	Username       string
	Password       string
	ChallengeToken string
	IPAddress      string
}

type RegisterWithPasswordResult struct {
	User        *user.User
	AccessToken string
	ExpiresIn   int64
}

// RegisterWithPasswordUseCase creates a local account. The very first
// account on a fresh installation becomes the admin; everyone after that
// starts as a reader.
type RegisterWithPasswordUseCase struct {
	userRepo     user.Repository
	settingRepo  setting.Repository
	hasher       PasswordHasher
	tokenIssuer  TokenIssuer
	botChallenge BotChallengeVerifier
	logger       logger.Interface
}

func NewRegisterWithPasswordUseCase(
	userRepo user.Repository,
	settingRepo setting.Repository,
	hasher PasswordHasher,
	tokenIssuer TokenIssuer,
	botChallenge BotChallengeVerifier,
	logger logger.Interface,
) *RegisterWithPasswordUseCase {
	return &RegisterWithPasswordUseCase{
		userRepo:     userRepo,
		settingRepo:  settingRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		botChallenge: botChallenge,
		logger:       logger,
	}
}

func (uc *RegisterWithPasswordUseCase) Execute(ctx context.Context, cmd RegisterWithPasswordCommand) (*RegisterWithPasswordResult, error) {
	settings, err := uc.settingRepo.GetAuth(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load auth settings", "error", err)
		return nil, fmt.Errorf("failed to load auth settings: %w", err)
	}

	normalized, err := user.NormalizeUsername(cmd.Username)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := user.ValidatePasswordStrength(cmd.Password); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count users", "error", err)
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	// First account on a fresh installation bootstraps the admin and is
	// never challenge-gated.
	role := authorization.RoleUser
	if count > 0 {
		if !settings.RegistrationOpen {
			return nil, errors.NewForbiddenError("Registration is currently closed")
		}
		if err := uc.botChallenge.Validate(ctx, auth.BotChallengePolicy{
			Enabled:   settings.BotChallengeEnabled,
			SecretKey: settings.BotChallengeSecretKey,
		}, cmd.ChallengeToken, cmd.IPAddress); err != nil {
			uc.logger.Warnw("bot challenge verification failed on registration", "error", err)
			return nil, errors.NewChallengeFailedError()
		}
	} else {
		role = authorization.RoleAdmin
	}

	exists, err := uc.userRepo.ExistsByUsername(ctx, normalized)
	if err != nil {
		uc.logger.Errorw("failed to check username existence", "error", err)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError("Username is already taken")
	}

	newUser, err := user.NewUser(normalized, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := newUser.SetPasswordHash(hash); err != nil {
		return nil, fmt.Errorf("failed to set password hash: %w", err)
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user", "username", normalized, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenIssuer.Generate(newUser.URN(), newUser.Username(), newUser.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate session token", "urn", newUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Infow("user registered", "urn", newUser.URN(), "username", newUser.Username(), "role", newUser.Role())

	return &RegisterWithPasswordResult{
		User:        newUser,
		AccessToken: token,
		ExpiresIn:   int64(settings.TokenExpiry().Seconds()),
	}, nil
}
