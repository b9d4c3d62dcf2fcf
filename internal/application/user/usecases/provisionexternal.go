package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"maven/internal/domain/setting"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/auth"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type ProvisionExternalCommand struct {
	Token string
}

type ProvisionExternalResult struct {
	User        *user.User
	Created     bool
	AccessToken string
	ExpiresIn   int64
}

// ProvisionExternalUseCase exchanges an externally issued identity token for
// a local account and session. Repeated calls with the same external subject
// return the same account; roles are never taken from external claims.
type ProvisionExternalUseCase struct {
	userRepo    user.Repository
	settingRepo setting.Repository
	verifier    *auth.ProvisionTokenVerifier
	tokenIssuer TokenIssuer
	logger      logger.Interface
}

func NewProvisionExternalUseCase(
	userRepo user.Repository,
	settingRepo setting.Repository,
	verifier *auth.ProvisionTokenVerifier,
	tokenIssuer TokenIssuer,
	logger logger.Interface,
) *ProvisionExternalUseCase {
	return &ProvisionExternalUseCase{
		userRepo:    userRepo,
		settingRepo: settingRepo,
		verifier:    verifier,
		tokenIssuer: tokenIssuer,
		logger:      logger,
	}
}

func (uc *ProvisionExternalUseCase) Execute(ctx context.Context, cmd ProvisionExternalCommand) (*ProvisionExternalResult, error) {
	if !uc.verifier.Configured() {
		return nil, errors.NewUnavailableError("Provisioning is not configured")
	}

	claims, err := uc.verifier.Verify(cmd.Token)
	if err != nil {
		uc.logger.Warnw("provisioning token rejected", "error", err)
		return nil, errors.NewTokenInvalidError("provisioning token")
	}

	settings, err := uc.settingRepo.GetAuth(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load auth settings", "error", err)
		return nil, fmt.Errorf("failed to load auth settings: %w", err)
	}

	existing, err := uc.userRepo.GetByExternalSubject(ctx, claims.Subject)
	if err != nil {
		uc.logger.Errorw("failed to look up external subject", "error", err)
		return nil, fmt.Errorf("failed to look up external subject: %w", err)
	}

	provisionedUser := existing
	created := false
	if provisionedUser == nil {
		username, err := uc.deriveUsername(ctx, claims)
		if err != nil {
			return nil, err
		}
		provisionedUser, err = user.NewProvisionedUser(username, claims.Subject)
		if err != nil {
			return nil, fmt.Errorf("failed to build provisioned user: %w", err)
		}
		if err := uc.userRepo.Create(ctx, provisionedUser); err != nil {
			uc.logger.Errorw("failed to create provisioned user", "error", err)
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		created = true
		uc.logger.Infow("external user provisioned", "urn", provisionedUser.URN(), "username", provisionedUser.Username())
	}

	if settings.MaintenanceMode && !provisionedUser.Role().IsAdmin() {
		return nil, errors.NewMaintenanceModeError()
	}

	token, err := uc.tokenIssuer.Generate(provisionedUser.URN(), provisionedUser.Username(), provisionedUser.Role())
	if err != nil {
		uc.logger.Errorw("failed to generate session token", "urn", provisionedUser.URN(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &ProvisionExternalResult{
		User:        provisionedUser,
		Created:     created,
		AccessToken: token,
		ExpiresIn:   int64(settings.TokenExpiry().Seconds()),
	}, nil
}

// deriveUsername picks a local username from the external claims: display
// name, then the email local part, then the subject id. Collisions get a
// random suffix.
func (uc *ProvisionExternalUseCase) deriveUsername(ctx context.Context, claims *auth.ProvisionClaims) (string, error) {
	candidates := []string{claims.Name, emailLocalPart(claims.Email), claims.Subject}

	for _, candidate := range candidates {
		base := sanitizeUsername(candidate)
		if base == "" {
			continue
		}

		exists, err := uc.userRepo.ExistsByUsername(ctx, base)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !exists {
			return base, nil
		}
	}

	// Every candidate collided or was unusable; suffix the best base.
	base := sanitizeUsername(claims.Name)
	if base == "" {
		base = sanitizeUsername(claims.Subject)
	}
	if base == "" {
		base = "user"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if len(base) > user.MaxUsernameLength-len(suffix)-1 {
		base = base[:user.MaxUsernameLength-len(suffix)-1]
	}
	return base + "_" + suffix, nil
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}

// sanitizeUsername lowercases and strips everything the username policy
// rejects. Returns "" when nothing usable remains.
func sanitizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > user.MaxUsernameLength {
		out = out[:user.MaxUsernameLength]
	}
	return out
}
