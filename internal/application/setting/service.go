// Package setting exposes the admin-facing runtime settings operations.
package setting

import (
	"context"
	"fmt"

	"maven/internal/domain/setting"
	"maven/internal/infrastructure/ratelimit"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// PolicySink receives the lockout policy whenever the auth settings change.
type PolicySink interface {
	SetPolicy(policy ratelimit.Policy)
}

// Service reads and updates the auth settings record. Responses always mask
// the bot challenge secret; an update that submits the masked placeholder
// keeps the stored value.
type Service struct {
	repo    setting.Repository
	limiter PolicySink
	logger  logger.Interface
}

func NewService(repo setting.Repository, limiter PolicySink, logger logger.Interface) *Service {
	return &Service{repo: repo, limiter: limiter, logger: logger}
}

// ApplyPolicy loads the stored settings and pushes the lockout policy to the
// limiter. Called once at startup.
func (s *Service) ApplyPolicy(ctx context.Context) error {
	settings, err := s.repo.GetAuth(ctx)
	if err != nil {
		return fmt.Errorf("failed to load auth settings: %w", err)
	}
	s.pushPolicy(settings)
	return nil
}

// GetAuth returns the current settings with the secret masked.
func (s *Service) GetAuth(ctx context.Context) (setting.AuthSettings, error) {
	settings, err := s.repo.GetAuth(ctx)
	if err != nil {
		return setting.AuthSettings{}, fmt.Errorf("failed to load auth settings: %w", err)
	}
	return masked(settings), nil
}

// UpdateAuth validates and persists a new settings record, then applies the
// lockout policy immediately.
func (s *Service) UpdateAuth(ctx context.Context, incoming setting.AuthSettings) (setting.AuthSettings, error) {
	if utils.IsMaskedSecret(incoming.BotChallengeSecretKey) {
		stored, err := s.repo.GetAuth(ctx)
		if err != nil {
			return setting.AuthSettings{}, fmt.Errorf("failed to load auth settings: %w", err)
		}
		incoming.BotChallengeSecretKey = stored.BotChallengeSecretKey
	}

	if err := incoming.Validate(); err != nil {
		return setting.AuthSettings{}, errors.NewValidationError(err.Error())
	}

	if err := s.repo.SaveAuth(ctx, incoming); err != nil {
		return setting.AuthSettings{}, fmt.Errorf("failed to save auth settings: %w", err)
	}

	s.pushPolicy(incoming)
	s.logger.Infow("auth settings updated",
		"max_login_attempts", incoming.MaxLoginAttempts,
		"lockout_minutes", incoming.LockoutMinutes,
		"bot_challenge_enabled", incoming.BotChallengeEnabled,
		"registration_open", incoming.RegistrationOpen,
		"maintenance_mode", incoming.MaintenanceMode,
	)
	return masked(incoming), nil
}

func (s *Service) pushPolicy(settings setting.AuthSettings) {
	if s.limiter == nil {
		return
	}
	s.limiter.SetPolicy(ratelimit.Policy{
		MaxAttempts: settings.MaxLoginAttempts,
		Lockout:     settings.LockoutDuration(),
	})
}

func masked(settings setting.AuthSettings) setting.AuthSettings {
	settings.BotChallengeSecretKey = utils.MaskSecret(settings.BotChallengeSecretKey)
	return settings
}
