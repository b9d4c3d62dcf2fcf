// Package setting holds the admin-managed runtime configuration records.
package setting

import (
	"fmt"
	"time"
)

// AuthSettings is the authentication policy record. Values are rebuilt as a
// whole on every update rather than mutated in place, so the persistence
// boundary only ever sees complete records.
type AuthSettings struct {
	MaxLoginAttempts      int    `json:"max_login_attempts"`
	LockoutMinutes        int    `json:"lockout_minutes"`
	TokenExpiryHours      int    `json:"token_expiry_hours"`
	BotChallengeEnabled   bool   `json:"bot_challenge_enabled"`
	BotChallengeSiteKey   string `json:"bot_challenge_site_key"`
	BotChallengeSecretKey string `json:"bot_challenge_secret_key"`
	RegistrationOpen      bool   `json:"registration_open"`
	MaintenanceMode       bool   `json:"maintenance_mode"`
}

// DefaultAuthSettings returns the policy applied to a fresh installation.
func DefaultAuthSettings() AuthSettings {
	return AuthSettings{
		MaxLoginAttempts: 5,
		LockoutMinutes:   15,
		TokenExpiryHours: 24,
		RegistrationOpen: true,
	}
}

// Validate rejects values that would disable the lockout entirely or issue
// unbounded tokens.
func (s AuthSettings) Validate() error {
	if s.MaxLoginAttempts < 1 {
		return fmt.Errorf("max_login_attempts must be at least 1")
	}
	if s.LockoutMinutes < 1 {
		return fmt.Errorf("lockout_minutes must be at least 1")
	}
	if s.TokenExpiryHours < 1 {
		return fmt.Errorf("token_expiry_hours must be at least 1")
	}
	if s.BotChallengeEnabled && s.BotChallengeSiteKey == "" {
		return fmt.Errorf("bot_challenge_site_key is required when the challenge is enabled")
	}
	return nil
}

// LockoutDuration converts the configured minutes to a duration.
func (s AuthSettings) LockoutDuration() time.Duration {
	return time.Duration(s.LockoutMinutes) * time.Minute
}

// TokenExpiry converts the configured hours to a duration.
func (s AuthSettings) TokenExpiry() time.Duration {
	return time.Duration(s.TokenExpiryHours) * time.Hour
}
