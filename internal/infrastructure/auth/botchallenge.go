package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maven/internal/shared/logger"
)

// DefaultBotChallengeVerifyURL is the Turnstile siteverify endpoint.
const DefaultBotChallengeVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// defaultBotChallengeTimeout bounds the outbound verification call.
const defaultBotChallengeTimeout = 10 * time.Second

// BotChallengePolicy is the slice of auth settings the validator needs.
type BotChallengePolicy struct {
	Enabled   bool
	SecretKey string
}

// BotChallengeValidator checks challenge tokens against the third-party
// verifier. Verifier errors and timeouts deny the request (fail closed); the
// one exception is the challenge being enabled with no secret key
// configured, which passes so that a half-finished configuration does not
// lock every user out.
type BotChallengeValidator struct {
	verifyURL string
	client    *http.Client
	logger    logger.Interface
}

func NewBotChallengeValidator(verifyURL string, log logger.Interface) *BotChallengeValidator {
	if verifyURL == "" {
		verifyURL = DefaultBotChallengeVerifyURL
	}
	return &BotChallengeValidator{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: defaultBotChallengeTimeout},
		logger:    log,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Validate checks the submitted token under the given policy. A nil return
// means the request may proceed.
func (v *BotChallengeValidator) Validate(ctx context.Context, policy BotChallengePolicy, token, remoteIP string) error {
	if !policy.Enabled {
		return nil
	}
	if policy.SecretKey == "" {
		v.logger.Warnw("bot challenge enabled but no secret key configured, skipping verification")
		return nil
	}
	if token == "" {
		return fmt.Errorf("challenge token is missing")
	}

	form := url.Values{}
	form.Set("secret", policy.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Errorw("bot challenge verifier unreachable", "error", err)
		return fmt.Errorf("challenge verification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("challenge verifier returned status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode verifier response: %w", err)
	}
	if !result.Success {
		v.logger.Infow("bot challenge rejected", "error_codes", result.ErrorCodes)
		return fmt.Errorf("challenge token rejected")
	}
	return nil
}
