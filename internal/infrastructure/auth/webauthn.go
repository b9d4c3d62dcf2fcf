package auth

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/shared/config"
)

// WebAuthnService wraps the go-webauthn ceremony primitives. The relying
// party id and expected origins are derived from the serving base URL, which
// is what ties an assertion to this deployment and defeats phishing relays.
type WebAuthnService struct {
	webAuthn *webauthn.WebAuthn
}

// NewWebAuthnService builds the service from the configured base URL.
func NewWebAuthnService(cfg config.WebAuthnConfig, baseURL string) (*WebAuthnService, error) {
	rpID, rpOrigins, err := relyingParty(baseURL)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	wconfig := &webauthn.Config{
		RPDisplayName: cfg.RPName,
		RPID:          rpID,
		RPOrigins:     rpOrigins,
		// "none" attestation covers Touch ID, Face ID, and Windows Hello.
		AttestationPreference: protocol.PreferNoAttestation,
		Timeouts: webauthn.TimeoutsConfig{
			Login: webauthn.TimeoutConfig{
				Enforce:    true,
				Timeout:    timeout,
				TimeoutUVD: timeout,
			},
			Registration: webauthn.TimeoutConfig{
				Enforce:    true,
				Timeout:    timeout,
				TimeoutUVD: timeout,
			},
		},
	}

	w, err := webauthn.New(wconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebAuthn instance: %w", err)
	}
	return &WebAuthnService{webAuthn: w}, nil
}

// BeginRegistration starts the registration ceremony for a user.
func (s *WebAuthnService) BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	return s.webAuthn.BeginRegistration(user, opts...)
}

// FinishRegistration verifies the authenticator's registration response.
func (s *WebAuthnService) FinishRegistration(user webauthn.User, sessionData webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	return s.webAuthn.CreateCredential(user, sessionData, response)
}

// BeginLogin starts an authentication ceremony scoped to a known user's
// credentials.
func (s *WebAuthnService) BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	return s.webAuthn.BeginLogin(user, opts...)
}

// BeginDiscoverableLogin starts an authentication ceremony with no username
// hint (resident credentials).
func (s *WebAuthnService) BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	return s.webAuthn.BeginDiscoverableLogin(opts...)
}

// FinishLogin verifies an assertion for a known user.
func (s *WebAuthnService) FinishLogin(user webauthn.User, sessionData webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	return s.webAuthn.ValidateLogin(user, sessionData, response)
}

// FinishDiscoverableLogin verifies an assertion, resolving the user through
// the supplied handler.
func (s *WebAuthnService) FinishDiscoverableLogin(
	userHandler webauthn.DiscoverableUserHandler,
	sessionData webauthn.SessionData,
	response *protocol.ParsedCredentialAssertionData,
) (*webauthn.Credential, error) {
	return s.webAuthn.ValidateDiscoverableLogin(userHandler, sessionData, response)
}

func relyingParty(baseURL string) (string, []string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Hostname() == "" {
		return "", nil, fmt.Errorf("invalid base URL %q for WebAuthn relying party", baseURL)
	}
	return parsed.Hostname(), []string{parsed.Scheme + "://" + parsed.Host}, nil
}
