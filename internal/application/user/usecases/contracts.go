// Package usecases implements the account-facing application operations.
package usecases

import (
	"context"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/infrastructure/auth"
	"maven/internal/shared/authorization"
)

// PasswordHasher abstracts the bcrypt implementation for tests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
	NeedsRehash(hash string) bool
	DummyVerify(password string)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Generate(userURN, username string, role authorization.Role) (string, error)
}

// BotChallengeVerifier checks a submitted challenge token under the active
// policy.
type BotChallengeVerifier interface {
	Validate(ctx context.Context, policy auth.BotChallengePolicy, token, remoteIP string) error
}

// CeremonyVerifier runs the WebAuthn ceremonies. Implemented by
// auth.WebAuthnService.
type CeremonyVerifier interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	FinishRegistration(user webauthn.User, sessionData webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	FinishLogin(user webauthn.User, sessionData webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
	FinishDiscoverableLogin(userHandler webauthn.DiscoverableUserHandler, sessionData webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}
