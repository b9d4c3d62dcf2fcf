package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/domain/user"
	"maven/internal/infrastructure/cache"
	"maven/internal/shared/authorization"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type passkeyRegistrationFixture struct {
	startUC  *StartPasskeyRegistrationUseCase
	finishUC *FinishPasskeyRegistrationUseCase
	users    *memUserRepo
	passkeys *memPasskeyRepo
	store    *cache.MemoryChallengeStore
	ceremony *fakeCeremonyVerifier
}

func newPasskeyRegistrationFixture() *passkeyRegistrationFixture {
	f := &passkeyRegistrationFixture{
		users:    newMemUserRepo(),
		passkeys: newMemPasskeyRepo(),
		store:    cache.NewMemoryChallengeStore(),
		ceremony: &fakeCeremonyVerifier{
			session: &webauthn.SessionData{Challenge: "test-challenge"},
		},
	}
	f.startUC = NewStartPasskeyRegistrationUseCase(f.users, f.passkeys, f.ceremony, f.store, logger.Nop())
	f.finishUC = NewFinishPasskeyRegistrationUseCase(f.users, f.passkeys, f.ceremony, f.store, logger.Nop())
	return f
}

func TestStartPasskeyRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a challenge bound to the account", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)

		result, err := f.startUC.Execute(ctx, StartPasskeyRegistrationCommand{UserURN: u.URN()})
		require.NoError(t, err)
		require.NotEmpty(t, result.ChallengeID)
		assert.NotNil(t, result.Options)

		challenge, err := f.store.Consume(ctx, result.ChallengeID)
		require.NoError(t, err)
		assert.Equal(t, u.URN(), challenge.UserURN)
	})

	t.Run("reader accounts cannot register passkeys", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "reader", "correct1horse", authorization.RoleUser)

		_, err := f.startUC.Execute(ctx, StartPasskeyRegistrationCommand{UserURN: u.URN()})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()

		_, err := f.startUC.Execute(ctx, StartPasskeyRegistrationCommand{UserURN: "urn:mvn:user:missing"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	})
}

func TestFinishPasskeyRegistration(t *testing.T) {
	ctx := context.Background()

	// storeChallenge seeds a pending registration challenge bound to urn.
	storeChallenge := func(t *testing.T, f *passkeyRegistrationFixture, urn string) string {
		t.Helper()
		id, err := f.store.Store(ctx, &webauthn.SessionData{Challenge: "test-challenge"}, urn)
		require.NoError(t, err)
		return id
	}

	t.Run("stores the verified credential", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)
		f.ceremony.credential = &webauthn.Credential{ID: []byte("cred-new"), PublicKey: []byte("key-new")}

		result, err := f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: storeChallenge(t, f, u.URN()),
			Label:       "Work laptop",
		})
		require.NoError(t, err)
		assert.Equal(t, "Work laptop", result.Credential.Label)

		stored, err := f.passkeys.GetByCredentialID(ctx, []byte("cred-new"))
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, u.URN(), stored.UserURN())
	})

	t.Run("blank label falls back to the default", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)
		f.ceremony.credential = &webauthn.Credential{ID: []byte("cred-new"), PublicKey: []byte("key-new")}

		result, err := f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: storeChallenge(t, f, u.URN()),
			Label:       "  ",
		})
		require.NoError(t, err)
		assert.Equal(t, defaultPasskeyLabel, result.Credential.Label)
	})

	t.Run("duplicate credential id is a conflict", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)

		existing, err := user.NewPasskeyCredentialFromWebAuthn(u.URN(), &webauthn.Credential{
			ID:        []byte("cred-dup"),
			PublicKey: []byte("key-dup"),
		}, "Laptop")
		require.NoError(t, err)
		require.NoError(t, f.passkeys.Create(ctx, existing))

		f.ceremony.credential = &webauthn.Credential{ID: []byte("cred-dup"), PublicKey: []byte("key-dup")}

		_, err = f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: storeChallenge(t, f, u.URN()),
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	})

	t.Run("challenge bound to another account", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)
		f.ceremony.credential = &webauthn.Credential{ID: []byte("cred-new"), PublicKey: []byte("key-new")}

		_, err := f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: storeChallenge(t, f, "urn:mvn:user:someone-else"),
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthorized))

		creds, err := f.passkeys.GetByUserURN(ctx, u.URN())
		require.NoError(t, err)
		assert.Empty(t, creds)
	})

	t.Run("unknown or consumed challenge", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)

		_, err := f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: "never-issued",
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthorized))
	})

	t.Run("verification failure", func(t *testing.T) {
		f := newPasskeyRegistrationFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)
		challengeID := storeChallenge(t, f, u.URN())
		f.ceremony.err = fmt.Errorf("attestation rejected")

		_, err := f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: challengeID,
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

		// The challenge was consumed before verification, so it cannot be
		// retried.
		f.ceremony.err = nil
		f.ceremony.credential = &webauthn.Credential{ID: []byte("cred-new"), PublicKey: []byte("key-new")}
		_, err = f.finishUC.Execute(ctx, FinishPasskeyRegistrationCommand{
			UserURN:     u.URN(),
			ChallengeID: challengeID,
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthorized))
	})
}
