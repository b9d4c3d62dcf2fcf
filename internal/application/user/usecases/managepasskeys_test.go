package usecases

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/domain/user"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

// memPasskeyRepo is an in-memory user.PasskeyCredentialRepository.
type memPasskeyRepo struct {
	creds  map[uint]*user.PasskeyCredential
	nextID uint
}

func newMemPasskeyRepo() *memPasskeyRepo {
	return &memPasskeyRepo{creds: map[uint]*user.PasskeyCredential{}}
}

func (r *memPasskeyRepo) Create(_ context.Context, cred *user.PasskeyCredential) error {
	r.nextID++
	if err := cred.SetID(r.nextID); err != nil {
		return err
	}
	r.creds[cred.ID()] = cred
	return nil
}

func (r *memPasskeyRepo) Update(_ context.Context, cred *user.PasskeyCredential) error {
	r.creds[cred.ID()] = cred
	return nil
}

func (r *memPasskeyRepo) Delete(_ context.Context, id uint) error {
	delete(r.creds, id)
	return nil
}

func (r *memPasskeyRepo) GetBySID(_ context.Context, sid string) (*user.PasskeyCredential, error) {
	for _, c := range r.creds {
		if c.SID() == sid {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memPasskeyRepo) GetByCredentialID(_ context.Context, credentialID []byte) (*user.PasskeyCredential, error) {
	for _, c := range r.creds {
		if bytes.Equal(c.CredentialID(), credentialID) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memPasskeyRepo) GetByUserURN(_ context.Context, userURN string) ([]*user.PasskeyCredential, error) {
	var out []*user.PasskeyCredential
	for _, c := range r.creds {
		if c.UserURN() == userURN {
			out = append(out, c)
		}
	}
	return out, nil
}

func seedPasskey(t *testing.T, repo *memPasskeyRepo, userURN, label string) *user.PasskeyCredential {
	t.Helper()
	cred, err := user.NewPasskeyCredentialFromWebAuthn(userURN, &webauthn.Credential{
		ID:        []byte("cred-" + label),
		PublicKey: []byte("key-" + label),
	}, label)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), cred))
	return cred
}

func TestManagePasskeys(t *testing.T) {
	ctx := context.Background()
	const owner = "urn:mvn:user:owner"
	const other = "urn:mvn:user:other"

	t.Run("list returns only the caller's credentials", func(t *testing.T) {
		repo := newMemPasskeyRepo()
		uc := NewManagePasskeysUseCase(repo, logger.Nop())
		seedPasskey(t, repo, owner, "Laptop")
		seedPasskey(t, repo, other, "Phone")

		infos, err := uc.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "Laptop", infos[0].Label)
	})

	t.Run("rename", func(t *testing.T) {
		repo := newMemPasskeyRepo()
		uc := NewManagePasskeysUseCase(repo, logger.Nop())
		cred := seedPasskey(t, repo, owner, "Laptop")

		info, err := uc.Rename(ctx, owner, cred.SID(), "Work laptop")
		require.NoError(t, err)
		assert.Equal(t, "Work laptop", info.Label)

		_, err = uc.Rename(ctx, owner, cred.SID(), "  ")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newMemPasskeyRepo()
		uc := NewManagePasskeysUseCase(repo, logger.Nop())
		cred := seedPasskey(t, repo, owner, "Laptop")

		require.NoError(t, uc.Delete(ctx, owner, cred.SID()))

		infos, err := uc.List(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run("someone else's sid reads as not found", func(t *testing.T) {
		repo := newMemPasskeyRepo()
		uc := NewManagePasskeysUseCase(repo, logger.Nop())
		cred := seedPasskey(t, repo, other, "Phone")

		_, err := uc.Rename(ctx, owner, cred.SID(), "Stolen")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

		err = uc.Delete(ctx, owner, cred.SID())
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	})

	t.Run("unknown sid", func(t *testing.T) {
		repo := newMemPasskeyRepo()
		uc := NewManagePasskeysUseCase(repo, logger.Nop())

		err := uc.Delete(ctx, owner, "pk_missing")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	})
}
