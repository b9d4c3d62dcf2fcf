package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/shared/authorization"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
)

type loginFixture struct {
	uc       *LoginWithPasswordUseCase
	users    *memUserRepo
	settings *fakeSettingRepo
	hasher   *fakeHasher
	limiter  *recordingLimiter
	bot      *fakeBotVerifier
}

func newLoginFixture() *loginFixture {
	f := &loginFixture{
		users:    newMemUserRepo(),
		settings: newFakeSettingRepo(),
		hasher:   &fakeHasher{},
		limiter:  &recordingLimiter{},
		bot:      &fakeBotVerifier{},
	}
	f.uc = NewLoginWithPasswordUseCase(f.users, f.settings, f.hasher, &fakeTokenIssuer{}, f.limiter, f.bot, logger.Nop())
	return f
}

func TestLoginWithPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login", func(t *testing.T) {
		f := newLoginFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)

		result, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "Alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)

		assert.Equal(t, tokenFor(u), result.AccessToken)
		assert.Equal(t, int64(24*3600), result.ExpiresIn)
		assert.Equal(t, []string{"alice"}, f.limiter.cleared)
		assert.Empty(t, f.limiter.failures)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "wrong1horse",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)

		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCredentials))
		assert.Equal(t, []string{"alice|10.0.0.1"}, f.limiter.failures)
	})

	t.Run("unknown username gets the same error", func(t *testing.T) {
		f := newLoginFixture()

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "nobody",
			Password:  "whatever1",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)

		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCredentials))
		// a dummy hash comparison keeps the timing profile uniform
		assert.Equal(t, 1, f.hasher.dummyCalls)
		assert.Equal(t, []string{"nobody|10.0.0.1"}, f.limiter.failures)
	})

	t.Run("malformed username burns an IP failure", func(t *testing.T) {
		f := newLoginFixture()

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "not a valid name!",
			Password:  "whatever1",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)

		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCredentials))
		assert.Equal(t, []string{"|10.0.0.1"}, f.limiter.failures)
	})

	t.Run("locked out", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)
		f.limiter.locked = true

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeAccountLocked))
	})

	t.Run("password login disabled", func(t *testing.T) {
		f := newLoginFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)
		u.SetPasswordLoginDisabled(true)

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)

		// indistinguishable from a wrong password
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCredentials))
		assert.Equal(t, 1, f.hasher.dummyCalls)
	})

	t.Run("provisioned account has no password", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "ext_user", "", authorization.RoleUser)

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "ext_user",
			Password:  "anything1",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidCredentials))
	})

	t.Run("bot challenge failure", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)
		f.bot.err = fmt.Errorf("challenge token rejected")

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeChallengeFailed))
	})

	t.Run("maintenance mode blocks non-admins", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "alice", "correct1horse", authorization.RoleUploader)
		f.settings.settings.MaintenanceMode = true

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMaintenanceMode))
	})

	t.Run("maintenance mode lets admins in", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "root", "correct1horse", authorization.RoleAdmin)
		f.settings.settings.MaintenanceMode = true

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "root",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		assert.NoError(t, err)
	})

	t.Run("opportunistic rehash", func(t *testing.T) {
		f := newLoginFixture()
		u := seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)
		f.hasher.needsRehash = true

		_, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)

		stored, err := f.users.GetByURN(ctx, u.URN())
		require.NoError(t, err)
		assert.Equal(t, fakeHash("correct1horse"), stored.PasswordHash())
	})

	t.Run("token expiry follows settings", func(t *testing.T) {
		f := newLoginFixture()
		seedUser(f.users, "alice", "correct1horse", authorization.RoleUser)
		f.settings.settings.TokenExpiryHours = 2

		result, err := f.uc.Execute(ctx, LoginWithPasswordCommand{
			Username:  "alice",
			Password:  "correct1horse",
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2*3600), result.ExpiresIn)
	})
}
