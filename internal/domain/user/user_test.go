package user

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven/internal/shared/authorization"
)

func TestNormalizeUsername(t *testing.T) {
	t.Run("trims and lowercases", func(t *testing.T) {
		got, err := NormalizeUsername("  Alice_01  ")
		require.NoError(t, err)
		assert.Equal(t, "alice_01", got)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := NormalizeUsername("   ")
		assert.Error(t, err)
	})

	t.Run("rejects over max length", func(t *testing.T) {
		_, err := NormalizeUsername(strings.Repeat("a", MaxUsernameLength+1))
		assert.Error(t, err)

		got, err := NormalizeUsername(strings.Repeat("a", MaxUsernameLength))
		require.NoError(t, err)
		assert.Len(t, got, MaxUsernameLength)
	})

	t.Run("rejects invalid characters", func(t *testing.T) {
		for _, name := range []string{"ali ce", "alice!", "al-ice", "alice@example.com", "渡辺"} {
			_, err := NormalizeUsername(name)
			assert.Error(t, err, "expected %q to be rejected", name)
		}
	})
}

func TestNewUser(t *testing.T) {
	t.Run("creates account with normalized username", func(t *testing.T) {
		u, err := NewUser("Reader_1", authorization.RoleUser)
		require.NoError(t, err)

		assert.Equal(t, "reader_1", u.Username())
		assert.Equal(t, authorization.RoleUser, u.Role())
		assert.True(t, strings.HasPrefix(u.URN(), "urn:mvn:user:"))
		assert.False(t, u.HasPassword())
		assert.False(t, u.CanLoginWithPassword())
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := NewUser("reader", authorization.Role("superuser"))
		assert.Error(t, err)
	})
}

func TestNewProvisionedUser(t *testing.T) {
	t.Run("always starts as reader", func(t *testing.T) {
		u, err := NewProvisionedUser("ext_user", "issuer|12345")
		require.NoError(t, err)

		assert.Equal(t, authorization.RoleUser, u.Role())
		assert.Equal(t, "issuer|12345", u.ExternalSubject())
		assert.False(t, u.HasPassword())
	})

	t.Run("requires external subject", func(t *testing.T) {
		_, err := NewProvisionedUser("ext_user", "")
		assert.Error(t, err)
	})
}

func TestUserPasswordLogin(t *testing.T) {
	u, err := NewUser("writer", authorization.RoleUploader)
	require.NoError(t, err)

	require.NoError(t, u.SetPasswordHash("$2a$12$fakehash"))
	assert.True(t, u.CanLoginWithPassword())

	u.SetPasswordLoginDisabled(true)
	assert.True(t, u.HasPassword())
	assert.False(t, u.CanLoginWithPassword())

	u.SetPasswordLoginDisabled(false)
	assert.True(t, u.CanLoginWithPassword())
}

func TestUserSetPasswordHash(t *testing.T) {
	u, err := NewUser("writer", authorization.RoleUploader)
	require.NoError(t, err)

	assert.Error(t, u.SetPasswordHash(""))
}

func TestReconstruct(t *testing.T) {
	now := time.Now().UTC()

	t.Run("round trip", func(t *testing.T) {
		u, err := Reconstruct("urn:mvn:user:abc", "alice", "hash", authorization.RoleAdmin, true, "sub", now, now)
		require.NoError(t, err)

		assert.Equal(t, "urn:mvn:user:abc", u.URN())
		assert.Equal(t, "alice", u.Username())
		assert.Equal(t, authorization.RoleAdmin, u.Role())
		assert.True(t, u.PasswordLoginDisabled())
		assert.Equal(t, "sub", u.ExternalSubject())
	})

	t.Run("requires urn and username", func(t *testing.T) {
		_, err := Reconstruct("", "alice", "", authorization.RoleUser, false, "", now, now)
		assert.Error(t, err)

		_, err = Reconstruct("urn:mvn:user:abc", "", "", authorization.RoleUser, false, "", now, now)
		assert.Error(t, err)
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Run("accepts letter plus digit", func(t *testing.T) {
		assert.NoError(t, ValidatePasswordStrength("correct1horse"))
	})

	t.Run("rejects short", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("abc1"))
	})

	t.Run("rejects beyond bcrypt input limit", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength(strings.Repeat("a1", 40)))
	})

	t.Run("rejects missing digit or letter", func(t *testing.T) {
		assert.Error(t, ValidatePasswordStrength("onlyletters"))
		assert.Error(t, ValidatePasswordStrength("1234567890"))
	})
}
