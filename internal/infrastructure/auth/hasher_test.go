package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct1horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, h.Verify("correct1horse", hash))
	assert.Error(t, h.Verify("wrong1horse", hash))
	assert.Error(t, h.Verify("correct1horse", "not-a-hash"))
}

func TestBcryptHasherCostClamping(t *testing.T) {
	h := NewBcryptPasswordHasher(99)

	hash, err := h.Hash("correct1horse")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasherNeedsRehash(t *testing.T) {
	weak := NewBcryptPasswordHasher(bcrypt.MinCost)
	strong := NewBcryptPasswordHasher(bcrypt.MinCost + 2)

	hash, err := weak.Hash("correct1horse")
	require.NoError(t, err)

	assert.True(t, strong.NeedsRehash(hash))
	assert.False(t, weak.NeedsRehash(hash))
	assert.False(t, weak.NeedsRehash("garbage"))
}

func TestBcryptHasherDummyVerify(t *testing.T) {
	h := NewBcryptPasswordHasher(bcrypt.MinCost)

	// must not panic and must not validate anything
	h.DummyVerify("anything at all")
}
