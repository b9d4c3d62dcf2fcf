package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *webauthn.SessionData {
	return &webauthn.SessionData{
		Challenge: "test-challenge",
		UserID:    []byte("urn:mvn:user:abc"),
	}
}

func TestMemoryChallengeStoreRoundTrip(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	id, err := s.Store(ctx, testSession(), "urn:mvn:user:abc")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	challenge, err := s.Consume(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "test-challenge", challenge.Session.Challenge)
	assert.Equal(t, "urn:mvn:user:abc", challenge.UserURN)
}

func TestMemoryChallengeStoreSingleUse(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	id, err := s.Store(ctx, testSession(), "")
	require.NoError(t, err)

	_, err = s.Consume(ctx, id)
	require.NoError(t, err)

	// second consume must fail: the response can never be replayed
	_, err = s.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestMemoryChallengeStoreUnknownID(t *testing.T) {
	s := NewMemoryChallengeStore()

	_, err := s.Consume(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = s.Consume(context.Background(), "")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestMemoryChallengeStoreExpiry(t *testing.T) {
	s := NewMemoryChallengeStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }
	ctx := context.Background()

	id, err := s.Store(ctx, testSession(), "")
	require.NoError(t, err)

	current = current.Add(ChallengeTTL + time.Second)
	_, err = s.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestMemoryChallengeStoreSweepsExpiredOnStore(t *testing.T) {
	s := NewMemoryChallengeStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }
	ctx := context.Background()

	stale, err := s.Store(ctx, testSession(), "")
	require.NoError(t, err)

	current = current.Add(ChallengeTTL + time.Second)
	_, err = s.Store(ctx, testSession(), "")
	require.NoError(t, err)

	s.mu.Lock()
	_, staleStillThere := s.entries[stale]
	s.mu.Unlock()
	assert.False(t, staleStillThere)
}

func TestMemoryChallengeStoreRejectsNilSession(t *testing.T) {
	s := NewMemoryChallengeStore()

	_, err := s.Store(context.Background(), nil, "")
	assert.Error(t, err)
}
