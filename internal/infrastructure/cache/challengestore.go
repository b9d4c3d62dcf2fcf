// Package cache holds the ephemeral stores backing in-flight ceremonies.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// ChallengeTTL is how long an issued ceremony challenge stays valid.
const ChallengeTTL = 3 * time.Minute

// ErrChallengeNotFound is returned when a challenge id is unknown, already
// consumed, or expired. Callers cannot distinguish the three cases.
var ErrChallengeNotFound = errors.New("challenge not found or expired")

// Challenge is a pending ceremony: the WebAuthn session data plus the
// account it was issued to. UserURN is empty for discoverable
// authentication ceremonies.
type Challenge struct {
	Session *webauthn.SessionData
	UserURN string
}

// ChallengeStore issues single-use challenge ids for WebAuthn ceremonies.
// Consume removes the entry, so a captured response can never be replayed.
type ChallengeStore interface {
	Store(ctx context.Context, session *webauthn.SessionData, userURN string) (string, error)
	Consume(ctx context.Context, id string) (*Challenge, error)
}

type memoryEntry struct {
	challenge Challenge
	expiresAt time.Time
}

// MemoryChallengeStore is the default in-process ChallengeStore. Expired
// entries are dropped opportunistically on Store; there is no background
// sweep.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[string]memoryEntry),
		ttl:     ChallengeTTL,
		now:     time.Now,
	}
}

func (s *MemoryChallengeStore) Store(_ context.Context, session *webauthn.SessionData, userURN string) (string, error) {
	if session == nil {
		return "", errors.New("session data cannot be nil")
	}

	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.entries[id] = memoryEntry{
		challenge: Challenge{Session: session, UserURN: userURN},
		expiresAt: now.Add(s.ttl),
	}
	return id, nil
}

func (s *MemoryChallengeStore) Consume(_ context.Context, id string) (*Challenge, error) {
	if id == "" {
		return nil, ErrChallengeNotFound
	}

	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrChallengeNotFound
	}
	challenge := entry.challenge
	return &challenge, nil
}
