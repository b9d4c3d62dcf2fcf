// Package ratelimit tracks failed login attempts per username and per
// client IP with a sliding lockout window.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// ipAttemptFactor scales the username threshold for the IP axis. An IP is
// allowed ten times as many failures before locking, trading resistance to
// distributed guessing against false positives on shared NAT addresses.
const ipAttemptFactor = 10

// evictionGrace is added to the lockout duration when deciding whether a
// stale entry can be dropped on access. There is no background sweep.
const evictionGrace = time.Hour

// Policy is the active lockout policy, updated when an admin changes the
// auth settings.
type Policy struct {
	MaxAttempts int
	Lockout     time.Duration
}

// LoginLimiter gates login attempts. The username and IP axes are tracked
// independently and a principal is locked when either axis trips.
type LoginLimiter interface {
	IsLocked(username, ip string) bool
	RecordFailure(username, ip string)
	ClearOnSuccess(username string)
}

type attemptEntry struct {
	count       int
	lastFailure time.Time
}

// MemoryLoginLimiter is the in-process LoginLimiter. It is constructed once
// at startup and shared across requests; all access goes through a mutex.
type MemoryLoginLimiter struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry
	policy  Policy
	now     func() time.Time
}

func NewMemoryLoginLimiter(policy Policy) *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		entries: make(map[string]*attemptEntry),
		policy:  policy,
		now:     time.Now,
	}
}

// SetPolicy swaps the active policy. Existing windows are re-evaluated
// against the new thresholds on the next check.
func (l *MemoryLoginLimiter) SetPolicy(policy Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy = policy
}

// IsLocked reports whether either the username or the IP is inside an open
// lockout window. Empty inputs never match an entry.
func (l *MemoryLoginLimiter) IsLocked(username, ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lockedLocked(usernameKey(username), l.policy.MaxAttempts) {
		return true
	}
	return l.lockedLocked(ipKey(ip), l.policy.MaxAttempts*ipAttemptFactor)
}

// RecordFailure counts one failed attempt against both axes. Recording a
// failure restarts the window, so every failure extends an open lock.
func (l *MemoryLoginLimiter) RecordFailure(username, ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.recordLocked(usernameKey(username))
	l.recordLocked(ipKey(ip))
}

// ClearOnSuccess drops the username entry after a successful login. The IP
// entry is deliberately kept: one valid login must not reset IP-level
// tracking of an ongoing distributed attack.
func (l *MemoryLoginLimiter) ClearOnSuccess(username string) {
	key := usernameKey(username)
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

func (l *MemoryLoginLimiter) lockedLocked(key string, maxAttempts int) bool {
	if key == "" || maxAttempts <= 0 {
		return false
	}
	entry, ok := l.entries[key]
	if !ok {
		return false
	}

	age := l.now().Sub(entry.lastFailure)
	if age > l.policy.Lockout+evictionGrace {
		delete(l.entries, key)
		return false
	}
	return entry.count >= maxAttempts && age < l.policy.Lockout
}

func (l *MemoryLoginLimiter) recordLocked(key string) {
	if key == "" {
		return
	}
	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.lastFailure) > l.policy.Lockout+evictionGrace {
		l.entries[key] = &attemptEntry{count: 1, lastFailure: now}
		return
	}
	entry.count++
	entry.lastFailure = now
}

func usernameKey(username string) string {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return ""
	}
	return "user:" + username
}

func ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return "ip:" + ip
}
