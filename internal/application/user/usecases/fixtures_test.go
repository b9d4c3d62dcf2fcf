package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/domain/setting"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/auth"
	"maven/internal/shared/authorization"
)

// memUserRepo is an in-memory user.Repository for use-case tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*user.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.URN()] = u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *user.User) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.URN()] = u
	return nil
}

func (r *memUserRepo) GetByURN(_ context.Context, userURN string) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userURN], nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByExternalSubject(_ context.Context, subject string) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalSubject() != "" && u.ExternalSubject() == subject {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUserRepo) add(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.URN()] = u
}

// fakeSettingRepo serves one settings record.
type fakeSettingRepo struct {
	settings setting.AuthSettings
	err      error
	saved    *setting.AuthSettings
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: setting.DefaultAuthSettings()}
}

func (r *fakeSettingRepo) GetAuth(_ context.Context) (setting.AuthSettings, error) {
	if r.err != nil {
		return setting.AuthSettings{}, r.err
	}
	return r.settings, nil
}

func (r *fakeSettingRepo) SaveAuth(_ context.Context, settings setting.AuthSettings) error {
	if r.err != nil {
		return r.err
	}
	r.settings = settings
	r.saved = &settings
	return nil
}

// fakeHasher hashes by prefixing, so tests can seed stored hashes directly.
type fakeHasher struct {
	needsRehash bool
	dummyCalls  int
}

func fakeHash(password string) string {
	return "hashed:" + password
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return fakeHash(password), nil
}

func (h *fakeHasher) Verify(password, hash string) error {
	if hash != fakeHash(password) {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

func (h *fakeHasher) NeedsRehash(hash string) bool {
	return h.needsRehash
}

func (h *fakeHasher) DummyVerify(string) {
	h.dummyCalls++
}

// fakeTokenIssuer mints predictable tokens.
type fakeTokenIssuer struct {
	err error
}

func (i *fakeTokenIssuer) Generate(userURN, username string, role authorization.Role) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return "token-for-" + userURN, nil
}

// recordingLimiter records limiter traffic instead of enforcing a policy.
type recordingLimiter struct {
	locked   bool
	failures []string
	cleared  []string
}

func (l *recordingLimiter) IsLocked(username, ip string) bool {
	return l.locked
}

func (l *recordingLimiter) RecordFailure(username, ip string) {
	l.failures = append(l.failures, username+"|"+ip)
}

func (l *recordingLimiter) ClearOnSuccess(username string) {
	l.cleared = append(l.cleared, username)
}

// fakeBotVerifier approves or rejects every token.
type fakeBotVerifier struct {
	err    error
	tokens []string
}

func (v *fakeBotVerifier) Validate(_ context.Context, _ auth.BotChallengePolicy, token, _ string) error {
	v.tokens = append(v.tokens, token)
	return v.err
}

// fakeCeremonyVerifier returns canned ceremony results instead of running
// real WebAuthn verification.
type fakeCeremonyVerifier struct {
	session    *webauthn.SessionData
	credential *webauthn.Credential
	userHandle []byte
	err        error
}

func (v *fakeCeremonyVerifier) BeginRegistration(webauthn.User, ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	if v.err != nil {
		return nil, nil, v.err
	}
	return &protocol.CredentialCreation{}, v.session, nil
}

func (v *fakeCeremonyVerifier) FinishRegistration(webauthn.User, webauthn.SessionData, *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.credential, nil
}

func (v *fakeCeremonyVerifier) BeginLogin(webauthn.User, ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if v.err != nil {
		return nil, nil, v.err
	}
	return &protocol.CredentialAssertion{}, v.session, nil
}

func (v *fakeCeremonyVerifier) BeginDiscoverableLogin(...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if v.err != nil {
		return nil, nil, v.err
	}
	return &protocol.CredentialAssertion{}, v.session, nil
}

func (v *fakeCeremonyVerifier) FinishLogin(webauthn.User, webauthn.SessionData, *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.credential, nil
}

func (v *fakeCeremonyVerifier) FinishDiscoverableLogin(handler webauthn.DiscoverableUserHandler, _ webauthn.SessionData, _ *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	if v.err != nil {
		return nil, v.err
	}
	if _, err := handler(v.credential.ID, v.userHandle); err != nil {
		return nil, err
	}
	return v.credential, nil
}

func seedUser(repo *memUserRepo, username, password string, role authorization.Role) *user.User {
	u, err := user.NewUser(username, role)
	if err != nil {
		panic(err)
	}
	if password != "" {
		if err := u.SetPasswordHash(fakeHash(password)); err != nil {
			panic(err)
		}
	}
	repo.add(u)
	return u
}

func tokenFor(u *user.User) string {
	return "token-for-" + u.URN()
}
