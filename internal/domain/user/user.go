// Package user holds the account aggregate and its repository contracts.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"maven/internal/shared/authorization"
	"maven/internal/shared/urn"
)

// MaxUsernameLength bounds usernames at both registration and login.
const MaxUsernameLength = 32

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User represents an account. Password hash is empty for externally
// provisioned accounts, which can only authenticate through their issuer.
type User struct {
	urn                   string
	username              string
	passwordHash          string
	role                  authorization.Role
	passwordLoginDisabled bool
	externalSubject       string
	createdAt             time.Time
	updatedAt             time.Time
}

// NewUser creates a local account with the given role.
func NewUser(username string, role authorization.Role) (*User, error) {
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	now := time.Now().UTC()
	return &User{
		urn:       urn.New(urn.KindUser, uuid.NewString()),
		username:  normalized,
		role:      role,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewProvisionedUser creates an account backed by an external identity
// provider. It has no password and always starts as a reader; roles are
// never imported from external claims.
func NewProvisionedUser(username, externalSubject string) (*User, error) {
	if externalSubject == "" {
		return nil, fmt.Errorf("external subject is required")
	}
	u, err := NewUser(username, authorization.RoleUser)
	if err != nil {
		return nil, err
	}
	u.externalSubject = externalSubject
	return u, nil
}

// Reconstruct rebuilds a user from persistence.
func Reconstruct(
	userURN string,
	username string,
	passwordHash string,
	role authorization.Role,
	passwordLoginDisabled bool,
	externalSubject string,
	createdAt time.Time,
	updatedAt time.Time,
) (*User, error) {
	if userURN == "" {
		return nil, fmt.Errorf("user URN is required")
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return &User{
		urn:                   userURN,
		username:              username,
		passwordHash:          passwordHash,
		role:                  role,
		passwordLoginDisabled: passwordLoginDisabled,
		externalSubject:       externalSubject,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func (u *User) URN() string                 { return u.urn }
func (u *User) Username() string            { return u.username }
func (u *User) PasswordHash() string        { return u.passwordHash }
func (u *User) Role() authorization.Role    { return u.role }
func (u *User) PasswordLoginDisabled() bool { return u.passwordLoginDisabled }
func (u *User) ExternalSubject() string     { return u.externalSubject }
func (u *User) CreatedAt() time.Time        { return u.createdAt }
func (u *User) UpdatedAt() time.Time        { return u.updatedAt }

// HasPassword reports whether a password is set at all.
func (u *User) HasPassword() bool {
	return u.passwordHash != ""
}

// CanLoginWithPassword combines the password presence and the per-account
// disable flag.
func (u *User) CanLoginWithPassword() bool {
	return u.HasPassword() && !u.passwordLoginDisabled
}

// SetPasswordHash stores a new hash. Hashing itself lives in the
// infrastructure layer.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash cannot be empty")
	}
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetPasswordLoginDisabled toggles the per-account password login flag.
func (u *User) SetPasswordLoginDisabled(disabled bool) {
	u.passwordLoginDisabled = disabled
	u.updatedAt = time.Now().UTC()
}

// ChangeRole assigns a new role.
func (u *User) ChangeRole(role authorization.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

// DisplayInfo is the public projection of an account.
type DisplayInfo struct {
	URN       string    `json:"urn"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) GetDisplayInfo() DisplayInfo {
	return DisplayInfo{
		URN:       u.urn,
		Username:  u.username,
		Role:      u.role.String(),
		CreatedAt: u.createdAt,
	}
}

// NormalizeUsername trims, lowercases, and validates a username.
func NormalizeUsername(username string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(username))
	if trimmed == "" {
		return "", fmt.Errorf("username is required")
	}
	if len(trimmed) > MaxUsernameLength {
		return "", fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernamePattern.MatchString(trimmed) {
		return "", fmt.Errorf("username may only contain letters, digits, and underscores")
	}
	return trimmed, nil
}
