package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// Device types as reported to clients. A credential that is backup eligible
// syncs across the platform vendor's devices.
const (
	DeviceTypeMultiDevice  = "multi-device"
	DeviceTypeSingleDevice = "single-device"
)

// PasskeyCredential represents a WebAuthn credential owned by an account.
type PasskeyCredential struct {
	id              uint
	sid             string // external API identifier (pk_xxx)
	userURN         string
	credentialID    []byte
	publicKey       []byte
	attestationType string
	aaguid          []byte
	signCount       uint32
	backupEligible  bool
	backupState     bool
	transports      []string
	label           string
	lastUsedAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPasskeyCredentialFromWebAuthn builds a credential record from a
// verified registration ceremony result.
func NewPasskeyCredentialFromWebAuthn(userURN string, cred *webauthn.Credential, label string) (*PasskeyCredential, error) {
	if userURN == "" {
		return nil, fmt.Errorf("user URN is required")
	}
	if cred == nil || len(cred.ID) == 0 {
		return nil, fmt.Errorf("credential ID is required")
	}
	if len(cred.PublicKey) == 0 {
		return nil, fmt.Errorf("public key is required")
	}

	transports := make([]string, len(cred.Transport))
	for i, t := range cred.Transport {
		transports[i] = string(t)
	}

	now := time.Now().UTC()
	return &PasskeyCredential{
		sid:             newPasskeySID(),
		userURN:         userURN,
		credentialID:    cred.ID,
		publicKey:       cred.PublicKey,
		attestationType: cred.AttestationType,
		aaguid:          cred.Authenticator.AAGUID,
		signCount:       cred.Authenticator.SignCount,
		backupEligible:  cred.Flags.BackupEligible,
		backupState:     cred.Flags.BackupState,
		transports:      transports,
		label:           label,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructPasskeyCredential rebuilds a credential from persistence.
func ReconstructPasskeyCredential(
	id uint,
	sid string,
	userURN string,
	credentialID []byte,
	publicKey []byte,
	attestationType string,
	aaguid []byte,
	signCount uint32,
	backupEligible bool,
	backupState bool,
	transports []string,
	label string,
	lastUsedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*PasskeyCredential, error) {
	if id == 0 {
		return nil, fmt.Errorf("passkey credential ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("passkey credential SID is required")
	}
	return &PasskeyCredential{
		id:              id,
		sid:             sid,
		userURN:         userURN,
		credentialID:    credentialID,
		publicKey:       publicKey,
		attestationType: attestationType,
		aaguid:          aaguid,
		signCount:       signCount,
		backupEligible:  backupEligible,
		backupState:     backupState,
		transports:      transports,
		label:           label,
		lastUsedAt:      lastUsedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (p *PasskeyCredential) ID() uint                { return p.id }
func (p *PasskeyCredential) SID() string             { return p.sid }
func (p *PasskeyCredential) UserURN() string         { return p.userURN }
func (p *PasskeyCredential) CredentialID() []byte    { return p.credentialID }
func (p *PasskeyCredential) PublicKey() []byte       { return p.publicKey }
func (p *PasskeyCredential) AttestationType() string { return p.attestationType }
func (p *PasskeyCredential) AAGUID() []byte          { return p.aaguid }
func (p *PasskeyCredential) SignCount() uint32       { return p.signCount }
func (p *PasskeyCredential) BackupEligible() bool    { return p.backupEligible }
func (p *PasskeyCredential) BackupState() bool       { return p.backupState }
func (p *PasskeyCredential) Transports() []string    { return p.transports }
func (p *PasskeyCredential) Label() string           { return p.label }
func (p *PasskeyCredential) LastUsedAt() *time.Time  { return p.lastUsedAt }
func (p *PasskeyCredential) CreatedAt() time.Time    { return p.createdAt }
func (p *PasskeyCredential) UpdatedAt() time.Time    { return p.updatedAt }

// DeviceType classifies the credential by its backup eligibility flag.
func (p *PasskeyCredential) DeviceType() string {
	if p.backupEligible {
		return DeviceTypeMultiDevice
	}
	return DeviceTypeSingleDevice
}

// SetID sets the internal ID (only for persistence layer use).
func (p *PasskeyCredential) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("passkey credential ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("passkey credential ID cannot be zero")
	}
	p.id = id
	return nil
}

// UpdateSignCount advances the signature counter after a verified
// authentication. A non-increasing counter on an authenticator that reports
// counters indicates a possible cloned credential.
//
// Counter semantics:
//   - old == 0 and new == 0: authenticator does not maintain a counter
//   - old == 0 and new > 0: authenticator started reporting
//   - old > 0 and new > old: normal increment
//   - old > 0 and new <= old: rejected
func (p *PasskeyCredential) UpdateSignCount(newCount uint32) error {
	if p.signCount > 0 && newCount <= p.signCount {
		return fmt.Errorf("sign count not increasing: got %d, expected > %d (possible cloned credential)", newCount, p.signCount)
	}
	p.signCount = newCount
	p.updatedAt = time.Now().UTC()
	return nil
}

// UpdateLastUsed stamps the credential after a successful authentication.
func (p *PasskeyCredential) UpdateLastUsed() {
	now := time.Now().UTC()
	p.lastUsedAt = &now
	p.updatedAt = now
}

// UpdateLabel renames the credential.
func (p *PasskeyCredential) UpdateLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	p.label = label
	p.updatedAt = time.Now().UTC()
	return nil
}

// ToWebAuthnCredential converts to the library type for verification.
func (p *PasskeyCredential) ToWebAuthnCredential() webauthn.Credential {
	transports := make([]protocol.AuthenticatorTransport, len(p.transports))
	for i, t := range p.transports {
		transports[i] = protocol.AuthenticatorTransport(t)
	}

	return webauthn.Credential{
		ID:              p.credentialID,
		PublicKey:       p.publicKey,
		AttestationType: p.attestationType,
		Flags: webauthn.CredentialFlags{
			BackupEligible: p.backupEligible,
			BackupState:    p.backupState,
		},
		Authenticator: webauthn.Authenticator{
			AAGUID:    p.aaguid,
			SignCount: p.signCount,
		},
		Transport: transports,
	}
}

// PasskeyDisplayInfo is the public projection of a credential.
type PasskeyDisplayInfo struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	DeviceType string     `json:"device_type"`
	BackedUp   bool       `json:"backed_up"`
	Transports []string   `json:"transports"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (p *PasskeyCredential) GetDisplayInfo() PasskeyDisplayInfo {
	return PasskeyDisplayInfo{
		ID:         p.sid,
		Label:      p.label,
		DeviceType: p.DeviceType(),
		BackedUp:   p.backupState,
		Transports: p.transports,
		LastUsedAt: p.lastUsedAt,
		CreatedAt:  p.createdAt,
	}
}

func newPasskeySID() string {
	return "pk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
