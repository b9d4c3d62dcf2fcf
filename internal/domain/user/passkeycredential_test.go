package user

import (
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential(t *testing.T, signCount uint32) *PasskeyCredential {
	t.Helper()
	now := time.Now().UTC()
	cred, err := ReconstructPasskeyCredential(
		1, "pk_test", "urn:mvn:user:abc",
		[]byte("cred-id"), []byte("pub-key"), "none", []byte("aaguid"),
		signCount, false, false, []string{"internal"}, "My passkey",
		nil, now, now,
	)
	require.NoError(t, err)
	return cred
}

func TestNewPasskeyCredentialFromWebAuthn(t *testing.T) {
	waCred := &webauthn.Credential{
		ID:              []byte("cred-id"),
		PublicKey:       []byte("pub-key"),
		AttestationType: "none",
		Transport:       []protocol.AuthenticatorTransport{protocol.Internal, protocol.Hybrid},
		Flags:           webauthn.CredentialFlags{BackupEligible: true, BackupState: true},
		Authenticator:   webauthn.Authenticator{AAGUID: []byte("aaguid"), SignCount: 7},
	}

	t.Run("copies ceremony result", func(t *testing.T) {
		cred, err := NewPasskeyCredentialFromWebAuthn("urn:mvn:user:abc", waCred, "Laptop")
		require.NoError(t, err)

		assert.Equal(t, []byte("cred-id"), cred.CredentialID())
		assert.Equal(t, uint32(7), cred.SignCount())
		assert.Equal(t, []string{"internal", "hybrid"}, cred.Transports())
		assert.Equal(t, "Laptop", cred.Label())
		assert.Equal(t, DeviceTypeMultiDevice, cred.DeviceType())
		assert.NotEmpty(t, cred.SID())
	})

	t.Run("rejects missing pieces", func(t *testing.T) {
		_, err := NewPasskeyCredentialFromWebAuthn("", waCred, "x")
		assert.Error(t, err)

		_, err = NewPasskeyCredentialFromWebAuthn("urn:mvn:user:abc", nil, "x")
		assert.Error(t, err)

		_, err = NewPasskeyCredentialFromWebAuthn("urn:mvn:user:abc", &webauthn.Credential{ID: []byte("id")}, "x")
		assert.Error(t, err)
	})
}

func TestUpdateSignCount(t *testing.T) {
	t.Run("normal increment", func(t *testing.T) {
		cred := testCredential(t, 5)
		require.NoError(t, cred.UpdateSignCount(6))
		assert.Equal(t, uint32(6), cred.SignCount())
	})

	t.Run("counterless authenticator stays at zero", func(t *testing.T) {
		cred := testCredential(t, 0)
		assert.NoError(t, cred.UpdateSignCount(0))
	})

	t.Run("authenticator starts reporting", func(t *testing.T) {
		cred := testCredential(t, 0)
		assert.NoError(t, cred.UpdateSignCount(3))
	})

	t.Run("non-increasing counter is rejected", func(t *testing.T) {
		cred := testCredential(t, 5)
		assert.Error(t, cred.UpdateSignCount(5))
		assert.Error(t, cred.UpdateSignCount(4))

		// rejected updates must not move the stored counter
		assert.Equal(t, uint32(5), cred.SignCount())
	})
}

func TestUpdateLabel(t *testing.T) {
	cred := testCredential(t, 0)

	require.NoError(t, cred.UpdateLabel("  Work laptop  "))
	assert.Equal(t, "Work laptop", cred.Label())

	assert.Error(t, cred.UpdateLabel("   "))
}

func TestToWebAuthnCredential(t *testing.T) {
	cred := testCredential(t, 9)
	wa := cred.ToWebAuthnCredential()

	assert.Equal(t, []byte("cred-id"), wa.ID)
	assert.Equal(t, []byte("pub-key"), wa.PublicKey)
	assert.Equal(t, uint32(9), wa.Authenticator.SignCount)
	assert.Equal(t, []protocol.AuthenticatorTransport{protocol.Internal}, wa.Transport)
}

func TestSetID(t *testing.T) {
	cred, err := NewPasskeyCredentialFromWebAuthn("urn:mvn:user:abc", &webauthn.Credential{
		ID:        []byte("cred-id"),
		PublicKey: []byte("pub-key"),
	}, "x")
	require.NoError(t, err)

	assert.Error(t, cred.SetID(0))
	require.NoError(t, cred.SetID(42))
	assert.Equal(t, uint(42), cred.ID())

	// once set, the ID is immutable
	assert.Error(t, cred.SetID(43))
}
