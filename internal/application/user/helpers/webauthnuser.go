// Package helpers contains small adapters shared by the user use cases.
package helpers

import (
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"maven/internal/domain/user"
)

// WebAuthnUser adapts an account and its stored credentials to the
// webauthn.User interface. The WebAuthn user handle is the account URN in
// bytes, which is what discoverable login gets back as the user handle.
type WebAuthnUser struct {
	user        *user.User
	credentials []*user.PasskeyCredential
}

func NewWebAuthnUser(u *user.User, credentials []*user.PasskeyCredential) *WebAuthnUser {
	return &WebAuthnUser{user: u, credentials: credentials}
}

func (w *WebAuthnUser) WebAuthnID() []byte {
	return []byte(w.user.URN())
}

func (w *WebAuthnUser) WebAuthnName() string {
	return w.user.Username()
}

func (w *WebAuthnUser) WebAuthnDisplayName() string {
	return w.user.Username()
}

func (w *WebAuthnUser) WebAuthnCredentials() []webauthn.Credential {
	credentials := make([]webauthn.Credential, len(w.credentials))
	for i, cred := range w.credentials {
		credentials[i] = cred.ToWebAuthnCredential()
	}
	return credentials
}

// CredentialDescriptors lists the stored credentials for registration
// exclusion, so an authenticator refuses to create a duplicate.
func (w *WebAuthnUser) CredentialDescriptors() []protocol.CredentialDescriptor {
	descriptors := make([]protocol.CredentialDescriptor, len(w.credentials))
	for i, cred := range w.credentials {
		descriptors[i] = protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: cred.CredentialID(),
		}
	}
	return descriptors
}
