package user

import "context"

// PasskeyCredentialRepository is the persistence contract for passkey
// credentials. Lookup methods return (nil, nil) when no row matches.
type PasskeyCredentialRepository interface {
	Create(ctx context.Context, cred *PasskeyCredential) error
	Update(ctx context.Context, cred *PasskeyCredential) error
	Delete(ctx context.Context, id uint) error
	GetBySID(ctx context.Context, sid string) (*PasskeyCredential, error)
	GetByCredentialID(ctx context.Context, credentialID []byte) (*PasskeyCredential, error)
	GetByUserURN(ctx context.Context, userURN string) ([]*PasskeyCredential, error)
}
