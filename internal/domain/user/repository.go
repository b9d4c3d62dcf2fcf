package user

import "context"

// Repository is the persistence contract for accounts. Lookup methods return
// (nil, nil) when no row matches so callers can distinguish absence from
// infrastructure failure.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByURN(ctx context.Context, userURN string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByExternalSubject(ctx context.Context, subject string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
