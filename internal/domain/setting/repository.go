package setting

import "context"

// Repository persists the singleton settings records. GetAuth returns the
// defaults when no record has been written yet.
type Repository interface {
	GetAuth(ctx context.Context) (AuthSettings, error)
	SaveAuth(ctx context.Context, settings AuthSettings) error
}
