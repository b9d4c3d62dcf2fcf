package content

import "context"

// SeriesRepository is the persistence contract for series. Lookups return
// (nil, nil) when no row matches.
type SeriesRepository interface {
	GetByURN(ctx context.Context, seriesURN string) (*Series, error)
	Update(ctx context.Context, s *Series) error
}

// UnitRepository is the persistence contract for units.
type UnitRepository interface {
	GetByURN(ctx context.Context, unitURN string) (*Unit, error)
}

// EditGrantRepository is the persistence contract for edit grants.
type EditGrantRepository interface {
	Create(ctx context.Context, grant *EditGrant) error
	Delete(ctx context.Context, resourceURN, granteeURN string) error
	Exists(ctx context.Context, resourceURN, granteeURN string) (bool, error)
	ListByResource(ctx context.Context, resourceURN string) ([]*EditGrant, error)
}
