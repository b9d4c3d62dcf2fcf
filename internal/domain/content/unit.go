package content

import (
	"fmt"
	"time"

	"maven/internal/shared/urn"
)

// Unit is a single piece of content inside a series.
type Unit struct {
	unitURN   string
	seriesURN string
	title     string
	createdBy string
	createdAt time.Time
	updatedAt time.Time
}

// ReconstructUnit rebuilds a unit from persistence.
func ReconstructUnit(unitURN, seriesURN, title, createdBy string, createdAt, updatedAt time.Time) (*Unit, error) {
	if unitURN == "" {
		return nil, fmt.Errorf("unit URN is required")
	}
	if seriesURN == "" {
		return nil, fmt.Errorf("parent series URN is required")
	}
	return &Unit{
		unitURN:   unitURN,
		seriesURN: seriesURN,
		title:     title,
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *Unit) URN() string          { return u.unitURN }
func (u *Unit) SeriesURN() string    { return u.seriesURN }
func (u *Unit) Title() string        { return u.title }
func (u *Unit) CreatedBy() string    { return u.createdBy }
func (u *Unit) CreatedAt() time.Time { return u.createdAt }
func (u *Unit) UpdatedAt() time.Time { return u.updatedAt }

// IsOwnedBy compares the owner column against a user URN, accepting the
// legacy bare-id form.
func (u *Unit) IsOwnedBy(userURN string) bool {
	return urn.Equal(urn.KindUser, u.createdBy, userURN)
}
