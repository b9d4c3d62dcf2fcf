// Package content holds the series/unit hierarchy and the explicit edit
// grants attached to it. Series own units; edit rights flow downward from a
// series to its units, never upward.
package content

import (
	"fmt"
	"time"

	"maven/internal/shared/urn"
)

// Series is a published collection of units.
type Series struct {
	seriesURN string
	title     string
	createdBy string // owner, URN or legacy bare id
	createdAt time.Time
	updatedAt time.Time
}

// ReconstructSeries rebuilds a series from persistence.
func ReconstructSeries(seriesURN, title, createdBy string, createdAt, updatedAt time.Time) (*Series, error) {
	if seriesURN == "" {
		return nil, fmt.Errorf("series URN is required")
	}
	return &Series{
		seriesURN: seriesURN,
		title:     title,
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (s *Series) URN() string          { return s.seriesURN }
func (s *Series) Title() string        { return s.title }
func (s *Series) CreatedBy() string    { return s.createdBy }
func (s *Series) CreatedAt() time.Time { return s.createdAt }
func (s *Series) UpdatedAt() time.Time { return s.updatedAt }

// IsOwnedBy compares the owner column against a user URN, accepting the
// legacy bare-id form stored by early records.
func (s *Series) IsOwnedBy(userURN string) bool {
	return urn.Equal(urn.KindUser, s.createdBy, userURN)
}

// TransferOwnership reassigns the series to a new owner.
func (s *Series) TransferOwnership(newOwnerURN string) error {
	if newOwnerURN == "" {
		return fmt.Errorf("new owner URN is required")
	}
	s.createdBy = urn.Normalize(urn.KindUser, newOwnerURN)
	s.updatedAt = time.Now().UTC()
	return nil
}
