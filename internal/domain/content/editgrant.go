package content

import (
	"fmt"
	"time"

	"maven/internal/shared/urn"
)

// EditGrant gives one account edit rights on one resource beyond ownership.
// A grant never implies ownership and a grantee cannot re-grant.
type EditGrant struct {
	id          uint
	resourceURN string
	granteeURN  string
	grantedBy   string
	createdAt   time.Time
}

// NewEditGrant creates a grant of resourceURN to granteeURN.
func NewEditGrant(resourceURN, granteeURN, grantedBy string) (*EditGrant, error) {
	if resourceURN == "" {
		return nil, fmt.Errorf("resource URN is required")
	}
	if granteeURN == "" {
		return nil, fmt.Errorf("grantee URN is required")
	}
	return &EditGrant{
		resourceURN: resourceURN,
		granteeURN:  urn.Normalize(urn.KindUser, granteeURN),
		grantedBy:   urn.Normalize(urn.KindUser, grantedBy),
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructEditGrant rebuilds a grant from persistence.
func ReconstructEditGrant(id uint, resourceURN, granteeURN, grantedBy string, createdAt time.Time) (*EditGrant, error) {
	if id == 0 {
		return nil, fmt.Errorf("edit grant ID cannot be zero")
	}
	return &EditGrant{
		id:          id,
		resourceURN: resourceURN,
		granteeURN:  granteeURN,
		grantedBy:   grantedBy,
		createdAt:   createdAt,
	}, nil
}

func (g *EditGrant) ID() uint            { return g.id }
func (g *EditGrant) ResourceURN() string { return g.resourceURN }
func (g *EditGrant) GranteeURN() string  { return g.granteeURN }
func (g *EditGrant) GrantedBy() string   { return g.grantedBy }
func (g *EditGrant) CreatedAt() time.Time { return g.createdAt }

// SetID sets the internal ID (only for persistence layer use).
func (g *EditGrant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("edit grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("edit grant ID cannot be zero")
	}
	g.id = id
	return nil
}

// DisplayInfo is the public projection of a grant.
type EditGrantDisplayInfo struct {
	ResourceURN string    `json:"resource_urn"`
	GranteeURN  string    `json:"grantee_urn"`
	GrantedBy   string    `json:"granted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g *EditGrant) GetDisplayInfo() EditGrantDisplayInfo {
	return EditGrantDisplayInfo{
		ResourceURN: g.resourceURN,
		GranteeURN:  g.granteeURN,
		GrantedBy:   g.grantedBy,
		CreatedAt:   g.createdAt,
	}
}
