// Package permission resolves who may modify which content. The order is
// always admin override, then ownership, then explicit edit grant; a unit
// additionally inherits edit rights from its parent series.
package permission

import (
	"context"
	"fmt"

	"maven/internal/domain/content"
	"maven/internal/domain/user"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
	"maven/internal/shared/urn"
)

// Service answers modification queries and manages edit grants.
type Service struct {
	seriesRepo content.SeriesRepository
	unitRepo   content.UnitRepository
	grantRepo  content.EditGrantRepository
	userRepo   user.Repository
	logger     logger.Interface
}

func NewService(
	seriesRepo content.SeriesRepository,
	unitRepo content.UnitRepository,
	grantRepo content.EditGrantRepository,
	userRepo user.Repository,
	logger logger.Interface,
) *Service {
	return &Service{
		seriesRepo: seriesRepo,
		unitRepo:   unitRepo,
		grantRepo:  grantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CanModifySeries reports whether the actor may modify the series.
func (s *Service) CanModifySeries(ctx context.Context, actor *user.User, seriesURN string) (bool, error) {
	if actor.Role().IsAdmin() {
		return true, nil
	}

	series, err := s.seriesRepo.GetByURN(ctx, seriesURN)
	if err != nil {
		return false, fmt.Errorf("failed to get series: %w", err)
	}
	if series == nil {
		return false, errors.NewNotFoundError("Series not found")
	}
	if series.IsOwnedBy(actor.URN()) {
		return true, nil
	}

	return s.hasGrant(ctx, seriesURN, actor.URN())
}

// CanModifyUnit reports whether the actor may modify the unit. Edit rights
// on the parent series carry down to every unit in it.
func (s *Service) CanModifyUnit(ctx context.Context, actor *user.User, unitURN string) (bool, error) {
	if actor.Role().IsAdmin() {
		return true, nil
	}

	unit, err := s.unitRepo.GetByURN(ctx, unitURN)
	if err != nil {
		return false, fmt.Errorf("failed to get unit: %w", err)
	}
	if unit == nil {
		return false, errors.NewNotFoundError("Unit not found")
	}
	if unit.IsOwnedBy(actor.URN()) {
		return true, nil
	}

	if ok, err := s.hasGrant(ctx, unitURN, actor.URN()); err != nil || ok {
		return ok, err
	}

	series, err := s.seriesRepo.GetByURN(ctx, unit.SeriesURN())
	if err != nil {
		return false, fmt.Errorf("failed to get parent series: %w", err)
	}
	if series != nil {
		if series.IsOwnedBy(actor.URN()) {
			return true, nil
		}
		return s.hasGrant(ctx, series.URN(), actor.URN())
	}
	return false, nil
}

// GrantEdit gives the grantee edit rights on a resource. Only an admin or
// the resource's owner may grant; grants to admins, readers, or the owner
// are rejected as pointless or invalid.
func (s *Service) GrantEdit(ctx context.Context, actor *user.User, resourceURN, granteeURN string) (*content.EditGrant, error) {
	ownerURN, err := s.resourceOwner(ctx, resourceURN)
	if err != nil {
		return nil, err
	}
	if err := s.requireGrantAuthority(actor, ownerURN); err != nil {
		return nil, err
	}

	grantee, err := s.userRepo.GetByURN(ctx, urn.Normalize(urn.KindUser, granteeURN))
	if err != nil {
		return nil, fmt.Errorf("failed to get grantee: %w", err)
	}
	if grantee == nil {
		return nil, errors.NewNotFoundError("Grantee not found")
	}
	if grantee.Role().IsAdmin() {
		return nil, errors.NewValidationError("Admins already have full access")
	}
	if !grantee.Role().CanOwnContent() {
		return nil, errors.NewValidationError("Reader accounts cannot receive edit grants")
	}
	if urn.Equal(urn.KindUser, ownerURN, grantee.URN()) {
		return nil, errors.NewValidationError("The owner already has full access")
	}

	exists, err := s.grantRepo.Exists(ctx, resourceURN, grantee.URN())
	if err != nil {
		return nil, fmt.Errorf("failed to check grant existence: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError("Grant already exists")
	}

	grant, err := content.NewEditGrant(resourceURN, grantee.URN(), actor.URN())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to create grant: %w", err)
	}

	s.logger.Infow("edit grant created", "resource", resourceURN, "grantee", grantee.URN(), "granted_by", actor.URN())
	return grant, nil
}

// RevokeEdit removes a grant.
func (s *Service) RevokeEdit(ctx context.Context, actor *user.User, resourceURN, granteeURN string) error {
	ownerURN, err := s.resourceOwner(ctx, resourceURN)
	if err != nil {
		return err
	}
	if err := s.requireGrantAuthority(actor, ownerURN); err != nil {
		return err
	}

	if err := s.grantRepo.Delete(ctx, resourceURN, urn.Normalize(urn.KindUser, granteeURN)); err != nil {
		return errors.NewNotFoundError("Grant not found")
	}

	s.logger.Infow("edit grant revoked", "resource", resourceURN, "grantee", granteeURN, "revoked_by", actor.URN())
	return nil
}

// ListGrants lists the grants on a resource.
func (s *Service) ListGrants(ctx context.Context, actor *user.User, resourceURN string) ([]*content.EditGrant, error) {
	ownerURN, err := s.resourceOwner(ctx, resourceURN)
	if err != nil {
		return nil, err
	}
	if err := s.requireGrantAuthority(actor, ownerURN); err != nil {
		return nil, err
	}
	return s.grantRepo.ListByResource(ctx, resourceURN)
}

// TransferOwnership reassigns a series to a new owner. Admin only; the new
// owner's role must be ownership-eligible.
func (s *Service) TransferOwnership(ctx context.Context, actor *user.User, seriesURN, newOwnerURN string) error {
	if !actor.Role().IsAdmin() {
		return errors.NewForbiddenError("Only an admin can transfer ownership")
	}

	series, err := s.seriesRepo.GetByURN(ctx, seriesURN)
	if err != nil {
		return fmt.Errorf("failed to get series: %w", err)
	}
	if series == nil {
		return errors.NewNotFoundError("Series not found")
	}

	newOwner, err := s.userRepo.GetByURN(ctx, urn.Normalize(urn.KindUser, newOwnerURN))
	if err != nil {
		return fmt.Errorf("failed to get new owner: %w", err)
	}
	if newOwner == nil {
		return errors.NewNotFoundError("New owner not found")
	}
	if !newOwner.Role().CanOwnContent() {
		return errors.NewValidationError("Reader accounts cannot own content")
	}

	if err := series.TransferOwnership(newOwner.URN()); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := s.seriesRepo.Update(ctx, series); err != nil {
		return fmt.Errorf("failed to update series: %w", err)
	}

	s.logger.Infow("series ownership transferred", "series", seriesURN, "new_owner", newOwner.URN(), "by", actor.URN())
	return nil
}

func (s *Service) hasGrant(ctx context.Context, resourceURN, actorURN string) (bool, error) {
	exists, err := s.grantRepo.Exists(ctx, resourceURN, urn.Normalize(urn.KindUser, actorURN))
	if err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}
	return exists, nil
}

// resourceOwner resolves the owner of a series or unit URN. For a unit the
// owner of record is the unit's creator; grant management on units still
// falls back to the parent series owner.
func (s *Service) resourceOwner(ctx context.Context, resourceURN string) (string, error) {
	switch urn.Kind(resourceURN) {
	case urn.KindSeries:
		series, err := s.seriesRepo.GetByURN(ctx, resourceURN)
		if err != nil {
			return "", fmt.Errorf("failed to get series: %w", err)
		}
		if series == nil {
			return "", errors.NewNotFoundError("Series not found")
		}
		return series.CreatedBy(), nil
	case urn.KindUnit:
		unit, err := s.unitRepo.GetByURN(ctx, resourceURN)
		if err != nil {
			return "", fmt.Errorf("failed to get unit: %w", err)
		}
		if unit == nil {
			return "", errors.NewNotFoundError("Unit not found")
		}
		return unit.CreatedBy(), nil
	default:
		return "", errors.NewValidationError("Resource must be a series or unit URN")
	}
}

// requireGrantAuthority gates grant management to admins and the resource
// owner. A grantee can edit but never re-grant.
func (s *Service) requireGrantAuthority(actor *user.User, ownerURN string) error {
	if actor.Role().IsAdmin() {
		return nil
	}
	if urn.Equal(urn.KindUser, ownerURN, actor.URN()) {
		return nil
	}
	return errors.NewForbiddenError("Only an admin or the owner can manage grants")
}
