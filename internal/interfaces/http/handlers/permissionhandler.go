package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maven/internal/application/permission"
	"maven/internal/domain/content"
	"maven/internal/domain/user"
	"maven/internal/interfaces/http/middleware"
	"maven/internal/shared/logger"
	"maven/internal/shared/urn"
	"maven/internal/shared/utils"
)

// PermissionHandler serves the edit grant and ownership routes for series
// and units. Path ids may be bare or full URNs.
type PermissionHandler struct {
	permissions *permission.Service
	userRepo    user.Repository
	logger      logger.Interface
}

func NewPermissionHandler(permissions *permission.Service, userRepo user.Repository, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{permissions: permissions, userRepo: userRepo, logger: logger}
}

// actor loads the authenticated caller's account. The role in the token is
// not trusted for permission decisions; the stored role is.
func (h *PermissionHandler) actor(c *gin.Context) (*user.User, bool) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return nil, false
	}

	actor, err := h.userRepo.GetByURN(c.Request.Context(), userURN)
	if err != nil {
		h.logger.Errorw("failed to get user", "urn", userURN, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to get user")
		return nil, false
	}
	if actor == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not found")
		return nil, false
	}
	return actor, true
}

// CanEditSeries reports whether the caller may modify the series.
func (h *PermissionHandler) CanEditSeries(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	canEdit, err := h.permissions.CanModifySeries(c.Request.Context(), actor, urn.Normalize(urn.KindSeries, c.Param("id")))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"can_edit": canEdit})
}

// CanEditUnit reports whether the caller may modify the unit.
func (h *PermissionHandler) CanEditUnit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	canEdit, err := h.permissions.CanModifyUnit(c.Request.Context(), actor, urn.Normalize(urn.KindUnit, c.Param("id")))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"can_edit": canEdit})
}

type grantRequest struct {
	GranteeURN string `json:"grantee_urn" binding:"required"`
}

// GrantSeries creates an edit grant on a series.
func (h *PermissionHandler) GrantSeries(c *gin.Context) {
	h.grant(c, urn.Normalize(urn.KindSeries, c.Param("id")))
}

// GrantUnit creates an edit grant on a unit.
func (h *PermissionHandler) GrantUnit(c *gin.Context) {
	h.grant(c, urn.Normalize(urn.KindUnit, c.Param("id")))
}

func (h *PermissionHandler) grant(c *gin.Context, resourceURN string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "grantee_urn is required")
		return
	}

	grant, err := h.permissions.GrantEdit(c.Request.Context(), actor, resourceURN, req.GranteeURN)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "grant created", grant.GetDisplayInfo())
}

// RevokeSeries removes an edit grant from a series.
func (h *PermissionHandler) RevokeSeries(c *gin.Context) {
	h.revoke(c, urn.Normalize(urn.KindSeries, c.Param("id")))
}

// RevokeUnit removes an edit grant from a unit.
func (h *PermissionHandler) RevokeUnit(c *gin.Context) {
	h.revoke(c, urn.Normalize(urn.KindUnit, c.Param("id")))
}

func (h *PermissionHandler) revoke(c *gin.Context, resourceURN string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.permissions.RevokeEdit(c.Request.Context(), actor, resourceURN, c.Param("grantee")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// ListSeriesGrants lists the grants on a series.
func (h *PermissionHandler) ListSeriesGrants(c *gin.Context) {
	h.list(c, urn.Normalize(urn.KindSeries, c.Param("id")))
}

// ListUnitGrants lists the grants on a unit.
func (h *PermissionHandler) ListUnitGrants(c *gin.Context) {
	h.list(c, urn.Normalize(urn.KindUnit, c.Param("id")))
}

func (h *PermissionHandler) list(c *gin.Context, resourceURN string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	grants, err := h.permissions.ListGrants(c.Request.Context(), actor, resourceURN)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", grantsToDisplay(grants))
}

type transferRequest struct {
	NewOwnerURN string `json:"new_owner_urn" binding:"required"`
}

// TransferOwnership reassigns a series to a new owner. Admin only.
func (h *PermissionHandler) TransferOwnership(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "new_owner_urn is required")
		return
	}

	seriesURN := urn.Normalize(urn.KindSeries, c.Param("id"))
	if err := h.permissions.TransferOwnership(c.Request.Context(), actor, seriesURN, req.NewOwnerURN); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ownership transferred", nil)
}

func grantsToDisplay(grants []*content.EditGrant) []content.EditGrantDisplayInfo {
	infos := make([]content.EditGrantDisplayInfo, len(grants))
	for i, grant := range grants {
		infos[i] = grant.GetDisplayInfo()
	}
	return infos
}
