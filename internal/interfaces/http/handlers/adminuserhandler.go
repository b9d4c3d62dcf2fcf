package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maven/internal/application/user/usecases"
	"maven/internal/shared/logger"
	"maven/internal/shared/urn"
	"maven/internal/shared/utils"
)

// AdminUserHandler serves the admin-only account management routes.
type AdminUserHandler struct {
	setPasswordLoginUC *usecases.SetPasswordLoginUseCase
	logger             logger.Interface
}

func NewAdminUserHandler(setPasswordLoginUC *usecases.SetPasswordLoginUseCase, logger logger.Interface) *AdminUserHandler {
	return &AdminUserHandler{setPasswordLoginUC: setPasswordLoginUC, logger: logger}
}

type setPasswordLoginRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetPasswordLogin toggles password login for an account.
func (h *AdminUserHandler) SetPasswordLogin(c *gin.Context) {
	var req setPasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Disabled == nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "disabled flag is required")
		return
	}

	userURN := urn.Normalize(urn.KindUser, c.Param("id"))
	if err := h.setPasswordLoginUC.Execute(c.Request.Context(), usecases.SetPasswordLoginCommand{
		UserURN:  userURN,
		Disabled: *req.Disabled,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "password login updated", nil)
}
