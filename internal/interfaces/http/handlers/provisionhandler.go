package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maven/internal/application/user/usecases"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// ProvisionHandler exchanges externally issued identity tokens for local
// accounts and sessions.
type ProvisionHandler struct {
	provisionUC *usecases.ProvisionExternalUseCase
	logger      logger.Interface
}

func NewProvisionHandler(provisionUC *usecases.ProvisionExternalUseCase, logger logger.Interface) *ProvisionHandler {
	return &ProvisionHandler{provisionUC: provisionUC, logger: logger}
}

type provisionRequest struct {
	Token string `json:"token" binding:"required"`
}

type provisionResponse struct {
	sessionResponse
	Created bool `json:"created"`
}

func (h *ProvisionHandler) Provision(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "token is required")
		return
	}

	result, err := h.provisionUC.Execute(c.Request.Context(), usecases.ProvisionExternalCommand{Token: req.Token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	utils.SuccessResponse(c, status, "provisioned", provisionResponse{
		sessionResponse: sessionResponse{
			User:        result.User.GetDisplayInfo(),
			AccessToken: result.AccessToken,
			ExpiresIn:   result.ExpiresIn,
		},
		Created: result.Created,
	})
}
