package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"

	"maven/internal/application/user/usecases"
	"maven/internal/domain/user"
	"maven/internal/interfaces/http/middleware"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// ChallengeIDHeader carries the server-issued challenge id on ceremony
// options responses; clients echo it on the completion request.
const ChallengeIDHeader = "X-Challenge-Id"

// PasskeyHandler serves the WebAuthn ceremonies and credential management.
type PasskeyHandler struct {
	startRegistrationUC    *usecases.StartPasskeyRegistrationUseCase
	finishRegistrationUC   *usecases.FinishPasskeyRegistrationUseCase
	startAuthenticationUC  *usecases.StartPasskeyAuthenticationUseCase
	finishAuthenticationUC *usecases.FinishPasskeyAuthenticationUseCase
	managePasskeysUC       *usecases.ManagePasskeysUseCase
	logger                 logger.Interface
}

func NewPasskeyHandler(
	startRegistrationUC *usecases.StartPasskeyRegistrationUseCase,
	finishRegistrationUC *usecases.FinishPasskeyRegistrationUseCase,
	startAuthenticationUC *usecases.StartPasskeyAuthenticationUseCase,
	finishAuthenticationUC *usecases.FinishPasskeyAuthenticationUseCase,
	managePasskeysUC *usecases.ManagePasskeysUseCase,
	logger logger.Interface,
) *PasskeyHandler {
	return &PasskeyHandler{
		startRegistrationUC:    startRegistrationUC,
		finishRegistrationUC:   finishRegistrationUC,
		startAuthenticationUC:  startAuthenticationUC,
		finishAuthenticationUC: finishAuthenticationUC,
		managePasskeysUC:       managePasskeysUC,
		logger:                 logger,
	}
}

// StartRegistration begins a registration ceremony for the caller.
func (h *PasskeyHandler) StartRegistration(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.startRegistrationUC.Execute(c.Request.Context(), usecases.StartPasskeyRegistrationCommand{
		UserURN: userURN,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header(ChallengeIDHeader, result.ChallengeID)
	c.JSON(http.StatusOK, result.Options)
}

// FinishRegistration verifies the authenticator response and stores the new
// credential. The body is the raw WebAuthn attestation JSON; the challenge
// id comes back in the header and an optional label in the query string.
func (h *PasskeyHandler) FinishRegistration(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	challengeID := c.GetHeader(ChallengeIDHeader)
	if challengeID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "missing challenge id header")
		return
	}

	response, err := protocol.ParseCredentialCreationResponseBody(c.Request.Body)
	if err != nil {
		h.logger.Warnw("failed to parse registration response", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid registration response")
		return
	}

	result, err := h.finishRegistrationUC.Execute(c.Request.Context(), usecases.FinishPasskeyRegistrationCommand{
		UserURN:     userURN,
		ChallengeID: challengeID,
		Label:       c.Query("label"),
		Response:    response,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "passkey registered", result.Credential)
}

type startAuthenticationRequest struct {
	Username string `json:"username"`
}

// StartAuthentication begins an authentication ceremony. The username is
// optional; without it a discoverable ceremony is started.
func (h *PasskeyHandler) StartAuthentication(c *gin.Context) {
	var req startAuthenticationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.startAuthenticationUC.Execute(c.Request.Context(), usecases.StartPasskeyAuthenticationCommand{
		Username: req.Username,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header(ChallengeIDHeader, result.ChallengeID)
	c.JSON(http.StatusOK, result.Options)
}

// FinishAuthentication verifies the assertion and returns a session token.
func (h *PasskeyHandler) FinishAuthentication(c *gin.Context) {
	challengeID := c.GetHeader(ChallengeIDHeader)
	if challengeID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "missing challenge id header")
		return
	}

	response, err := protocol.ParseCredentialRequestResponseBody(c.Request.Body)
	if err != nil {
		h.logger.Warnw("failed to parse authentication response", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid authentication response")
		return
	}

	result, err := h.finishAuthenticationUC.Execute(c.Request.Context(), usecases.FinishPasskeyAuthenticationCommand{
		ChallengeID: challengeID,
		Response:    response,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", sessionResponse{
		User:        result.User.GetDisplayInfo(),
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

// List returns the caller's credentials.
func (h *PasskeyHandler) List(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	infos, err := h.managePasskeysUC.List(c.Request.Context(), userURN)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if infos == nil {
		infos = []user.PasskeyDisplayInfo{}
	}
	utils.SuccessResponse(c, http.StatusOK, "", infos)
}

type renamePasskeyRequest struct {
	Label string `json:"label" binding:"required"`
}

// Rename updates a credential's label.
func (h *PasskeyHandler) Rename(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req renamePasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "label is required")
		return
	}

	info, err := h.managePasskeysUC.Rename(c.Request.Context(), userURN, c.Param("id"), req.Label)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "passkey renamed", info)
}

// Delete removes a credential.
func (h *PasskeyHandler) Delete(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if err := h.managePasskeysUC.Delete(c.Request.Context(), userURN, c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
