// Package handlers maps HTTP requests onto the application use cases.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maven/internal/application/user/usecases"
	"maven/internal/domain/user"
	"maven/internal/infrastructure/auth"
	"maven/internal/interfaces/http/middleware"
	"maven/internal/shared/errors"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// AuthHandler serves password login, registration, password changes, and the
// public key set.
type AuthHandler struct {
	loginUC          *usecases.LoginWithPasswordUseCase
	registerUC       *usecases.RegisterWithPasswordUseCase
	changePasswordUC *usecases.ChangePasswordUseCase
	jwtService       *auth.JWTService
	userRepo         user.Repository
	logger           logger.Interface
}

func NewAuthHandler(
	loginUC *usecases.LoginWithPasswordUseCase,
	registerUC *usecases.RegisterWithPasswordUseCase,
	changePasswordUC *usecases.ChangePasswordUseCase,
	jwtService *auth.JWTService,
	userRepo user.Repository,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		loginUC:          loginUC,
		registerUC:       registerUC,
		changePasswordUC: changePasswordUC,
		jwtService:       jwtService,
		userRepo:         userRepo,
		logger:           logger,
	}
}

type loginRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	ChallengeToken string `json:"challenge_token"`
}

type sessionResponse struct {
	User        user.DisplayInfo `json:"user"`
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginWithPasswordCommand{
		Username:       req.Username,
		Password:       req.Password,
		ChallengeToken: req.ChallengeToken,
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Warnw("login failed", "ip", c.ClientIP(), "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", sessionResponse{
		User:        result.User.GetDisplayInfo(),
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

type registerRequest struct {
	Username       string `json:"username" validate:"required,max=32"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	ChallengeToken string `json:"challenge_token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.registerUC.Execute(c.Request.Context(), usecases.RegisterWithPasswordCommand{
		Username:       req.Username,
		Password:       req.Password,
		ChallengeToken: req.ChallengeToken,
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "registration successful", sessionResponse{
		User:        result.User.GetDisplayInfo(),
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.changePasswordUC.Execute(c.Request.Context(), usecases.ChangePasswordCommand{
		UserURN:         userURN,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "password changed", nil)
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userURN, ok := middleware.UserURN(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	currentUser, err := h.userRepo.GetByURN(c.Request.Context(), userURN)
	if err != nil {
		h.logger.Errorw("failed to get user", "urn", userURN, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to get user")
		return
	}
	if currentUser == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "user not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", currentUser.GetDisplayInfo())
}

// JWKS serves the public verification keys. Third parties use this to check
// session tokens without calling back.
func (h *AuthHandler) JWKS(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, h.jwtService.PublicJWKS())
}
