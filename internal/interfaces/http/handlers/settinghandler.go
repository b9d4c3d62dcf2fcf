package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingapp "maven/internal/application/setting"
	"maven/internal/domain/setting"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// SettingHandler serves the admin auth settings routes. Secrets go out
// masked; an update submitting the masked placeholder keeps the stored
// value.
type SettingHandler struct {
	settings *settingapp.Service
	logger   logger.Interface
}

func NewSettingHandler(settings *settingapp.Service, logger logger.Interface) *SettingHandler {
	return &SettingHandler{settings: settings, logger: logger}
}

func (h *SettingHandler) GetAuth(c *gin.Context) {
	settings, err := h.settings.GetAuth(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to get auth settings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", settings)
}

func (h *SettingHandler) UpdateAuth(c *gin.Context) {
	var incoming setting.AuthSettings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid settings payload")
		return
	}

	updated, err := h.settings.UpdateAuth(c.Request.Context(), incoming)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "settings updated", updated)
}
