package handlers

import (
	"net/http"

	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SettingsHandler struct {
	settingsService services.SettingsService
	log             logrus.FieldLogger
}

func NewSettingsHandler(settingsService services.SettingsService, log logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, log: log}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	setting, err := h.settingsService.UpdateSetting(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, setting)
}
