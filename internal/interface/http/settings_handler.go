package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/pkg/response"
)

type SettingsHandler struct {
	Svc    *application.SettingsService
	Logger logrus.FieldLogger
}

func NewSettingsHandler(svc *application.SettingsService, logger logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{Svc: svc, Logger: logger}
}

// Get GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	st, err := h.Svc.Get(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Update PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req application.SettingsPatch
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.Svc.Update(c.Request.Context(), uid, req)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
