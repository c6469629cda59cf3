package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/ordo-prm/internal/interface/http"
)

type SettingsModule struct {
	Handler *handlers.SettingsHandler
	Guard   gin.HandlerFunc
}

func NewSettingsModule(h *handlers.SettingsHandler, guard gin.HandlerFunc) *SettingsModule {
	return &SettingsModule{Handler: h, Guard: guard}
}

func (m *SettingsModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/settings", guarded(m.Guard)...)
	g.GET("", m.Handler.Get)
	g.PUT("", m.Handler.Update)
}
