package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/ordo-prm/internal/interface/http"
)

type ContactModule struct {
	Handler *handlers.ContactHandler
	Guard   gin.HandlerFunc
}

func NewContactModule(h *handlers.ContactHandler, guard gin.HandlerFunc) *ContactModule {
	return &ContactModule{Handler: h, Guard: guard}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/contacts", guarded(m.Guard)...)
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
	g.POST("/:id/contacted", m.Handler.MarkContacted)
	g.POST("/:id/ping", m.Handler.Ping)
}
