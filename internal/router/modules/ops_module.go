package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	handlers "github.com/oksasatya/ordo-prm/internal/interface/http"
	"github.com/oksasatya/ordo-prm/internal/metrics"
)

// OpsModule serves /healthz and, when a gatherer is set, /metrics at the
// engine root.
type OpsModule struct {
	Health   *handlers.HealthHandler
	Gatherer prometheus.Gatherer
}

func NewOpsModule(h *handlers.HealthHandler, gatherer prometheus.Gatherer) *OpsModule {
	return &OpsModule{Health: h, Gatherer: gatherer}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Healthz)
	if m.Gatherer != nil {
		rg.GET("/metrics", gin.WrapH(metrics.Handler(m.Gatherer)))
	}
}
