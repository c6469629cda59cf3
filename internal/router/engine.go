package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/ordo-prm/internal/container"
	"github.com/oksasatya/ordo-prm/internal/interface/middleware"
	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/pkg/response"
	"github.com/oksasatya/ordo-prm/pkg/validation"
)

// NewEngine builds the gin engine with the global middleware chain and every
// module registered.
func NewEngine(c *container.Container) (*gin.Engine, error) {
	validation.Init()

	r := gin.New()
	if !c.Config.TrustProxyHeaders {
		if err := r.SetTrustedProxies(nil); err != nil {
			return nil, err
		}
	}

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(c.Config.TrustProxyHeaders))
	if c.Gatherer != nil {
		r.Use(middleware.Metrics(c.Metrics))
	}
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	resolver := session.NewResolver(c.JWT)
	r.Use(middleware.AccessGate(resolver, middleware.DefaultRouteTable()))

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg, c, resolver)
	reg.RegisterAll()
	return r, nil
}
