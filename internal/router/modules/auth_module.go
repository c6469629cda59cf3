package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/ordo-prm/internal/interface/http"
	"github.com/oksasatya/ordo-prm/internal/interface/middleware"
)

// AuthModule wires the auth handlers under /api/auth.
// Public: signup, login, logout. Session: reset-password, me.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter *middleware.Limiter
	Guard   gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, lim *middleware.Limiter, guard gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Limiter: lim, Guard: guard}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := m.Limiter.Limit(5, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := m.Limiter.Limit(10, time.Minute, middleware.KeyByIPAndPath()) // 10 req/min per IP

	auth := rg.Group("/auth")
	auth.POST("/signup", signupLimiter, m.Handler.Signup)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)

	protected := auth.Group("", guarded(m.Guard)...)
	protected.POST("/reset-password", m.Handler.ResetPassword)
	protected.GET("/me", m.Handler.Me)
}
