package router

import (
	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/internal/container"
	handlers "github.com/oksasatya/ordo-prm/internal/interface/http"
	"github.com/oksasatya/ordo-prm/internal/interface/middleware"
	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/internal/router/modules"
)

// Services are the application services built from one container.
type Services struct {
	Auth     *application.AuthService
	Contacts *application.ContactService
	Settings *application.SettingsService
}

func BuildServices(c *container.Container) Services {
	return Services{
		Auth: application.NewAuthService(
			c.Users,
			c.JWT,
			c.AuditSink(),
			c.Metrics,
			c.Logger,
			c.Config.BcryptCost,
		),
		Contacts: application.NewContactService(c.Contacts, c.Users, c.Metrics, c.Logger),
		Settings: application.NewSettingsService(c.Users, c.Logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, c *container.Container, resolver *session.Resolver) {
	svc := BuildServices(c)

	var allow middleware.AllowFunc
	if c.Config.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}

	// the engine-level gate already resolved the session; the guard re-checks
	// it on every group that reads or writes user data
	guard := middleware.RequireIdentity(resolver)

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(svc.Auth, resolver, c.Cookies, c.Logger),
		middleware.NewLimiter(c.Redis, c.Logger, allow),
		guard,
	))
	r.Add(modules.NewContactModule(handlers.NewContactHandler(svc.Contacts, c.Logger), guard))
	r.Add(modules.NewSettingsModule(handlers.NewSettingsHandler(svc.Settings, c.Logger), guard))
	r.AddRoot(modules.NewOpsModule(handlers.NewHealthHandler(c.Store, c.Logger), c.Gatherer))
}
