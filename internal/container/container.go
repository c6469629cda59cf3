// Package container holds the components built once at startup and handed
// to the router. Nothing in it is package-level state.
package container

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/config"
	"github.com/oksasatya/ordo-prm/internal/application"
	repo "github.com/oksasatya/ordo-prm/internal/domain/repository"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/audit"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/ordo-prm/internal/infrastructure/postgres"
	"github.com/oksasatya/ordo-prm/internal/metrics"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users    repo.UserRepository
	Contacts repo.ContactRepository
	AuditLog repo.AuditRepository
	Store    Pinger

	JWT       *helpers.JWTManager
	Cookies   *helpers.CookieManager
	Redis     *redis.Client
	Publisher audit.Publisher

	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
}

// New returns a container without a store; call UsePostgres or UseMemory.
// Metrics default to a no-op recorder.
func New(cfg *config.Config, logger *logrus.Logger, jwt *helpers.JWTManager) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		JWT:     jwt,
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Metrics: metrics.Nop{},
	}
}

func (c *Container) UsePostgres(db pginfra.DB) {
	c.Users = pginfra.NewUserRepository(db)
	c.Contacts = pginfra.NewContactRepository(db)
	c.AuditLog = pginfra.NewAuditRepository(db)
	c.Store = db
}

func (c *Container) UseMemory(s *memory.Store) {
	c.Users = s.Users()
	c.Contacts = s.Contacts()
	c.AuditLog = s.Audit()
	c.Store = s
}

// UseMetrics registers the application collector on reg and serves reg.
func (c *Container) UseMetrics(reg *prometheus.Registry) {
	c.Metrics = metrics.NewCollector(reg)
	c.Gatherer = reg
}

// AuditSink queues events when a publisher is configured and writes them
// directly otherwise.
func (c *Container) AuditSink() application.AuditSink {
	if c.Publisher != nil {
		return audit.NewQueueSink(c.Publisher, c.AuditLog, c.Logger)
	}
	if c.AuditLog != nil {
		return audit.NewStoreSink(c.AuditLog)
	}
	return application.NopAuditSink{}
}
