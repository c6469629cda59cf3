package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/ordo-prm/config"
	"github.com/oksasatya/ordo-prm/internal/container"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/ordo-prm/internal/infrastructure/postgres"
	"github.com/oksasatya/ordo-prm/internal/metrics"
	"github.com/oksasatya/ordo-prm/internal/router"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("jwt: %v", err)
	}
	c := container.New(cfg, logger, jwtManager)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using the in-memory store; data is lost on restart")
		c.UseMemory(memory.NewStore())
	default:
		if cfg.MigrateOnStart {
			if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
				logger.Fatalf("migration failed: %v", err)
			}
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		})
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		c.UsePostgres(pool)
	}

	// Redis (rate limiting)
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
	} else if rdb != nil {
		defer func() { _ = rdb.Close() }()
		c.Redis = rdb
	}

	// RabbitMQ audit queue
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQAuditQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, audit events are written directly")
		} else {
			defer pub.Close()
			c.Publisher = pub
		}
	}

	if cfg.MetricsEnabled {
		c.UseMetrics(metrics.NewRegistry())
	}

	r, err := router.NewEngine(c)
	if err != nil {
		logger.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
