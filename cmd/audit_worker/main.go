package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/config"
	"github.com/oksasatya/ordo-prm/internal/infrastructure/audit"
	pginfra "github.com/oksasatya/ordo-prm/internal/infrastructure/postgres"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-audit-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQAuditQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.PostgresDSN() == "" {
		log.Fatal("postgres not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQAuditQueue)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQAuditQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	consumer := &audit.Consumer{Repo: pginfra.NewAuditRepository(pool)}
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := consumer.Handle(c, msg.Body)
			cancel()
			switch audit.Settle(err, msg.Redelivered) {
			case audit.Ack:
				_ = msg.Ack(false)
			case audit.Drop:
				logger.WithError(err).WithFields(logrus.Fields{"redelivered": msg.Redelivered}).Warn("dropping audit message")
				_ = msg.Nack(false, false)
			case audit.Requeue:
				logger.WithError(err).Error("audit insert failed, requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.Infof("audit worker listening on queue=%s", cfg.RabbitMQAuditQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
