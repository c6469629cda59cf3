package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/ordo-prm/config"
	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	pginfra "github.com/oksasatya/ordo-prm/internal/infrastructure/postgres"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

func ptr[T any](v T) *T { return &v }

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal("seeding needs STORE_DRIVER=postgres")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	users := pginfra.NewUserRepository(pool)
	auth := application.NewAuthService(users, jwtManager, nil, nil, logger, cfg.BcryptCost)
	contacts := application.NewContactService(pginfra.NewContactRepository(pool), users, nil, logger)

	email := "demo@ordo.local"
	password := "password123"
	meta := application.RequestMeta{IP: "127.0.0.1", UserAgent: "seed"}

	u, _, err := auth.Signup(ctx, "Demo User", email, password, meta)
	switch {
	case errors.Is(err, entity.ErrDuplicateEmail):
		fmt.Printf("user %s already exists, nothing to do\n", email)
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	out, err := contacts.CreateBatch(ctx, u.ID, []application.ContactInput{
		{Name: ptr("Grace Hopper"), Priority: ptr("L1"), PhoneNumber: ptr("+14155550101"), LastContactedDays: ptr(9), Description: ptr("Mentor")},
		{Name: ptr("Linus Torvalds"), Priority: ptr("L2"), ProfileLink: ptr("github.com/torvalds"), LastContactedDays: ptr(12)},
		{Name: ptr("Ada Lovelace"), Priority: ptr("L3"), PhoneNumber: ptr("+442071234567"), LastContactedDays: ptr(3), PingTemplate: ptr("Dear {name}, shall we compute something?")},
		{Name: ptr("Ken Thompson"), Priority: ptr("L1"), ProfileLink: ptr("https://en.wikipedia.org/wiki/Ken_Thompson")},
	})
	if err != nil {
		log.Fatalf("failed to seed contacts: %v", err)
	}
	for _, c := range out {
		fmt.Printf("seeded contact: %s (%s, every %d days, %s)\n", c.Name, c.Priority, c.FrequencyDays, c.Status)
	}
}
