// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/leapwind/serverless-auth/internal/config"
	"github.com/leapwind/serverless-auth/internal/db"
	"github.com/leapwind/serverless-auth/internal/timeutil"
	userdomain "github.com/leapwind/serverless-auth/internal/user/domain"
	userrepo "github.com/leapwind/serverless-auth/internal/user/repository"
)

const devUserEmail = "dev@example.com"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	now := timeutil.Now()
	// Enabled and already email verified, so signin flows work immediately.
	if err := users.Create(ctx, &userdomain.User{
		ID:            uuid.New().String(),
		Email:         devUserEmail,
		IsEnabled:     true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		log.Fatalf("seed user: %v", err)
	}
	log.Println("Seeded dev user dev@example.com.")
}
