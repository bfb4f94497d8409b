// server runs the HTTP auth API.
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

	"github.com/leapwind/serverless-auth/internal/auth/handler"
	"github.com/leapwind/serverless-auth/internal/auth/service"
	"github.com/leapwind/serverless-auth/internal/config"
	"github.com/leapwind/serverless-auth/internal/db"
	"github.com/leapwind/serverless-auth/internal/mailer"
	"github.com/leapwind/serverless-auth/internal/security"
	"github.com/leapwind/serverless-auth/internal/server"
	sessionrepo "github.com/leapwind/serverless-auth/internal/session/repository"
	telemetryotel "github.com/leapwind/serverless-auth/internal/telemetry/otel"
	userrepo "github.com/leapwind/serverless-auth/internal/user/repository"
	verifrepo "github.com/leapwind/serverless-auth/internal/verification/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "serverless-auth", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	key, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt key: %v", err)
	}
	signer := security.NewTokenSigner(key, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL())

	var mail mailer.Mailer
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST is not set; confirmation links go to the process log")
		mail = mailer.LogMailer{}
	} else {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Email:    cfg.SMTPEmail,
			Password: cfg.SMTPPassword,
		})
	}

	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)

	svc := service.NewAuthService(
		userrepo.NewPostgresRepository(conn),
		verifrepo.NewPostgresRepository(conn),
		sessionrepo.NewPostgresRepository(conn),
		signer,
		mail,
		emitter,
		cfg.ServerSite,
		cfg.ProjectTag,
		cfg.VerificationTTL(),
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewRouter(handler.New(svc)),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
