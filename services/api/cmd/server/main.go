// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/pkg/models"
	"github.com/jredh-dev/tripmarket/services/api/config"
	"github.com/jredh-dev/tripmarket/services/api/internal/auth"
	"github.com/jredh-dev/tripmarket/services/api/internal/events"
	"github.com/jredh-dev/tripmarket/services/api/internal/handlers"
	"github.com/jredh-dev/tripmarket/services/api/internal/repository"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tripmarket-api %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()
	ctx := context.Background()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s repository: %v", cfg.Store.Driver, err)
	}
	defer repo.Close()

	signingKey := cfg.JWT.SigningKey
	if signingKey == "" {
		if cfg.Server.Env == "production" {
			log.Fatal("JWT_SIGNING_KEY is required in production")
		}
		signingKey = uuid.NewString()
		log.Println("JWT_SIGNING_KEY not set; using an ephemeral key (tokens die with the process)")
	}
	authSvc := auth.New(repo, signingKey, cfg.JWT.Issuer, cfg.JWT.TTL)

	if cfg.Seed.Enabled {
		if err := seed(ctx, cfg.Seed, repo, authSvc); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("Publishing admin events to %s on %v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}
	defer pub.Close()

	h := handlers.New(repo, authSvc, pub)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	h.Routes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("tripmarket-api starting on %s (store=%s env=%s)", addr, cfg.Store.Driver, cfg.Server.Env)
	log.Printf("  API:     http://localhost%s/api/", addr)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Store.Driver {
	case "memory":
		return repository.NewMemory(), nil
	case "firestore":
		fc := repository.FirestoreConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			Database:        cfg.Firebase.FirestoreDatabase,
			CredentialsPath: cfg.Firebase.CredentialsPath,
		}
		if cfg.Firebase.UseEmulator {
			fc.EmulatorHost = cfg.Firebase.EmulatorFirestoreHost
		}
		return repository.NewFirestore(ctx, fc)
	case "postgres":
		return repository.NewPostgres(ctx, repository.PostgresConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: int32(cfg.Postgres.MaxConns),
		})
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}

// seed fills an empty store with the fallback dataset and makes sure an admin
// account exists.
func seed(ctx context.Context, cfg config.SeedConfig, repo repository.Repository, authSvc *auth.Service) error {
	d := fallback.Default()
	if cfg.DatasetPath != "" {
		var err error
		if d, err = fallback.LoadFile(cfg.DatasetPath); err != nil {
			return err
		}
	}
	if _, err := repository.Seed(ctx, repo, d); err != nil {
		return err
	}

	if cfg.AdminEmail == "" {
		return nil
	}
	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}
	_, err := authSvc.CreateUser(ctx, cfg.AdminEmail, password, "Administrator", models.RoleAdmin)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return nil
	case err != nil:
		return fmt.Errorf("seed admin: %w", err)
	}
	if generated {
		log.Printf("Seeded admin %s with generated password %s", cfg.AdminEmail, password)
	} else {
		log.Printf("Seeded admin %s", cfg.AdminEmail)
	}
	return nil
}
