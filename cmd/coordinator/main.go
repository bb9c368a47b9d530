// Package main is the entry point for the Ride Coordinator HTTP server.
package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/coordinator"
	"github.com/wihwin/helmet-core/internal/queue"
	"github.com/wihwin/helmet-core/internal/repository"
	"github.com/wihwin/helmet-core/internal/responder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("database: open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnectionMaxLifetime)

	if err := db.Ping(); err != nil {
		log.Fatalf("database: ping: %v", err)
	}

	q, err := queue.Connect(cfg.Queue)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}
	defer q.Close()

	svc := coordinator.NewService(
		repository.NewPostgresDeviceRepository(db),
		repository.NewPostgresRideRepository(db),
		repository.NewPostgresTelemetryRepository(db),
		repository.NewPostgresDrowsinessRepository(db),
		repository.NewPostgresCrashRepository(db),
		repository.NewPostgresBaselineRepository(db),
		responder.New(repository.NewPostgresResponderRepository(db), repository.NewPostgresUserRepository(db)),
		q,
	)

	router := coordinator.NewServer(svc)

	log.Printf("Starting coordinator on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("coordinator: %v", err)
	}
}
