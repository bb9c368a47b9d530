// Package main is the entry point for the Ride Aggregator, the queue
// consumer that finalises rides once they leave the active telemetry path.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wihwin/helmet-core/internal/aggregator"
	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/queue"
	"github.com/wihwin/helmet-core/internal/repository"
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
	db.SetMaxOpenConns(cfg.Aggregator.MaxConnections)
	db.SetMaxIdleConns(cfg.Aggregator.MinConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnectionMaxLifetime)

	if err := db.Ping(); err != nil {
		log.Fatalf("database: ping: %v", err)
	}

	q, err := queue.Connect(cfg.Queue)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}
	defer q.Close()

	worker := aggregator.New(
		repository.NewPostgresRideRepository(db),
		repository.NewPostgresTelemetryRepository(db),
		repository.NewPostgresDrowsinessRepository(db),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting ride aggregator")
	if err := aggregator.Run(ctx, q, cfg.Aggregator.MaxRetries, worker); err != nil && err != context.Canceled {
		log.Fatalf("aggregator: %v", err)
	}
	log.Println("Ride aggregator stopped")
}
