package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresDrowsinessRepository implements DrowsinessRepository using PostgreSQL.
type PostgresDrowsinessRepository struct {
	db *sql.DB
}

// NewPostgresDrowsinessRepository creates a new PostgreSQL drowsiness repository.
func NewPostgresDrowsinessRepository(db *sql.DB) *PostgresDrowsinessRepository {
	return &PostgresDrowsinessRepository{db: db}
}

func (r *PostgresDrowsinessRepository) Create(ctx context.Context, event *models.DrowsinessEvent) (uuid.UUID, error) {
	id := uuid.New()
	query := `
		INSERT INTO drowsiness_events (
			id, device_id, ride_id, detected_at, severity_score, status,
			sdnn, rmssd, pnn50, lf_hf_ratio, sd1_sd2_ratio, lat, lon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		id, event.DeviceID, event.RideID, time.Now(), event.SeverityScore, event.Status,
		event.SDNN, event.RMSSD, event.PNN50, event.LFHFRatio, event.SD1SD2Ratio, event.Lat, event.Lon,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert drowsiness event: %w", err)
	}
	return id, nil
}

func (r *PostgresDrowsinessRepository) StatsForRide(ctx context.Context, rideID uuid.UUID) (EventStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('DROWSY', 'MICROSLEEP')),
			COUNT(*) FILTER (WHERE status = 'MICROSLEEP'),
			COALESCE(MAX(severity_score), 0),
			COALESCE(AVG(severity_score), 0)
		FROM drowsiness_events
		WHERE ride_id = $1
	`
	var stats EventStats
	err := r.db.QueryRowContext(ctx, query, rideID).Scan(
		&stats.TotalEvents, &stats.MicrosleepEvents, &stats.MaxSeverity, &stats.AvgSeverity,
	)
	if err != nil {
		return EventStats{}, fmt.Errorf("failed to compute drowsiness stats: %w", err)
	}
	return stats, nil
}
