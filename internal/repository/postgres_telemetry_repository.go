package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresTelemetryRepository implements TelemetryRepository using PostgreSQL.
type PostgresTelemetryRepository struct {
	db *sql.DB
}

// NewPostgresTelemetryRepository creates a new PostgreSQL telemetry repository.
func NewPostgresTelemetryRepository(db *sql.DB) *PostgresTelemetryRepository {
	return &PostgresTelemetryRepository{db: db}
}

func (r *PostgresTelemetryRepository) SaveBatch(ctx context.Context, points []*models.TelemetryPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO telemetry_points (
			device_id, ride_id, timestamp, hr, ibi, sdnn, rmssd, pnn50, lf_hf_ratio,
			accel_x, accel_y, accel_z, lat, lon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.ExecContext(ctx,
			p.DeviceID, p.RideID, p.Timestamp, p.HR, p.IBI, p.SDNN, p.RMSSD, p.PNN50, p.LFHFRatio,
			p.AccelX, p.AccelY, p.AccelZ, p.Lat, p.Lon,
		)
		if err != nil {
			return fmt.Errorf("failed to insert telemetry point in batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit telemetry batch: %w", err)
	}
	return nil
}

func (r *PostgresTelemetryRepository) AggregateHR(ctx context.Context, rideID uuid.UUID) (HRAggregates, error) {
	query := `
		SELECT AVG(hr), MAX(hr), MIN(hr)
		FROM telemetry_points
		WHERE ride_id = $1 AND hr IS NOT NULL
	`
	var agg HRAggregates
	err := r.db.QueryRowContext(ctx, query, rideID).Scan(&agg.Avg, &agg.Max, &agg.Min)
	if err != nil {
		return HRAggregates{}, fmt.Errorf("failed to aggregate hr: %w", err)
	}
	return agg, nil
}
