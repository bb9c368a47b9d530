package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresCrashRepository implements CrashRepository using PostgreSQL.
type PostgresCrashRepository struct {
	db *sql.DB
}

// NewPostgresCrashRepository creates a new PostgreSQL crash repository.
func NewPostgresCrashRepository(db *sql.DB) *PostgresCrashRepository {
	return &PostgresCrashRepository{db: db}
}

func (r *PostgresCrashRepository) Create(ctx context.Context, alert *models.CrashAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	query := `
		INSERT INTO crash_alerts (
			id, device_id, ride_id, detected_at, lat, lon, severity,
			accel_x, accel_y, accel_z, responder_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.DeviceID, alert.RideID, alert.DetectedAt, alert.Lat, alert.Lon, alert.Severity,
		alert.AccelX, alert.AccelY, alert.AccelZ, alert.ResponderID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert crash alert: %w", err)
	}
	return nil
}
