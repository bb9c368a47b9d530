package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresBaselineRepository implements BaselineRepository using PostgreSQL.
type PostgresBaselineRepository struct {
	db *sql.DB
}

// NewPostgresBaselineRepository creates a new PostgreSQL baseline repository.
func NewPostgresBaselineRepository(db *sql.DB) *PostgresBaselineRepository {
	return &PostgresBaselineRepository{db: db}
}

func (r *PostgresBaselineRepository) Create(ctx context.Context, baseline *models.Baseline) error {
	query := `
		INSERT INTO baselines (
			device_id, mean_hr, sdnn, rmssd, pnn50, lf_hf_ratio, sd1_sd2_ratio,
			accel_var, hr_decay_rate, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		baseline.DeviceID, baseline.MeanHR, baseline.SDNN, baseline.RMSSD, baseline.PNN50,
		baseline.LFHFRatio, baseline.SD1SD2Ratio, baseline.AccelVar, baseline.HRDecayRate, baseline.ComputedAt,
	).Scan(&baseline.ID)
	if err != nil {
		return fmt.Errorf("failed to insert baseline: %w", err)
	}
	return nil
}

func (r *PostgresBaselineRepository) GetLatest(ctx context.Context, deviceID uuid.UUID) (*models.Baseline, error) {
	query := `
		SELECT id, device_id, mean_hr, sdnn, rmssd, pnn50, lf_hf_ratio, sd1_sd2_ratio,
		       accel_var, hr_decay_rate, computed_at
		FROM baselines
		WHERE device_id = $1
		ORDER BY computed_at DESC
		LIMIT 1
	`
	var b models.Baseline
	err := r.db.QueryRowContext(ctx, query, deviceID).Scan(
		&b.ID, &b.DeviceID, &b.MeanHR, &b.SDNN, &b.RMSSD, &b.PNN50, &b.LFHFRatio, &b.SD1SD2Ratio,
		&b.AccelVar, &b.HRDecayRate, &b.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest baseline: %w", err)
	}
	return &b, nil
}
