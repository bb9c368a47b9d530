package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresRideRepository implements RideRepository using PostgreSQL.
type PostgresRideRepository struct {
	db *sql.DB
}

// NewPostgresRideRepository creates a new PostgreSQL ride repository.
func NewPostgresRideRepository(db *sql.DB) *PostgresRideRepository {
	return &PostgresRideRepository{db: db}
}

func (r *PostgresRideRepository) Create(ctx context.Context, ride *models.Ride) error {
	query := `
		INSERT INTO rides (id, device_id, user_id, start_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.DeviceID, ride.UserID, ride.StartTime, ride.Status, ride.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ride: %w", err)
	}
	return nil
}

func (r *PostgresRideRepository) GetActiveOrEndingByDevice(ctx context.Context, deviceID uuid.UUID) (*models.Ride, error) {
	query := `
		SELECT id, device_id, user_id, start_time, end_time, duration_seconds, status,
		       avg_hr, max_hr, min_hr, avg_rmssd, min_rmssd, baseline_rmssd,
		       baseline_deviation_pct, recovery_status, created_at
		FROM rides
		WHERE device_id = $1 AND status IN ('active', 'ending')
		ORDER BY start_time DESC
		LIMIT 1
	`
	ride, err := scanRide(r.db.QueryRowContext(ctx, query, deviceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveRide
		}
		return nil, err
	}
	return ride, nil
}

func (r *PostgresRideRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	query := `
		SELECT id, device_id, user_id, start_time, end_time, duration_seconds, status,
		       avg_hr, max_hr, min_hr, avg_rmssd, min_rmssd, baseline_rmssd,
		       baseline_deviation_pct, recovery_status, created_at
		FROM rides WHERE id = $1
	`
	ride, err := scanRide(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

// BeginEnding performs the active->ending conditional update that gives
// at-most-one-completion semantics across concurrent callers and replicas
// without any in-process locking.
func (r *PostgresRideRepository) BeginEnding(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rides SET status = 'ending' WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to begin ending ride: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *PostgresRideRepository) ListStaleActive(ctx context.Context, cutoff time.Time) ([]*models.Ride, error) {
	query := `
		SELECT id, device_id, user_id, start_time, end_time, duration_seconds, status,
		       avg_hr, max_hr, min_hr, avg_rmssd, min_rmssd, baseline_rmssd,
		       baseline_deviation_pct, recovery_status, created_at
		FROM rides WHERE status = 'active' AND start_time <= $1
	`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*models.Ride
	for rows.Next() {
		ride, err := scanRideRow(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// Finalize atomically re-verifies the ride is 'ending', writes completion
// fields, and upserts the ride summary, under a row lock so a concurrent
// Aggregator instance cannot race the same ride to completion twice.
func (r *PostgresRideRepository) Finalize(ctx context.Context, id uuid.UUID, completion RideCompletion, summary models.RideSummary) (EndRideOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after Commit
	}()

	var status models.RideStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM rides WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EndRideNotFound, nil
		}
		return "", fmt.Errorf("failed to lock ride row: %w", err)
	}

	switch status {
	case models.RideCompleted:
		return EndRideAlreadyCompleted, nil
	case models.RideEnding:
		// proceed to finalize
	default:
		return EndRideInvalidState, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE rides
		SET end_time = $1, duration_seconds = $2, avg_hr = $3, max_hr = $4, min_hr = $5, status = 'completed'
		WHERE id = $6 AND status = 'ending'
	`, completion.EndTime, completion.DurationSeconds, completion.AvgHR, completion.MaxHR, completion.MinHR, id)
	if err != nil {
		return "", fmt.Errorf("failed to finalize ride: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ride_summaries (ride_id, fatigue_score, total_events, microsleep_events, max_severity, avg_severity, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (ride_id) DO UPDATE SET
			fatigue_score = EXCLUDED.fatigue_score,
			total_events = EXCLUDED.total_events,
			microsleep_events = EXCLUDED.microsleep_events,
			max_severity = EXCLUDED.max_severity,
			avg_severity = EXCLUDED.avg_severity,
			computed_at = EXCLUDED.computed_at
	`, id, summary.FatigueScore, summary.TotalEvents, summary.MicrosleepEvents, summary.MaxSeverity, summary.AvgSeverity)
	if err != nil {
		return "", fmt.Errorf("failed to upsert ride summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit finalize transaction: %w", err)
	}
	return EndRideQueued, nil
}

func (r *PostgresRideRepository) GetSummary(ctx context.Context, rideID uuid.UUID) (*models.RideSummary, error) {
	query := `
		SELECT ride_id, fatigue_score, total_events, microsleep_events, max_severity, avg_severity, computed_at
		FROM ride_summaries WHERE ride_id = $1
	`
	var s models.RideSummary
	err := r.db.QueryRowContext(ctx, query, rideID).Scan(
		&s.RideID, &s.FatigueScore, &s.TotalEvents, &s.MicrosleepEvents, &s.MaxSeverity, &s.AvgSeverity, &s.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID, &ride.DeviceID, &ride.UserID, &ride.StartTime, &ride.EndTime, &ride.DurationSeconds, &ride.Status,
		&ride.AvgHR, &ride.MaxHR, &ride.MinHR, &ride.AvgRMSSD, &ride.MinRMSSD, &ride.BaselineRMSSD,
		&ride.BaselineDeviationPct, &ride.RecoveryStatus, &ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func scanRideRow(rows *sql.Rows) (*models.Ride, error) {
	return scanRide(rows)
}
