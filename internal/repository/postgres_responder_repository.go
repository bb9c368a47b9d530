package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresResponderRepository implements ResponderRepository using the
// earthdistance extension's `point <@> point` operator, following the
// original hospital-routing lookup. The operator yields statute miles, which
// the query converts to kilometers.
type PostgresResponderRepository struct {
	db *sql.DB
}

// NewPostgresResponderRepository creates a new PostgreSQL responder repository.
func NewPostgresResponderRepository(db *sql.DB) *PostgresResponderRepository {
	return &PostgresResponderRepository{db: db}
}

func (r *PostgresResponderRepository) FindNearest(ctx context.Context, lat, lon float64) (*models.Responder, float64, error) {
	query := `
		SELECT id, name, hospital_name, lat, lon, on_duty,
		       (point($1, $2) <@> point(lon, lat)) * 1.609344 AS distance_km
		FROM responders
		WHERE on_duty = TRUE
		ORDER BY distance_km ASC
		LIMIT 1
	`
	var resp models.Responder
	var distanceKM float64
	err := r.db.QueryRowContext(ctx, query, lon, lat).Scan(
		&resp.ID, &resp.Name, &resp.HospitalName, &resp.Lat, &resp.Lon, &resp.OnDuty, &distanceKM,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrResponderNotFound
		}
		return nil, 0, fmt.Errorf("failed to find nearest responder: %w", err)
	}
	return &resp, distanceKM, nil
}
