package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/database"
	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresDeviceRepository implements DeviceRepository using PostgreSQL.
type PostgresDeviceRepository struct {
	db *sql.DB
}

// NewPostgresDeviceRepository creates a new PostgreSQL device repository.
func NewPostgresDeviceRepository(db *sql.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{db: db}
}

func (r *PostgresDeviceRepository) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (id, device_code, owner_user, onboarded, last_seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		device.ID, device.DeviceCode, device.OwnerUser, device.Onboarded,
		device.LastSeen, device.CreatedAt, device.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDeviceExists
		}
		return err
	}
	return nil
}

func (r *PostgresDeviceRepository) GetByDeviceCode(ctx context.Context, deviceCode string) (*models.Device, error) {
	query := `
		SELECT id, device_code, owner_user, onboarded, last_seen, created_at, updated_at
		FROM devices WHERE device_code = $1
	`
	var d models.Device
	err := r.db.QueryRowContext(ctx, query, deviceCode).Scan(
		&d.ID, &d.DeviceCode, &d.OwnerUser, &d.Onboarded, &d.LastSeen, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDeviceRepository) FindOrCreate(ctx context.Context, deviceCode string) (*models.Device, bool, error) {
	existing, err := r.GetByDeviceCode(ctx, deviceCode)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		return nil, false, err
	}

	now := time.Now()
	device := &models.Device{
		ID:         uuid.New(),
		DeviceCode: deviceCode,
		Onboarded:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if createErr := r.Create(ctx, device); createErr != nil {
		if errors.Is(createErr, ErrDeviceExists) {
			// lost the race against a concurrent FindOrCreate; re-read.
			return r.GetByDeviceCode(ctx, deviceCode)
		}
		return nil, false, createErr
	}
	return device, true, nil
}

func (r *PostgresDeviceRepository) MarkOnboarded(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE devices SET onboarded = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (r *PostgresDeviceRepository) UpdateLastSeen(ctx context.Context, deviceCode string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE devices SET last_seen = NOW(), updated_at = NOW() WHERE device_code = $1`, deviceCode)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
