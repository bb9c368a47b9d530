package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// PostgresUserRepository implements UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetEmergencyContact(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error) {
	query := `
		SELECT id, username, email, blood_type, allergies, emergency_contact_name, emergency_contact_phone
		FROM users WHERE id = $1
	`
	var c models.EmergencyContact
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&c.UserID, &c.Username, &c.Email, &c.BloodType, &c.Allergies, &c.EmergencyContactName, &c.EmergencyContactPhone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query emergency contact: %w", err)
	}
	return &c, nil
}
