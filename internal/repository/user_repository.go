package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// UserRepository defines the minimal user data access the core needs:
// resolving a device owner's emergency contact for crash alerts. Full
// account management (auth, profile CRUD) is out of scope.
type UserRepository interface {
	// GetEmergencyContact returns the emergency-contact fields for a user.
	GetEmergencyContact(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error)
}
