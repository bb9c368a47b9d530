package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository for testing.
type MockUserRepository struct {
	GetEmergencyContactFunc func(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error)
}

// NewMockUserRepository creates a new mock user repository with defaults.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		GetEmergencyContactFunc: func(_ context.Context, _ uuid.UUID) (*models.EmergencyContact, error) {
			return nil, ErrUserNotFound
		},
	}
}

func (m *MockUserRepository) GetEmergencyContact(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error) {
	return m.GetEmergencyContactFunc(ctx, userID)
}
