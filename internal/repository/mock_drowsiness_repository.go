package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockDrowsinessRepository is a mock implementation of DrowsinessRepository for testing.
type MockDrowsinessRepository struct {
	CreateFunc       func(ctx context.Context, event *models.DrowsinessEvent) (uuid.UUID, error)
	StatsForRideFunc func(ctx context.Context, rideID uuid.UUID) (EventStats, error)
}

// NewMockDrowsinessRepository creates a new mock drowsiness repository with defaults.
func NewMockDrowsinessRepository() *MockDrowsinessRepository {
	return &MockDrowsinessRepository{
		CreateFunc: func(_ context.Context, _ *models.DrowsinessEvent) (uuid.UUID, error) {
			return uuid.New(), nil
		},
		StatsForRideFunc: func(_ context.Context, _ uuid.UUID) (EventStats, error) {
			return EventStats{}, nil
		},
	}
}

func (m *MockDrowsinessRepository) Create(ctx context.Context, event *models.DrowsinessEvent) (uuid.UUID, error) {
	return m.CreateFunc(ctx, event)
}

func (m *MockDrowsinessRepository) StatsForRide(ctx context.Context, rideID uuid.UUID) (EventStats, error) {
	return m.StatsForRideFunc(ctx, rideID)
}
