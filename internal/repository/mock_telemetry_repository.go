package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockTelemetryRepository is a mock implementation of TelemetryRepository for testing.
type MockTelemetryRepository struct {
	SaveBatchFunc    func(ctx context.Context, points []*models.TelemetryPoint) error
	AggregateHRFunc  func(ctx context.Context, rideID uuid.UUID) (HRAggregates, error)
}

// NewMockTelemetryRepository creates a new mock telemetry repository with defaults.
func NewMockTelemetryRepository() *MockTelemetryRepository {
	return &MockTelemetryRepository{
		SaveBatchFunc: func(_ context.Context, _ []*models.TelemetryPoint) error { return nil },
		AggregateHRFunc: func(_ context.Context, _ uuid.UUID) (HRAggregates, error) {
			return HRAggregates{}, nil
		},
	}
}

func (m *MockTelemetryRepository) SaveBatch(ctx context.Context, points []*models.TelemetryPoint) error {
	return m.SaveBatchFunc(ctx, points)
}

func (m *MockTelemetryRepository) AggregateHR(ctx context.Context, rideID uuid.UUID) (HRAggregates, error) {
	return m.AggregateHRFunc(ctx, rideID)
}
