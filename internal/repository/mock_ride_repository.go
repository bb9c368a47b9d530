package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockRideRepository is a mock implementation of RideRepository for testing.
type MockRideRepository struct {
	CreateFunc                 func(ctx context.Context, ride *models.Ride) error
	GetActiveOrEndingByDeviceFunc func(ctx context.Context, deviceID uuid.UUID) (*models.Ride, error)
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	BeginEndingFunc             func(ctx context.Context, id uuid.UUID) (bool, error)
	ListStaleActiveFunc         func(ctx context.Context, cutoff time.Time) ([]*models.Ride, error)
	FinalizeFunc                func(ctx context.Context, id uuid.UUID, completion RideCompletion, summary models.RideSummary) (EndRideOutcome, error)
	GetSummaryFunc              func(ctx context.Context, rideID uuid.UUID) (*models.RideSummary, error)
}

// NewMockRideRepository creates a new mock ride repository with defaults.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		CreateFunc: func(_ context.Context, _ *models.Ride) error { return nil },
		GetActiveOrEndingByDeviceFunc: func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
			return nil, ErrNoActiveRide
		},
		GetByIDFunc: func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
			return nil, ErrRideNotFound
		},
		BeginEndingFunc: func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		ListStaleActiveFunc: func(_ context.Context, _ time.Time) ([]*models.Ride, error) {
			return nil, nil
		},
		FinalizeFunc: func(_ context.Context, _ uuid.UUID, _ RideCompletion, _ models.RideSummary) (EndRideOutcome, error) {
			return EndRideQueued, nil
		},
		GetSummaryFunc: func(_ context.Context, _ uuid.UUID) (*models.RideSummary, error) {
			return nil, ErrRideNotFound
		},
	}
}

func (m *MockRideRepository) Create(ctx context.Context, ride *models.Ride) error {
	return m.CreateFunc(ctx, ride)
}

func (m *MockRideRepository) GetActiveOrEndingByDevice(ctx context.Context, deviceID uuid.UUID) (*models.Ride, error) {
	return m.GetActiveOrEndingByDeviceFunc(ctx, deviceID)
}

func (m *MockRideRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockRideRepository) BeginEnding(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.BeginEndingFunc(ctx, id)
}

func (m *MockRideRepository) ListStaleActive(ctx context.Context, cutoff time.Time) ([]*models.Ride, error) {
	return m.ListStaleActiveFunc(ctx, cutoff)
}

func (m *MockRideRepository) Finalize(ctx context.Context, id uuid.UUID, completion RideCompletion, summary models.RideSummary) (EndRideOutcome, error) {
	return m.FinalizeFunc(ctx, id, completion, summary)
}

func (m *MockRideRepository) GetSummary(ctx context.Context, rideID uuid.UUID) (*models.RideSummary, error) {
	return m.GetSummaryFunc(ctx, rideID)
}
