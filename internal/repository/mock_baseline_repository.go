package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockBaselineRepository is a mock implementation of BaselineRepository for testing.
type MockBaselineRepository struct {
	CreateFunc    func(ctx context.Context, baseline *models.Baseline) error
	GetLatestFunc func(ctx context.Context, deviceID uuid.UUID) (*models.Baseline, error)
}

// NewMockBaselineRepository creates a new mock baseline repository with defaults.
func NewMockBaselineRepository() *MockBaselineRepository {
	return &MockBaselineRepository{
		CreateFunc: func(_ context.Context, _ *models.Baseline) error { return nil },
		GetLatestFunc: func(_ context.Context, _ uuid.UUID) (*models.Baseline, error) {
			return nil, nil
		},
	}
}

func (m *MockBaselineRepository) Create(ctx context.Context, baseline *models.Baseline) error {
	return m.CreateFunc(ctx, baseline)
}

func (m *MockBaselineRepository) GetLatest(ctx context.Context, deviceID uuid.UUID) (*models.Baseline, error) {
	return m.GetLatestFunc(ctx, deviceID)
}
