package repository

import (
	"context"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockResponderRepository is a mock implementation of ResponderRepository for testing.
type MockResponderRepository struct {
	FindNearestFunc func(ctx context.Context, lat, lon float64) (*models.Responder, float64, error)
}

// NewMockResponderRepository creates a new mock responder repository with defaults.
func NewMockResponderRepository() *MockResponderRepository {
	return &MockResponderRepository{
		FindNearestFunc: func(_ context.Context, _, _ float64) (*models.Responder, float64, error) {
			return nil, 0, ErrResponderNotFound
		},
	}
}

func (m *MockResponderRepository) FindNearest(ctx context.Context, lat, lon float64) (*models.Responder, float64, error) {
	return m.FindNearestFunc(ctx, lat, lon)
}
