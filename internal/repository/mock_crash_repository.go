package repository

import (
	"context"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockCrashRepository is a mock implementation of CrashRepository for testing.
type MockCrashRepository struct {
	CreateFunc func(ctx context.Context, alert *models.CrashAlert) error
}

// NewMockCrashRepository creates a new mock crash repository with defaults.
func NewMockCrashRepository() *MockCrashRepository {
	return &MockCrashRepository{
		CreateFunc: func(_ context.Context, _ *models.CrashAlert) error { return nil },
	}
}

func (m *MockCrashRepository) Create(ctx context.Context, alert *models.CrashAlert) error {
	return m.CreateFunc(ctx, alert)
}
