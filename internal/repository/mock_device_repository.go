package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// MockDeviceRepository is a mock implementation of DeviceRepository for testing.
type MockDeviceRepository struct {
	CreateFunc         func(ctx context.Context, device *models.Device) error
	GetByDeviceCodeFunc func(ctx context.Context, deviceCode string) (*models.Device, error)
	FindOrCreateFunc    func(ctx context.Context, deviceCode string) (*models.Device, bool, error)
	MarkOnboardedFunc   func(ctx context.Context, id uuid.UUID) error
	UpdateLastSeenFunc  func(ctx context.Context, deviceCode string) error
}

// NewMockDeviceRepository creates a new mock device repository with defaults.
func NewMockDeviceRepository() *MockDeviceRepository {
	return &MockDeviceRepository{
		CreateFunc: func(_ context.Context, _ *models.Device) error { return nil },
		GetByDeviceCodeFunc: func(_ context.Context, _ string) (*models.Device, error) {
			return nil, ErrDeviceNotFound
		},
		FindOrCreateFunc: func(_ context.Context, _ string) (*models.Device, bool, error) {
			return nil, false, ErrDeviceNotFound
		},
		MarkOnboardedFunc:  func(_ context.Context, _ uuid.UUID) error { return nil },
		UpdateLastSeenFunc: func(_ context.Context, _ string) error { return nil },
	}
}

func (m *MockDeviceRepository) Create(ctx context.Context, device *models.Device) error {
	return m.CreateFunc(ctx, device)
}

func (m *MockDeviceRepository) GetByDeviceCode(ctx context.Context, deviceCode string) (*models.Device, error) {
	return m.GetByDeviceCodeFunc(ctx, deviceCode)
}

func (m *MockDeviceRepository) FindOrCreate(ctx context.Context, deviceCode string) (*models.Device, bool, error) {
	return m.FindOrCreateFunc(ctx, deviceCode)
}

func (m *MockDeviceRepository) MarkOnboarded(ctx context.Context, id uuid.UUID) error {
	return m.MarkOnboardedFunc(ctx, id)
}

func (m *MockDeviceRepository) UpdateLastSeen(ctx context.Context, deviceCode string) error {
	return m.UpdateLastSeenFunc(ctx, deviceCode)
}
