package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// DeviceRepository defines data access for devices.
type DeviceRepository interface {
	// Create stores a new device.
	Create(ctx context.Context, device *models.Device) error

	// GetByDeviceCode retrieves a device by its hardware device code.
	GetByDeviceCode(ctx context.Context, deviceCode string) (*models.Device, error)

	// FindOrCreate returns the device for deviceCode, creating an
	// un-onboarded record on first contact (the supplemented device-check
	// behaviour). The bool return reports whether a new row was created.
	FindOrCreate(ctx context.Context, deviceCode string) (*models.Device, bool, error)

	// MarkOnboarded sets onboarded=true for a device.
	MarkOnboarded(ctx context.Context, id uuid.UUID) error

	// UpdateLastSeen updates last_seen for a device by device code.
	UpdateLastSeen(ctx context.Context, deviceCode string) error
}
