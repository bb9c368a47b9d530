package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// BaselineRepository defines data access for device calibration baselines.
type BaselineRepository interface {
	// Create inserts a new baseline row (insert-only; never mutated).
	Create(ctx context.Context, baseline *models.Baseline) error

	// GetLatest returns the canonical baseline for a device, by ComputedAt.
	GetLatest(ctx context.Context, deviceID uuid.UUID) (*models.Baseline, error)
}
