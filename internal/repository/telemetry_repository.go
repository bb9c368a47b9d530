package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// HRAggregates summarises non-null HR readings across a ride's telemetry.
type HRAggregates struct {
	Avg *float64
	Max *float64
	Min *float64
}

// TelemetryRepository defines data access for telemetry points.
type TelemetryRepository interface {
	// SaveBatch atomically inserts a buffered flush of telemetry points.
	SaveBatch(ctx context.Context, points []*models.TelemetryPoint) error

	// AggregateHR computes AVG/MAX/MIN of non-null hr for a ride.
	AggregateHR(ctx context.Context, rideID uuid.UUID) (HRAggregates, error)
}
