package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// EventStats summarises a ride's drowsiness events for the Aggregator.
type EventStats struct {
	TotalEvents      int
	MicrosleepEvents int
	MaxSeverity      int
	AvgSeverity      float64
}

// DrowsinessRepository defines data access for drowsiness events.
type DrowsinessRepository interface {
	// Create inserts a drowsiness event, assigning a server-side detection
	// timestamp, and returns the new event id.
	Create(ctx context.Context, event *models.DrowsinessEvent) (uuid.UUID, error)

	// StatsForRide computes event counts/severities for a completed ride.
	StatsForRide(ctx context.Context, rideID uuid.UUID) (EventStats, error)
}
