package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
)

// EndRideOutcome is the sum-typed result of attempting to end a ride,
// replacing exceptions-as-control-flow with explicit values.
type EndRideOutcome string

const (
	EndRideQueued             EndRideOutcome = "queued_for_processing"
	EndRideAlreadyInProgress  EndRideOutcome = "already_in_progress"
	EndRideAlreadyCompleted   EndRideOutcome = "already_completed"
	EndRideNotFound           EndRideOutcome = "not_found"
	EndRideInvalidState       EndRideOutcome = "invalid_state"
)

// RideRepository defines data access for rides.
type RideRepository interface {
	// Create inserts a new active ride.
	Create(ctx context.Context, ride *models.Ride) error

	// GetActiveOrEndingByDevice returns the device's active/ending ride, if any.
	GetActiveOrEndingByDevice(ctx context.Context, deviceID uuid.UUID) (*models.Ride, error)

	// GetByID retrieves a ride by id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ride, error)

	// BeginEnding performs the conditional active->ending transition.
	// Returns (true, nil) if this call won the transition.
	BeginEnding(ctx context.Context, id uuid.UUID) (bool, error)

	// ListStaleActive returns the rides still in 'active' status whose
	// start_time is at or before the cutoff.
	ListStaleActive(ctx context.Context, cutoff time.Time) ([]*models.Ride, error)

	// Finalize atomically re-verifies status='ending', writes the
	// completion fields, and upserts the ride summary in one transaction.
	// Returns the branch the caller landed on if the ride was not in
	// 'ending' state (mirrors step 2's branch inside the transaction).
	Finalize(ctx context.Context, id uuid.UUID, completion RideCompletion, summary models.RideSummary) (EndRideOutcome, error)

	// GetSummary retrieves a ride's summary, if computed.
	GetSummary(ctx context.Context, rideID uuid.UUID) (*models.RideSummary, error)
}

// RideCompletion carries the Aggregator's computed finalisation fields.
type RideCompletion struct {
	EndTime         time.Time
	DurationSeconds int64
	AvgHR           *float64
	MaxHR           *float64
	MinHR           *float64
}
