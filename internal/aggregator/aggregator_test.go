package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wihwin/helmet-core/internal/models"
	"github.com/wihwin/helmet-core/internal/queue"
	"github.com/wihwin/helmet-core/internal/repository"
)

func TestHandleRideEnd_FinalizesEndingRide(t *testing.T) {
	rideID := uuid.New()
	startTime := time.Now().Add(-10 * time.Minute)

	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return &models.Ride{ID: rideID, StartTime: startTime, Status: models.RideEnding}, nil
	}
	var gotCompletion repository.RideCompletion
	var gotSummary models.RideSummary
	rides.FinalizeFunc = func(_ context.Context, _ uuid.UUID, completion repository.RideCompletion, summary models.RideSummary) (repository.EndRideOutcome, error) {
		gotCompletion = completion
		gotSummary = summary
		return repository.EndRideQueued, nil
	}

	avg := 80.0
	telemetry := repository.NewMockTelemetryRepository()
	telemetry.AggregateHRFunc = func(_ context.Context, _ uuid.UUID) (repository.HRAggregates, error) {
		return repository.HRAggregates{Avg: &avg}, nil
	}

	drowsiness := repository.NewMockDrowsinessRepository()
	drowsiness.StatsForRideFunc = func(_ context.Context, _ uuid.UUID) (repository.EventStats, error) {
		return repository.EventStats{TotalEvents: 3, MicrosleepEvents: 1, MaxSeverity: 12, AvgSeverity: 9.5}, nil
	}

	w := New(rides, telemetry, drowsiness)
	endTime := startTime.Add(8 * time.Minute)
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: rideID.String(), EndTime: endTime})
	require.NoError(t, err)

	assert.Equal(t, int64(480), gotCompletion.DurationSeconds)
	assert.Equal(t, &avg, gotCompletion.AvgHR)
	assert.Equal(t, 50, gotSummary.FatigueScore) // 10*3 + 20*1 = 50
	assert.Equal(t, 3, gotSummary.TotalEvents)
}

func TestHandleRideEnd_CapsFatigueScoreAt100(t *testing.T) {
	rideID := uuid.New()
	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return &models.Ride{ID: rideID, StartTime: time.Now(), Status: models.RideEnding}, nil
	}
	rides.FinalizeFunc = func(_ context.Context, _ uuid.UUID, _ repository.RideCompletion, summary models.RideSummary) (repository.EndRideOutcome, error) {
		assert.Equal(t, 100, summary.FatigueScore)
		return repository.EndRideQueued, nil
	}

	telemetry := repository.NewMockTelemetryRepository()
	drowsiness := repository.NewMockDrowsinessRepository()
	drowsiness.StatsForRideFunc = func(_ context.Context, _ uuid.UUID) (repository.EventStats, error) {
		return repository.EventStats{TotalEvents: 20, MicrosleepEvents: 10}, nil
	}

	w := New(rides, telemetry, drowsiness)
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: rideID.String(), EndTime: time.Now()})
	require.NoError(t, err)
}

func TestHandleRideEnd_MissingRideIsAcknowledged(t *testing.T) {
	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return nil, repository.ErrRideNotFound
	}

	w := New(rides, repository.NewMockTelemetryRepository(), repository.NewMockDrowsinessRepository())
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: uuid.New().String()})
	assert.NoError(t, err)
}

func TestHandleRideEnd_CompletedRideIsIdempotentNoOp(t *testing.T) {
	rideID := uuid.New()
	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return &models.Ride{ID: rideID, Status: models.RideCompleted}, nil
	}
	finalizeCalled := false
	rides.FinalizeFunc = func(_ context.Context, _ uuid.UUID, _ repository.RideCompletion, _ models.RideSummary) (repository.EndRideOutcome, error) {
		finalizeCalled = true
		return repository.EndRideQueued, nil
	}

	w := New(rides, repository.NewMockTelemetryRepository(), repository.NewMockDrowsinessRepository())
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: rideID.String()})

	require.NoError(t, err)
	assert.False(t, finalizeCalled)
}

func TestHandleRideEnd_InvalidStateDiscardsWithoutRetry(t *testing.T) {
	rideID := uuid.New()
	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return &models.Ride{ID: rideID, Status: models.RideActive}, nil
	}

	w := New(rides, repository.NewMockTelemetryRepository(), repository.NewMockDrowsinessRepository())
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: rideID.String()})

	assert.NoError(t, err)
}

func TestHandleRideEnd_AggregateFailureSurfacesErrorForRetry(t *testing.T) {
	rideID := uuid.New()
	rides := repository.NewMockRideRepository()
	rides.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*models.Ride, error) {
		return &models.Ride{ID: rideID, StartTime: time.Now(), Status: models.RideEnding}, nil
	}

	telemetry := repository.NewMockTelemetryRepository()
	telemetry.AggregateHRFunc = func(_ context.Context, _ uuid.UUID) (repository.HRAggregates, error) {
		return repository.HRAggregates{}, assert.AnError
	}

	w := New(rides, telemetry, repository.NewMockDrowsinessRepository())
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: rideID.String()})

	assert.Error(t, err)
}

func TestHandleRideEnd_MalformedRideIDIsAcknowledged(t *testing.T) {
	w := New(repository.NewMockRideRepository(), repository.NewMockTelemetryRepository(), repository.NewMockDrowsinessRepository())
	err := w.HandleRideEnd(context.Background(), queue.RideEndJob{RideID: "not-a-uuid"})
	assert.NoError(t, err)
}
