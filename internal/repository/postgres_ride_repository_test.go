package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wihwin/helmet-core/internal/models"
)

func TestPostgresRideRepository_BeginEnding_OnlyOneWinnerConcurrently(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	deviceRepo := NewPostgresDeviceRepository(db)
	rideRepo := NewPostgresRideRepository(db)
	ctx := context.Background()

	device := &models.Device{ID: uuid.New(), DeviceCode: "CONC1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, deviceRepo.Create(ctx, device))

	ride := &models.Ride{
		ID:        uuid.New(),
		DeviceID:  device.ID,
		StartTime: time.Now(),
		Status:    models.RideActive,
		CreatedAt: time.Now(),
	}
	require.NoError(t, rideRepo.Create(ctx, ride))

	const callers = 5
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			won, err := rideRepo.BeginEnding(ctx, ride.ID)
			require.NoError(t, err)
			results[idx] = won
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one caller should transition active->ending")

	retrieved, err := rideRepo.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideEnding, retrieved.Status)
}

func TestPostgresRideRepository_Finalize_CompletesOnceAndUpsertsSummary(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	deviceRepo := NewPostgresDeviceRepository(db)
	rideRepo := NewPostgresRideRepository(db)
	ctx := context.Background()

	device := &models.Device{ID: uuid.New(), DeviceCode: "FIN1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, deviceRepo.Create(ctx, device))

	ride := &models.Ride{ID: uuid.New(), DeviceID: device.ID, StartTime: time.Now(), Status: models.RideActive, CreatedAt: time.Now()}
	require.NoError(t, rideRepo.Create(ctx, ride))

	won, err := rideRepo.BeginEnding(ctx, ride.ID)
	require.NoError(t, err)
	require.True(t, won)

	avg := 72.5
	completion := RideCompletion{EndTime: time.Now(), DurationSeconds: 120, AvgHR: &avg}
	summary := models.RideSummary{FatigueScore: 20, TotalEvents: 2, MicrosleepEvents: 0, MaxSeverity: 5, AvgSeverity: 4.5}

	outcome, err := rideRepo.Finalize(ctx, ride.ID, completion, summary)
	require.NoError(t, err)
	assert.Equal(t, EndRideQueued, outcome)

	retrieved, err := rideRepo.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RideCompleted, retrieved.Status)

	storedSummary, err := rideRepo.GetSummary(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, storedSummary.FatigueScore)

	// Re-delivery: finalizing a completed ride is a no-op, not an error.
	outcome2, err := rideRepo.Finalize(ctx, ride.ID, completion, summary)
	require.NoError(t, err)
	assert.Equal(t, EndRideAlreadyCompleted, outcome2)
}
