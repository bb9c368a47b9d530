// Package aggregator implements the Ride Aggregator: a queue consumer that
// finalises rides once they transition out of the active telemetry path.
package aggregator

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
	"github.com/wihwin/helmet-core/internal/queue"
	"github.com/wihwin/helmet-core/internal/repository"
)

// Worker computes and commits ride finalisation from ride.end jobs.
type Worker struct {
	rides      repository.RideRepository
	telemetry  repository.TelemetryRepository
	drowsiness repository.DrowsinessRepository
}

// New wires a Worker from its repositories.
func New(rides repository.RideRepository, telemetry repository.TelemetryRepository, drowsiness repository.DrowsinessRepository) *Worker {
	return &Worker{rides: rides, telemetry: telemetry, drowsiness: drowsiness}
}

// HandleRideEnd is a queue.Handler: fetch, branch on status, compute
// aggregates, and atomically finalise. A nil return acknowledges the
// message (including the idempotent and invalid-state branches); a
// non-nil return triggers the caller's bounded retry-or-discard.
func (w *Worker) HandleRideEnd(ctx context.Context, job queue.RideEndJob) error {
	rideID, err := uuid.Parse(job.RideID)
	if err != nil {
		log.Printf("[aggregator] discarding job with malformed ride id %q: %v", job.RideID, err)
		return nil
	}

	ride, err := w.rides.GetByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrRideNotFound {
			log.Printf("[aggregator] ride %s not found, discarding", rideID)
			return nil
		}
		return err
	}

	switch ride.Status {
	case models.RideCompleted:
		log.Printf("[aggregator] ride %s already completed, acknowledging", rideID)
		return nil
	case models.RideEnding:
		// proceed
	default:
		log.Printf("[aggregator] ride %s in unexpected status %q, discarding as invalid", rideID, ride.Status)
		return nil
	}

	endTime := resolveEndTime(job, ride)
	durationSeconds := int64(endTime.Sub(ride.StartTime).Seconds())

	hr, err := w.telemetry.AggregateHR(ctx, rideID)
	if err != nil {
		return err
	}

	stats, err := w.drowsiness.StatsForRide(ctx, rideID)
	if err != nil {
		return err
	}

	fatigueScore := fatigueScore(stats)

	completion := repository.RideCompletion{
		EndTime:         endTime,
		DurationSeconds: durationSeconds,
		AvgHR:           hr.Avg,
		MaxHR:           hr.Max,
		MinHR:           hr.Min,
	}
	summary := models.RideSummary{
		RideID:           rideID,
		FatigueScore:     fatigueScore,
		TotalEvents:      stats.TotalEvents,
		MicrosleepEvents: stats.MicrosleepEvents,
		MaxSeverity:      stats.MaxSeverity,
		AvgSeverity:      stats.AvgSeverity,
		ComputedAt:       time.Now(),
	}

	outcome, err := w.rides.Finalize(ctx, rideID, completion, summary)
	if err != nil {
		return err
	}

	switch outcome {
	case repository.EndRideQueued:
		log.Printf("[aggregator] ride %s finalised: fatigue=%d duration=%ds", rideID, fatigueScore, durationSeconds)
	default:
		// The transaction's internal re-verify found the ride was no
		// longer 'ending' (race with another aggregator instance); the
		// other instance's finalisation wins and this is a no-op.
		log.Printf("[aggregator] ride %s finalize landed on branch %q, no-op", rideID, outcome)
	}
	return nil
}

// resolveEndTime prefers the job's end_time, falling back to the ride's
// own end_time, then to now.
func resolveEndTime(job queue.RideEndJob, ride *models.Ride) time.Time {
	if !job.EndTime.IsZero() {
		return job.EndTime
	}
	if ride.EndTime != nil {
		return *ride.EndTime
	}
	return time.Now()
}

// fatigueScore implements fatigue_score = min(100, 10*total_drowsiness +
// 20*total_microsleep), where total_drowsiness counts every DROWSY or
// MICROSLEEP event (microsleep events count toward both terms).
func fatigueScore(stats repository.EventStats) int {
	score := 10*stats.TotalEvents + 20*stats.MicrosleepEvents
	if score > 100 {
		return 100
	}
	return score
}

// Run blocks consuming ride.end jobs from client until ctx is cancelled.
func Run(ctx context.Context, client *queue.Client, maxRetries int, worker *Worker) error {
	return client.Consume(ctx, maxRetries, worker.HandleRideEnd)
}
