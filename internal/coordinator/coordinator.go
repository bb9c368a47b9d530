// Package coordinator implements the Ride Coordinator: the sole writer of
// ride state, exposed over HTTP to the Stream Processor.
package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/hrv"
	"github.com/wihwin/helmet-core/internal/models"
	"github.com/wihwin/helmet-core/internal/queue"
	"github.com/wihwin/helmet-core/internal/repository"
	"github.com/wihwin/helmet-core/internal/responder"
)

// Errors returned by the Coordinator's core operations, translated to HTTP
// status codes by the handlers layer the way the teacher's device_handler
// dispatches repository.ErrDeviceNotFound.
var (
	ErrDeviceNotFound = repository.ErrDeviceNotFound
	ErrInvalidRideID  = errors.New("malformed ride id")
)

// RideEndPublisher is the narrow interface EndRide depends on, satisfied by
// *queue.Client in production and a stub in tests.
type RideEndPublisher interface {
	PublishRideEnd(ctx context.Context, job queue.RideEndJob) error
}

// Service holds the repositories and collaborators the Coordinator's
// operations are composed from.
type Service struct {
	devices    repository.DeviceRepository
	rides      repository.RideRepository
	telemetry  repository.TelemetryRepository
	drowsiness repository.DrowsinessRepository
	crashes    repository.CrashRepository
	baselines  repository.BaselineRepository
	responders *responder.Lookup
	queue      RideEndPublisher
}

// NewService wires a Service from its collaborators.
func NewService(
	devices repository.DeviceRepository,
	rides repository.RideRepository,
	telemetry repository.TelemetryRepository,
	drowsiness repository.DrowsinessRepository,
	crashes repository.CrashRepository,
	baselines repository.BaselineRepository,
	responders *responder.Lookup,
	q RideEndPublisher,
) *Service {
	return &Service{
		devices:    devices,
		rides:      rides,
		telemetry:  telemetry,
		drowsiness: drowsiness,
		crashes:    crashes,
		baselines:  baselines,
		responders: responders,
		queue:      q,
	}
}

// StartRideResult is the response shape for start_ride.
type StartRideResult struct {
	RideID  uuid.UUID
	Message string
}

// StartRide returns the device's existing active ride, or creates one.
func (s *Service) StartRide(ctx context.Context, deviceCode string) (StartRideResult, error) {
	device, err := s.devices.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		return StartRideResult{}, err
	}

	existing, err := s.rides.GetActiveOrEndingByDevice(ctx, device.ID)
	if err != nil && !errors.Is(err, repository.ErrNoActiveRide) {
		return StartRideResult{}, err
	}
	if existing != nil {
		return StartRideResult{RideID: existing.ID, Message: "ride already active"}, nil
	}

	ride := &models.Ride{
		ID:        uuid.New(),
		DeviceID:  device.ID,
		UserID:    device.OwnerUser,
		StartTime: time.Now(),
		Status:    models.RideActive,
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return StartRideResult{}, err
	}
	return StartRideResult{RideID: ride.ID, Message: "ride started"}, nil
}

// EndRide performs the conditional active->ending transition and publishes
// a ride.end job. It is the critical at-most-once operation: concurrent
// callers race the conditional UPDATE, not an in-process lock.
func (s *Service) EndRide(ctx context.Context, rideID uuid.UUID) (repository.EndRideOutcome, error) {
	endTime := time.Now()

	won, err := s.rides.BeginEnding(ctx, rideID)
	if err != nil {
		return "", err
	}
	if !won {
		ride, err := s.rides.GetByID(ctx, rideID)
		if err != nil {
			if errors.Is(err, repository.ErrRideNotFound) {
				return repository.EndRideNotFound, nil
			}
			return "", err
		}
		switch ride.Status {
		case models.RideEnding:
			return repository.EndRideAlreadyInProgress, nil
		case models.RideCompleted:
			return repository.EndRideAlreadyCompleted, nil
		default:
			return repository.EndRideInvalidState, nil
		}
	}

	err = s.queue.PublishRideEnd(ctx, queue.RideEndJob{RideID: rideID.String(), EndTime: endTime})
	if err != nil {
		// The ride is now stuck in 'ending' until an operator reconciles;
		// a transactional outbox would close this gap.
		return "", err
	}
	return repository.EndRideQueued, nil
}

// SaveTelemetryBatch looks up the device, validates the optional ride id,
// and inserts every point in one transaction.
func (s *Service) SaveTelemetryBatch(ctx context.Context, deviceCode string, rideIDRaw string, points []*models.TelemetryPoint) error {
	device, err := s.devices.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		return err
	}

	var rideID *uuid.UUID
	if rideIDRaw != "" {
		if id, parseErr := uuid.Parse(rideIDRaw); parseErr == nil {
			rideID = &id
		}
		// A malformed ride id persists the batch with a null ride reference
		// rather than failing the whole batch.
	}

	for _, p := range points {
		p.DeviceID = device.ID
		p.RideID = rideID
	}

	if err := s.telemetry.SaveBatch(ctx, points); err != nil {
		return err
	}
	return s.devices.UpdateLastSeen(ctx, deviceCode)
}

// LogDrowsinessEvent resolves deviceCode to a device, stamps the detection
// time server-side, and inserts one event.
func (s *Service) LogDrowsinessEvent(ctx context.Context, deviceCode string, event *models.DrowsinessEvent) (uuid.UUID, error) {
	device, err := s.devices.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		return uuid.UUID{}, err
	}
	event.DeviceID = device.ID
	event.DetectedAt = time.Now()
	return s.drowsiness.Create(ctx, event)
}

// HandleCrash looks up the device, routes to the nearest responder, records
// the alert, and assembles the structured crash response.
func (s *Service) HandleCrash(ctx context.Context, deviceCode string, lat, lon float64, severity models.CrashSeverity, accelX, accelY, accelZ float64) (models.CrashResponse, error) {
	device, err := s.devices.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		return models.CrashResponse{}, err
	}

	routing := s.responders.Route(ctx, lat, lon, device.OwnerUser)

	alert := &models.CrashAlert{
		ID:          uuid.New(),
		DeviceID:    device.ID,
		DetectedAt:  time.Now(),
		Lat:         &lat,
		Lon:         &lon,
		Severity:    severity,
		AccelX:      accelX,
		AccelY:      accelY,
		AccelZ:      accelZ,
		ResponderID: routing.ResponderID,
	}
	if err := s.crashes.Create(ctx, alert); err != nil {
		return models.CrashResponse{}, err
	}

	resp := models.CrashResponse{
		AlertID:        alert.ID,
		Severity:       severity,
		ResponderFound: routing.Found,
		ResponderName:  routing.Name,
		HospitalName:   routing.HospitalName,
		DistanceKM:     routing.DistanceKM,
	}
	if routing.Contact != nil {
		resp.OwnerEmergencyName = routing.Contact.EmergencyContactName
		resp.OwnerEmergencyPhone = routing.Contact.EmergencyContactPhone
		resp.OwnerBloodType = routing.Contact.BloodType
		resp.OwnerAllergies = routing.Contact.Allergies
	}
	return resp, nil
}

// CheckDevice returns the device for deviceCode, auto-creating an
// un-onboarded record on first contact (the supplemented check-in
// behaviour; start_ride and save_telemetry_batch do not auto-create).
func (s *Service) CheckDevice(ctx context.Context, deviceCode string) (*models.Device, bool, error) {
	return s.devices.FindOrCreate(ctx, deviceCode)
}

// OnboardBaseline computes a calibration baseline from onboarding PPG
// samples, stores it, and marks the device onboarded.
func (s *Service) OnboardBaseline(ctx context.Context, deviceCode string, samples [][]float64, sampleRate float64) (models.Baseline, error) {
	device, err := s.devices.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		return models.Baseline{}, err
	}

	result := hrv.ComputeBaseline(samples, sampleRate)
	baseline := models.Baseline{
		DeviceID: device.ID,
		BaselineMetrics: models.BaselineMetrics{
			MeanHR:      result.MeanHR,
			SDNN:        result.SDNN,
			RMSSD:       result.RMSSD,
			PNN50:       result.PNN50,
			LFHFRatio:   result.LFHFRatio,
			SD1SD2Ratio: result.SD1SD2Ratio,
		},
		ComputedAt: time.Now(),
	}
	if err := s.baselines.Create(ctx, &baseline); err != nil {
		return models.Baseline{}, err
	}
	if err := s.devices.MarkOnboarded(ctx, device.ID); err != nil {
		return models.Baseline{}, err
	}
	return baseline, nil
}

// RideDetail is the read-only projection GET /rides/:ride_id assembles.
type RideDetail struct {
	Ride    *models.Ride
	Summary *models.RideSummary
}

// GetRideDetail assembles a ride with its summary, if computed.
func (s *Service) GetRideDetail(ctx context.Context, rideID uuid.UUID) (RideDetail, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return RideDetail{}, err
	}
	summary, err := s.rides.GetSummary(ctx, rideID)
	if err != nil && !errors.Is(err, repository.ErrRideNotFound) {
		return RideDetail{}, err
	}
	return RideDetail{Ride: ride, Summary: summary}, nil
}
