// Package streamprocessor implements the per-device, message-driven
// ingestion pipeline: HRV computation, drowsiness classification, crash
// detection, and telemetry batching, fed by the broker and backed by the
// Ride Coordinator's HTTP contracts.
package streamprocessor

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/broker"
	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/coordinatorclient"
	"github.com/wihwin/helmet-core/internal/crash"
	"github.com/wihwin/helmet-core/internal/drowsiness"
	"github.com/wihwin/helmet-core/internal/hrv"
	"github.com/wihwin/helmet-core/internal/models"
)

const sweepInterval = 1 * time.Second

// publisher is the narrow broker dependency the processor needs, satisfied
// by *broker.Client in production and a recording stub in tests.
type publisher interface {
	PublishLiveAnalysis(deviceCode string, payload []byte) error
	PublishCommand(deviceCode string, payload []byte) error
	PublishCrash(deviceCode string, payload []byte) error
}

// coordinatorAPI is the narrow Ride Coordinator dependency, satisfied by
// *coordinatorclient.Client in production and a stub in tests.
type coordinatorAPI interface {
	StartRide(ctx context.Context, deviceCode string) (coordinatorclient.StartRideResponse, error)
	EndRide(ctx context.Context, rideID uuid.UUID) (coordinatorclient.EndRideResponse, error)
	SaveTelemetryBatch(ctx context.Context, deviceCode, rideID string, points []*models.TelemetryPoint) error
	LogDrowsinessEvent(ctx context.Context, deviceCode string, event *models.DrowsinessEvent) error
	HandleCrash(ctx context.Context, deviceCode string, lat, lon float64, severity models.CrashSeverity, accelX, accelY, accelZ float64) (models.CrashResponse, error)
}

// deviceState is the in-memory per-device cache the processor owns. It is
// touched only from the single event-loop goroutine, so it carries no
// locking of its own.
type deviceState struct {
	baseline     models.BaselineMetrics
	hasBaseline  bool
	buffer       []*models.TelemetryPoint
	rideID       string
	lastFlush    time.Time
	lastActivity time.Time
}

// Processor runs the event loop over broker messages for all devices.
type Processor struct {
	broker      *broker.Client
	coordinator coordinatorAPI
	pub         publisher
	cfg         config.ProcessorConfig
	devices     map[string]*deviceState
}

// New creates a Processor wired to a live broker connection and Coordinator
// client.
func New(brokerClient *broker.Client, coordinator *coordinatorclient.Client, cfg config.ProcessorConfig) *Processor {
	return newProcessor(brokerClient, coordinator, brokerClient, cfg)
}

func newProcessor(brokerClient *broker.Client, coordinator coordinatorAPI, pub publisher, cfg config.ProcessorConfig) *Processor {
	return &Processor{
		broker:      brokerClient,
		coordinator: coordinator,
		pub:         pub,
		cfg:         cfg,
		devices:     make(map[string]*deviceState),
	}
}

// Run is the single-threaded cooperative event loop: a select over the
// broker's inbound channel and a 1s sweep ticker. It blocks until ctx is
// cancelled.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-p.broker.Inbound:
			if !ok {
				return
			}
			p.handleMessage(ctx, msg)
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *Processor) handleMessage(ctx context.Context, msg broker.Message) {
	switch msg.Topic {
	case "baseline":
		p.handleBaseline(msg.DeviceCode, msg.Payload)
	case "telemetry":
		p.handleTelemetry(ctx, msg.DeviceCode, msg.Payload)
	case "accel":
		p.handleAccel(ctx, msg.DeviceCode, msg.Payload)
	}
}

func (p *Processor) stateFor(deviceCode string) *deviceState {
	s, ok := p.devices[deviceCode]
	if !ok {
		s = &deviceState{lastFlush: time.Now(), lastActivity: time.Now()}
		p.devices[deviceCode] = s
	}
	return s
}

// handleBaseline overwrites the in-memory baseline cache. Idempotent, no
// persistence side-effect.
func (p *Processor) handleBaseline(deviceCode string, payload []byte) {
	var b baselinePayload
	if err := json.Unmarshal(payload, &b); err != nil {
		log.Printf("[streamprocessor] malformed baseline payload from %s: %v", deviceCode, err)
		return
	}

	state := p.stateFor(deviceCode)
	state.baseline = models.BaselineMetrics{
		MeanHR:      b.MeanHR,
		SDNN:        b.SDNN,
		RMSSD:       b.RMSSD,
		PNN50:       b.PNN50,
		LFHFRatio:   b.LFHFRatio,
		SD1SD2Ratio: b.SD1SD2Ratio,
	}
	state.hasBaseline = true
}

func (p *Processor) handleTelemetry(ctx context.Context, deviceCode string, payload []byte) {
	var t telemetryPayload
	if err := json.Unmarshal(payload, &t); err != nil {
		log.Printf("[streamprocessor] malformed telemetry payload from %s: %v", deviceCode, err)
		return
	}

	state := p.stateFor(deviceCode)

	if state.rideID == "" {
		result, err := p.coordinator.StartRide(ctx, deviceCode)
		if err != nil {
			log.Printf("[streamprocessor] start_ride failed for %s: %v", deviceCode, err)
			return
		}
		state.rideID = result.RideID.String()
	}

	result, err := hrv.Compute(t.PPG, t.SampleRate)
	if err != nil {
		// Fewer than the minimum detectable peaks; discard per the
		// ingestion contract rather than emitting a half-computed point.
		log.Printf("[streamprocessor] dropping telemetry from %s: %v", deviceCode, err)
		return
	}

	baseline := resolveBaseline(state)
	classification := drowsiness.Classify(result, baseline)

	point := &models.TelemetryPoint{
		Timestamp: time.Now(),
		HR:        &result.HR,
		SDNN:      &result.SDNN,
		RMSSD:     &result.RMSSD,
		PNN50:     &result.PNN50,
		LFHFRatio: &result.LFHFRatio,
		Lat:       t.Lat,
		Lon:       t.Lon,
	}
	state.buffer = append(state.buffer, point)

	p.publishLiveAnalysis(deviceCode, result, classification, t.Lat, t.Lon)
	cmd := commandMessage{Vibrate: classification.Status != models.StatusAwake}
	if cmd.Vibrate {
		cmd.Severity = string(classification.Status)
	}
	p.publishCommand(deviceCode, cmd)

	if classification.Status != models.StatusAwake {
		p.logDrowsinessEvent(ctx, deviceCode, result, classification, t.Lat, t.Lon)
	}

	state.lastActivity = time.Now()
	if time.Since(state.lastFlush) >= p.cfg.FlushInterval {
		p.flush(ctx, deviceCode, state)
	}
}

func (p *Processor) handleAccel(ctx context.Context, deviceCode string, payload []byte) {
	var a accelPayload
	if err := json.Unmarshal(payload, &a); err != nil {
		log.Printf("[streamprocessor] malformed accel payload from %s: %v", deviceCode, err)
		return
	}

	thresholds := crash.Thresholds{GThreshold: p.cfg.CrashGThreshold, VectorThreshold: p.cfg.CrashVectorThreshold}
	result := crash.Detect(a.X, a.Y, a.Z, thresholds)
	if !result.IsCrash {
		return
	}

	var lat, lon float64
	if a.Lat != nil {
		lat = *a.Lat
	}
	if a.Lon != nil {
		lon = *a.Lon
	}

	response, err := p.coordinator.HandleCrash(ctx, deviceCode, lat, lon, result.Severity, a.X, a.Y, a.Z)
	if err != nil {
		log.Printf("[streamprocessor] handle_crash failed for %s: %v", deviceCode, err)
	}

	p.publishCrash(deviceCode, crashMessage{
		DeviceID:  deviceCode,
		Timestamp: time.Now(),
		Severity:  string(result.Severity),
		Location:  location{Lat: a.Lat, Lon: a.Lon},
		Accel:     accelVector{X: a.X, Y: a.Y, Z: a.Z},
		Hospital:  response.HospitalName,
	})
	p.publishCommand(deviceCode, commandMessage{CrashDetected: true, Severity: string(result.Severity)})

	state := p.stateFor(deviceCode)
	state.lastActivity = time.Now()
}

// resolveBaseline returns the device's cached baseline, or the general
// baseline if none has been onboarded yet.
func resolveBaseline(state *deviceState) models.BaselineMetrics {
	if !state.hasBaseline {
		return models.GeneralBaseline
	}
	b := models.Baseline{BaselineMetrics: state.baseline}
	return b.Effective()
}

func (p *Processor) publishLiveAnalysis(deviceCode string, r hrv.Result, c drowsiness.Classification, lat, lon *float64) {
	msg := liveAnalysisMessage{
		DeviceID:  deviceCode,
		Timestamp: time.Now(),
		Status:    string(c.Status),
		Metrics: liveAnalysisMetrics{
			HR:              r.HR,
			SDNN:            r.SDNN,
			RMSSD:           r.RMSSD,
			PNN50:           r.PNN50,
			LFHFRatio:       r.LFHFRatio,
			DrowsinessScore: c.Score,
		},
		Location: location{Lat: lat, Lon: lon},
		Alerts:   c.Alerts,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[streamprocessor] marshal live-analysis for %s: %v", deviceCode, err)
		return
	}
	if err := p.pub.PublishLiveAnalysis(deviceCode, body); err != nil {
		log.Printf("[streamprocessor] publish live-analysis for %s: %v", deviceCode, err)
	}
}

func (p *Processor) publishCommand(deviceCode string, cmd commandMessage) {
	body, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("[streamprocessor] marshal command for %s: %v", deviceCode, err)
		return
	}
	if err := p.pub.PublishCommand(deviceCode, body); err != nil {
		log.Printf("[streamprocessor] publish command for %s: %v", deviceCode, err)
	}
}

func (p *Processor) publishCrash(deviceCode string, msg crashMessage) {
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[streamprocessor] marshal crash for %s: %v", deviceCode, err)
		return
	}
	if err := p.pub.PublishCrash(deviceCode, body); err != nil {
		log.Printf("[streamprocessor] publish crash for %s: %v", deviceCode, err)
	}
}

func (p *Processor) logDrowsinessEvent(ctx context.Context, deviceCode string, r hrv.Result, c drowsiness.Classification, lat, lon *float64) {
	event := &models.DrowsinessEvent{
		SeverityScore: c.Score,
		Status:        c.Status,
		SDNN:          r.SDNN,
		RMSSD:         r.RMSSD,
		PNN50:         r.PNN50,
		LFHFRatio:     r.LFHFRatio,
		SD1SD2Ratio:   r.SD1SD2Ratio,
		Alerts:        c.Alerts,
		Lat:           lat,
		Lon:           lon,
	}
	if err := p.coordinator.LogDrowsinessEvent(ctx, deviceCode, event); err != nil {
		log.Printf("[streamprocessor] log_drowsiness_event failed for %s: %v", deviceCode, err)
	}
}

// flush sends the buffered telemetry atomically to the Coordinator. On
// failure the buffer is retained for the next attempt.
func (p *Processor) flush(ctx context.Context, deviceCode string, state *deviceState) {
	if len(state.buffer) == 0 {
		state.lastFlush = time.Now()
		return
	}
	if err := p.coordinator.SaveTelemetryBatch(ctx, deviceCode, state.rideID, state.buffer); err != nil {
		log.Printf("[streamprocessor] flush failed for %s, retaining buffer: %v", deviceCode, err)
		return
	}
	state.buffer = nil
	state.lastFlush = time.Now()
}

// sweep evicts devices whose last activity exceeds RideTimeout: flush,
// end the ride, and drop the in-memory state entirely.
func (p *Processor) sweep(ctx context.Context) {
	now := time.Now()
	for deviceCode, state := range p.devices {
		if state.rideID == "" || now.Sub(state.lastActivity) < p.cfg.RideTimeout {
			continue
		}

		p.flush(ctx, deviceCode, state)

		if rideID, err := uuid.Parse(state.rideID); err != nil {
			log.Printf("[streamprocessor] malformed cached ride id for %s: %v", deviceCode, err)
		} else if _, err := p.coordinator.EndRide(ctx, rideID); err != nil {
			log.Printf("[streamprocessor] auto end_ride failed for %s: %v", deviceCode, err)
			continue
		}

		delete(p.devices, deviceCode)
	}
}
