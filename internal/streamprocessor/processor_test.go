package streamprocessor

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/coordinatorclient"
	"github.com/wihwin/helmet-core/internal/models"
)

// stubPublisher records every published message without touching MQTT.
type stubPublisher struct {
	mu       sync.Mutex
	live     [][]byte
	commands [][]byte
	crashes  [][]byte
}

func (s *stubPublisher) PublishLiveAnalysis(_ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = append(s.live, payload)
	return nil
}

func (s *stubPublisher) PublishCommand(_ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, payload)
	return nil
}

func (s *stubPublisher) PublishCrash(_ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crashes = append(s.crashes, payload)
	return nil
}

// stubCoordinator is a test double for the Ride Coordinator's HTTP surface.
type stubCoordinator struct {
	rideID             uuid.UUID
	startRideErr       error
	saveBatchErr       error
	savedBatches       int
	loggedEvents       []*models.DrowsinessEvent
	crashes            []models.CrashSeverity
	endedRides         []uuid.UUID
}

func (c *stubCoordinator) StartRide(_ context.Context, _ string) (coordinatorclient.StartRideResponse, error) {
	if c.startRideErr != nil {
		return coordinatorclient.StartRideResponse{}, c.startRideErr
	}
	return coordinatorclient.StartRideResponse{RideID: c.rideID, Message: "ride started"}, nil
}

func (c *stubCoordinator) EndRide(_ context.Context, rideID uuid.UUID) (coordinatorclient.EndRideResponse, error) {
	c.endedRides = append(c.endedRides, rideID)
	return coordinatorclient.EndRideResponse{Status: "queued"}, nil
}

func (c *stubCoordinator) SaveTelemetryBatch(_ context.Context, _, _ string, _ []*models.TelemetryPoint) error {
	if c.saveBatchErr != nil {
		return c.saveBatchErr
	}
	c.savedBatches++
	return nil
}

func (c *stubCoordinator) LogDrowsinessEvent(_ context.Context, _ string, event *models.DrowsinessEvent) error {
	c.loggedEvents = append(c.loggedEvents, event)
	return nil
}

func (c *stubCoordinator) HandleCrash(_ context.Context, _ string, _, _ float64, severity models.CrashSeverity, _, _, _ float64) (models.CrashResponse, error) {
	c.crashes = append(c.crashes, severity)
	return models.CrashResponse{AlertID: uuid.New(), Severity: severity}, nil
}

func newTestProcessor(coord *stubCoordinator, pub *stubPublisher, cfg config.ProcessorConfig) *Processor {
	return newProcessor(nil, coord, pub, cfg)
}

func wakePPG() []float64 {
	// A clean periodic waveform with regular peaks around 1Hz, sampled at
	// 100Hz, enough to exceed hrv.MinPeaks. Its beats are perfectly regular,
	// so SDNN, RMSSD and pNN50 are all zero and it classifies as DROWSY
	// against the general baseline; the tests using it do not depend on the
	// status.
	samples := make([]float64, 2000)
	for i := range samples {
		t := float64(i) / 100.0
		samples[i] = 1.0 + 0.9*math.Sin(t*2*math.Pi)
	}
	return samples
}

func TestHandleTelemetry_StartsRideOnFirstMessage(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: time.Hour, RideTimeout: time.Hour})

	payload, err := json.Marshal(telemetryPayload{PPG: wakePPG(), SampleRate: 100})
	require.NoError(t, err)

	p.handleTelemetry(context.Background(), "H1", payload)

	state := p.stateFor("H1")
	assert.Equal(t, coord.rideID.String(), state.rideID)
	assert.Len(t, pub.live, 1)
	assert.Len(t, pub.commands, 1)
}

func TestHandleTelemetry_DiscardsTooFewPeaks(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: time.Hour, RideTimeout: time.Hour})

	payload, err := json.Marshal(telemetryPayload{PPG: []float64{0.1, 0.2, 0.1}, SampleRate: 100})
	require.NoError(t, err)

	p.handleTelemetry(context.Background(), "H1", payload)

	assert.Empty(t, pub.live)
	assert.Empty(t, coord.loggedEvents)
}

func TestHandleTelemetry_FlushesOnceIntervalElapses(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: 0, RideTimeout: time.Hour})

	payload, err := json.Marshal(telemetryPayload{PPG: wakePPG(), SampleRate: 100})
	require.NoError(t, err)

	p.handleTelemetry(context.Background(), "H1", payload)

	assert.Equal(t, 1, coord.savedBatches)
	assert.Empty(t, p.stateFor("H1").buffer)
}

func TestHandleTelemetry_RetainsBufferOnFlushFailure(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New(), saveBatchErr: assert.AnError}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: 0, RideTimeout: time.Hour})

	payload, err := json.Marshal(telemetryPayload{PPG: wakePPG(), SampleRate: 100})
	require.NoError(t, err)

	p.handleTelemetry(context.Background(), "H1", payload)

	assert.Equal(t, 0, coord.savedBatches)
	assert.Len(t, p.stateFor("H1").buffer, 1)
}

func TestHandleBaseline_OverwritesCache(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{})

	payload, err := json.Marshal(baselinePayload{MeanHR: 65, SDNN: 55, RMSSD: 45, PNN50: 25, LFHFRatio: 1.2, SD1SD2Ratio: 0.6})
	require.NoError(t, err)

	p.handleBaseline("H1", payload)

	state := p.stateFor("H1")
	assert.True(t, state.hasBaseline)
	assert.Equal(t, 65.0, state.baseline.MeanHR)
}

func TestHandleAccel_PublishesCrashOnDetection(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{CrashGThreshold: 4.0, CrashVectorThreshold: 6.0})

	payload, err := json.Marshal(accelPayload{X: 20, Y: 0, Z: 9.8})
	require.NoError(t, err)

	p.handleAccel(context.Background(), "H1", payload)

	assert.Len(t, pub.crashes, 1)
	assert.Len(t, pub.commands, 1)
	assert.Len(t, coord.crashes, 1)
}

func TestHandleAccel_IgnoresOrdinaryMotion(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{CrashGThreshold: 4.0, CrashVectorThreshold: 6.0})

	payload, err := json.Marshal(accelPayload{X: 0.1, Y: 0.1, Z: 9.8})
	require.NoError(t, err)

	p.handleAccel(context.Background(), "H1", payload)

	assert.Empty(t, pub.crashes)
	assert.Empty(t, coord.crashes)
}

func TestSweep_EndsRideAfterInactivityTimeout(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: time.Hour, RideTimeout: time.Millisecond})

	payload, err := json.Marshal(telemetryPayload{PPG: wakePPG(), SampleRate: 100})
	require.NoError(t, err)
	p.handleTelemetry(context.Background(), "H1", payload)

	time.Sleep(5 * time.Millisecond)
	p.sweep(context.Background())

	assert.Len(t, coord.endedRides, 1)
	_, exists := p.devices["H1"]
	assert.False(t, exists)
}

// rawTelemetryJSON builds a helmet/<id>/telemetry payload using spec.md's
// literal wire keys (ppg, sample_rate), not telemetryPayload's own
// serialization, so the contract itself is exercised rather than the
// struct's round-trip with itself.
func rawTelemetryJSON(t *testing.T, ppg []float64, sampleRate float64) []byte {
	t.Helper()
	raw := struct {
		PPG        []float64 `json:"ppg"`
		SampleRate float64   `json:"sample_rate"`
	}{PPG: ppg, SampleRate: sampleRate}
	body, err := json.Marshal(raw)
	require.NoError(t, err)
	return body
}

func TestHandleTelemetry_BindsSampleRateFromSnakeCaseKey(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: time.Hour, RideTimeout: time.Hour})

	payload := rawTelemetryJSON(t, wakePPG(), 100)
	p.handleTelemetry(context.Background(), "H1", payload)

	require.Len(t, pub.live, 1)
	var msg liveAnalysisMessage
	require.NoError(t, json.Unmarshal(pub.live[0], &msg))
	// A 1Hz waveform sampled at the correctly-bound 100Hz yields an HR
	// around 60bpm. If sample_rate silently defaulted to zero, every
	// inter-beat interval divides by zero and HR collapses to 0.
	assert.InDelta(t, 60, msg.Metrics.HR, 15)
}

func TestHandleBaseline_BindsSnakeCaseKeys(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{})

	payload := []byte(`{"mean_hr":65,"sdnn":55,"rmssd":45,"pnn50":25,"lf_hf_ratio":1.2,"sd1_sd2_ratio":0.6}`)
	p.handleBaseline("H1", payload)

	state := p.stateFor("H1")
	require.True(t, state.hasBaseline)
	assert.Equal(t, 65.0, state.baseline.MeanHR)
	assert.Equal(t, 55.0, state.baseline.SDNN)
	assert.Equal(t, 45.0, state.baseline.RMSSD)
	assert.Equal(t, 25.0, state.baseline.PNN50)
	assert.Equal(t, 1.2, state.baseline.LFHFRatio)
	assert.Equal(t, 0.6, state.baseline.SD1SD2Ratio)
}

func TestHandleAccel_WireFormatSnakeCaseKeysDriveCrashDetection(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{CrashGThreshold: 4.0, CrashVectorThreshold: 6.0})

	// spec.md's literal end-to-end crash scenario: accel_z:25 ⇒ A=15.2, M≈25.
	payload := []byte(`{"accel_x":0,"accel_y":0,"accel_z":25}`)
	p.handleAccel(context.Background(), "H1", payload)

	require.Len(t, pub.crashes, 1)
	var msg crashMessage
	require.NoError(t, json.Unmarshal(pub.crashes[0], &msg))
	assert.Equal(t, "severe", msg.Severity)
	assert.Equal(t, "H1", msg.DeviceID)
	assert.Equal(t, 25.0, msg.Accel.Z)
}

func TestHandleAccel_WireFormatSnakeCaseKeysAtRestIsNotACrash(t *testing.T) {
	coord := &stubCoordinator{}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{CrashGThreshold: 4.0, CrashVectorThreshold: 6.0})

	// Resting orientation: only gravity on the z axis. Before the wire-key
	// fix, mismatched tags left X/Y/Z all at zero, which miscomputed as a
	// crash every time (gravity-compensated z axis |0-9.8|=9.8 > 4.0).
	payload := []byte(`{"accel_x":0,"accel_y":0,"accel_z":9.8}`)
	p.handleAccel(context.Background(), "H1", payload)

	assert.Empty(t, pub.crashes)
	assert.Empty(t, coord.crashes)
}

func TestSweep_LeavesActiveDevicesAlone(t *testing.T) {
	coord := &stubCoordinator{rideID: uuid.New()}
	pub := &stubPublisher{}
	p := newTestProcessor(coord, pub, config.ProcessorConfig{FlushInterval: time.Hour, RideTimeout: time.Hour})

	payload, err := json.Marshal(telemetryPayload{PPG: wakePPG(), SampleRate: 100})
	require.NoError(t, err)
	p.handleTelemetry(context.Background(), "H1", payload)

	p.sweep(context.Background())

	assert.Empty(t, coord.endedRides)
	_, exists := p.devices["H1"]
	assert.True(t, exists)
}
