// Package coordinatorclient is the Stream Processor's HTTP client into the
// Ride Coordinator, with bounded per-call timeouts matching the
// cancellation discipline the teacher applies to every context-scoped
// database call.
package coordinatorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/config"
	"github.com/wihwin/helmet-core/internal/models"
)

// Client is a thin net/http wrapper around the Ride Coordinator's REST
// surface. Short RPCs (start/end ride, single events) use ShortTimeout;
// batch flush uses the longer BatchTimeout.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	shortTimeout time.Duration
	batchTimeout time.Duration
}

// New creates a Client from cfg.
func New(cfg config.CoordinatorClientConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		httpClient:   &http.Client{},
		shortTimeout: cfg.ShortTimeout,
		batchTimeout: cfg.BatchTimeout,
	}
}

// StartRideResponse mirrors the Coordinator's start_ride response body.
type StartRideResponse struct {
	RideID  uuid.UUID `json:"rideId"`
	Message string    `json:"message"`
}

// StartRide calls POST /rides/start.
func (c *Client) StartRide(ctx context.Context, deviceCode string) (StartRideResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.shortTimeout)
	defer cancel()

	var resp StartRideResponse
	err := c.postJSON(ctx, "/rides/start", map[string]string{"deviceCode": deviceCode}, &resp)
	return resp, err
}

// EndRideResponse mirrors the Coordinator's end_ride response body.
type EndRideResponse struct {
	Status string `json:"status"`
}

// EndRide calls POST /rides/{id}/end.
func (c *Client) EndRide(ctx context.Context, rideID uuid.UUID) (EndRideResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.shortTimeout)
	defer cancel()

	var resp EndRideResponse
	err := c.postJSON(ctx, fmt.Sprintf("/rides/%s/end", rideID), nil, &resp)
	return resp, err
}

// SaveTelemetryBatch calls POST /telemetry/batch using the longer
// BatchTimeout, since a buffered flush can carry many points.
func (c *Client) SaveTelemetryBatch(ctx context.Context, deviceCode, rideID string, points []*models.TelemetryPoint) error {
	ctx, cancel := context.WithTimeout(ctx, c.batchTimeout)
	defer cancel()

	body := map[string]any{
		"deviceCode": deviceCode,
		"rideId":     rideID,
		"points":     points,
	}
	return c.postJSON(ctx, "/telemetry/batch", body, nil)
}

// LogDrowsinessEvent calls POST /drowsiness-events.
func (c *Client) LogDrowsinessEvent(ctx context.Context, deviceCode string, event *models.DrowsinessEvent) error {
	ctx, cancel := context.WithTimeout(ctx, c.shortTimeout)
	defer cancel()

	body := struct {
		DeviceCode string `json:"deviceCode"`
		*models.DrowsinessEvent
	}{DeviceCode: deviceCode, DrowsinessEvent: event}

	return c.postJSON(ctx, "/drowsiness-events", body, nil)
}

// HandleCrash calls POST /crashes and returns the structured response.
func (c *Client) HandleCrash(ctx context.Context, deviceCode string, lat, lon float64, severity models.CrashSeverity, accelX, accelY, accelZ float64) (models.CrashResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.shortTimeout)
	defer cancel()

	body := map[string]any{
		"deviceCode": deviceCode,
		"lat":        lat,
		"lon":        lon,
		"severity":   severity,
		"accelX":     accelX,
		"accelY":     accelY,
		"accelZ":     accelZ,
	}
	var resp models.CrashResponse
	err := c.postJSON(ctx, "/crashes", body, &resp)
	return resp, err
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	var reqBody bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("coordinatorclient: marshal: %w", err)
		}
		reqBody = *bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("coordinatorclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coordinatorclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("coordinatorclient: %s returned status %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("coordinatorclient: decode response from %s: %w", path, err)
		}
	}
	return nil
}
