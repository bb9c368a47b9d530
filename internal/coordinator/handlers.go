package coordinator

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wihwin/helmet-core/internal/models"
	"github.com/wihwin/helmet-core/internal/repository"
)

// Handler adapts a Service onto gin HTTP routes, following the teacher's
// c.PureJSON / gin.H{"error": ...} response convention.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type startRideRequest struct {
	DeviceCode string `json:"deviceCode" binding:"required"`
}

// StartRide handles POST /rides/start.
func (h *Handler) StartRide(c *gin.Context) {
	var req startRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.StartRide(c.Request.Context(), req.DeviceCode)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		log.Printf("start_ride: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to start ride"})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{"rideId": result.RideID, "message": result.Message})
}

// EndRide handles POST /rides/:ride_id/end.
func (h *Handler) EndRide(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("ride_id"))
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "malformed ride id"})
		return
	}

	outcome, err := h.svc.EndRide(c.Request.Context(), rideID)
	if err != nil {
		log.Printf("end_ride: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to end ride"})
		return
	}

	status := http.StatusOK
	if outcome == repository.EndRideNotFound {
		status = http.StatusNotFound
	}
	c.PureJSON(status, gin.H{"status": outcome})
}

type telemetryBatchRequest struct {
	DeviceCode string                   `json:"deviceCode" binding:"required"`
	RideID     string                   `json:"rideId"`
	Points     []*models.TelemetryPoint `json:"points" binding:"required"`
}

// SaveTelemetryBatch handles POST /telemetry/batch.
func (h *Handler) SaveTelemetryBatch(c *gin.Context) {
	var req telemetryBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.svc.SaveTelemetryBatch(c.Request.Context(), req.DeviceCode, req.RideID, req.Points)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		log.Printf("save_telemetry_batch: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to save telemetry batch"})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{"count": len(req.Points)})
}

type logDrowsinessEventRequest struct {
	DeviceCode string `json:"deviceCode" binding:"required"`
	models.DrowsinessEvent
}

// LogDrowsinessEvent handles POST /drowsiness-events.
func (h *Handler) LogDrowsinessEvent(c *gin.Context) {
	var req logDrowsinessEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.LogDrowsinessEvent(c.Request.Context(), req.DeviceCode, &req.DrowsinessEvent)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		log.Printf("log_drowsiness_event: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to log drowsiness event"})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{"eventId": id})
}

type crashRequest struct {
	DeviceCode string                `json:"deviceCode" binding:"required"`
	Lat        float64               `json:"lat" binding:"required"`
	Lon        float64               `json:"lon" binding:"required"`
	Severity   models.CrashSeverity  `json:"severity" binding:"required"`
	AccelX     float64               `json:"accelX"`
	AccelY     float64               `json:"accelY"`
	AccelZ     float64               `json:"accelZ"`
}

// HandleCrash handles POST /crashes.
func (h *Handler) HandleCrash(c *gin.Context) {
	var req crashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.svc.HandleCrash(c.Request.Context(), req.DeviceCode, req.Lat, req.Lon, req.Severity, req.AccelX, req.AccelY, req.AccelZ)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		log.Printf("handle_crash: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to handle crash"})
		return
	}

	c.PureJSON(http.StatusCreated, resp)
}

// CheckDevice handles GET /devices/:device_code.
func (h *Handler) CheckDevice(c *gin.Context) {
	deviceCode := c.Param("device_code")

	device, created, err := h.svc.CheckDevice(c.Request.Context(), deviceCode)
	if err != nil {
		log.Printf("check_device: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to check device"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.PureJSON(status, device)
}

type baselineRequest struct {
	Samples    [][]float64 `json:"samples" binding:"required"`
	SampleRate float64     `json:"sampleRate" binding:"required"`
}

// OnboardBaseline handles POST /devices/:device_code/baseline.
func (h *Handler) OnboardBaseline(c *gin.Context) {
	deviceCode := c.Param("device_code")

	var req baselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	baseline, err := h.svc.OnboardBaseline(c.Request.Context(), deviceCode, req.Samples, req.SampleRate)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		log.Printf("onboard_baseline: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to compute baseline"})
		return
	}

	c.PureJSON(http.StatusCreated, baseline)
}

// GetRideDetail handles GET /rides/:ride_id.
func (h *Handler) GetRideDetail(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("ride_id"))
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{"error": "malformed ride id"})
		return
	}

	detail, err := h.svc.GetRideDetail(c.Request.Context(), rideID)
	if err != nil {
		if errors.Is(err, repository.ErrRideNotFound) {
			c.PureJSON(http.StatusNotFound, gin.H{"error": "ride not found"})
			return
		}
		log.Printf("get_ride_detail: %v", err)
		c.PureJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve ride"})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{"ride": detail.Ride, "summary": detail.Summary})
}

// HealthHandler handles GET /health, matching the teacher's HealthHandler.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
