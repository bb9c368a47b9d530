package coordinator

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewServer wires a gin router exposing the Ride Coordinator's HTTP
// surface, grounded on the teacher's internal/server.New composition
// (gzip request/response compression, handlers injected over a shared
// Service rather than built ad hoc per route).
func NewServer(svc *Service) *gin.Engine {
	router := gin.Default()
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	h := NewHandler(svc)

	router.GET("/health", HealthHandler)

	router.POST("/rides/start", h.StartRide)
	router.POST("/rides/:ride_id/end", h.EndRide)
	router.GET("/rides/:ride_id", h.GetRideDetail)

	router.POST("/telemetry/batch", h.SaveTelemetryBatch)
	router.POST("/drowsiness-events", h.LogDrowsinessEvent)
	router.POST("/crashes", h.HandleCrash)

	router.GET("/devices/:device_code", h.CheckDevice)
	router.POST("/devices/:device_code/baseline", h.OnboardBaseline)

	return router
}
