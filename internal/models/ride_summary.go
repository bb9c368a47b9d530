package models

import (
	"time"

	"github.com/google/uuid"
)

// RideSummary is 1:1 with a completed ride.
type RideSummary struct {
	RideID           uuid.UUID `json:"rideId" db:"ride_id"`
	FatigueScore     int       `json:"fatigueScore" db:"fatigue_score"`
	TotalEvents      int       `json:"totalEvents" db:"total_events"`
	MicrosleepEvents int       `json:"microsleepEvents" db:"microsleep_events"`
	MaxSeverity      int       `json:"maxSeverity" db:"max_severity"`
	AvgSeverity      float64   `json:"avgSeverity" db:"avg_severity"`
	ComputedAt       time.Time `json:"computedAt" db:"computed_at"`
}
