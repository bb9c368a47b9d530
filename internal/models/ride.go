package models

import (
	"time"

	"github.com/google/uuid"
)

// RideStatus is the ride lifecycle state. Transitions are monotone:
// active -> ending -> completed. No other transition is valid.
type RideStatus string

const (
	RideActive    RideStatus = "active"
	RideEnding    RideStatus = "ending"
	RideCompleted RideStatus = "completed"
)

// RecoveryStatus buckets how a ride's RMSSD recovered relative to baseline.
type RecoveryStatus string

const (
	RecoverySlow   RecoveryStatus = "slow"
	RecoveryNormal RecoveryStatus = "normal"
	RecoveryFast   RecoveryStatus = "fast"
)

// Ride is a bounded usage session of a device.
type Ride struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	DeviceID             uuid.UUID       `json:"deviceId" db:"device_id"`
	UserID               *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	StartTime            time.Time       `json:"startTime" db:"start_time"`
	EndTime              *time.Time      `json:"endTime,omitempty" db:"end_time"`
	DurationSeconds      *int64          `json:"durationSeconds,omitempty" db:"duration_seconds"`
	Status               RideStatus      `json:"status" db:"status"`
	AvgHR                *float64        `json:"avgHr,omitempty" db:"avg_hr"`
	MaxHR                *float64        `json:"maxHr,omitempty" db:"max_hr"`
	MinHR                *float64        `json:"minHr,omitempty" db:"min_hr"`
	AvgRMSSD             *float64        `json:"avgRmssd,omitempty" db:"avg_rmssd"`
	MinRMSSD             *float64        `json:"minRmssd,omitempty" db:"min_rmssd"`
	BaselineRMSSD        *float64        `json:"baselineRmssd,omitempty" db:"baseline_rmssd"`
	BaselineDeviationPct *float64        `json:"baselineDeviationPct,omitempty" db:"baseline_deviation_pct"`
	RecoveryStatus       *RecoveryStatus `json:"recoveryStatus,omitempty" db:"recovery_status"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
}

// IsTerminal reports whether the ride has no further state transitions.
func (r *Ride) IsTerminal() bool {
	return r.Status == RideCompleted
}
