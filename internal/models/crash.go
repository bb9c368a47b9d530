package models

import (
	"time"

	"github.com/google/uuid"
)

// CrashSeverity buckets the magnitude of a detected impact.
type CrashSeverity string

const (
	CrashMild     CrashSeverity = "mild"
	CrashModerate CrashSeverity = "moderate"
	CrashSevere   CrashSeverity = "severe"
)

// CrashAlert is an immutable record of a detected impact.
type CrashAlert struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	DeviceID    uuid.UUID      `json:"deviceId" db:"device_id"`
	RideID      *uuid.UUID     `json:"rideId,omitempty" db:"ride_id"`
	DetectedAt  time.Time      `json:"detectedAt" db:"detected_at"`
	Lat         *float64       `json:"lat,omitempty" db:"lat"`
	Lon         *float64       `json:"lon,omitempty" db:"lon"`
	Severity    CrashSeverity  `json:"severity" db:"severity"`
	AccelX      float64        `json:"accelX" db:"accel_x"`
	AccelY      float64        `json:"accelY" db:"accel_y"`
	AccelZ      float64        `json:"accelZ" db:"accel_z"`
	ResponderID *uuid.UUID     `json:"responderId,omitempty" db:"responder_id"`
}

// CrashResponse is the structured reply returned to handle_crash callers:
// responder routing plus the device owner's emergency contact fields.
type CrashResponse struct {
	AlertID             uuid.UUID `json:"alertId"`
	Severity            CrashSeverity `json:"severity"`
	ResponderFound      bool      `json:"responderFound"`
	ResponderName       string    `json:"responderName,omitempty"`
	HospitalName        string    `json:"hospitalName,omitempty"`
	DistanceKM          float64   `json:"distanceKm,omitempty"`
	OwnerEmergencyName  string    `json:"ownerEmergencyName,omitempty"`
	OwnerEmergencyPhone string    `json:"ownerEmergencyPhone,omitempty"`
	OwnerBloodType      string    `json:"ownerBloodType,omitempty"`
	OwnerAllergies      string    `json:"ownerAllergies,omitempty"`
}
