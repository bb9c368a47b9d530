package models

import (
	"time"

	"github.com/google/uuid"
)

// TelemetryPoint is one time-stamped record per processing cycle per device.
// RideID is nullable: points are still persisted when no ride is active.
type TelemetryPoint struct {
	ID        int64      `json:"id" db:"id"`
	DeviceID  uuid.UUID  `json:"deviceId" db:"device_id"`
	RideID    *uuid.UUID `json:"rideId,omitempty" db:"ride_id"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	HR        *float64   `json:"hr,omitempty" db:"hr"`
	IBI       *float64   `json:"ibi,omitempty" db:"ibi"`
	SDNN      *float64   `json:"sdnn,omitempty" db:"sdnn"`
	RMSSD     *float64   `json:"rmssd,omitempty" db:"rmssd"`
	PNN50     *float64   `json:"pnn50,omitempty" db:"pnn50"`
	LFHFRatio *float64   `json:"lfHfRatio,omitempty" db:"lf_hf_ratio"`
	AccelX    *float64   `json:"accelX,omitempty" db:"accel_x"`
	AccelY    *float64   `json:"accelY,omitempty" db:"accel_y"`
	AccelZ    *float64   `json:"accelZ,omitempty" db:"accel_z"`
	Lat       *float64   `json:"lat,omitempty" db:"lat"`
	Lon       *float64   `json:"lon,omitempty" db:"lon"`
}
