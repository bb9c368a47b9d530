package models

import (
	"time"

	"github.com/google/uuid"
)

// DrowsinessStatus is the output of the weighted-threshold classifier.
type DrowsinessStatus string

const (
	StatusAwake      DrowsinessStatus = "AWAKE"
	StatusDrowsy     DrowsinessStatus = "DROWSY"
	StatusMicrosleep DrowsinessStatus = "MICROSLEEP"
)

// DrowsinessEvent is emitted only when the computed status is not AWAKE.
type DrowsinessEvent struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	DeviceID       uuid.UUID        `json:"deviceId" db:"device_id"`
	RideID         *uuid.UUID       `json:"rideId,omitempty" db:"ride_id"`
	DetectedAt     time.Time        `json:"detectedAt" db:"detected_at"`
	SeverityScore  int              `json:"severityScore" db:"severity_score"`
	Status         DrowsinessStatus `json:"status" db:"status"`
	SDNN           float64          `json:"sdnn" db:"sdnn"`
	RMSSD          float64          `json:"rmssd" db:"rmssd"`
	PNN50          float64          `json:"pnn50" db:"pnn50"`
	LFHFRatio      float64          `json:"lfHfRatio" db:"lf_hf_ratio"`
	SD1SD2Ratio    float64          `json:"sd1Sd2Ratio" db:"sd1_sd2_ratio"`
	Alerts         []string         `json:"alerts" db:"-"`
	Lat            *float64         `json:"lat,omitempty" db:"lat"`
	Lon            *float64         `json:"lon,omitempty" db:"lon"`
}
