package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneralBaseline is the hardcoded population reference used whenever a
// device has no onboarded baseline of its own.
var GeneralBaseline = BaselineMetrics{
	MeanHR:      70,
	SDNN:        50,
	RMSSD:       40,
	PNN50:       20,
	LFHFRatio:   1.5,
	SD1SD2Ratio: 0.5,
}

// BaselineMetrics is the set of reference HRV values a current sample is
// compared against during drowsiness classification.
type BaselineMetrics struct {
	MeanHR      float64 `json:"meanHr"`
	SDNN        float64 `json:"sdnn"`
	RMSSD       float64 `json:"rmssd"`
	PNN50       float64 `json:"pnn50"`
	LFHFRatio   float64 `json:"lfHfRatio"`
	SD1SD2Ratio float64 `json:"sd1Sd2Ratio"`
}

// Baseline is a per-device calibration row. Rows are insert-only; the
// canonical baseline for a device is the latest by ComputedAt.
type Baseline struct {
	ID       int64     `json:"id" db:"id"`
	DeviceID uuid.UUID `json:"deviceId" db:"device_id"`
	BaselineMetrics
	AccelVar    float64   `json:"accelVar" db:"accel_var"`
	HRDecayRate float64   `json:"hrDecayRate" db:"hr_decay_rate"`
	ComputedAt  time.Time `json:"computedAt" db:"computed_at"`
}

// Effective resolves the baseline a classification should compare against:
// a device's latest onboarded baseline, falling back to the general
// baseline for any factor whose stored value is zero (spec's resolution
// for the unspecified divide-by-zero case on pNN50 / LF-HF).
func (b *Baseline) Effective() BaselineMetrics {
	if b == nil {
		return GeneralBaseline
	}
	m := b.BaselineMetrics
	if m.PNN50 == 0 {
		m.PNN50 = GeneralBaseline.PNN50
	}
	if m.LFHFRatio == 0 {
		m.LFHFRatio = GeneralBaseline.LFHFRatio
	}
	if m.SDNN == 0 {
		m.SDNN = GeneralBaseline.SDNN
	}
	if m.RMSSD == 0 {
		m.RMSSD = GeneralBaseline.RMSSD
	}
	if m.SD1SD2Ratio == 0 {
		m.SD1SD2Ratio = GeneralBaseline.SD1SD2Ratio
	}
	if m.MeanHR == 0 {
		m.MeanHR = GeneralBaseline.MeanHR
	}
	return m
}
