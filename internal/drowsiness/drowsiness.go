// Package drowsiness implements the weighted-threshold classifier that
// compares current HRV metrics against an effective baseline.
package drowsiness

import (
	"fmt"
	"math"

	"github.com/wihwin/helmet-core/internal/hrv"
	"github.com/wihwin/helmet-core/internal/models"
)

// MicrosleepCutoff and DrowsyFloor set the score thresholds for status
// mapping, authoritative per the fine-grained table (superseding the
// coarser thresholds that appear in older variants of the source).
const (
	MicrosleepCutoff = 11
	DrowsyFloor      = 8
	MaxScore         = 11
)

// Classification is the result of scoring current metrics against a baseline.
type Classification struct {
	Score  int
	Status models.DrowsinessStatus
	Alerts []string
}

// Classify is a pure function of (current, baseline): scoring each factor
// against the first matching band, summing weights, and mapping the total
// to a status. For every contributing band it records a human-readable
// alert string naming the factor and percentage deviation.
func Classify(current hrv.Result, baseline models.BaselineMetrics) Classification {
	var score int
	var alerts []string

	if w, alert := sdnnBand(current.SDNN, baseline.SDNN); w > 0 {
		score += w
		alerts = append(alerts, alert)
	}
	if w, alert := rmssdBand(current.RMSSD, baseline.RMSSD); w > 0 {
		score += w
		alerts = append(alerts, alert)
	}
	if w, alert := pnn50Band(current.PNN50, baseline.PNN50); w > 0 {
		score += w
		alerts = append(alerts, alert)
	}
	if w, alert := lfhfBand(current.LFHFRatio, baseline.LFHFRatio); w > 0 {
		score += w
		alerts = append(alerts, alert)
	}
	if w, alert := sd1sd2Band(current.SD1SD2Ratio, baseline.SD1SD2Ratio); w > 0 {
		score += w
		alerts = append(alerts, alert)
	}

	return Classification{
		Score:  score,
		Status: statusFor(score),
		Alerts: alerts,
	}
}

func statusFor(score int) models.DrowsinessStatus {
	switch {
	case score >= MicrosleepCutoff:
		return models.StatusMicrosleep
	case score >= DrowsyFloor:
		return models.StatusDrowsy
	default:
		return models.StatusAwake
	}
}

// sdnnBand: weight 3 if ratio<0.50, 2 if <0.65, 1 if <0.75.
func sdnnBand(current, baseline float64) (int, string) {
	ratio := safeRatio(current, baseline)
	switch {
	case ratio < 0.50:
		return 3, deviationAlert("SDNN", current, baseline)
	case ratio < 0.65:
		return 2, deviationAlert("SDNN", current, baseline)
	case ratio < 0.75:
		return 1, deviationAlert("SDNN", current, baseline)
	}
	return 0, ""
}

// rmssdBand: weight 3 if ratio<0.45, 2 if <0.60, 1 if <0.70.
func rmssdBand(current, baseline float64) (int, string) {
	ratio := safeRatio(current, baseline)
	switch {
	case ratio < 0.45:
		return 3, deviationAlert("RMSSD", current, baseline)
	case ratio < 0.60:
		return 2, deviationAlert("RMSSD", current, baseline)
	case ratio < 0.70:
		return 1, deviationAlert("RMSSD", current, baseline)
	}
	return 0, ""
}

// pnn50Band: weight 2 if ratio<0.40, 1 if <0.55 (no band 2 weight).
func pnn50Band(current, baseline float64) (int, string) {
	ratio := safeRatio(current, baseline)
	switch {
	case ratio < 0.40:
		return 2, deviationAlert("pNN50", current, baseline)
	case ratio < 0.55:
		return 1, deviationAlert("pNN50", current, baseline)
	}
	return 0, ""
}

// lfhfBand: weight 2 if ratio>1.70, 1 if >1.50.
func lfhfBand(current, baseline float64) (int, string) {
	ratio := safeRatio(current, baseline)
	switch {
	case ratio > 1.70:
		return 2, deviationAlert("LF/HF", current, baseline)
	case ratio > 1.50:
		return 1, deviationAlert("LF/HF", current, baseline)
	}
	return 0, ""
}

// sd1sd2Band: weight 1 if |delta| > 0.60*baseline.
func sd1sd2Band(current, baseline float64) (int, string) {
	if baseline == 0 {
		return 0, ""
	}
	if math.Abs(current-baseline) > 0.60*baseline {
		return 1, deviationAlert("SD1/SD2", current, baseline)
	}
	return 0, ""
}

func safeRatio(current, baseline float64) float64 {
	if baseline == 0 {
		return 1
	}
	return current / baseline
}

func deviationAlert(factor string, current, baseline float64) string {
	if baseline == 0 {
		return fmt.Sprintf("%s deviated from zero baseline (current=%.2f)", factor, current)
	}
	pct := (baseline - current) / baseline * 100
	return fmt.Sprintf("%s deviated %.1f%% from baseline", factor, pct)
}
