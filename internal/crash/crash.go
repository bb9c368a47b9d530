// Package crash implements accelerometer-based impact detection, grounded
// directly on the original stream worker's detect_crash routine.
package crash

import (
	"math"

	"github.com/wihwin/helmet-core/internal/models"
)

// Thresholds configures the configurable detection bounds (spec's
// CRASH_G_THRESHOLD / CRASH_VECTOR_THRESHOLD); severity bucket cutoffs are
// fixed multiples of the base thresholds, not independently configurable.
type Thresholds struct {
	GThreshold      float64
	VectorThreshold float64
}

// Result is the outcome of evaluating one tri-axis accelerometer sample.
type Result struct {
	IsCrash   bool
	Severity  models.CrashSeverity
	Magnitude float64
	MaxAxis   float64
}

// gravity is the standard gravity constant used for per-axis compensation
// on the z-axis, matching the original sensor calibration (m/s^2... here
// the accelerometer reports in units where resting z reads ~9.8).
const gravity = 9.8

// Detect evaluates one sample. Crash iff A > GThreshold or M >
// VectorThreshold+gravity, where A is the gravity-compensated per-axis max
// and M is the raw magnitude. Boundaries are strict: exactly at threshold
// is not a crash.
func Detect(x, y, z float64, t Thresholds) Result {
	magnitude := math.Sqrt(x*x + y*y + z*z)
	maxAxis := math.Max(math.Abs(x), math.Max(math.Abs(y), math.Abs(z-gravity)))

	isCrash := maxAxis > t.GThreshold || magnitude > t.VectorThreshold+gravity

	var severity models.CrashSeverity
	switch {
	case maxAxis > 2*t.GThreshold || magnitude > 2.5*t.VectorThreshold:
		severity = models.CrashSevere
	case maxAxis > 1.5*t.GThreshold || magnitude > 2*t.VectorThreshold:
		severity = models.CrashModerate
	default:
		severity = models.CrashMild
	}

	return Result{
		IsCrash:   isCrash,
		Severity:  severity,
		Magnitude: magnitude,
		MaxAxis:   maxAxis,
	}
}
