package crash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wihwin/helmet-core/internal/models"
)

func defaultThresholds() Thresholds {
	return Thresholds{GThreshold: 4.0, VectorThreshold: 6.0}
}

func TestDetect_ExactlyAtGThresholdIsNotACrash(t *testing.T) {
	// x=4.0, y=0, z=9.8 (no z deviation) => A = 4.0 exactly.
	r := Detect(4.0, 0, 9.8, defaultThresholds())
	assert.False(t, r.IsCrash)
}

func TestDetect_JustAboveGThresholdIsCrash(t *testing.T) {
	r := Detect(4.0001, 0, 9.8, defaultThresholds())
	assert.True(t, r.IsCrash)
	assert.Equal(t, models.CrashMild, r.Severity)
}

func TestDetect_SevereScenario(t *testing.T) {
	r := Detect(0, 0, 25, defaultThresholds())
	assert.True(t, r.IsCrash)
	assert.Equal(t, models.CrashSevere, r.Severity)
	assert.InDelta(t, 25, r.Magnitude, 0.01)
	assert.InDelta(t, 15.2, r.MaxAxis, 0.01)
}

func TestDetect_ModerateBoundary(t *testing.T) {
	r := Detect(6.1, 0, 9.8, defaultThresholds())
	assert.True(t, r.IsCrash)
	assert.Equal(t, models.CrashModerate, r.Severity)
}

func TestDetect_NoCrashAtRest(t *testing.T) {
	r := Detect(0, 0, 9.8, defaultThresholds())
	assert.False(t, r.IsCrash)
	assert.Equal(t, models.CrashMild, r.Severity)
}
