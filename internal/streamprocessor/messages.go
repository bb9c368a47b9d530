package streamprocessor

import "time"

// baselinePayload is the wire shape of a helmet/<id>/baseline message.
type baselinePayload struct {
	MeanHR      float64 `json:"mean_hr"`
	SDNN        float64 `json:"sdnn"`
	RMSSD       float64 `json:"rmssd"`
	PNN50       float64 `json:"pnn50"`
	LFHFRatio   float64 `json:"lf_hf_ratio"`
	SD1SD2Ratio float64 `json:"sd1_sd2_ratio"`
}

// telemetryPayload is the wire shape of a helmet/<id>/telemetry message: a
// raw PPG window plus its sample rate and optional GPS fix.
type telemetryPayload struct {
	PPG        []float64 `json:"ppg"`
	SampleRate float64   `json:"sample_rate"`
	Lat        *float64  `json:"lat,omitempty"`
	Lon        *float64  `json:"lon,omitempty"`
}

// accelPayload is the wire shape of a helmet/<id>/accel message.
type accelPayload struct {
	X   float64  `json:"accel_x"`
	Y   float64  `json:"accel_y"`
	Z   float64  `json:"accel_z"`
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// location is the nested GPS fix shared by the live-analysis and crash
// outbound messages.
type location struct {
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// liveAnalysisMetrics is the nested metrics object of a live-analysis
// message.
type liveAnalysisMetrics struct {
	HR              float64 `json:"hr"`
	SDNN            float64 `json:"sdnn"`
	RMSSD           float64 `json:"rmssd"`
	PNN50           float64 `json:"pnn50"`
	LFHFRatio       float64 `json:"lf_hf_ratio"`
	DrowsinessScore int     `json:"drowsiness_score"`
}

// liveAnalysisMessage is published to helmet/<id>/live-analysis.
type liveAnalysisMessage struct {
	DeviceID  string              `json:"device_id"`
	Timestamp time.Time           `json:"timestamp"`
	Status    string              `json:"status"`
	Metrics   liveAnalysisMetrics `json:"metrics"`
	Location  location            `json:"location"`
	Alerts    []string            `json:"alerts,omitempty"`
}

// commandMessage is published to helmet/<id>/command.
type commandMessage struct {
	Vibrate       bool   `json:"vibrate"`
	CrashDetected bool   `json:"crash_detected,omitempty"`
	Severity      string `json:"severity,omitempty"`
}

// accelVector is the nested accel object of a crash message.
type accelVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// crashMessage is published to helmet/<id>/crash.
type crashMessage struct {
	DeviceID  string      `json:"device_id"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity"`
	Location  location    `json:"location"`
	Accel     accelVector `json:"accel"`
	Hospital  string      `json:"hospital,omitempty"`
}
