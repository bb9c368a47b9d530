package hrv

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	resampleHz = 4.0 // standard HRV interval-series resampling rate
	lfLowHz    = 0.04
	lfHighHz   = 0.15
	hfLowHz    = 0.15
	hfHighHz   = 0.40
	segmentLen = 32 // samples per Welch segment at resampleHz
)

// lfhfRatio computes the LF/HF power ratio from the peak-interval series via
// Welch's method: interpolate onto a uniform grid, window and FFT
// overlapping segments, average the periodograms, then sum band power.
// Returns (ratio, ok) — ok is false when there are too few samples to form
// even one windowed segment.
func lfhfRatio(intervalsMS []float64) (float64, bool) {
	series := resampleUniform(intervalsMS, resampleHz)
	if len(series) < segmentLen {
		return 0, false
	}

	psd, freqs := welchPSD(series, resampleHz, segmentLen)

	var lfPower, hfPower float64
	for i, f := range freqs {
		switch {
		case f >= lfLowHz && f < lfHighHz:
			lfPower += psd[i]
		case f >= hfLowHz && f < hfHighHz:
			hfPower += psd[i]
		}
	}
	if hfPower == 0 {
		return 0, false
	}
	return lfPower / hfPower, true
}

// resampleUniform turns a successive inter-beat-interval series (one value
// per beat, irregular spacing) into an evenly sampled signal by linear
// interpolation over cumulative time, the common pre-step to PSD-based HRV.
func resampleUniform(intervalsMS []float64, hz float64) []float64 {
	if len(intervalsMS) < 2 {
		return nil
	}

	times := make([]float64, len(intervalsMS))
	cum := 0.0
	for i, ms := range intervalsMS {
		cum += ms / 1000.0
		times[i] = cum
	}

	totalDuration := times[len(times)-1]
	n := int(totalDuration * hz)
	if n < 2 {
		return nil
	}

	out := make([]float64, n)
	j := 0
	for i := 0; i < n; i++ {
		t := float64(i) / hz
		for j < len(times)-1 && times[j+1] < t {
			j++
		}
		if j >= len(intervalsMS)-1 {
			out[i] = intervalsMS[len(intervalsMS)-1]
			continue
		}
		t0, t1 := times[j], times[j+1]
		v0, v1 := intervalsMS[j], intervalsMS[j+1]
		if t1 == t0 {
			out[i] = v0
		} else {
			frac := (t - t0) / (t1 - t0)
			out[i] = v0 + frac*(v1-v0)
		}
	}
	return out
}

// welchPSD averages periodograms of overlapping Hann-windowed segments.
func welchPSD(series []float64, fs float64, segLen int) (psd, freqs []float64) {
	fft := fourier.NewFFT(segLen)
	freqs = make([]float64, segLen/2+1)
	for i := range freqs {
		freqs[i] = fft.Freq(i) * fs
	}

	step := segLen / 2 // 50% overlap
	accum := make([]float64, segLen/2+1)
	windows := 0

	for start := 0; start+segLen <= len(series); start += step {
		segment := make([]float64, segLen)
		copy(segment, series[start:start+segLen])
		applyHannWindow(segment)

		coeffs := fft.Coefficients(nil, segment)
		for i, c := range coeffs {
			mag := math.Hypot(real(c), imag(c))
			accum[i] += mag * mag
		}
		windows++
	}

	if windows == 0 {
		return nil, nil
	}
	psd = make([]float64, len(accum))
	for i, v := range accum {
		psd[i] = v / float64(windows)
	}
	return psd, freqs
}

func applyHannWindow(segment []float64) {
	n := len(segment)
	for i := range segment {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		segment[i] *= w
	}
}
