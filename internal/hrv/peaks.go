// Package hrv computes heart-rate-variability metrics from a raw PPG
// waveform: peak detection, time-domain (SDNN/RMSSD/pNN50), frequency-domain
// (LF/HF via Welch PSD) and nonlinear (Poincare SD1/SD2) metrics.
package hrv

// MinPeaks is the minimum number of detected peaks required to compute HRV;
// below this the caller must treat the sample as a computation failure.
const MinPeaks = 3

// detectPeaks finds local maxima in ppg that exceed a threshold derived from
// the signal's own amplitude, enforcing a minimum refractory distance so a
// single beat isn't counted twice. The exact algorithm is not part of the
// stable contract — only the minimum-peak-count and downstream tolerances
// are — so a straightforward local-maxima detector is used rather than a
// more elaborate pipeline.
func detectPeaks(ppg []float64, sampleRate float64) []int {
	if len(ppg) < 3 {
		return nil
	}

	minVal, maxVal := ppg[0], ppg[0]
	for _, v := range ppg {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		return nil
	}
	threshold := minVal + 0.5*(maxVal-minVal)

	// Refractory period: a human heart rate tops out well under 240 bpm,
	// i.e. peaks closer than 250ms apart are the same beat.
	minDistance := int(0.25 * sampleRate)
	if minDistance < 1 {
		minDistance = 1
	}

	var peaks []int
	lastPeak := -minDistance - 1
	for i := 1; i < len(ppg)-1; i++ {
		if ppg[i] <= threshold {
			continue
		}
		if ppg[i] < ppg[i-1] || ppg[i] < ppg[i+1] {
			continue
		}
		if i-lastPeak < minDistance {
			continue
		}
		peaks = append(peaks, i)
		lastPeak = i
	}
	return peaks
}

// intervalsFromPeaks converts peak sample indices into inter-beat intervals
// in milliseconds.
func intervalsFromPeaks(peaks []int, sampleRate float64) []float64 {
	if len(peaks) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		samples := float64(peaks[i] - peaks[i-1])
		intervals = append(intervals, samples/sampleRate*1000)
	}
	return intervals
}
