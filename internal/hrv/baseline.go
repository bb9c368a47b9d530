package hrv

// BaselineResult is the averaged calibration computed from several
// onboarding PPG samples, grounded on the original baseline computation's
// "average across samples, fall back to the general baseline when too few
// samples yield usable HRV" behaviour.
type BaselineResult struct {
	MeanHR      float64
	SDNN        float64
	RMSSD       float64
	PNN50       float64
	LFHFRatio   float64
	SD1SD2Ratio float64
}

// MinOnboardingSamples is the minimum number of usable samples required to
// average a baseline; below this the general baseline is used verbatim.
const MinOnboardingSamples = 3

// ComputeBaseline averages HRV metrics across several onboarding PPG
// samples. Samples that fail HRV computation (too few peaks) are skipped;
// if fewer than MinOnboardingSamples remain usable, the general baseline is
// returned instead of an average of too few data points.
func ComputeBaseline(samples [][]float64, sampleRate float64) BaselineResult {
	var hrSum, sdnnSum, rmssdSum, pnn50Sum, lfhfSum, sd1sd2Sum float64
	usable := 0

	for _, ppg := range samples {
		r, err := Compute(ppg, sampleRate)
		if err != nil {
			continue
		}
		hrSum += r.HR
		sdnnSum += r.SDNN
		rmssdSum += r.RMSSD
		pnn50Sum += r.PNN50
		lfhfSum += r.LFHFRatio
		sd1sd2Sum += r.SD1SD2Ratio
		usable++
	}

	if usable < MinOnboardingSamples {
		return BaselineResult{
			MeanHR:      DefaultHR,
			SDNN:        DefaultSDNN,
			RMSSD:       DefaultRMSSD,
			PNN50:       DefaultPNN50,
			LFHFRatio:   DefaultLFHFRatio,
			SD1SD2Ratio: DefaultSD1SD2Ratio,
		}
	}

	n := float64(usable)
	return BaselineResult{
		MeanHR:      hrSum / n,
		SDNN:        sdnnSum / n,
		RMSSD:       rmssdSum / n,
		PNN50:       pnn50Sum / n,
		LFHFRatio:   lfhfSum / n,
		SD1SD2Ratio: sd1sd2Sum / n,
	}
}
