package hrv

import "gonum.org/v1/gonum/stat"

// sd1sd2Ratio computes the Poincare plot axis ratio: SD1 (short-term
// variability) over SD2 (long-term variability), derived from the standard
// deviations of the successive-difference and successive-sum series.
// Returns (ratio, ok) — ok is false when SD2 is zero or there aren't enough
// intervals to form the successive series.
func sd1sd2Ratio(intervalsMS []float64) (float64, bool) {
	if len(intervalsMS) < 2 {
		return 0, false
	}

	diffs := make([]float64, 0, len(intervalsMS)-1)
	sums := make([]float64, 0, len(intervalsMS)-1)
	for i := 1; i < len(intervalsMS); i++ {
		diffs = append(diffs, intervalsMS[i]-intervalsMS[i-1])
		sums = append(sums, intervalsMS[i]+intervalsMS[i-1])
	}

	sd1 := stat.StdDev(diffs, nil) / sqrt2
	sd2 := stat.StdDev(sums, nil) / sqrt2

	if sd2 == 0 {
		return 0, false
	}
	return sd1 / sd2, true
}

const sqrt2 = 1.4142135623730951
