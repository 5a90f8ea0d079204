package extractor

import "math"

// NormalizePeaks scales the sequence so its largest magnitude becomes
// 1. An all-zero sequence is returned unchanged.
func NormalizePeaks(peaks []float64) []float64 {
	var max float64
	for _, p := range peaks {
		if a := math.Abs(p); a > max {
			max = a
		}
	}
	if max == 0 {
		return peaks
	}
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p / max
	}
	return out
}

// ResamplePeaks maps the sequence to a new length by nearest-index
// selection. No interpolation; every output value exists in the input.
func ResamplePeaks(peaks []float64, target int) []float64 {
	if len(peaks) == 0 || target <= 0 {
		return []float64{}
	}
	out := make([]float64, target)
	for i := 0; i < target; i++ {
		idx := i * len(peaks) / target
		if idx >= len(peaks) {
			idx = len(peaks) - 1
		}
		out[i] = peaks[idx]
	}
	return out
}
