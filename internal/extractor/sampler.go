package extractor

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// Bytes-per-second heuristic for compressed audio. Drives the
	// duration estimate, which in turn fixes the peak count.
	bytesPerSecond = 20000

	minDurationSeconds = 30
	maxDurationSeconds = 600

	minPeakCount = 100
	maxPeakCount = 200

	// Stride sampling within a chunk. Reading every byte buys nothing
	// for a coarse visual waveform.
	sampleStride = 20
)

// EstimateDuration maps a compressed buffer length to a plausible track
// duration in seconds, floor- and ceiling-clamped.
func EstimateDuration(byteLen int) float64 {
	d := float64(byteLen) / bytesPerSecond
	if d < minDurationSeconds {
		return minDurationSeconds
	}
	if d > maxDurationSeconds {
		return maxDurationSeconds
	}
	return d
}

// PeakCount derives the output cardinality from an estimated duration:
// roughly one peak per second, bounded to [100, 200].
func PeakCount(durationSeconds float64) int {
	n := int(math.Floor(durationSeconds))
	if n < minPeakCount {
		return minPeakCount
	}
	if n > maxPeakCount {
		return maxPeakCount
	}
	return n
}

// SamplePeaks approximates per-slice amplitude from a compressed audio
// buffer without decoding it. Each of N contiguous chunks contributes
// the RMS of every 20th byte, centered on 128 and normalized to [0, 1],
// followed by a radius-1 moving-average smoothing pass.
//
// Treating compressed bytes as amplitude is a deliberate tradeoff:
// good enough for rendering, nowhere near PCM-accurate.
func SamplePeaks(data []byte) ([]float64, error) {
	if len(data) == 0 {
		return nil, errors.New("sampler: empty buffer")
	}

	duration := EstimateDuration(len(data))
	n := PeakCount(duration)

	chunkSize := len(data) / n
	if chunkSize == 0 {
		chunkSize = 1
	}

	peaks := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == n-1 || end > len(data) {
			end = len(data)
		}
		if start >= end {
			peaks[i] = 0
			continue
		}

		var sum float64
		var count int
		for j := start; j < end; j += sampleStride {
			centered := float64(data[j]) - 128
			sum += centered * centered
			count++
		}
		if count == 0 {
			peaks[i] = 0
			continue
		}
		rms := math.Sqrt(sum/float64(count)) / 128
		if rms > 1 {
			rms = 1
		}
		peaks[i] = rms
	}

	return smooth(peaks), nil
}

// smooth replaces each value with the mean of itself and its immediate
// neighbors, clipped at the boundaries.
func smooth(peaks []float64) []float64 {
	out := make([]float64, len(peaks))
	for i := range peaks {
		sum := peaks[i]
		count := 1.0
		if i > 0 {
			sum += peaks[i-1]
			count++
		}
		if i < len(peaks)-1 {
			sum += peaks[i+1]
			count++
		}
		out[i] = sum / count
	}
	return out
}
