package extractor

import "math"

// Pattern families for the procedural fallback. Selection is seed%4 so
// a given video id always renders the same placeholder shape.
const (
	patternSmoothWave = iota
	patternSharpPeaks
	patternGradualBuild
	patternRandomSpiky
	patternFamilyCount
)

const fadeFraction = 0.05

// SeedFromID folds an identifier string and a byte length into a
// bounded deterministic seed.
func SeedFromID(id string, byteLen int) uint32 {
	var h uint32
	for _, c := range id {
		h = h*31 + uint32(c)
	}
	return h ^ uint32(byteLen)
}

// pseudoRandom is a closed-form deterministic noise source. Identical
// (seed, i) always yields the same value in [0, 1).
func pseudoRandom(seed uint32, i int) float64 {
	x := math.Sin(float64(seed)*12.9898+float64(i)*78.233) * 43758.5453
	return x - math.Floor(x)
}

var patternFuncs = [patternFamilyCount]func(progress float64, seed uint32, i int) float64{
	patternSmoothWave: func(p float64, seed uint32, i int) float64 {
		base := 0.5 + 0.35*math.Sin(p*math.Pi*6+float64(seed%7))
		return base + 0.1*(pseudoRandom(seed, i)-0.5)
	},
	patternSharpPeaks: func(p float64, seed uint32, i int) float64 {
		base := 0.3 + 0.25*math.Sin(p*math.Pi*14+float64(seed%11))
		spike := 0.0
		if pseudoRandom(seed, i) > 0.82 {
			spike = 0.45 * pseudoRandom(seed, i+1)
		}
		return base + spike
	},
	patternGradualBuild: func(p float64, seed uint32, i int) float64 {
		base := 0.15 + 0.7*p
		return base + 0.12*math.Sin(p*math.Pi*10+float64(seed%5)) + 0.08*(pseudoRandom(seed, i)-0.5)
	},
	patternRandomSpiky: func(p float64, seed uint32, i int) float64 {
		return 0.2 + 0.6*pseudoRandom(seed, i) + 0.15*math.Sin(p*math.Pi*3+float64(seed%13))
	},
}

// Synthesize produces a deterministic placeholder waveform for a seed
// and buffer length. Identical arguments always produce bit-identical
// output.
func Synthesize(seed uint32, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}

	pattern := patternFuncs[seed%patternFamilyCount]
	fadeLen := float64(count) * fadeFraction

	peaks := make([]float64, count)
	for i := 0; i < count; i++ {
		progress := 0.0
		if count > 1 {
			progress = float64(i) / float64(count-1)
		}
		v := pattern(progress, seed, i)

		// Linear fade over the first and last 5% of the sequence.
		if fadeLen > 0 {
			if float64(i) < fadeLen {
				v *= float64(i) / fadeLen
			} else if float64(count-1-i) < fadeLen {
				v *= float64(count-1-i) / fadeLen
			}
		}

		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		peaks[i] = v
	}
	return peaks
}
