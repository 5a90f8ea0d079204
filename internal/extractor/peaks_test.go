package extractor

import (
	"math"
	"testing"
)

func TestNormalizePeaks(t *testing.T) {
	out := NormalizePeaks([]float64{0.2, -0.5, 0.1})
	if math.Abs(out[1]-(-1.0)) > 1e-9 {
		t.Errorf("largest magnitude should normalize to -1, got %f", out[1])
	}
	if math.Abs(out[0]-0.4) > 1e-9 {
		t.Errorf("got %f, want 0.4", out[0])
	}
}

func TestNormalizePeaksAllZero(t *testing.T) {
	in := []float64{0, 0, 0}
	out := NormalizePeaks(in)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("all-zero input should be unchanged, index %d = %f", i, v)
		}
	}
}

func TestResamplePeaks(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	cases := []struct {
		name   string
		target int
	}{
		{"downsample", 3},
		{"upsample", 10},
		{"identity length", 6},
		{"single value", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ResamplePeaks(in, tc.target)
			if len(out) != tc.target {
				t.Fatalf("got length %d, want %d", len(out), tc.target)
			}
			// Nearest-index resampling never invents values.
			for i, v := range out {
				found := false
				for _, orig := range in {
					if v == orig {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("output value %f at %d not present in input", v, i)
				}
			}
		})
	}
}

func TestResamplePeaksEmptyInput(t *testing.T) {
	if out := ResamplePeaks(nil, 5); len(out) != 0 {
		t.Fatalf("expected empty output for empty input, got %d", len(out))
	}
	if out := ResamplePeaks([]float64{1}, 0); len(out) != 0 {
		t.Fatalf("expected empty output for zero target, got %d", len(out))
	}
}
