package compositor

import (
	"math"
	"testing"
)

// TestBlendWeightedEndpoints verifies that t=0 and t=1 reproduce an input
// exactly, bit for bit
func TestBlendWeightedEndpoints(t *testing.T) {
	base := []float64{0, 0.2, 0.5, 0.8, 1}
	overlay := []float64{1, 0.6, 0.5, 0.1, 0}

	atZero := BlendWeighted(base, overlay, 0)
	for i := range base {
		if atZero[i] != base[i] {
			t.Errorf("Expected t=0 to reproduce base at %d: expected %v, got %v",
				i, base[i], atZero[i])
		}
	}

	atOne := BlendWeighted(base, overlay, 1)
	for i := range overlay {
		if atOne[i] != overlay[i] {
			t.Errorf("Expected t=1 to reproduce overlay at %d: expected %v, got %v",
				i, overlay[i], atOne[i])
		}
	}
}

// TestBlendWeightedMix verifies the linear mix at an interior weight
func TestBlendWeightedMix(t *testing.T) {
	base := []float64{0.2, 0.8}
	overlay := []float64{0.6, 0.4}

	out := BlendWeighted(base, overlay, 0.25)

	want := []float64{0.75*0.2 + 0.25*0.6, 0.75*0.8 + 0.25*0.4}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("Expected out[%d] = %f, got %f", i, want[i], out[i])
		}
	}
}

// TestBlendWeightedSaturates verifies that out-of-range weights saturate the
// result instead of overflowing it
func TestBlendWeightedSaturates(t *testing.T) {
	base := []float64{1, 0}
	overlay := []float64{0, 1}

	// t=-1 doubles the base weight and negates the overlay
	out := BlendWeighted(base, overlay, -1)

	if out[0] != 1 {
		t.Errorf("Expected saturation at 1, got %f", out[0])
	}
	if out[1] != 0 {
		t.Errorf("Expected saturation at 0, got %f", out[1])
	}
}
