package volume

import (
	"math"
	"testing"
)

// TestVolumeStats verifies the intensity summary against values computed
// directly from the voxel data
func TestVolumeStats(t *testing.T) {
	nz, nx, ny := 4, 5, 5
	vol, err := New(nz, nx, ny)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}

	// Fill with a ramp so every statistic has a closed form
	n := vol.NumVoxels()
	for i, v := 0, 0.0; i < n; i++ {
		z := i / (nx * ny)
		rem := i % (nx * ny)
		vol.SetAt(z, rem/ny, rem%ny, v)
		v++
	}

	s := vol.Stats()

	if s.Min != 0 {
		t.Errorf("Expected min 0, got %f", s.Min)
	}
	if s.Max != float64(n-1) {
		t.Errorf("Expected max %d, got %f", n-1, s.Max)
	}

	wantMean := float64(n-1) / 2
	if math.Abs(s.Mean-wantMean) > 1e-9 {
		t.Errorf("Expected mean %f, got %f", wantMean, s.Mean)
	}

	// Sample standard deviation computed the long way
	var sumSq float64
	for _, x := range vol.Data() {
		d := x - wantMean
		sumSq += d * d
	}
	wantStd := math.Sqrt(sumSq / float64(n-1))
	if math.Abs(s.StdDev-wantStd) > 1e-9 {
		t.Errorf("Expected std dev %f, got %f", wantStd, s.StdDev)
	}

	// Percentiles bound the bulk of the distribution
	if s.P01 < s.Min || s.P01 > s.Mean {
		t.Errorf("Expected P01 between min and mean, got %f", s.P01)
	}
	if s.P99 > s.Max || s.P99 < s.Mean {
		t.Errorf("Expected P99 between mean and max, got %f", s.P99)
	}
	if s.P01 >= s.P99 {
		t.Errorf("Expected P01 < P99, got %f >= %f", s.P01, s.P99)
	}
}

// TestVolumeStatsOutliers verifies that the percentile window excludes a
// handful of hot voxels that would otherwise set the display range
func TestVolumeStatsOutliers(t *testing.T) {
	vol, err := New(10, 10, 10)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}

	// Mostly mid-gray with two extreme outliers
	data := vol.Data()
	for i := range data {
		data[i] = 0.5
	}
	vol.SetAt(0, 0, 0, -1000)
	vol.SetAt(9, 9, 9, 1000)

	s := vol.Stats()

	if s.Min != -1000 || s.Max != 1000 {
		t.Errorf("Expected min/max -1000/1000, got %f/%f", s.Min, s.Max)
	}

	// With 998 of 1000 voxels at 0.5 the central percentiles sit on 0.5
	if s.P01 != 0.5 {
		t.Errorf("Expected P01 to ignore the low outlier, got %f", s.P01)
	}
	if s.P99 != 0.5 {
		t.Errorf("Expected P99 to ignore the high outlier, got %f", s.P99)
	}
}
