package volume

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the intensity distribution of a volume. P01 and P99 bound
// the central 98% of voxel intensities and drive percentile windowing, which
// keeps a handful of hot voxels from washing out the display.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P01    float64
	P99    float64
}

// Stats computes intensity statistics over every voxel. The quantiles are
// taken from the empirical distribution of a sorted copy; the volume data is
// not modified.
func (v *Volume) Stats() Stats {
	s := Stats{
		Min:    floats.Min(v.data),
		Max:    floats.Max(v.data),
		Mean:   stat.Mean(v.data, nil),
		StdDev: stat.StdDev(v.data, nil),
	}

	sorted := make([]float64, len(v.data))
	copy(sorted, v.data)
	sort.Float64s(sorted)
	s.P01 = stat.Quantile(0.01, stat.Empirical, sorted, nil)
	s.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	return s
}
