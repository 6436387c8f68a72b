package volume

// RescaleLinear linearly remaps the value range of data to [lo, hi] and
// returns the result as a new array:
//
//	out = lo + (hi - lo) * (x - min) / (max - min)
//
// It is applied before comparison and overlay rendering so that intensities
// from scanners with different dynamic ranges become comparable. When every
// element is equal (max == min) the mapping is undefined, so the array is
// filled with the constant lo instead of dividing by zero.
func RescaleLinear(data []float64, lo, hi float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	min, max := data[0], data[0]
	for _, x := range data[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}

	if max == min {
		for i := range out {
			out[i] = lo
		}
		return out
	}

	scale := (hi - lo) / (max - min)
	for i, x := range data {
		out[i] = lo + scale*(x-min)
	}
	return out
}
