package compositor

// BlendWeighted mixes two equal-length intensity arrays element-wise as
// (1-t)*base + t*overlay, saturating each result to [0, 1]. t=0 reproduces
// base exactly and t=1 reproduces overlay exactly. t is not range-checked;
// values outside [0, 1] weight one input negatively and rely on the final
// saturation, matching the classic weighted-add primitive.
func BlendWeighted(base, overlay []float64, t float64) []float64 {
	out := make([]float64, len(base))
	wb, wo := 1-t, t
	for i := range base {
		v := wb*base[i] + wo*overlay[i]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}
