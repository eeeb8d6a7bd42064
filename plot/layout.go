package plot

// groupedLayout splits width between s side-by-side series. Offsets are
// symmetric around the tick, so they sum to zero.
func groupedLayout(width float64, s int) (barWidth float64, offsets []float64) {
	if s == 0 {
		return 0, nil
	}
	barWidth = width / float64(s)
	offsets = make([]float64, s)
	for i := range offsets {
		offsets[i] = (float64(i) - float64(s)/2 + 0.5) * barWidth
	}
	return barWidth, offsets
}

func shift(xs []float64, by float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x + by
	}
	return out
}

// accumulate adds y into bottom element-wise. Both have the same length.
func accumulate(bottom, y []float64) {
	for i := range bottom {
		bottom[i] += y[i]
	}
}
