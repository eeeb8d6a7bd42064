package plot

import (
	"fmt"
	"strconv"

	"easyplot/canvas"
)

// normalized is the uniform form every data shape is reduced to.
type normalized struct {
	x      XValues
	series []Series
}

// named counts the series that carry a name.
func (n normalized) named() int {
	count := 0
	for _, s := range n.series {
		if s.Name != "" {
			count++
		}
	}
	return count
}

// length is the number of x positions: the explicit x axis, or the length of
// the first series.
func (n normalized) length() int {
	if n.x.IsSet() {
		return n.x.Len()
	}
	if len(n.series) == 0 {
		return 0
	}
	return len(n.series[0].Y)
}

func normalize(data Data, x XValues) (normalized, error) {
	switch d := data.(type) {
	case FlatSeries:
		return normalized{x: x, series: []Series{{Y: d.Y}}}, nil
	case NamedSeries:
		return normalized{x: x, series: d.Series}, nil
	case PairedXNamed:
		return normalized{x: d.X, series: d.Series}, nil
	case PairedXY:
		return normalized{x: d.X, series: []Series{{Y: d.Y}}}, nil
	case SeriesList:
		series := make([]Series, len(d.Y))
		for i, y := range d.Y {
			series[i] = Series{Name: fmt.Sprintf("Series %d", i+1), Y: y}
		}
		return normalized{x: x, series: series}, nil
	case nil:
		return normalized{}, fmt.Errorf("%w: nil data", ErrUnknownShape)
	default:
		return normalized{}, fmt.Errorf("%w: %T", ErrUnknownShape, data)
	}
}

// lineAxis returns the x coordinates shared by all line series. Categorical
// axes are drawn at 0..N-1 with the labels as ticks.
func lineAxis(n normalized) ([]float64, []canvas.Tick) {
	if n.x.IsSet() && !n.x.IsCategorical() {
		return append([]float64(nil), n.x.numbers...), nil
	}
	xs := positions(n.length())
	if !n.x.IsCategorical() {
		return xs, nil
	}
	return xs, ticks(n.x, len(xs))
}

// barAxis returns the integer bar positions and their tick labels.
func barAxis(n normalized) ([]float64, []canvas.Tick) {
	xs := positions(n.length())
	return xs, ticks(n.x, len(xs))
}

func positions(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func ticks(x XValues, n int) []canvas.Tick {
	out := make([]canvas.Tick, n)
	for i := range out {
		label := strconv.Itoa(i)
		if x.IsSet() {
			label = x.Label(i)
		}
		out[i] = canvas.Tick{Value: float64(i), Label: label}
	}
	return out
}

func seriesRef(i int, s Series) string {
	if s.Name != "" {
		return fmt.Sprintf("series %q", s.Name)
	}
	return fmt.Sprintf("series %d", i+1)
}
