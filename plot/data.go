package plot

import (
	"sort"
	"strconv"
)

// Data is the input of PlotLine and PlotBar. It is implemented by
// FlatSeries, NamedSeries, PairedXNamed, PairedXY and SeriesList.
type Data interface {
	shape() string
}

// Series is one named sequence of y values.
type Series struct {
	Name string
	Y    []float64
}

// XValues is an x axis given either as numbers or as category labels.
// The zero value means "no x axis"; index positions are used instead.
type XValues struct {
	numbers []float64
	labels  []string
	set     bool
}

// Numbers returns a numeric x axis.
func Numbers(v ...float64) XValues {
	return XValues{numbers: append([]float64(nil), v...), set: true}
}

// Labels returns a categorical x axis.
func Labels(v ...string) XValues {
	return XValues{labels: append([]string{}, v...), set: true}
}

// IsSet reports whether an x axis was given.
func (x XValues) IsSet() bool { return x.set }

// Len returns the number of x values.
func (x XValues) Len() int {
	if x.labels != nil {
		return len(x.labels)
	}
	return len(x.numbers)
}

// IsCategorical reports whether the axis holds labels rather than numbers.
func (x XValues) IsCategorical() bool { return x.labels != nil }

// Label returns the tick label for position i.
func (x XValues) Label(i int) string {
	if x.labels != nil {
		return x.labels[i]
	}
	return strconv.FormatFloat(x.numbers[i], 'g', -1, 64)
}

// FlatSeries is a single unnamed series.
type FlatSeries struct {
	Y []float64
}

// NamedSeries is an ordered set of named series.
type NamedSeries struct {
	Series []Series
}

// PairedXNamed is named series sharing an explicit x axis.
type PairedXNamed struct {
	X      XValues
	Series []Series
}

// PairedXY is a single unnamed series with an explicit x axis.
type PairedXY struct {
	X XValues
	Y []float64
}

// SeriesList is unnamed series labelled "Series 1", "Series 2", ...
type SeriesList struct {
	Y [][]float64
}

func (FlatSeries) shape() string   { return "flat series" }
func (NamedSeries) shape() string  { return "named series" }
func (PairedXNamed) shape() string { return "(x, named series) pair" }
func (PairedXY) shape() string     { return "(x, y) pair" }
func (SeriesList) shape() string   { return "series list" }

// Flat returns a FlatSeries.
func Flat(y ...float64) FlatSeries {
	return FlatSeries{Y: y}
}

// Named returns a NamedSeries in the given order.
func Named(series ...Series) NamedSeries {
	return NamedSeries{Series: series}
}

// NamedMap returns a NamedSeries from a Go map. Maps are unordered, so the
// series are sorted by name.
func NamedMap(m map[string][]float64) NamedSeries {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	series := make([]Series, 0, len(names))
	for _, name := range names {
		series = append(series, Series{Name: name, Y: m[name]})
	}
	return NamedSeries{Series: series}
}

// XNamed returns a PairedXNamed.
func XNamed(x XValues, series ...Series) PairedXNamed {
	return PairedXNamed{X: x, Series: series}
}

// XY returns a PairedXY.
func XY(x XValues, y ...float64) PairedXY {
	return PairedXY{X: x, Y: y}
}

// List returns a SeriesList.
func List(y ...[]float64) SeriesList {
	return SeriesList{Y: y}
}
