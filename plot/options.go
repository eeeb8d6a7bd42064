package plot

import (
	"errors"
	"fmt"

	"easyplot/canvas"
)

var (
	// ErrLegendLabels is returned when explicit legend labels do not match
	// the number of drawn series.
	ErrLegendLabels = canvas.ErrLegendLabels

	// ErrBarType is returned for a bar type other than grouped or stacked.
	ErrBarType = errors.New("unknown bar type")

	// ErrBarWidth is returned for a bar width outside (0, 1].
	ErrBarWidth = errors.New("bar width out of range")
)

// Legend selects when a legend is drawn.
type Legend int

const (
	// LegendAuto shows a legend when more than one named series is drawn.
	LegendAuto Legend = iota
	LegendOn
	LegendOff
)

// BarType selects how multiple bar series share an x position.
type BarType string

const (
	BarGrouped BarType = "grouped"
	BarStacked BarType = "stacked"
)

// Default cosmetic settings.
const (
	DefaultXLabel   = "X Axis"
	DefaultYLabel   = "Y Axis"
	DefaultBarWidth = 0.8
	gridAlpha       = 0.3
)

type options struct {
	x            XValues
	xLabel       string
	yLabel       string
	title        string
	legend       Legend
	legendLabels []string
	savePath     string
	size         canvas.Size
	style        string
	grid         bool
	draw         canvas.DrawOptions
	barType      BarType
	width        float64
}

// Option customizes a single PlotLine or PlotBar call.
type Option func(*options)

func newOptions(title string, opts []Option) options {
	o := options{
		xLabel:  DefaultXLabel,
		yLabel:  DefaultYLabel,
		title:   title,
		size:    canvas.DefaultSize,
		grid:    true,
		barType: BarGrouped,
		width:   DefaultBarWidth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) validateBar() error {
	switch o.barType {
	case BarGrouped, BarStacked:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrBarType, o.barType, BarGrouped, BarStacked)
	}
	if o.width <= 0 || o.width > 1 {
		return fmt.Errorf("%w: %v", ErrBarWidth, o.width)
	}
	return nil
}

// WithX sets the x axis for flat series, named series and series lists.
// Paired shapes carry their own x axis and ignore it.
func WithX(x XValues) Option {
	return func(o *options) { o.x = x }
}

// WithXLabel sets the x axis label.
func WithXLabel(label string) Option {
	return func(o *options) { o.xLabel = label }
}

// WithYLabel sets the y axis label.
func WithYLabel(label string) Option {
	return func(o *options) { o.yLabel = label }
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithLegend forces the legend on or off.
func WithLegend(show bool) Option {
	return func(o *options) {
		o.legendLabels = nil
		if show {
			o.legend = LegendOn
		} else {
			o.legend = LegendOff
		}
	}
}

// WithLegendLabels shows a legend whose labels replace the series names
// positionally. The number of labels must equal the number of series.
func WithLegendLabels(labels ...string) Option {
	return func(o *options) {
		o.legend = LegendOn
		o.legendLabels = append([]string{}, labels...)
	}
}

// WithSavePath saves the figure after drawing. The format follows the
// extension; gs://bucket/object paths are uploaded to Cloud Storage.
func WithSavePath(path string) Option {
	return func(o *options) { o.savePath = path }
}

// WithSize sets the figure size in inches.
func WithSize(width, height float64) Option {
	return func(o *options) { o.size = canvas.Size{Width: width, Height: height} }
}

// WithStyle selects a style preset by name.
func WithStyle(name string) Option {
	return func(o *options) { o.style = name }
}

// WithGrid turns gridlines on or off.
func WithGrid(show bool) Option {
	return func(o *options) { o.grid = show }
}

// WithDrawOptions sets the options forwarded to every series draw call.
func WithDrawOptions(d canvas.DrawOptions) Option {
	return func(o *options) { o.draw = d }
}

// WithBarType selects grouped or stacked bars. PlotLine ignores it.
func WithBarType(t BarType) Option {
	return func(o *options) { o.barType = t }
}

// WithWidth sets the total bar width per x position, in (0, 1].
// PlotLine ignores it.
func WithWidth(width float64) Option {
	return func(o *options) { o.width = width }
}
