// Package canvas is the drawing surface the plot functions draw on.
//
// A Figure owns a single Axes. Draw calls on the Axes are validated and
// recorded into a Scene; a Renderer turns the Scene into an encoded image.
package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"easyplot/style"
)

var (
	// ErrLengthMismatch is returned by draw calls whose sequences differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrLegendLabels is returned when explicit legend labels do not match the drawn series.
	ErrLegendLabels = errors.New("legend labels do not match series")

	// ErrUnsupportedFormat is returned when no renderer handles an output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrEmptyFigure is returned by renderers that cannot encode a figure without series.
	ErrEmptyFigure = errors.New("figure has no series")

	// ErrUnknownOption is returned by renderers for unknown keys in their Extra namespace.
	ErrUnknownOption = errors.New("unknown draw option")

	// ErrInvalidOption is returned by renderers for Extra values of the wrong type.
	ErrInvalidOption = errors.New("invalid draw option")
)

// DefaultDPI is the resolution figures are saved at.
const DefaultDPI = 300

// Size is a figure size in inches.
type Size struct {
	Width  float64
	Height float64
}

// DefaultSize matches a 10x6 inch figure.
var DefaultSize = Size{Width: 10, Height: 6}

// Kind distinguishes the recorded series types.
type Kind int

const (
	KindLine Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	default:
		return "unknown"
	}
}

// Series is one recorded draw call.
type Series struct {
	Kind  Kind
	Label string
	X     []float64
	Y     []float64
	// Bottom holds the base of each bar; nil for unstacked bars and lines.
	Bottom []float64
	Width  float64
	Color  color.RGBA
	// Edge is the resolved outline color; zero when no outline was requested.
	Edge    color.RGBA
	Options DrawOptions
}

// Top returns the upper edge of bar i.
func (s *Series) Top(i int) float64 {
	if s.Bottom == nil {
		return s.Y[i]
	}
	return s.Bottom[i] + s.Y[i]
}

// Base returns the lower edge of bar i.
func (s *Series) Base(i int) float64 {
	if s.Bottom == nil {
		return 0
	}
	return s.Bottom[i]
}

// Tick is a labelled position on the x axis.
type Tick struct {
	Value float64
	Label string
}

// GridAxis selects which gridlines are drawn.
type GridAxis int

const (
	GridBoth GridAxis = iota
	GridX
	GridY
)

// Grid describes requested gridlines.
type Grid struct {
	Visible bool
	Axis    GridAxis
	Alpha   float64
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Label string
	Kind  Kind
	Color color.RGBA
}

// Scene is everything drawn on an Axes.
type Scene struct {
	Title  string
	XLabel string
	YLabel string
	Series []*Series
	XTicks []Tick
	Legend []LegendEntry
	// ShowLegend is set once Legend has been called.
	ShowLegend bool
	Grid       Grid
	Tight      bool
}

// Figure is the top-level drawing surface.
type Figure struct {
	Size  Size
	Theme style.Theme
	axes  *Axes
}

// NewFigure creates a figure with a single Axes.
func NewFigure(size Size, theme style.Theme) (*Figure, *Axes) {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	f := &Figure{Size: size, Theme: theme}
	f.axes = &Axes{figure: f, scene: &Scene{}}
	return f, f.axes
}

// Axes returns the figure's axes.
func (f *Figure) Axes() *Axes { return f.axes }

// Scene returns the recorded scene.
func (f *Figure) Scene() *Scene { return f.axes.scene }

// Pixels returns the pixel dimensions of the figure at dpi.
func (f *Figure) Pixels(dpi float64) (int, int) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return int(math.Round(f.Size.Width * dpi)), int(math.Round(f.Size.Height * dpi))
}

// Save encodes the figure in format using the matching renderer.
func (f *Figure) Save(w io.Writer, renderers *Renderers, format Format, dpi float64) error {
	r, err := renderers.Lookup(format)
	if err != nil {
		return err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if err := r.Render(w, f, format, dpi); err != nil {
		return fmt.Errorf("%s: render %s: %w", r.Name(), format, err)
	}
	return nil
}

// Axes records draw calls for a figure.
type Axes struct {
	figure *Figure
	scene  *Scene
}

// Figure returns the owning figure.
func (a *Axes) Figure() *Figure { return a.figure }

// Plot draws a line through (x[i], y[i]).
func (a *Axes) Plot(x, y []float64, opts DrawOptions) (*Series, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x has %d values, y has %d", ErrLengthMismatch, len(x), len(y))
	}
	s, err := a.newSeries(KindLine, opts)
	if err != nil {
		return nil, err
	}
	s.X = append([]float64(nil), x...)
	s.Y = append([]float64(nil), y...)
	a.scene.Series = append(a.scene.Series, s)
	return s, nil
}

// Bar draws one bar of the given width centered at each x.
// bottom may be nil; otherwise each bar starts at bottom[i].
func (a *Axes) Bar(x, height []float64, width float64, bottom []float64, opts DrawOptions) (*Series, error) {
	if len(x) != len(height) {
		return nil, fmt.Errorf("%w: x has %d values, height has %d", ErrLengthMismatch, len(x), len(height))
	}
	if bottom != nil && len(bottom) != len(x) {
		return nil, fmt.Errorf("%w: x has %d values, bottom has %d", ErrLengthMismatch, len(x), len(bottom))
	}
	s, err := a.newSeries(KindBar, opts)
	if err != nil {
		return nil, err
	}
	s.X = append([]float64(nil), x...)
	s.Y = append([]float64(nil), height...)
	if bottom != nil {
		s.Bottom = append([]float64(nil), bottom...)
	}
	s.Width = width
	a.scene.Series = append(a.scene.Series, s)
	return s, nil
}

func (a *Axes) newSeries(kind Kind, opts DrawOptions) (*Series, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	theme := a.figure.Theme
	c := theme.SeriesColor(len(a.scene.Series))
	if opts.Color != "" {
		parsed, err := style.ParseColor(opts.Color, theme)
		if err != nil {
			return nil, err
		}
		c = parsed
	}
	s := &Series{Kind: kind, Color: style.WithAlpha(c, opts.Opacity()), Options: opts}
	switch {
	case opts.EdgeColor != "":
		edge, err := style.ParseColor(opts.EdgeColor, theme)
		if err != nil {
			return nil, err
		}
		s.Edge = edge
	case opts.EdgeWidth > 0:
		s.Edge = theme.Foreground
	}
	return s, nil
}

// SetTitle sets the axes title.
func (a *Axes) SetTitle(title string) { a.scene.Title = title }

// SetXLabel sets the x axis label.
func (a *Axes) SetXLabel(label string) { a.scene.XLabel = label }

// SetYLabel sets the y axis label.
func (a *Axes) SetYLabel(label string) { a.scene.YLabel = label }

// SetXTicks replaces the x tick positions and labels.
func (a *Axes) SetXTicks(ticks []Tick) {
	a.scene.XTicks = append([]Tick(nil), ticks...)
}

// Legend shows a legend. With no labels, entries come from labelled series.
// Otherwise labels rename the series positionally and their count must equal
// the number of series.
func (a *Axes) Legend(labels ...string) error {
	series := a.scene.Series
	if len(labels) > 0 {
		if len(labels) != len(series) {
			return fmt.Errorf("%w: %d labels for %d series", ErrLegendLabels, len(labels), len(series))
		}
		for i, s := range series {
			s.Label = labels[i]
		}
	}
	entries := make([]LegendEntry, 0, len(series))
	for _, s := range series {
		if s.Label == "" {
			continue
		}
		entries = append(entries, LegendEntry{Label: s.Label, Kind: s.Kind, Color: s.Color})
	}
	a.scene.Legend = entries
	a.scene.ShowLegend = true
	return nil
}

// Grid turns on gridlines for axis at the given opacity.
func (a *Axes) Grid(axis GridAxis, alpha float64) {
	a.scene.Grid = Grid{Visible: true, Axis: axis, Alpha: alpha}
}

// TightLayout asks the renderer to fit the plot area to its decorations.
func (a *Axes) TightLayout() { a.scene.Tight = true }
