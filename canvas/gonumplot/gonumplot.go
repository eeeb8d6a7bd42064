// Package gonumplot renders figures with gonum.org/v1/plot.
//
// It is the only renderer that writes PDF and JPEG, and it can replace the
// go-chart renderer for PNG and SVG when EASYPLOT_BACKEND=gonum.
package gonumplot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"easyplot/canvas"
	"easyplot/style"
)

// Name is the renderer name and its Extra option namespace.
const Name = "gonum"

const defaultMarkerSize = 6 // points

// Renderer draws figures in every raster and vector format gonum supports.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Formats() []canvas.Format {
	return []canvas.Format{canvas.PNG, canvas.SVG, canvas.PDF, canvas.JPEG}
}

// Render encodes fig in format. Raster formats honor dpi; vector formats are
// sized in points and ignore it.
func (r *Renderer) Render(w io.Writer, fig *canvas.Figure, format canvas.Format, dpi float64) error {
	if len(fig.Scene().Series) == 0 {
		return canvas.ErrEmptyFigure
	}
	p, err := r.buildPlot(fig)
	if err != nil {
		return err
	}

	width := vg.Length(fig.Size.Width) * vg.Inch
	height := vg.Length(fig.Size.Height) * vg.Inch

	var out io.WriterTo
	switch format {
	case canvas.PNG, canvas.JPEG:
		c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(int(dpi)))
		p.Draw(draw.New(c))
		if format == canvas.PNG {
			out = vgimg.PngCanvas{Canvas: c}
		} else {
			out = vgimg.JpegCanvas{Canvas: c}
		}
	case canvas.SVG:
		c := vgsvg.New(width, height)
		p.Draw(draw.New(c))
		out = c
	case canvas.PDF:
		c := vgpdf.New(width, height)
		p.Draw(draw.New(c))
		out = c
	default:
		return fmt.Errorf("%w: %s", canvas.ErrUnsupportedFormat, format)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

// buildPlot translates the recorded scene into a gonum plot
func (r *Renderer) buildPlot(fig *canvas.Figure) (*plot.Plot, error) {
	scene := fig.Scene()
	theme := fig.Theme

	fontSize := theme.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	titleSize := theme.TitleSize
	if titleSize <= 0 {
		titleSize = fontSize * 1.2
	}
	fg := nrgba(theme.Foreground)

	p := plot.New()
	p.BackgroundColor = nrgba(theme.AxesBackground)
	p.Title.Text = scene.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	p.Title.TextStyle.Color = fg
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(fontSize)
		ax.Label.TextStyle.Color = fg
		ax.Tick.Label.Font.Size = vg.Points(fontSize * 0.9)
		ax.Tick.Label.Color = fg
		ax.Tick.LineStyle.Color = fg
		ax.LineStyle.Color = fg
	}
	p.X.Label.Text = scene.XLabel
	p.Y.Label.Text = scene.YLabel

	if len(scene.XTicks) > 0 {
		ticks := make(plot.ConstantTicks, 0, len(scene.XTicks))
		for _, t := range scene.XTicks {
			ticks = append(ticks, plot.Tick{Value: t.Value, Label: t.Label})
		}
		p.X.Tick.Marker = ticks
	}

	if scene.Grid.Visible {
		p.Add(newGrid(scene.Grid, theme))
	}

	thumbs := make([]plot.Thumbnailer, 0, len(scene.Series))
	for i, s := range scene.Series {
		if err := s.Options.CheckExtra(Name, "step"); err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		var (
			ps    []plot.Plotter
			thumb plot.Thumbnailer
			err   error
		)
		switch s.Kind {
		case canvas.KindLine:
			ps, thumb, err = lineSeries(s, theme)
		case canvas.KindBar:
			bars := newBars(s)
			ps, thumb = []plot.Plotter{bars}, bars
		}
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		p.Add(ps...)
		thumbs = append(thumbs, thumb)
	}

	if scene.ShowLegend && len(scene.Legend) > 0 {
		p.Legend.Top = true
		p.Legend.TextStyle.Color = fg
		p.Legend.TextStyle.Font.Size = vg.Points(fontSize * 0.8)
		for i, s := range scene.Series {
			if s.Label != "" {
				p.Legend.Add(s.Label, thumbs[i])
			}
		}
	}

	// Set after Add so the padded limits win over the plotters' data ranges.
	if xmin, xmax, ymin, ymax, ok := scene.Limits(); ok {
		p.X.Min, p.X.Max = xmin, xmax
		p.Y.Min, p.Y.Max = ymin, ymax
	}
	return p, nil
}

func newGrid(g canvas.Grid, theme style.Theme) *plotter.Grid {
	grid := plotter.NewGrid()
	c := nrgba(style.WithAlpha(theme.GridColor, g.Alpha))
	grid.Vertical.Color = c
	grid.Horizontal.Color = c
	grid.Vertical.Width = vg.Points(0.8)
	grid.Horizontal.Width = vg.Points(0.8)
	switch g.Axis {
	case canvas.GridX:
		grid.Horizontal.Color = nil
	case canvas.GridY:
		grid.Vertical.Color = nil
	}
	return grid
}

func lineSeries(s *canvas.Series, theme style.Theme) ([]plot.Plotter, plot.Thumbnailer, error) {
	pts := make(plotter.XYs, len(s.X))
	for i := range s.X {
		pts[i].X, pts[i].Y = s.X[i], s.Y[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create line: %w", err)
	}
	c := nrgba(s.Color)
	width := s.Options.LineWidth
	if width == 0 {
		width = theme.LineWidth
	}
	line.Color = c
	line.Width = vg.Points(width)
	for _, d := range s.Options.Dashes() {
		line.Dashes = append(line.Dashes, vg.Points(d*width))
	}

	switch step := s.Options.ExtraFor(Name)["step"]; step {
	case nil:
	case "pre":
		line.StepStyle = plotter.PreStep
	case "mid":
		line.StepStyle = plotter.MidStep
	case "post":
		line.StepStyle = plotter.PostStep
	default:
		return nil, nil, fmt.Errorf("%w: %s.step=%v", canvas.ErrUnknownOption, Name, step)
	}

	ps := []plot.Plotter{line}
	if s.Options.Marker != canvas.MarkerNone {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create markers: %w", err)
		}
		size := s.Options.MarkerSize
		if size == 0 {
			size = defaultMarkerSize
		}
		scatter.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(size / 2), Shape: draw.CircleGlyph{}}
		if s.Options.Marker == canvas.MarkerSquare {
			scatter.GlyphStyle.Shape = draw.BoxGlyph{}
		}
		if s.Options.Marker == canvas.MarkerPoint {
			scatter.GlyphStyle.Radius = vg.Points(size / 4)
		}
		ps = append(ps, scatter)
	}
	return ps, line, nil
}

// nrgba converts a straight-alpha theme color to the non-premultiplied type
// gonum expects.
func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
