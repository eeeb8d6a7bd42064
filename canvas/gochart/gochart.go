// Package gochart renders figures with github.com/wcharczuk/go-chart/v2.
package gochart

import (
	"fmt"
	"image/color"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"easyplot/canvas"
	"easyplot/style"
)

// Name is the renderer name and its Extra option namespace.
const Name = "gochart"

const defaultMarkerSize = 6 // points

// Renderer draws PNG and SVG figures.
type Renderer struct{}

// New creates a go-chart renderer
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Formats() []canvas.Format {
	return []canvas.Format{canvas.PNG, canvas.SVG}
}

// Render encodes fig as PNG or SVG
func (r *Renderer) Render(w io.Writer, fig *canvas.Figure, format canvas.Format, dpi float64) error {
	var provider chart.RendererProvider
	switch format {
	case canvas.PNG:
		provider = chart.PNG
	case canvas.SVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %s", canvas.ErrUnsupportedFormat, format)
	}

	if len(fig.Scene().Series) == 0 {
		return canvas.ErrEmptyFigure
	}
	graph, err := r.buildChart(fig, dpi)
	if err != nil {
		return err
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// buildChart translates the recorded scene into a go-chart Chart
func (r *Renderer) buildChart(fig *canvas.Figure, dpi float64) (*chart.Chart, error) {
	scene := fig.Scene()
	theme := fig.Theme
	width, height := fig.Pixels(dpi)
	px := func(points float64) float64 { return points * dpi / 72 }

	textColor := toDrawing(theme.Foreground)
	fontSize := theme.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	titleSize := theme.TitleSize
	if titleSize <= 0 {
		titleSize = fontSize * 1.2
	}

	graph := &chart.Chart{
		Title: scene.Title,
		TitleStyle: chart.Style{
			FontSize:  titleSize,
			FontColor: textColor,
		},
		Width:  width,
		Height: height,
		DPI:    dpi,
		Background: chart.Style{
			FillColor: toDrawing(theme.Background),
			Padding: chart.Box{
				Top:    int(px(titleSize * 2.5)),
				Left:   int(px(fontSize)),
				Right:  int(px(fontSize)),
				Bottom: int(px(fontSize)),
			},
		},
		Canvas: chart.Style{
			FillColor: toDrawing(theme.AxesBackground),
		},
		XAxis: chart.XAxis{
			Name:      scene.XLabel,
			NameStyle: chart.Style{FontSize: fontSize, FontColor: textColor},
			Style: chart.Style{
				FontSize:    fontSize * 0.9,
				FontColor:   textColor,
				StrokeColor: textColor,
			},
		},
		YAxis: chart.YAxis{
			Name:      scene.YLabel,
			NameStyle: chart.Style{FontSize: fontSize, FontColor: textColor},
			Style: chart.Style{
				FontSize:    fontSize * 0.9,
				FontColor:   textColor,
				StrokeColor: textColor,
			},
		},
	}

	if len(scene.XTicks) > 0 {
		ticks := make([]chart.Tick, 0, len(scene.XTicks))
		for _, t := range scene.XTicks {
			ticks = append(ticks, chart.Tick{Value: t.Value, Label: t.Label})
		}
		graph.XAxis.Ticks = ticks
	}

	applyGrid(graph, scene.Grid, theme, px)

	if xmin, xmax, ymin, ymax, ok := scene.Limits(); ok {
		graph.XAxis.Range = &chart.ContinuousRange{Min: xmin, Max: xmax}
		graph.YAxis.Range = &chart.ContinuousRange{Min: ymin, Max: ymax}
	}

	for i, s := range scene.Series {
		if err := s.Options.CheckExtra(Name, "dot_width", "stroke_dash"); err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		if _, _, err := s.Options.ExtraNumber(Name, "dot_width"); err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		if _, _, err := s.Options.ExtraNumbers(Name, "stroke_dash"); err != nil {
			return nil, fmt.Errorf("series %d: %w", i, err)
		}
		switch s.Kind {
		case canvas.KindLine:
			graph.Series = append(graph.Series, lineSeries(s, theme, px))
		case canvas.KindBar:
			graph.Series = append(graph.Series, newBarSeries(s, px))
		}
	}

	if scene.ShowLegend && len(scene.Legend) > 0 {
		legendSource := chart.Chart{}
		for _, e := range scene.Legend {
			legendSource.Series = append(legendSource.Series, legendOnlySeries{
				name:  e.Label,
				color: toDrawing(e.Color),
				width: px(theme.LineWidth * 2),
			})
		}
		graph.Elements = []chart.Renderable{
			chart.Legend(&legendSource, chart.Style{
				FontSize:    fontSize * 0.8,
				FontColor:   textColor,
				FillColor:   toDrawing(theme.AxesBackground),
				StrokeColor: textColor,
			}),
		}
	}

	return graph, nil
}

// applyGrid configures major gridlines; minor gridlines are never drawn
func applyGrid(graph *chart.Chart, g canvas.Grid, theme style.Theme, px func(float64) float64) {
	hidden := chart.Style{Hidden: true}
	graph.XAxis.GridMajorStyle = hidden
	graph.XAxis.GridMinorStyle = hidden
	graph.YAxis.GridMajorStyle = hidden
	graph.YAxis.GridMinorStyle = hidden
	if !g.Visible {
		return
	}
	line := chart.Style{
		StrokeColor: toDrawing(style.WithAlpha(theme.GridColor, g.Alpha)),
		StrokeWidth: px(0.8),
	}
	if g.Axis == canvas.GridBoth || g.Axis == canvas.GridX {
		graph.XAxis.GridMajorStyle = line
	}
	if g.Axis == canvas.GridBoth || g.Axis == canvas.GridY {
		graph.YAxis.GridMajorStyle = line
	}
}

func lineSeries(s *canvas.Series, theme style.Theme, px func(float64) float64) chart.ContinuousSeries {
	c := toDrawing(s.Color)
	width := s.Options.LineWidth
	if width == 0 {
		width = theme.LineWidth
	}
	st := chart.Style{
		StrokeColor: c,
		StrokeWidth: px(width),
	}
	if dashes := s.Options.Dashes(); dashes != nil {
		for _, d := range dashes {
			st.StrokeDashArray = append(st.StrokeDashArray, px(d*width))
		}
	}
	if dash, ok, _ := s.Options.ExtraNumbers(Name, "stroke_dash"); ok {
		st.StrokeDashArray = dash
	}
	if s.Options.Marker != canvas.MarkerNone {
		size := s.Options.MarkerSize
		if size == 0 {
			size = defaultMarkerSize
		}
		st.DotColor = c
		st.DotWidth = px(size / 2)
	}
	if dw, ok, _ := s.Options.ExtraNumber(Name, "dot_width"); ok {
		st.DotColor = c
		st.DotWidth = dw
	}
	return chart.ContinuousSeries{
		Name:    s.Label,
		Style:   st,
		XValues: s.X,
		YValues: s.Y,
	}
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
