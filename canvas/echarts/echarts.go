// Package echarts renders figures as interactive HTML pages with
// github.com/go-echarts/go-echarts/v2.
package echarts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"easyplot/canvas"
	"easyplot/style"
)

// Name is the renderer name and its Extra option namespace.
const Name = "echarts"

// cssDPI maps figure inches to CSS pixels.
const cssDPI = 96

var errMixedScene = errors.New("echarts: cannot mix line and bar series")

// Renderer writes self-contained HTML pages.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) Formats() []canvas.Format {
	return []canvas.Format{canvas.HTML}
}

// Render writes fig as an HTML page. dpi is ignored; pages are sized in CSS
// pixels.
func (r *Renderer) Render(w io.Writer, fig *canvas.Figure, format canvas.Format, dpi float64) error {
	if format != canvas.HTML {
		return fmt.Errorf("%w: %s", canvas.ErrUnsupportedFormat, format)
	}
	scene := fig.Scene()
	if len(scene.Series) == 0 {
		return canvas.ErrEmptyFigure
	}
	for i, s := range scene.Series {
		if err := s.Options.CheckExtra(Name, "smooth"); err != nil {
			return fmt.Errorf("series %d: %w", i, err)
		}
	}

	var page interface{ Render(io.Writer) error }
	if scene.HasBars() {
		bar, err := buildBar(fig)
		if err != nil {
			return err
		}
		page = bar
	} else {
		page = buildLine(fig)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

func globalOptions(fig *canvas.Figure, xAxis opts.XAxis) []charts.GlobalOpts {
	scene := fig.Scene()
	theme := fig.Theme
	width, height := fig.Pixels(cssDPI)
	text := &opts.TextStyle{Color: style.CSS(theme.Foreground)}

	yAxis := opts.YAxis{Name: scene.YLabel, Type: "value"}
	xAxis.Name = scene.XLabel
	if _, _, ymin, ymax, ok := scene.Limits(); ok {
		yAxis.Min, yAxis.Max = round(ymin), round(ymax)
	}
	if scene.Grid.Visible {
		split := &opts.SplitLine{
			Show: true,
			LineStyle: &opts.LineStyle{
				Color: style.CSS(style.WithAlpha(theme.GridColor, scene.Grid.Alpha)),
			},
		}
		if scene.Grid.Axis != canvas.GridY {
			xAxis.SplitLine = split
		}
		if scene.Grid.Axis != canvas.GridX {
			yAxis.SplitLine = split
		}
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       scene.Title,
			Width:           fmt.Sprintf("%dpx", width),
			Height:          fmt.Sprintf("%dpx", height),
			BackgroundColor: style.CSS(theme.Background),
		}),
		charts.WithTitleOpts(opts.Title{Title: scene.Title, TitleStyle: text}),
		charts.WithLegendOpts(opts.Legend{Show: scene.ShowLegend && len(scene.Legend) > 0, TextStyle: text}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	}
}

func buildLine(fig *canvas.Figure) *charts.Line {
	scene := fig.Scene()
	line := charts.NewLine()

	categories := tickLabels(scene.XTicks)
	xAxis := opts.XAxis{Type: "value"}
	if categories != nil {
		xAxis = opts.XAxis{Type: "category", Data: categories}
		line.SetXAxis(categories)
	} else if xmin, xmax, _, _, ok := scene.Limits(); ok {
		xAxis.Min, xAxis.Max = round(xmin), round(xmax)
	}
	line.SetGlobalOptions(globalOptions(fig, xAxis)...)

	for _, s := range scene.Series {
		var data []opts.LineData
		if categories != nil {
			data = make([]opts.LineData, len(categories))
			for i, x := range s.X {
				data[nearestTick(scene.XTicks, x)] = opts.LineData{Value: s.Y[i]}
			}
		} else {
			data = make([]opts.LineData, 0, len(s.X))
			for i := range s.X {
				data = append(data, opts.LineData{Value: []float64{s.X[i], s.Y[i]}})
			}
		}
		line.AddSeries(s.Label, data, lineOptions(s, fig.Theme)...)
	}
	return line
}

func lineOptions(s *canvas.Series, theme style.Theme) []charts.SeriesOpts {
	width := s.Options.LineWidth
	if width == 0 {
		width = theme.LineWidth
	}
	lineStyle := opts.LineStyle{Color: style.CSS(s.Color), Width: float32(width * cssDPI / 72)}
	switch s.Options.LineStyle {
	case canvas.LineDashed, canvas.LineDashDot:
		lineStyle.Type = "dashed"
	case canvas.LineDotted:
		lineStyle.Type = "dotted"
	}
	smooth, _ := s.Options.ExtraFor(Name)["smooth"].(bool)
	return []charts.SeriesOpts{
		charts.WithLineStyleOpts(lineStyle),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: style.CSS(s.Color)}),
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     smooth,
			ShowSymbol: s.Options.Marker != canvas.MarkerNone,
		}),
	}
}

func buildBar(fig *canvas.Figure) (*charts.Bar, error) {
	scene := fig.Scene()
	ticks := scene.XTicks
	if len(ticks) == 0 {
		ticks = distinctTicks(scene.Series)
	}
	categories := tickLabels(ticks)

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(fig, opts.XAxis{Type: "category", Data: categories})...)
	bar.SetXAxis(categories)

	var grouped, stacked float64
	for _, s := range scene.Series {
		if s.Kind != canvas.KindBar {
			return nil, errMixedScene
		}
		if s.Bottom == nil {
			grouped += s.Width
		} else {
			stacked = math.Max(stacked, s.Width)
		}
	}
	layout := opts.BarChart{
		BarGap:         "0%",
		BarCategoryGap: fmt.Sprintf("%.0f%%", (1-math.Min(grouped+stacked, 1))*100),
	}

	for _, s := range scene.Series {
		data := make([]opts.BarData, len(categories))
		for i, x := range s.X {
			data[nearestTick(ticks, x)] = opts.BarData{Value: s.Y[i]}
		}
		item := opts.ItemStyle{Color: style.CSS(s.Color)}
		if s.Edge != (color.RGBA{}) {
			item.BorderColor = style.CSS(s.Edge)
			item.BorderWidth = float32(math.Max(s.Options.EdgeWidth, 1))
		}
		barOpts := layout
		if s.Bottom != nil {
			barOpts.Stack = "total"
		}
		bar.AddSeries(s.Label, data, charts.WithItemStyleOpts(item), charts.WithBarChartOpts(barOpts))
	}
	return bar, nil
}

func tickLabels(ticks []canvas.Tick) []string {
	if len(ticks) == 0 {
		return nil
	}
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = t.Label
	}
	return labels
}

// distinctTicks labels every distinct bar center, rounded to the nearest
// integer position.
func distinctTicks(series []*canvas.Series) []canvas.Tick {
	seen := map[float64]bool{}
	var ticks []canvas.Tick
	for _, s := range series {
		for _, x := range s.X {
			v := math.Round(x) + 0 // -0 becomes 0
			if !seen[v] {
				seen[v] = true
				ticks = append(ticks, canvas.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
			}
		}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return ticks
}

// nearestTick returns the index of the tick closest to x.
func nearestTick(ticks []canvas.Tick, x float64) int {
	best := 0
	for i, t := range ticks {
		if math.Abs(t.Value-x) < math.Abs(ticks[best].Value-x) {
			best = i
		}
	}
	return best
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
