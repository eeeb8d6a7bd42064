package gochart

import (
	"fmt"
	"image/color"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"easyplot/canvas"
)

// barSeries draws rectangles in data coordinates
type barSeries struct {
	name      string
	x         []float64
	heights   []float64
	bottoms   []float64
	width     float64
	fill      drawing.Color
	edge      drawing.Color
	edgeWidth float64
}

func newBarSeries(s *canvas.Series, px func(float64) float64) barSeries {
	bs := barSeries{
		name:    s.Label,
		x:       s.X,
		heights: s.Y,
		bottoms: s.Bottom,
		width:   s.Width,
		fill:    toDrawing(s.Color),
	}
	if s.Edge != (color.RGBA{}) {
		w := s.Options.EdgeWidth
		if w == 0 {
			w = 1
		}
		bs.edge = toDrawing(s.Edge)
		bs.edgeWidth = px(w)
	}
	return bs
}

func (bs barSeries) GetName() string           { return bs.name }
func (bs barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (bs barSeries) GetStyle() chart.Style {
	return chart.Style{FillColor: bs.fill, StrokeColor: bs.fill}
}

func (bs barSeries) Validate() error {
	if len(bs.x) != len(bs.heights) {
		return fmt.Errorf("bar series %q: %d positions, %d heights", bs.name, len(bs.x), len(bs.heights))
	}
	if bs.bottoms != nil && len(bs.bottoms) != len(bs.x) {
		return fmt.Errorf("bar series %q: %d positions, %d bottoms", bs.name, len(bs.x), len(bs.bottoms))
	}
	return nil
}

func (bs barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	for i, x := range bs.x {
		base := 0.0
		if bs.bottoms != nil {
			base = bs.bottoms[i]
		}
		top := base + bs.heights[i]

		x0 := canvasBox.Left + xrange.Translate(x-bs.width/2)
		x1 := canvasBox.Left + xrange.Translate(x+bs.width/2)
		y0 := canvasBox.Bottom - yrange.Translate(base)
		y1 := canvasBox.Bottom - yrange.Translate(top)
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		if y1 < y0 {
			y0, y1 = y1, y0
		}

		r.SetFillColor(bs.fill)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		if bs.edgeWidth > 0 {
			r.SetStrokeColor(bs.edge)
			r.SetStrokeWidth(bs.edgeWidth)
			r.FillStroke()
		} else {
			r.Fill()
		}
	}
}

// legendOnlySeries is a placeholder used only to populate the chart legend
type legendOnlySeries struct {
	name  string
	color drawing.Color
	width float64
}

func (ls legendOnlySeries) GetName() string { return ls.name }
func (ls legendOnlySeries) GetStyle() chart.Style {
	return chart.Style{FillColor: ls.color, StrokeColor: ls.color, StrokeWidth: ls.width}
}
func (ls legendOnlySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ls legendOnlySeries) Validate() error           { return nil }
func (ls legendOnlySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}
