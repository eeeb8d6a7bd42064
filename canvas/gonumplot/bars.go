package gonumplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"easyplot/canvas"
)

// bars draws one rectangle per value. Unlike plotter.BarChart its width is
// in data units, so grouped offsets computed by the caller line up with the
// x ticks at any figure size.
type bars struct {
	x, heights, bottoms []float64
	width               float64
	fill                color.Color
	// edge.Color is nil when the bars have no outline
	edge draw.LineStyle
}

func newBars(s *canvas.Series) *bars {
	b := &bars{
		x:       s.X,
		heights: s.Y,
		bottoms: s.Bottom,
		width:   s.Width,
		fill:    nrgba(s.Color),
	}
	if s.Edge != (color.RGBA{}) {
		w := s.Options.EdgeWidth
		if w == 0 {
			w = 1
		}
		b.edge = draw.LineStyle{Color: nrgba(s.Edge), Width: vg.Points(w)}
	}
	return b
}

func (b *bars) base(i int) float64 {
	if b.bottoms == nil {
		return 0
	}
	return b.bottoms[i]
}

// Plot implements plot.Plotter.
func (b *bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, x := range b.x {
		bottom := b.base(i)
		x0, x1 := trX(x-b.width/2), trX(x+b.width/2)
		y0, y1 := trY(bottom), trY(bottom+b.heights[i])

		pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.fill, c.ClipPolygonXY(pts))
		if b.edge.Color != nil {
			pts = append(pts, pts[0])
			c.StrokeLines(b.edge, c.ClipLinesXY(pts)...)
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for i, x := range b.x {
		bottom := b.base(i)
		top := bottom + b.heights[i]
		xmin, xmax = math.Min(xmin, x-b.width/2), math.Max(xmax, x+b.width/2)
		ymin, ymax = math.Min(ymin, math.Min(bottom, top)), math.Max(ymax, math.Max(bottom, top))
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail implements plot.Thumbnailer for the legend.
func (b *bars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.fill, c.ClipPolygonXY(pts))
	if b.edge.Color != nil {
		pts = append(pts, pts[0])
		c.StrokeLines(b.edge, c.ClipLinesXY(pts)...)
	}
}
