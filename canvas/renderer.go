package canvas

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	SVG  Format = "svg"
	PDF  Format = "pdf"
	JPEG Format = "jpeg"
	HTML Format = "html"
)

// FormatFromPath infers the format from a file extension.
// A path without an extension is saved as PNG.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	case "pdf":
		return PDF, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "html", "htm":
		return HTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Renderer encodes a figure with a graphics library.
type Renderer interface {
	Name() string
	Formats() []Format
	Render(w io.Writer, fig *Figure, format Format, dpi float64) error
}

// Renderers maps formats to renderers. The first renderer registered for a
// format handles it.
type Renderers struct {
	order    []Renderer
	byFormat map[Format]Renderer
}

// NewRenderers registers rs in priority order.
func NewRenderers(rs ...Renderer) *Renderers {
	reg := &Renderers{byFormat: make(map[Format]Renderer)}
	for _, r := range rs {
		reg.order = append(reg.order, r)
		for _, f := range r.Formats() {
			if _, taken := reg.byFormat[f]; !taken {
				reg.byFormat[f] = r
			}
		}
	}
	return reg
}

// Lookup returns the renderer for format.
func (r *Renderers) Lookup(format Format) (Renderer, error) {
	if r != nil {
		if rr, ok := r.byFormat[format]; ok {
			return rr, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Names lists the registered renderers in priority order.
func (r *Renderers) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, rr := range r.order {
		names = append(names, rr.Name())
	}
	return names
}

// Bounds returns the data extent of all series. Bars include their width and
// base. ok is false when nothing was drawn.
func (s *Scene) Bounds() (xmin, xmax, ymin, ymax float64, ok bool) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, sr := range s.Series {
		for i := range sr.X {
			x0, x1 := sr.X[i], sr.X[i]
			y0, y1 := sr.Y[i], sr.Y[i]
			if sr.Kind == KindBar {
				x0 -= sr.Width / 2
				x1 += sr.Width / 2
				y0, y1 = sr.Base(i), sr.Top(i)
				if y0 > y1 {
					y0, y1 = y1, y0
				}
			}
			xmin, xmax = math.Min(xmin, x0), math.Max(xmax, x1)
			ymin, ymax = math.Min(ymin, y0), math.Max(ymax, y1)
			ok = true
		}
	}
	return xmin, xmax, ymin, ymax, ok
}

// HasBars reports whether any bar series was drawn.
func (s *Scene) HasBars() bool {
	for _, sr := range s.Series {
		if sr.Kind == KindBar {
			return true
		}
	}
	return false
}

// Limits returns axis limits for the scene: Bounds padded by 5% on each side.
// When bars were drawn and all values are on one side of zero, zero stays
// flush with the axis.
func (s *Scene) Limits() (xmin, xmax, ymin, ymax float64, ok bool) {
	x0, x1, y0, y1, ok := s.Bounds()
	if !ok {
		return 0, 0, 0, 0, false
	}
	xmin, xmax = pad(x0, x1)
	ymin, ymax = pad(y0, y1)
	if s.HasBars() {
		if y0 >= 0 {
			ymin = 0
		}
		if y1 <= 0 {
			ymax = 0
		}
		if ymin == ymax {
			ymax = ymin + 1
		}
	}
	return xmin, xmax, ymin, ymax, true
}

func pad(lo, hi float64) (float64, float64) {
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	m := (hi - lo) * 0.05
	return lo - m, hi + m
}
