// Package chartfile reads chart documents: a data block plus the cosmetic
// settings of a single PlotLine or PlotBar call, written as YAML or JSON.
//
//	title: Quarterly sales
//	x: [q1, q2, q3]
//	data:
//	  north: [3, 5, 2]
//	  south: [1, 4, 6]
//	bar_type: stacked
//
// Mapping key order is preserved, so series are drawn in document order.
package chartfile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"easyplot/canvas"
	"easyplot/plot"
)

// ErrInvalidDocument is returned for documents that cannot be decoded.
var ErrInvalidDocument = errors.New("invalid chart document")

// DrawOptions is the per-series styling block of a document.
type DrawOptions struct {
	Color      string         `yaml:"color"`
	Alpha      float64        `yaml:"alpha"`
	LineWidth  float64        `yaml:"linewidth"`
	LineStyle  string         `yaml:"linestyle"`
	Marker     string         `yaml:"marker"`
	MarkerSize float64        `yaml:"markersize"`
	EdgeColor  string         `yaml:"edgecolor"`
	EdgeWidth  float64        `yaml:"edgewidth"`
	Extra      map[string]any `yaml:"extra"`
}

// Chart kinds.
const (
	KindLine = "line"
	KindBar  = "bar"
)

// Document is a decoded chart document.
type Document struct {
	// Kind is line or bar; empty means line.
	Kind    string      `yaml:"kind"`
	Title   *string     `yaml:"title"`
	XLabel  *string     `yaml:"xlabel"`
	YLabel  *string     `yaml:"ylabel"`
	Style   string      `yaml:"style"`
	Grid    *bool       `yaml:"grid"`
	Size    []float64   `yaml:"size"`
	BarType string      `yaml:"bar_type"`
	Width   float64     `yaml:"width"`
	Save    string      `yaml:"save"`
	Options DrawOptions `yaml:"options"`

	// Legend is either a bool or a list of labels.
	Legend yaml.Node `yaml:"legend"`
	X      yaml.Node `yaml:"x"`
	Data   yaml.Node `yaml:"data"`
}

// Parse decodes a YAML or JSON document.
func Parse(content []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Data.IsZero() {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidDocument)
	}
	switch doc.Kind {
	case "", KindLine, KindBar:
	default:
		return nil, fmt.Errorf("%w: kind must be %s or %s, got %q", ErrInvalidDocument, KindLine, KindBar, doc.Kind)
	}
	if doc.Size != nil && len(doc.Size) != 2 {
		return nil, fmt.Errorf("%w: size must be [width, height], got %d values", ErrInvalidDocument, len(doc.Size))
	}
	return &doc, nil
}

// PlotData classifies the data block.
func (d *Document) PlotData() (plot.Data, error) {
	v, err := nodeValue(&d.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	data, err := plot.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return data, nil
}

// PlotOptions translates the document settings into plot options.
func (d *Document) PlotOptions() ([]plot.Option, error) {
	var opts []plot.Option
	if d.Title != nil {
		opts = append(opts, plot.WithTitle(*d.Title))
	}
	if d.XLabel != nil {
		opts = append(opts, plot.WithXLabel(*d.XLabel))
	}
	if d.YLabel != nil {
		opts = append(opts, plot.WithYLabel(*d.YLabel))
	}
	if d.Style != "" {
		opts = append(opts, plot.WithStyle(d.Style))
	}
	if d.Grid != nil {
		opts = append(opts, plot.WithGrid(*d.Grid))
	}
	if d.Size != nil {
		opts = append(opts, plot.WithSize(d.Size[0], d.Size[1]))
	}
	if d.BarType != "" {
		opts = append(opts, plot.WithBarType(plot.BarType(d.BarType)))
	}
	if d.Width != 0 {
		opts = append(opts, plot.WithWidth(d.Width))
	}
	if d.Save != "" {
		opts = append(opts, plot.WithSavePath(d.Save))
	}

	if !d.X.IsZero() {
		v, err := nodeValue(&d.X)
		if err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		x, err := plot.XFromAny(v)
		if err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		opts = append(opts, plot.WithX(x))
	}

	switch d.Legend.Kind {
	case 0:
	case yaml.ScalarNode:
		var show bool
		if err := d.Legend.Decode(&show); err != nil {
			return nil, fmt.Errorf("%w: legend: %v", ErrInvalidDocument, err)
		}
		opts = append(opts, plot.WithLegend(show))
	case yaml.SequenceNode:
		var labels []string
		if err := d.Legend.Decode(&labels); err != nil {
			return nil, fmt.Errorf("%w: legend: %v", ErrInvalidDocument, err)
		}
		opts = append(opts, plot.WithLegendLabels(labels...))
	default:
		return nil, fmt.Errorf("%w: legend must be a bool or a list of labels", ErrInvalidDocument)
	}

	o := d.Options
	opts = append(opts, plot.WithDrawOptions(canvas.DrawOptions{
		Color:      o.Color,
		Alpha:      o.Alpha,
		LineWidth:  o.LineWidth,
		LineStyle:  o.LineStyle,
		Marker:     o.Marker,
		MarkerSize: o.MarkerSize,
		EdgeColor:  o.EdgeColor,
		EdgeWidth:  o.EdgeWidth,
		Extra:      o.Extra,
	}))
	return opts, nil
}

// nodeValue converts a YAML node into the loose values plot.FromAny
// classifies. Mappings become plot.Mapping in document order.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(plot.Mapping, 0, len(n.Content)/2)
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if seen[key] {
				return nil, fmt.Errorf("%w: line %d: duplicate series %q", ErrInvalidDocument, n.Content[i].Line, key)
			}
			seen[key] = true
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, plot.KeyValue{Key: key, Value: v})
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidDocument, n.Line, err)
			}
			return f, nil
		case "!!null":
			return nil, nil
		default:
			return n.Value, nil
		}
	}
	return nil, fmt.Errorf("%w: line %d: unexpected node", ErrInvalidDocument, n.Line)
}
