// Package plot draws line and bar charts from loosely shaped data.
//
// Data is one of five shapes (see Data). PlotLine and PlotBar normalize it
// into a list of series sharing one x axis, draw each series on a fresh
// canvas, then apply labels, legend, grid and layout, optionally save the
// figure, and hand it to the display step.
package plot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"easyplot/canvas"
	"easyplot/canvas/echarts"
	"easyplot/canvas/gochart"
	"easyplot/canvas/gonumplot"
	"easyplot/internal/config"
	"easyplot/internal/logger"
	"easyplot/internal/storage"
	"easyplot/style"
)

// Sink stores encoded figures. storage.Router and the storage clients
// implement it.
type Sink interface {
	StoreFile(ctx context.Context, path string, data []byte) error
}

// Displayer is the display step run at the end of every call.
type Displayer interface {
	Display(ctx context.Context, fig *canvas.Figure) error
}

// Config configures a Plotter. Zero fields take defaults.
type Config struct {
	Styles    *style.Registry
	Renderers *canvas.Renderers
	Sink      Sink
	Display   Displayer
	// Stdout receives the "Image saved to" confirmation line.
	Stdout io.Writer
	Logger *logger.Logger
	DPI    float64
	// Style is the preset used when a call does not pick one.
	Style string
}

// Plotter draws charts. It is immutable after New and safe for concurrent use.
type Plotter struct {
	styles    *style.Registry
	renderers *canvas.Renderers
	sink      Sink
	display   Displayer
	stdout    io.Writer
	log       *logger.Logger
	dpi       float64
	style     string
}

// New creates a Plotter.
func New(cfg Config) *Plotter {
	p := &Plotter{
		styles:    cfg.Styles,
		renderers: cfg.Renderers,
		sink:      cfg.Sink,
		display:   cfg.Display,
		stdout:    cfg.Stdout,
		log:       cfg.Logger,
		dpi:       cfg.DPI,
		style:     cfg.Style,
	}
	if p.log == nil {
		p.log = logger.GetGlobalLogger().WithComponent("plot")
	}
	if p.styles == nil {
		p.styles = style.NewRegistry()
	}
	if p.renderers == nil {
		p.renderers = DefaultRenderers(config.BackendGoChart)
	}
	if p.sink == nil {
		// An empty base directory never fails.
		local, _ := storage.NewLocalStorageClient("")
		p.sink = local
	}
	if p.display == nil {
		p.display = Headless(p.log)
	}
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	if p.dpi <= 0 {
		p.dpi = canvas.DefaultDPI
	}
	if p.style == "" {
		p.style = style.Default
	}
	return p
}

// NewFromConfig creates a Plotter from environment configuration. base
// supplies the fields the environment does not cover (Display, Stdout,
// Logger). Saves go through a storage.Router, so gs:// paths reach Cloud
// Storage.
func NewFromConfig(ctx context.Context, cfg *config.Config, base Config) (*Plotter, error) {
	if _, err := style.NewRegistry().Use(cfg.Style); err != nil {
		return nil, fmt.Errorf("EASYPLOT_STYLE: %w", err)
	}
	router, err := storage.NewRouter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	base.Renderers = DefaultRenderers(cfg.Backend)
	base.Sink = router
	base.DPI = cfg.DPI
	base.Style = cfg.Style
	return New(base), nil
}

// DefaultRenderers registers every renderer with backend first, so it
// handles the formats both raster backends share.
func DefaultRenderers(backend string) *canvas.Renderers {
	if backend == config.BackendGonum {
		return canvas.NewRenderers(gonumplot.New(), gochart.New(), echarts.New())
	}
	return canvas.NewRenderers(gochart.New(), gonumplot.New(), echarts.New())
}

// Renderers returns the renderers the Plotter saves with.
func (p *Plotter) Renderers() *canvas.Renderers { return p.renderers }

// Styles returns the style registry.
func (p *Plotter) Styles() *style.Registry { return p.styles }

// PlotLine draws one line per series.
func (p *Plotter) PlotLine(ctx context.Context, data Data, opts ...Option) (*canvas.Figure, *canvas.Axes, error) {
	o := newOptions("Line Plot", opts)
	fig, ax, n, err := p.begin(data, o)
	if err != nil {
		return nil, nil, err
	}

	xs, ticks := lineAxis(n)
	for i, s := range n.series {
		line, err := ax.Plot(xs, s.Y, o.draw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", seriesRef(i, s), err)
		}
		line.Label = s.Name
	}
	if ticks != nil {
		ax.SetXTicks(ticks)
	}

	if err := p.finish(ctx, fig, ax, n, o, canvas.GridBoth); err != nil {
		return nil, nil, err
	}
	return fig, ax, nil
}

// PlotBar draws bars at integer positions 0..N-1 labelled with the x values.
// Multiple series are grouped side by side or stacked.
func (p *Plotter) PlotBar(ctx context.Context, data Data, opts ...Option) (*canvas.Figure, *canvas.Axes, error) {
	o := newOptions("Bar Plot", opts)
	if err := o.validateBar(); err != nil {
		return nil, nil, err
	}
	fig, ax, n, err := p.begin(data, o)
	if err != nil {
		return nil, nil, err
	}

	xs, ticks := barAxis(n)
	switch o.barType {
	case BarStacked:
		bottom := make([]float64, len(xs))
		for i, s := range n.series {
			bar, err := ax.Bar(xs, s.Y, o.width, bottom, o.draw)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", seriesRef(i, s), err)
			}
			bar.Label = s.Name
			accumulate(bottom, s.Y)
		}
	default:
		barWidth, offsets := groupedLayout(o.width, len(n.series))
		for i, s := range n.series {
			bar, err := ax.Bar(shift(xs, offsets[i]), s.Y, barWidth, nil, o.draw)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", seriesRef(i, s), err)
			}
			bar.Label = s.Name
		}
	}
	ax.SetXTicks(ticks)

	if err := p.finish(ctx, fig, ax, n, o, canvas.GridY); err != nil {
		return nil, nil, err
	}
	return fig, ax, nil
}

// begin resolves the style, creates the canvas and normalizes the data.
func (p *Plotter) begin(data Data, o options) (*canvas.Figure, *canvas.Axes, normalized, error) {
	name := o.style
	if name == "" {
		name = p.style
	}
	theme, err := p.styles.Use(name)
	if err != nil {
		return nil, nil, normalized{}, err
	}
	n, err := normalize(data, o.x)
	if err != nil {
		return nil, nil, normalized{}, err
	}
	p.log.Debug("Normalized data", map[string]interface{}{
		"shape":  data.shape(),
		"series": len(n.series),
		"points": n.length(),
		"style":  theme.Name,
	})
	fig, ax := canvas.NewFigure(o.size, theme)
	return fig, ax, n, nil
}

// finish applies the shared cosmetics, saves and displays the figure.
func (p *Plotter) finish(ctx context.Context, fig *canvas.Figure, ax *canvas.Axes, n normalized, o options, grid canvas.GridAxis) error {
	ax.SetXLabel(o.xLabel)
	ax.SetYLabel(o.yLabel)
	ax.SetTitle(o.title)

	switch {
	case o.legendLabels != nil:
		if err := ax.Legend(o.legendLabels...); err != nil {
			return err
		}
	case o.legend == LegendOn, o.legend == LegendAuto && n.named() > 1:
		if err := ax.Legend(); err != nil {
			return err
		}
	}

	if o.grid {
		ax.Grid(grid, gridAlpha)
	}
	ax.TightLayout()

	if o.savePath != "" {
		if err := p.save(ctx, fig, o.savePath); err != nil {
			return err
		}
	}

	if err := p.display.Display(ctx, fig); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (p *Plotter) save(ctx context.Context, fig *canvas.Figure, path string) error {
	format, err := canvas.FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := fig.Save(&buf, p.renderers, format, p.dpi); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := p.sink.StoreFile(ctx, path, buf.Bytes()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	p.log.Info("Figure saved", map[string]interface{}{
		"path":   path,
		"format": string(format),
		"bytes":  buf.Len(),
	})
	fmt.Fprintf(p.stdout, "Image saved to: %s\n", path)
	return nil
}

type headless struct {
	log *logger.Logger
}

// Headless returns a Displayer that only logs.
func Headless(log *logger.Logger) Displayer {
	return headless{log: log}
}

func (h headless) Display(ctx context.Context, fig *canvas.Figure) error {
	h.log.Debug("No display configured, skipping", map[string]interface{}{
		"title": fig.Scene().Title,
	})
	return nil
}

var defaultPlotter = sync.OnceValue(func() *Plotter { return New(Config{}) })

// Default returns the Plotter used by the package-level functions. It saves
// to the local file system and does not display.
func Default() *Plotter { return defaultPlotter() }

// PlotLine draws a line chart with the default Plotter.
func PlotLine(ctx context.Context, data Data, opts ...Option) (*canvas.Figure, *canvas.Axes, error) {
	return Default().PlotLine(ctx, data, opts...)
}

// PlotBar draws a bar chart with the default Plotter.
func PlotBar(ctx context.Context, data Data, opts ...Option) (*canvas.Figure, *canvas.Axes, error) {
	return Default().PlotBar(ctx, data, opts...)
}
