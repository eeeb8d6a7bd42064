package plot

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"easyplot/canvas"
	"easyplot/internal/config"
	"easyplot/internal/logger"
	"easyplot/internal/storage"
	"easyplot/style"
)

type memorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memorySink) StoreFile(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

type countingDisplay struct {
	mu     sync.Mutex
	titles []string
}

func (d *countingDisplay) Display(ctx context.Context, fig *canvas.Figure) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.titles = append(d.titles, fig.Scene().Title)
	return nil
}

func newTestPlotter(sink Sink, display Displayer, stdout *bytes.Buffer) *Plotter {
	return New(Config{
		Sink:    sink,
		Display: display,
		Stdout:  stdout,
		Logger:  logger.Discard(),
		DPI:     40,
	})
}

var small = WithSize(3, 2)

func TestPlotLineFlat(t *testing.T) {
	display := &countingDisplay{}
	p := newTestPlotter(&memorySink{}, display, &bytes.Buffer{})

	fig, ax, err := p.PlotLine(context.Background(), Flat(3, 1, 4, 1, 5))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if ax.Figure() != fig {
		t.Error("Expected axes to belong to the returned figure")
	}

	scene := fig.Scene()
	if len(scene.Series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(scene.Series))
	}
	s := scene.Series[0]
	if s.Kind != canvas.KindLine || s.Label != "" {
		t.Errorf("Expected one unnamed line, got %v %q", s.Kind, s.Label)
	}
	for i, x := range s.X {
		if x != float64(i) {
			t.Errorf("Expected x[%d]=%d, got %v", i, i, x)
		}
	}
	if s.Y[2] != 4 {
		t.Errorf("Expected y[2]=4, got %v", s.Y[2])
	}

	if scene.Title != "Line Plot" || scene.XLabel != DefaultXLabel || scene.YLabel != DefaultYLabel {
		t.Errorf("Unexpected default labels %q %q %q", scene.Title, scene.XLabel, scene.YLabel)
	}
	if scene.ShowLegend {
		t.Error("Expected no legend for a single unnamed series")
	}
	if !scene.Grid.Visible || scene.Grid.Axis != canvas.GridBoth || scene.Grid.Alpha != 0.3 {
		t.Errorf("Expected full grid at 0.3, got %+v", scene.Grid)
	}
	if !scene.Tight {
		t.Error("Expected tight layout")
	}
	if len(display.titles) != 1 {
		t.Errorf("Expected display to run once, got %d", len(display.titles))
	}
}

func TestNamedSeriesOrderAndLegend(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	data, err := FromAny(Mapping{
		{Key: "a", Value: []any{1, 2, 3}},
		{Key: "b", Value: []any{4, 5, 6}},
	})
	if err != nil {
		t.Fatalf("FromAny failed: %v", err)
	}

	for name, draw := range map[string]func(context.Context, Data, ...Option) (*canvas.Figure, *canvas.Axes, error){
		"line": p.PlotLine,
		"bar":  p.PlotBar,
	} {
		fig, _, err := draw(context.Background(), data)
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		scene := fig.Scene()
		if len(scene.Series) != 2 || scene.Series[0].Label != "a" || scene.Series[1].Label != "b" {
			t.Errorf("%s: expected series [a b], got %d series", name, len(scene.Series))
		}
		if !scene.ShowLegend || len(scene.Legend) != 2 || scene.Legend[0].Label != "a" {
			t.Errorf("%s: expected legend [a b], got %+v", name, scene.Legend)
		}
	}
}

func TestLegendModes(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	ctx := context.Background()

	fig, _, err := p.PlotLine(ctx, Named(Series{Name: "only", Y: []float64{1, 2}}))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if fig.Scene().ShowLegend {
		t.Error("Expected no automatic legend for one named series")
	}

	fig, _, err = p.PlotLine(ctx, Flat(1, 2), WithLegend(true))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if !fig.Scene().ShowLegend || len(fig.Scene().Legend) != 0 {
		t.Errorf("Expected an empty legend, got %+v", fig.Scene().Legend)
	}

	fig, _, err = p.PlotLine(ctx, List([]float64{1, 2}, []float64{3, 4}), WithLegend(false))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if fig.Scene().ShowLegend {
		t.Error("Expected legend to be suppressed")
	}

	fig, _, err = p.PlotLine(ctx, List([]float64{1, 2}, []float64{3, 4}))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if legend := fig.Scene().Legend; len(legend) != 2 || legend[1].Label != "Series 2" {
		t.Errorf("Expected auto labels, got %+v", legend)
	}

	fig, _, err = p.PlotBar(ctx, XY(Labels("x", "y"), 1, 2), WithLegendLabels("total"))
	if err != nil {
		t.Fatalf("PlotBar failed: %v", err)
	}
	if legend := fig.Scene().Legend; len(legend) != 1 || legend[0].Label != "total" {
		t.Errorf("Expected override label, got %+v", legend)
	}
}

func TestLegendLabelMismatch(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	_, _, err := p.PlotLine(context.Background(),
		NamedMap(map[string][]float64{"a": {1}, "b": {2}}),
		WithLegendLabels("one"))
	if !errors.Is(err, ErrLegendLabels) {
		t.Errorf("Expected ErrLegendLabels, got %v", err)
	}
}

func TestPairedXY(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})

	fig, _, err := p.PlotLine(context.Background(), XY(Numbers(10, 20, 30), 1, 2, 3), WithX(Numbers(7, 8, 9)))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	scene := fig.Scene()
	if len(scene.Series) != 1 || scene.Series[0].Label != "" {
		t.Fatalf("Expected one unnamed series, got %d", len(scene.Series))
	}
	if scene.Series[0].X[1] != 20 {
		t.Errorf("Expected the pair's own x axis, got %v", scene.Series[0].X)
	}
	if scene.XTicks != nil {
		t.Errorf("Expected numeric axis without ticks, got %+v", scene.XTicks)
	}

	fig, _, err = p.PlotLine(context.Background(), XY(Labels("mon", "tue"), 5, 6))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if ticks := fig.Scene().XTicks; len(ticks) != 2 || ticks[1].Label != "tue" || ticks[1].Value != 1 {
		t.Errorf("Expected categorical ticks, got %+v", ticks)
	}
}

func TestPlotBarGrouped(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})

	fig, _, err := p.PlotBar(context.Background(),
		List([]float64{1, 2, 3}, []float64{4, 5, 6}),
		WithX(Labels("a", "b", "c")), WithWidth(0.6))
	if err != nil {
		t.Fatalf("PlotBar failed: %v", err)
	}
	scene := fig.Scene()
	if len(scene.Series) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(scene.Series))
	}
	total := 0.0
	for _, s := range scene.Series {
		total += s.Width
		if s.Bottom != nil {
			t.Error("Expected grouped bars without bottoms")
		}
	}
	if math.Abs(total-0.6) > 1e-12 {
		t.Errorf("Expected widths to sum to 0.6, got %v", total)
	}
	if x := scene.Series[0].X[1]; math.Abs(x-0.85) > 1e-12 {
		t.Errorf("Expected first series at 0.85, got %v", x)
	}
	if x := scene.Series[1].X[1]; math.Abs(x-1.15) > 1e-12 {
		t.Errorf("Expected second series at 1.15, got %v", x)
	}
	if ticks := scene.XTicks; len(ticks) != 3 || ticks[2].Label != "c" || ticks[2].Value != 2 {
		t.Errorf("Expected ticks a b c at 0..2, got %+v", ticks)
	}
	if scene.Title != "Bar Plot" || scene.Grid.Axis != canvas.GridY {
		t.Errorf("Expected bar title and y grid, got %q %+v", scene.Title, scene.Grid)
	}
}

func TestPlotBarStacked(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	ys := [][]float64{{1, 2, 3}, {4, 5, 6}, {0.5, 0, -1}}

	fig, _, err := p.PlotBar(context.Background(), List(ys...), WithBarType(BarStacked))
	if err != nil {
		t.Fatalf("PlotBar failed: %v", err)
	}
	scene := fig.Scene()
	last := scene.Series[len(scene.Series)-1]
	for i := range ys[0] {
		want := ys[0][i] + ys[1][i] + ys[2][i]
		if got := last.Top(i); math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected cumulative top %v at %d, got %v", want, i, got)
		}
	}
	for _, s := range scene.Series {
		if s.Width != DefaultBarWidth || s.X[1] != 1 {
			t.Errorf("Expected full width bars at integer positions, got %v at %v", s.Width, s.X)
		}
	}
	if scene.Series[0].Bottom[0] != 0 || scene.Series[1].Bottom[0] != 1 {
		t.Errorf("Unexpected bottoms %v %v", scene.Series[0].Bottom, scene.Series[1].Bottom)
	}
	if ticks := scene.XTicks; ticks[1].Label != "1" {
		t.Errorf("Expected index tick labels, got %+v", ticks)
	}
}

func TestPlotBarOptionErrors(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	ctx := context.Background()

	if _, _, err := p.PlotBar(ctx, Flat(1), WithBarType("overlap")); !errors.Is(err, ErrBarType) {
		t.Errorf("Expected ErrBarType, got %v", err)
	}
	if _, _, err := p.PlotBar(ctx, Flat(1), WithWidth(1.5)); !errors.Is(err, ErrBarWidth) {
		t.Errorf("Expected ErrBarWidth, got %v", err)
	}
	if _, _, err := p.PlotLine(ctx, Flat(1), WithWidth(1.5), WithBarType("overlap")); err != nil {
		t.Errorf("Expected PlotLine to ignore bar options, got %v", err)
	}
}

func TestLengthMismatch(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	ctx := context.Background()
	data := Named(Series{Name: "a", Y: []float64{1, 2, 3}}, Series{Name: "b", Y: []float64{1, 2}})

	_, _, err := p.PlotLine(ctx, data)
	if !errors.Is(err, canvas.ErrLengthMismatch) || !strings.Contains(err.Error(), `series "b"`) {
		t.Errorf("Expected length mismatch naming series b, got %v", err)
	}
	_, _, err = p.PlotBar(ctx, data, WithBarType(BarStacked))
	if !errors.Is(err, canvas.ErrLengthMismatch) {
		t.Errorf("Expected length mismatch for stacked bars, got %v", err)
	}
	_, _, err = p.PlotBar(ctx, Flat(1, 2), WithX(Labels("a", "b", "c")))
	if !errors.Is(err, canvas.ErrLengthMismatch) {
		t.Errorf("Expected length mismatch against x, got %v", err)
	}
}

func TestInvalidStyle(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	_, _, err := p.PlotLine(context.Background(), Flat(1, 2), WithStyle("neon"))
	if !errors.Is(err, style.ErrStyleNotFound) {
		t.Errorf("Expected ErrStyleNotFound, got %v", err)
	}

	fig, _, err := p.PlotLine(context.Background(), Flat(1, 2), WithStyle("ggplot"))
	if err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
	if fig.Theme.Name != "ggplot" {
		t.Errorf("Expected ggplot theme, got %s", fig.Theme.Name)
	}
}

func TestEmptyData(t *testing.T) {
	p := newTestPlotter(&memorySink{}, &countingDisplay{}, &bytes.Buffer{})
	ctx := context.Background()

	fig, _, err := p.PlotBar(ctx, SeriesList{})
	if err != nil {
		t.Fatalf("Expected empty data to draw nothing, got %v", err)
	}
	if len(fig.Scene().Series) != 0 {
		t.Errorf("Expected zero series, got %d", len(fig.Scene().Series))
	}

	_, _, err = p.PlotLine(ctx, NamedSeries{}, WithSavePath("empty.png"))
	if !errors.Is(err, canvas.ErrEmptyFigure) {
		t.Errorf("Expected ErrEmptyFigure on save, got %v", err)
	}

	if _, _, err := p.PlotLine(ctx, nil); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Expected ErrUnknownShape for nil data, got %v", err)
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorageClient(dir)
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	var stdout bytes.Buffer
	p := newTestPlotter(local, &countingDisplay{}, &stdout)

	path := filepath.Join("out", "sub", "chart.png")
	if _, _, err := p.PlotLine(context.Background(), Flat(1, 2, 3), WithSavePath(path), small); err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatalf("Expected saved file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}
	if got := stdout.String(); got != "Image saved to: "+path+"\n" {
		t.Errorf("Expected confirmation line, got %q", got)
	}
}

func TestSaveFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	local, err := storage.NewLocalStorageClient(dir)
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}

	for name, draw := range map[string]func(*Plotter) error{
		"line": func(p *Plotter) error {
			_, _, err := p.PlotLine(context.Background(), Flat(1, 2, 3), WithSavePath("file/sub/c.png"), small)
			return err
		},
		"bar": func(p *Plotter) error {
			_, _, err := p.PlotBar(context.Background(), Flat(1, 2, 3), WithSavePath("file/sub/c.png"), small)
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			var stdout bytes.Buffer
			display := &countingDisplay{}
			err := draw(newTestPlotter(local, display, &stdout))
			if err == nil {
				t.Fatal("Expected error when the parent path is a regular file")
			}
			if !strings.Contains(err.Error(), "file/sub/c.png") {
				t.Errorf("Expected error to name the path, got %v", err)
			}
			if stdout.Len() != 0 {
				t.Errorf("Expected no confirmation line, got %q", stdout.String())
			}
			if len(display.titles) != 0 {
				t.Errorf("Expected display not to run, got %d calls", len(display.titles))
			}
		})
	}
}

func TestSaveFormats(t *testing.T) {
	sink := &memorySink{}
	p := newTestPlotter(sink, &countingDisplay{}, &bytes.Buffer{})
	ctx := context.Background()

	tests := []struct {
		path string
		mark string
	}{
		{"chart.svg", "<svg"},
		{"chart.pdf", "%PDF"},
		{"chart.html", "<html"},
	}
	for _, tt := range tests {
		if _, _, err := p.PlotBar(ctx, Flat(1, 2), WithSavePath(tt.path), small); err != nil {
			t.Fatalf("PlotBar %s failed: %v", tt.path, err)
		}
		if got := string(sink.files[tt.path]); !strings.Contains(got, tt.mark) {
			t.Errorf("Expected %s to contain %q, got %.40q", tt.path, tt.mark, got)
		}
	}

	if _, _, err := p.PlotBar(ctx, Flat(1, 2), WithSavePath("chart.bmp")); !errors.Is(err, canvas.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIdempotentOutput(t *testing.T) {
	sink := &memorySink{}
	p := newTestPlotter(sink, &countingDisplay{}, &bytes.Buffer{})
	data := NamedMap(map[string][]float64{"a": {1, 3, 2}, "b": {2, 2, 4}})

	for _, path := range []string{"one.png", "two.png"} {
		if _, _, err := p.PlotBar(context.Background(), data, WithSavePath(path), small); err != nil {
			t.Fatalf("PlotBar failed: %v", err)
		}
	}
	if !bytes.Equal(sink.files["one.png"], sink.files["two.png"]) {
		t.Error("Expected identical calls to produce identical images")
	}
}

func TestConcurrentCalls(t *testing.T) {
	display := &countingDisplay{}
	p := newTestPlotter(&memorySink{}, display, &bytes.Buffer{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := p.PlotLine(context.Background(), Flat(float64(i), 1), WithStyle("bmh")); err != nil {
				t.Errorf("PlotLine failed: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if len(display.titles) != 8 {
		t.Errorf("Expected 8 displayed figures, got %d", len(display.titles))
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{
		Style:     "classic",
		Backend:   config.BackendGonum,
		DPI:       72,
		OutputDir: t.TempDir(),
	}
	p, err := NewFromConfig(context.Background(), cfg, Config{Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	r, err := p.Renderers().Lookup(canvas.PNG)
	if err != nil || r.Name() != "gonum" {
		t.Errorf("Expected gonum to render PNG, got %v (%v)", r, err)
	}
	if names := p.Renderers().Names(); len(names) != 3 || names[2] != "echarts" {
		t.Errorf("Unexpected renderer order %v", names)
	}

	cfg.Style = "neon"
	if _, err := NewFromConfig(context.Background(), cfg, Config{Logger: logger.Discard()}); !errors.Is(err, style.ErrStyleNotFound) {
		t.Errorf("Expected ErrStyleNotFound, got %v", err)
	}
}
