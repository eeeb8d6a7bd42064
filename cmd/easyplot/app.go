package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"easyplot/internal/chartfile"
	"easyplot/internal/config"
	"easyplot/internal/logger"
	"easyplot/internal/server"
	"easyplot/plot"
	"easyplot/style"
)

// App is the easyplot command line
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

// chartFlags override the settings of a chart document
type chartFlags struct {
	output  string
	title   string
	xlabel  string
	ylabel  string
	style   string
	legend  string
	noGrid  bool
	size    []float64
	barType string
	width   float64
}

// NewApp creates the command tree
func NewApp() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "easyplot",
		Short: "Render line and bar charts from YAML or JSON documents",
		Long: `easyplot renders chart documents to PNG, SVG, PDF, JPEG or HTML.

A document holds a data block in one of five shapes (a list, a mapping of
named series, an (x, mapping) pair, an (x, y) pair or a list of lists) plus
optional title, labels, legend and styling. Settings come from the document,
then from flags, which win. Defaults come from EASYPLOT_* environment
variables.`,
		Version:           config.GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.loadConfig,
	}

	app.root.AddCommand(
		app.newChartCmd(chartfile.KindLine),
		app.newChartCmd(chartfile.KindBar),
		app.newServeCmd(),
		app.newStylesCmd(),
	)
	return app
}

// WithOutput sets custom output writers
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command line until it finishes or a signal arrives
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the command line with explicit arguments
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *App) newChartCmd(kind string) *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   kind + " <document>",
		Short: fmt.Sprintf("Render a %s chart from a YAML or JSON document (file or http(s) URL)", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChart(cmd, kind, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Save path; format from extension, gs://bucket/object uploads to Cloud Storage")
	f.StringVar(&flags.title, "title", "", "Chart title")
	f.StringVar(&flags.xlabel, "xlabel", "", "X axis label")
	f.StringVar(&flags.ylabel, "ylabel", "", "Y axis label")
	f.StringVar(&flags.style, "style", "", "Style preset (see 'easyplot styles')")
	f.StringVar(&flags.legend, "legend", "", "Legend: auto, on or off")
	f.BoolVar(&flags.noGrid, "no-grid", false, "Hide gridlines")
	f.Float64SliceVar(&flags.size, "size", nil, "Figure size in inches as width,height")
	if kind == chartfile.KindBar {
		f.StringVar(&flags.barType, "bar-type", "", "grouped or stacked")
		f.Float64Var(&flags.width, "width", 0, "Total bar width per position, in (0, 1]")
	}
	return cmd
}

func (a *App) runChart(cmd *cobra.Command, kind, src string, flags chartFlags) error {
	ctx := cmd.Context()

	var gallery *server.Server
	var display plot.Displayer
	if a.cfg.Display == config.DisplayGallery {
		gallery = server.NewServer(a.cfg, plot.DefaultRenderers(a.cfg.Backend))
		display = gallery
	}

	p, err := plot.NewFromConfig(ctx, a.cfg, plot.Config{Display: display, Stdout: a.stdout})
	if err != nil {
		return err
	}

	doc, err := chartfile.NewFetcher(a.cfg.FetchTimeout).Load(ctx, src)
	if err != nil {
		return err
	}
	if err := render(ctx, p, doc, kind, flags, cmd); err != nil {
		return err
	}

	if gallery != nil {
		fmt.Fprintf(a.stdout, "Gallery at http://localhost:%s/ (Ctrl+C to stop)\n", a.cfg.Port)
		return gallery.ListenAndServe(ctx)
	}
	return nil
}

// render draws doc as kind. Flags that were set on cmd override the document.
func render(ctx context.Context, p *plot.Plotter, doc *chartfile.Document, kind string, flags chartFlags, cmd *cobra.Command) error {
	data, err := doc.PlotData()
	if err != nil {
		return err
	}
	opts, err := doc.PlotOptions()
	if err != nil {
		return err
	}
	more, err := flagOptions(flags, cmd)
	if err != nil {
		return err
	}
	opts = append(opts, more...)

	if kind == chartfile.KindBar {
		_, _, err = p.PlotBar(ctx, data, opts...)
	} else {
		_, _, err = p.PlotLine(ctx, data, opts...)
	}
	return err
}

func flagOptions(flags chartFlags, cmd *cobra.Command) ([]plot.Option, error) {
	if cmd == nil {
		return nil, nil
	}
	changed := cmd.Flags().Changed
	var opts []plot.Option
	if changed("output") {
		opts = append(opts, plot.WithSavePath(flags.output))
	}
	if changed("title") {
		opts = append(opts, plot.WithTitle(flags.title))
	}
	if changed("xlabel") {
		opts = append(opts, plot.WithXLabel(flags.xlabel))
	}
	if changed("ylabel") {
		opts = append(opts, plot.WithYLabel(flags.ylabel))
	}
	if changed("style") {
		opts = append(opts, plot.WithStyle(flags.style))
	}
	if changed("no-grid") {
		opts = append(opts, plot.WithGrid(!flags.noGrid))
	}
	if changed("size") {
		if len(flags.size) != 2 {
			return nil, fmt.Errorf("--size wants width,height, got %d values", len(flags.size))
		}
		opts = append(opts, plot.WithSize(flags.size[0], flags.size[1]))
	}
	if changed("legend") {
		switch flags.legend {
		case "on":
			opts = append(opts, plot.WithLegend(true))
		case "off":
			opts = append(opts, plot.WithLegend(false))
		case "auto":
		default:
			return nil, fmt.Errorf("--legend must be auto, on or off, got %q", flags.legend)
		}
	}
	if changed("bar-type") {
		opts = append(opts, plot.WithBarType(plot.BarType(flags.barType)))
	}
	if changed("width") {
		opts = append(opts, plot.WithWidth(flags.width))
	}
	return opts, nil
}

func (a *App) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [document...]",
		Short: "Serve the figure gallery, optionally preloaded with chart documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gallery := server.NewServer(a.cfg, plot.DefaultRenderers(a.cfg.Backend))
			p, err := plot.NewFromConfig(ctx, a.cfg, plot.Config{Display: gallery, Stdout: a.stdout})
			if err != nil {
				return err
			}

			fetcher := chartfile.NewFetcher(a.cfg.FetchTimeout)
			var errs []error
			for _, src := range args {
				doc, err := fetcher.Load(ctx, src)
				if err == nil {
					kind := doc.Kind
					if kind == "" {
						kind = chartfile.KindLine
					}
					err = render(ctx, p, doc, kind, chartFlags{}, nil)
				}
				if err != nil {
					logger.Error("Failed to render document", err, map[string]interface{}{"document": src})
					errs = append(errs, fmt.Errorf("%s: %w", src, err))
				}
			}
			if len(args) > 0 && len(errs) == len(args) {
				return errors.Join(errs...)
			}

			fmt.Fprintf(a.stdout, "Gallery at http://localhost:%s/ (Ctrl+C to stop)\n", a.cfg.Port)
			return gallery.ListenAndServe(ctx)
		},
	}
}

func (a *App) newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the style presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range style.Names() {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}
