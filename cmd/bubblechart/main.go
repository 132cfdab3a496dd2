package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bubblechart/internal/automation"
	"github.com/san-kum/bubblechart/internal/config"
	"github.com/san-kum/bubblechart/internal/metrics"
	"github.com/san-kum/bubblechart/internal/server"
	"github.com/san-kum/bubblechart/internal/storage"
	"github.com/san-kum/bubblechart/internal/viz"
	"github.com/san-kum/bubblechart/internal/watch"
)

var (
	configFile string
	dataSource string
	verbose    bool
	preset     string
	seed       int64
	palette    string
	frameRate  int
	addr       string
	dataDir    string
	outFile    string
	runName    string
	saveRun    bool
	jsonOut    bool
	debounce   time.Duration
	plotHeight int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numTrials  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bubblechart",
		Short:         "force-directed bubble chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			log.SetDefault(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (yaml or toml)")
	pf.StringVarP(&dataSource, "data", "d", config.DefaultData, "data file or http(s) url")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&preset, "preset", "", "motion preset")
	pf.Int64Var(&seed, "seed", 1, "random seed for initial placement")
	pf.StringVar(&palette, "palette", "classic", "color palette")
	pf.StringVar(&dataDir, "dir", config.DefaultDataDir, "saved run directory")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "settle the layout and write an svg",
		Args:  cobra.NoArgs,
		RunE:  renderChart,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "bubbles.svg", "output svg")
	renderCmd.Flags().BoolVar(&saveRun, "save", false, "save the settled layout")
	renderCmd.Flags().StringVar(&runName, "name", "bubbles", "run name when saving")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the layout in the terminal",
		Args:  cobra.NoArgs,
		RunE:  liveChart,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the animated chart over http",
		Args:  cobra.NoArgs,
		RunE:  serveChart,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-render the svg whenever the data file changes",
		Args:  cobra.NoArgs,
		RunE:  watchChart,
	}
	watchCmd.Flags().StringVarP(&outFile, "out", "o", "bubbles.svg", "output svg")
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-rendering")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "print run and positions as json")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from center for a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height in rows")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("wrote config", "path", args[0])
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "settle the data across a range of force strengths",
		Args:  cobra.NoArgs,
		RunE:  sweepStrength,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.01, "lowest strength")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.1, "highest strength")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of strengths")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "settle the data from many random placements",
		Args:  cobra.NoArgs,
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&numTrials, "n", 20, "number of trials")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of layouts",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	rootCmd.AddCommand(renderCmd, liveCmd, serveCmd, watchCmd, listCmd, showCmd, plotCmd, presetsCmd, initCmd, sweepCmd, trialsCmd, batchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func renderChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	c, scene, err := buildChart(cfg, records, logger)
	if err != nil {
		return err
	}
	recorder := metrics.Standard(cfg.Canvas.Radius)
	c.Simulation().AddObserver(recorder)
	c.Settle()
	prog.done("settled", "nodes", len(records), "steps", c.Simulation().Steps())

	err = writeFile(outFile, func(w io.Writer) error {
		writeChartSVG(w, cfg, scene, runName)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("wrote chart", "path", outFile)

	if !saveRun {
		return nil
	}
	st := storage.New(cfg.Storage.Dir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:    runName,
		Data:    cfg.Data,
		Preset:  preset,
		Seed:    cfg.Seed,
		Steps:   c.Simulation().Steps(),
		Alpha:   c.Simulation().Alpha(),
		Nodes:   len(records),
		Metrics: recorder.Values(),
	}, storage.PositionsFromNodes(c.Nodes()))
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	values := recorder.Values()
	for _, name := range recorder.Names() {
		fmt.Printf("  %s: %.6f\n", name, values[name])
	}
	return nil
}

func liveChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}
	c, scene, err := buildChart(cfg, records, logger)
	if err != nil {
		return err
	}

	// The terminal owns stdout and stderr while the program runs.
	logger.SetLevel(log.FatalLevel)
	model := viz.NewModel(c, scene, viz.Options{
		Title:   cfg.Data,
		FPS:     cfg.Render.FPS,
		Theme:   cfg.Render.Palette,
		Palette: cfg.Render.Colors,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func serveChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}
	c, scene, err := buildChart(cfg, records, logger)
	if err != nil {
		return err
	}

	srv := server.New(c, scene,
		server.WithLogger(logger),
		server.WithFPS(cfg.Render.FPS),
		server.WithTitle(cfg.Data),
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func watchChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	render := func(ctx context.Context) error {
		records, err := loadRecords(ctx, cfg)
		if err != nil {
			return err
		}
		prog := newProgress(logger)
		c, scene, err := buildChart(cfg, records, logger)
		if err != nil {
			return err
		}
		c.Settle()
		if err := writeFile(outFile, func(w io.Writer) error {
			writeChartSVG(w, cfg, scene, cfg.Data)
			return nil
		}); err != nil {
			return err
		}
		prog.done("rendered", "path", outFile, "nodes", len(records))
		return nil
	}

	w := watch.New(cfg.Data, render, watch.WithLogger(logger), watch.WithDebounce(debounce))
	return w.Run(ctx)
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	dir := config.DefaultDataDir
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		dir = cfg.Storage.Dir
	}
	if cmd.Flags().Changed("dir") {
		dir = dataDir
	}
	return storage.New(dir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	fmt.Printf("%-28s %-20s %6s %6s %s\n", "ID", "TIMESTAMP", "NODES", "STEPS", "DATA")
	for _, r := range runs {
		fmt.Printf("%-28s %-20s %6d %6d %s\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Nodes, r.Steps, r.Data)
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	positions, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, *meta, positions)
	}

	fmt.Printf("run:    %s\n", meta.ID)
	fmt.Printf("data:   %s\n", meta.Data)
	if meta.Preset != "" {
		fmt.Printf("preset: %s\n", meta.Preset)
	}
	fmt.Printf("seed:   %d\n", meta.Seed)
	fmt.Printf("steps:  %d (alpha %.5f)\n", meta.Steps, meta.Alpha)

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, meta.Metrics[name])
	}

	fmt.Println("\npositions:")
	for _, p := range positions {
		fmt.Printf("  %-24s %-16s %8.2f %8.2f\n", p.Name, p.Theme, p.X, p.Y)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	positions, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("run %s has no positions", args[0])
	}

	var cx, cy float64
	for _, p := range positions {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(positions))
	cy /= float64(len(positions))

	dist := make([]float64, len(positions))
	for i, p := range positions {
		dist[i] = math.Hypot(p.X-cx, p.Y-cy)
	}
	sort.Float64s(dist)

	graph := asciigraph.Plot(dist,
		asciigraph.Height(plotHeight),
		asciigraph.Caption(fmt.Sprintf("%s: distance from centroid (%d nodes)", args[0], len(dist))),
	)
	fmt.Println(graph)
	return nil
}

func printResults(results []automation.Result) {
	fmt.Printf("%12s %10s %6s %9s %9s %10s\n", "SEED", "STRENGTH", "STEPS", "OVERLAPS", "SPREAD", "PEAK")
	for _, r := range results {
		fmt.Printf("%12d %10.4f %6d %9.0f %9.2f %10.4f\n", r.Seed, r.Strength, r.Steps, r.Overlaps, r.Spread, r.Peak)
	}
}

func sweepStrength(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	results, err := automation.RunSweep(ctx, cfg, records, &automation.ParameterSweep{
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}, logger)
	if err != nil {
		return err
	}
	prog.done("sweep complete", "layouts", len(results))
	printResults(results)
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	results, err := automation.RunMonteCarlo(ctx, cfg, records, &automation.MonteCarloConfig{
		NumTrials: numTrials,
		Seed:      cfg.Seed,
	}, logger)
	if err != nil {
		return err
	}
	prog.done("trials complete", "layouts", len(results))
	printResults(results)

	clean, overlapping := automation.MonteCarloStats(results)
	fmt.Printf("\nclean: %d  overlapping: %d\n", clean, overlapping)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	prog := newProgress(logger)
	results, err := automation.RunScenario(ctx, cfg, scenario, logger)
	if err != nil {
		return err
	}
	prog.done("scenario complete", "name", scenario.Name, "layouts", len(results))
	printResults(results)
	return nil
}
