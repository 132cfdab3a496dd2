package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/config"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

// resolveConfig layers the config file, the preset and any changed flags
// over the defaults, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		if config.ApplyPreset(cfg, preset) == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = dataSource
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("palette") {
		cfg.Render.Palette = palette
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("dir") {
		cfg.Storage.Dir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRecords reads the configured data source. Failures are logged here
// and returned unchanged; there is no retry.
func loadRecords(ctx context.Context, cfg *config.Config) ([]dataset.Record, error) {
	logger := loggerFromContext(ctx)
	records, err := dataset.Load(ctx, cfg.Data)
	if err != nil {
		logger.Error("data load failed", "src", cfg.Data, "err", err)
		return nil, err
	}
	logger.Debug("loaded records", "src", cfg.Data, "count", len(records))
	return records, nil
}

// buildChart creates a stopped simulation and a chart bound to a fresh
// scene holding one element per record, already in the grouped layout.
func buildChart(cfg *config.Config, records []dataset.Record, logger *log.Logger) (*chart.Chart, *render.Scene, error) {
	s, err := sim.New(cfg.SimConfig())
	if err != nil {
		return nil, nil, err
	}
	ccfg := cfg.ChartConfig()
	c := chart.New(s, ccfg, chart.WithLogger(logger))
	scene := render.NewScene(ccfg.Width, ccfg.Height)
	if err := c.Initialize(scene, records); err != nil {
		return nil, nil, err
	}
	return c, scene, nil
}

func writeChartSVG(w io.Writer, cfg *config.Config, scene *render.Scene, title string) {
	render.WriteSVG(w, int(cfg.Canvas.Width), int(cfg.Canvas.Height), scene.Snapshot(),
		render.WithTitle(title))
}

// writeFile writes through a temp file in the target directory so readers
// never see a partial chart.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".bubblechart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
