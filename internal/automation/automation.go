// Package automation runs batches of headless layouts: scripted scenarios,
// force-strength sweeps and seed trials.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/config"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/metrics"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

// Result summarizes one settled layout.
type Result struct {
	Seed     int64
	Strength float64
	Steps    int
	Overlaps float64
	Spread   float64
	Peak     float64
	Nodes    int
}

// Clean reports whether no two nodes overlap in the settled layout.
func (r Result) Clean() bool { return r.Overlaps == 0 }

// Layout builds a chart for records under cfg and settles it.
func Layout(cfg *config.Config, records []dataset.Record, logger *log.Logger) (Result, *render.Scene, error) {
	s, err := sim.New(cfg.SimConfig())
	if err != nil {
		return Result{}, nil, err
	}
	ccfg := cfg.ChartConfig()
	c := chart.New(s, ccfg, chart.WithLogger(logger))
	scene := render.NewScene(ccfg.Width, ccfg.Height)

	energy := metrics.NewKineticEnergy()
	spread := metrics.NewSpread()
	overlap := metrics.NewOverlap(ccfg.Radius)
	s.AddObserver(metrics.NewRecorder(energy, spread, overlap))

	if err := c.Initialize(scene, records); err != nil {
		return Result{}, nil, err
	}
	c.Settle()

	return Result{
		Seed:     cfg.Seed,
		Strength: cfg.Forces.Strength,
		Steps:    s.Steps(),
		Overlaps: overlap.Value(),
		Spread:   spread.Value(),
		Peak:     energy.Peak(),
		Nodes:    len(records),
	}, scene, nil
}

// Scenario is a scripted sequence of layouts.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one layout. Zero values keep
// the base setting.
type ScenarioStep struct {
	Data     string  `yaml:"data"`
	Preset   string  `yaml:"preset"`
	Seed     int64   `yaml:"seed"`
	Strength float64 `yaml:"strength"`
	Out      string  `yaml:"out"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (st ScenarioStep) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if st.Preset != "" && config.ApplyPreset(&cfg, st.Preset) == nil {
		return nil, fmt.Errorf("unknown preset: %s", st.Preset)
	}
	if st.Data != "" {
		cfg.Data = st.Data
	}
	if st.Seed != 0 {
		cfg.Seed = st.Seed
	}
	if st.Strength != 0 {
		cfg.Forces.Strength = st.Strength
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RunScenario settles every step in order, writing an SVG for steps that
// name an output file.
func RunScenario(ctx context.Context, base *config.Config, scenario *Scenario, logger *log.Logger) ([]Result, error) {
	results := make([]Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cfg, err := step.apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "data", cfg.Data)

		records, err := dataset.Load(ctx, cfg.Data)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, scene, err := Layout(cfg, records, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Out != "" {
			if err := writeSVG(step.Out, cfg, scene, scenario.Name); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

func writeSVG(path string, cfg *config.Config, scene *render.Scene, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	render.WriteSVG(f, int(cfg.Canvas.Width), int(cfg.Canvas.Height), scene.Snapshot(), render.WithTitle(title))
	return f.Close()
}

// ParameterSweep settles the same records across evenly spaced force
// strengths.
type ParameterSweep struct {
	Min      float64
	Max      float64
	NumSteps int
}

func RunSweep(ctx context.Context, base *config.Config, records []dataset.Record, sweep *ParameterSweep, logger *log.Logger) ([]Result, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", config.ErrInvalid)
	}
	results := make([]Result, 0, sweep.NumSteps)

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cfg := *base
		cfg.Forces.Strength = sweep.Min + float64(i)*step
		if err := cfg.Validate(); err != nil {
			return results, err
		}

		res, _, err := Layout(&cfg, records, logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		logger.Debug("sweep", "step", i+1, "of", sweep.NumSteps, "strength", cfg.Forces.Strength, "steps", res.Steps)
	}

	return results, nil
}

// MonteCarloConfig settles the same records from many random initial
// placements.
type MonteCarloConfig struct {
	NumTrials int
	Seed      int64
}

func RunMonteCarlo(ctx context.Context, base *config.Config, records []dataset.Record, mc *MonteCarloConfig, logger *log.Logger) ([]Result, error) {
	results := make([]Result, 0, mc.NumTrials)

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < mc.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cfg := *base
		cfg.Seed = rng.Int63()

		res, _, err := Layout(&cfg, records, logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo", "done", trial+1, "of", mc.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts settled layouts with and without overlapping nodes.
func MonteCarloStats(results []Result) (clean int, overlapping int) {
	for _, r := range results {
		if r.Clean() {
			clean++
		} else {
			overlapping++
		}
	}
	return
}
