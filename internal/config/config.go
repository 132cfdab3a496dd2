package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

const (
	DefaultData       = "data/bubbles.json"
	DefaultEntranceMS = 2000
	DefaultAddr       = ":8080"
	DefaultDataDir    = ".bubblechart"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Data    string        `yaml:"data" toml:"data"`
	Seed    int64         `yaml:"seed" toml:"seed"`
	Canvas  CanvasConfig  `yaml:"canvas" toml:"canvas"`
	Forces  ForceConfig   `yaml:"forces" toml:"forces"`
	Cooling CoolingConfig `yaml:"cooling" toml:"cooling"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Radius float64 `yaml:"radius" toml:"radius"`
}

type ForceConfig struct {
	Strength       float64 `yaml:"strength" toml:"strength"`
	CollidePadding float64 `yaml:"collide_padding" toml:"collide_padding"`
}

type CoolingConfig struct {
	VelocityDecay float64 `yaml:"velocity_decay" toml:"velocity_decay"`
	AlphaMin      float64 `yaml:"alpha_min" toml:"alpha_min"`
	AlphaDecay    float64 `yaml:"alpha_decay" toml:"alpha_decay"`
}

type RenderConfig struct {
	EntranceMS int    `yaml:"entrance_ms" toml:"entrance_ms"`
	FPS        int    `yaml:"fps" toml:"fps"`
	Palette    string `yaml:"palette" toml:"palette"`
	// Colors overrides the named palette when its domain is non-empty.
	Colors render.Palette `yaml:"colors,omitempty" toml:"colors,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

type StorageConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Data: DefaultData,
		Seed: 1,
		Canvas: CanvasConfig{
			Width:  chart.DefaultWidth,
			Height: chart.DefaultHeight,
			Radius: chart.DefaultRadius,
		},
		Forces: ForceConfig{
			Strength:       chart.DefaultForceStrength,
			CollidePadding: chart.DefaultCollidePadding,
		},
		Cooling: CoolingConfig{
			VelocityDecay: sim.DefaultVelocityDecay,
			AlphaMin:      sim.DefaultAlphaMin,
			AlphaDecay:    sim.DefaultAlphaDecay,
		},
		Render: RenderConfig{
			EntranceMS: DefaultEntranceMS,
			FPS:        sim.DefaultFPS,
			Palette:    render.PaletteClassic.Name,
		},
		Server:  ServerConfig{Addr: DefaultAddr},
		Storage: StorageConfig{Dir: DefaultDataDir},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a config file over the defaults. Files ending in .toml are
// decoded as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if err := c.ChartConfig().Validate(); err != nil {
		return err
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.Render.FPS)
	}
	if c.Data == "" {
		return fmt.Errorf("%w: no data source", ErrInvalid)
	}
	return nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		VelocityDecay: c.Cooling.VelocityDecay,
		AlphaMin:      c.Cooling.AlphaMin,
		AlphaDecay:    c.Cooling.AlphaDecay,
		Seed:          c.Seed,
	}
}

func (c *Config) ChartConfig() chart.Config {
	return chart.Config{
		Width:            c.Canvas.Width,
		Height:           c.Canvas.Height,
		Radius:           c.Canvas.Radius,
		ForceStrength:    c.Forces.Strength,
		CollidePadding:   c.Forces.CollidePadding,
		StrokeWidth:      chart.DefaultStrokeWidth,
		EntranceDuration: c.EntranceDuration(),
		Palette:          c.Palette(),
	}
}

func (c *Config) EntranceDuration() time.Duration {
	return time.Duration(c.Render.EntranceMS) * time.Millisecond
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

func (c *Config) Palette() render.Palette {
	if len(c.Render.Colors.Domain) > 0 {
		return c.Render.Colors
	}
	return render.GetPalette(c.Render.Palette)
}
