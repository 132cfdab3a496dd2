package chart

import (
	"fmt"
	"time"

	"github.com/san-kum/bubblechart/internal/render"
)

const (
	DefaultWidth            = 626
	DefaultHeight           = 600
	DefaultRadius           = 22.0
	DefaultForceStrength    = 0.03
	DefaultCollidePadding   = 2.0
	DefaultStrokeWidth      = 2.0
	DefaultEntranceDuration = render.DefaultEntranceDuration
)

type Config struct {
	Width            float64
	Height           float64
	Radius           float64
	ForceStrength    float64
	CollidePadding   float64
	StrokeWidth      float64
	EntranceDuration time.Duration
	Palette          render.Palette
}

func DefaultConfig() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		Radius:           DefaultRadius,
		ForceStrength:    DefaultForceStrength,
		CollidePadding:   DefaultCollidePadding,
		StrokeWidth:      DefaultStrokeWidth,
		EntranceDuration: DefaultEntranceDuration,
		Palette:          render.PaletteClassic,
	}
}

// Center is the shared point the grouped layout pulls toward.
func (c Config) Center() (x, y float64) {
	return c.Width / 2, c.Height / 2
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidConfig, c.Radius)
	}
	if c.ForceStrength < 0 {
		return fmt.Errorf("%w: force strength must be non-negative, got %g", ErrInvalidConfig, c.ForceStrength)
	}
	if c.CollidePadding < 0 {
		return fmt.Errorf("%w: collide padding must be non-negative, got %g", ErrInvalidConfig, c.CollidePadding)
	}
	if c.EntranceDuration < 0 {
		return fmt.Errorf("%w: entrance duration must be non-negative, got %s", ErrInvalidConfig, c.EntranceDuration)
	}
	return nil
}
