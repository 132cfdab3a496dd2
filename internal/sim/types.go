package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Vec is a per-node velocity delta accumulated by forces during one step.
type Vec struct {
	X, Y float64
}

// Force contributes velocity deltas for every node. Apply must read positions
// only through the node accessors and write only into delta, which is
// index-aligned with nodes.
type Force interface {
	Apply(nodes []*Node, alpha float64, delta []Vec)
}

// Initializer is implemented by forces that cache per-node values. It runs
// when the force is registered and whenever the node set changes.
type Initializer interface {
	Initialize(nodes []*Node, rng *rand.Rand)
}

// ForceFunc adapts a plain function to Force.
type ForceFunc func(nodes []*Node, alpha float64, delta []Vec)

func (f ForceFunc) Apply(nodes []*Node, alpha float64, delta []Vec) { f(nodes, alpha, delta) }

type Observer interface {
	OnStep(nodes []*Node, alpha float64)
}

// SettleObserver is notified once when automatic stepping halts because
// alpha fell below the minimum.
type SettleObserver interface {
	OnSettle(steps int)
}

type ObserverFunc func(nodes []*Node, alpha float64)

func (f ObserverFunc) OnStep(nodes []*Node, alpha float64) { f(nodes, alpha) }

// Clock paces automatic stepping.
type Clock interface {
	Wait(ctx context.Context) error
}

// Immediate steps as fast as possible.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error { return ctx.Err() }

// FrameClock paces steps on a fixed frame interval.
type FrameClock struct {
	ticker *time.Ticker
}

func NewFrameClock(fps int) *FrameClock {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &FrameClock{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

func (c *FrameClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

func (c *FrameClock) Stop() { c.ticker.Stop() }

const (
	DefaultFPS           = 60
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.6
	defaultSettleSteps   = 300
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in about 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/defaultSettleSteps)

type Config struct {
	// VelocityDecay is the fraction of velocity retained per step.
	VelocityDecay float64
	AlphaMin      float64
	AlphaDecay    float64
	Seed          int64
}

func DefaultConfig() Config {
	return Config{
		VelocityDecay: DefaultVelocityDecay,
		AlphaMin:      DefaultAlphaMin,
		AlphaDecay:    DefaultAlphaDecay,
		Seed:          1,
	}
}

func (c Config) Validate() error {
	if c.VelocityDecay < 0 || c.VelocityDecay > 1 {
		return fmt.Errorf("%w: velocity decay must be in [0,1], got %f", ErrInvalidConfig, c.VelocityDecay)
	}
	if c.AlphaMin <= 0 || c.AlphaMin >= 1 {
		return fmt.Errorf("%w: alpha min must be in (0,1), got %f", ErrInvalidConfig, c.AlphaMin)
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return fmt.Errorf("%w: alpha decay must be in (0,1), got %f", ErrInvalidConfig, c.AlphaDecay)
	}
	return nil
}
