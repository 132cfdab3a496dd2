// Package chart binds records to a force simulation and reflects every step
// into a retained scene.
package chart

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/forces"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

// Force names registered on the simulation.
const (
	ForceX       = "x"
	ForceY       = "y"
	ForceCharge  = "charge"
	ForceCollide = "collide"
)

type Mode int

const (
	// ModeGrouped pulls every node toward the canvas center.
	ModeGrouped Mode = iota
)

func (m Mode) String() string {
	switch m {
	case ModeGrouped:
		return "grouped"
	}
	return "unknown"
}

type Option func(*Chart)

func WithLogger(l *log.Logger) Option {
	return func(c *Chart) { c.logger = l }
}

// WithRand sets the source for initial node placement.
func WithRand(rng *rand.Rand) Option {
	return func(c *Chart) { c.rng = rng }
}

// Chart is the presenter. It owns the element for every node and writes
// element positions from node positions; it never writes node state.
type Chart struct {
	sim    *sim.Simulation
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand

	container  render.Container
	nodes      []*sim.Node
	elements   []*render.Element
	mode       Mode
	subscribed bool
}

// New configures s with the y, charge and collide forces and stops it so
// nothing steps before Initialize supplies nodes.
func New(s *sim.Simulation, cfg Config, opts ...Option) *Chart {
	c := &Chart{
		sim:    s,
		cfg:    cfg,
		logger: log.Default(),
		mode:   ModeGrouped,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(s.Config().Seed))
	}

	_, cy := cfg.Center()
	s.SetForce(ForceY, forces.NewY(forces.Constant(cy), forces.Constant(cfg.ForceStrength)))
	s.SetForce(ForceCharge, forces.NewCharge(forces.RadiusCharge(cfg.ForceStrength)))
	s.SetForce(ForceCollide, forces.NewCollide(forces.Radius(cfg.CollidePadding), forces.DefaultCollideStrength))
	s.Stop()
	return c
}

// Initialize builds one node and one element per record, keyed by name, and
// enters the grouped layout. Elements already in the container under the
// same name are reused; elements for names no longer present are dropped.
// A repeated name gets its own element under the key "name#2", "name#3" and
// so on.
func (c *Chart) Initialize(container render.Container, records []dataset.Record) error {
	if container == nil {
		return ErrNoContainer
	}
	c.container = container

	nodes := make([]*sim.Node, len(records))
	elements := make([]*render.Element, len(records))
	keys := make(map[string]struct{}, len(records))
	r := c.cfg.Radius

	for i, rec := range records {
		x := c.rng.Float64() * c.cfg.Width
		y := c.rng.Float64() * c.cfg.Height
		nodes[i] = sim.NewNode(rec.ID.String(), rec.Name, rec.Theme, rec.Tag, r, x, y)

		key := rec.Name
		for n := 2; ; n++ {
			if _, dup := keys[key]; !dup {
				break
			}
			key = fmt.Sprintf("%s#%d", rec.Name, n)
		}
		if key != rec.Name {
			c.logger.Warn("duplicate record name", "name", rec.Name, "key", key)
		}

		el, created := container.Upsert(key)
		el.TargetRadius = r
		el.Fill = c.cfg.Palette.Color(rec.Theme)
		el.Stroke = render.Darker(el.Fill)
		el.StrokeWidth = c.cfg.StrokeWidth
		el.Label = rec.Name
		el.FontSize = render.FitFontSize(r, rec.Name)
		el.MoveTo(x, y)
		if created {
			el.Enter(c.cfg.EntranceDuration)
		}
		elements[i] = el
		keys[key] = struct{}{}
	}
	container.Retain(keys)

	c.nodes = nodes
	c.elements = elements
	c.sim.SetNodes(nodes)
	if !c.subscribed {
		c.sim.AddObserver(c)
		c.subscribed = true
	}

	c.logger.Debug("chart initialized", "nodes", len(nodes))
	c.ApplyGroupedLayout()
	return nil
}

// OnStep moves each element to its node's position.
func (c *Chart) OnStep(nodes []*sim.Node, _ float64) {
	for _, n := range nodes {
		c.elements[n.Index()].MoveTo(n.X(), n.Y())
	}
}

func (c *Chart) OnSettle(steps int) {
	c.logger.Debug("layout settled", "steps", steps)
}

// ApplyGroupedLayout points the x force at the canvas center and restarts
// the simulation at full energy. An empty chart is left stopped.
func (c *Chart) ApplyGroupedLayout() {
	cx, _ := c.cfg.Center()
	c.sim.SetForce(ForceX, forces.NewX(forces.Constant(cx), forces.Constant(c.cfg.ForceStrength)))
	c.mode = ModeGrouped
	if len(c.nodes) == 0 {
		return
	}
	c.sim.Restart(1)
}

// Recolor switches the palette and restyles every element from its node's
// theme.
func (c *Chart) Recolor(p render.Palette) {
	c.cfg.Palette = p
	for i, n := range c.nodes {
		el := c.elements[i]
		el.Fill = p.Color(n.Theme())
		el.Stroke = render.Darker(el.Fill)
	}
}

// Advance moves entrance animations forward by dt and reports whether any is
// still running.
func (c *Chart) Advance(dt time.Duration) bool {
	active := false
	for _, el := range c.elements {
		if el.Advance(dt) {
			active = true
		}
	}
	return active
}

// Tick advances animations and performs one scheduled simulation step. It
// reports whether anything changed.
func (c *Chart) Tick(dt time.Duration) bool {
	animating := c.Advance(dt)
	stepped := c.sim.Tick()
	return animating || stepped
}

// Settle steps the simulation until it stops and finishes every entrance
// animation.
func (c *Chart) Settle() {
	for c.sim.Running() {
		c.sim.Tick()
	}
	for _, el := range c.elements {
		el.Enter(0)
	}
}

func (c *Chart) Mode() Mode                  { return c.mode }
func (c *Chart) Config() Config              { return c.cfg }
func (c *Chart) Simulation() *sim.Simulation { return c.sim }
func (c *Chart) Nodes() []*sim.Node          { return c.nodes }
func (c *Chart) Elements() []*render.Element { return c.elements }
func (c *Chart) Container() render.Container { return c.container }
