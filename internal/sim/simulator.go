package sim

import (
	"context"
	"math/rand"
)

type namedForce struct {
	name  string
	force Force
}

// Simulation advances a fixed node set under named forces. It is not safe
// for concurrent use; hosts keep every call on one goroutine.
type Simulation struct {
	cfg       Config
	nodes     []*Node
	forces    []namedForce
	delta     []Vec
	observers []Observer
	rng       *rand.Rand

	alpha   float64
	steps   int
	running bool
}

// New returns a stopped simulation with alpha 1 and no nodes.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:       cfg,
		nodes:     make([]*Node, 0),
		forces:    make([]namedForce, 0),
		observers: make([]Observer, 0),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		alpha:     1,
	}, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetNodes replaces the node set. It never starts stepping.
func (s *Simulation) SetNodes(nodes []*Node) {
	s.nodes = nodes
	for i, n := range nodes {
		n.index = i
	}
	if cap(s.delta) < len(nodes) {
		s.delta = make([]Vec, len(nodes))
	}
	s.delta = s.delta[:len(nodes)]
	for _, f := range s.forces {
		s.initForce(f.force)
	}
}

// SetForce registers f under name, replacing any force already there. A nil
// force removes the name.
func (s *Simulation) SetForce(name string, f Force) {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
		s.initForce(f)
		s.forces[i].force = f
		return
	}
	if f == nil {
		return
	}
	s.initForce(f)
	s.forces = append(s.forces, namedForce{name: name, force: f})
}

func (s *Simulation) Force(name string) (Force, bool) {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force, true
		}
	}
	return nil, false
}

func (s *Simulation) initForce(f Force) {
	if in, ok := f.(Initializer); ok {
		in.Initialize(s.nodes, s.rng)
	}
}

// Start resumes automatic stepping without touching alpha.
func (s *Simulation) Start() { s.running = true }

// Restart resets alpha and resumes automatic stepping.
func (s *Simulation) Restart(alpha float64) {
	s.alpha = alpha
	s.running = true
}

func (s *Simulation) Stop() { s.running = false }

// SetAlpha sets alpha without changing whether the simulation is running.
func (s *Simulation) SetAlpha(alpha float64) { s.alpha = alpha }

func (s *Simulation) Alpha() float64 { return s.alpha }
func (s *Simulation) Steps() int     { return s.steps }
func (s *Simulation) Running() bool  { return s.running }
func (s *Simulation) Settled() bool  { return s.alpha < s.cfg.AlphaMin }
func (s *Simulation) Nodes() []*Node { return s.nodes }
func (s *Simulation) Config() Config { return s.cfg }

// Step advances one step regardless of the running flag. Once alpha is below
// the minimum it does nothing until Restart.
func (s *Simulation) Step() bool {
	if s.Settled() {
		return false
	}
	s.step()
	return true
}

// Tick is the scheduled step. It does nothing while stopped and stops
// automatic stepping once the simulation settles. Settle observers fire only
// for the step that crossed the threshold.
func (s *Simulation) Tick() bool {
	if !s.running {
		return false
	}
	stepped := s.Step()
	if s.Settled() {
		s.running = false
		if !stepped {
			return false
		}
		for _, o := range s.observers {
			if so, ok := o.(SettleObserver); ok {
				so.OnSettle(s.steps)
			}
		}
	}
	return stepped
}

// Run ticks on clock until the simulation settles or stops, or ctx is done.
func (s *Simulation) Run(ctx context.Context, clock Clock) error {
	for s.running {
		if err := clock.Wait(ctx); err != nil {
			return err
		}
		s.Tick()
	}
	return nil
}

func (s *Simulation) step() {
	for i := range s.delta {
		s.delta[i] = Vec{}
	}
	for _, nf := range s.forces {
		nf.force.Apply(s.nodes, s.alpha, s.delta)
	}

	decay := s.cfg.VelocityDecay
	for i, n := range s.nodes {
		d := s.delta[i]
		n.vx = (n.vx + d.X) * decay
		n.vy = (n.vy + d.Y) * decay
		n.x += n.vx
		n.y += n.vy
	}

	s.alpha -= s.alpha * s.cfg.AlphaDecay
	s.steps++

	for _, o := range s.observers {
		o.OnStep(s.nodes, s.alpha)
	}
}
