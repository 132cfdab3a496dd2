package metrics

import (
	"math"

	"github.com/san-kum/bubblechart/internal/sim"
)

// KineticEnergy is the sum of v^2/2 over all nodes at the latest step.
type KineticEnergy struct {
	name    string
	current float64
	peak    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(nodes []*sim.Node, _ float64) {
	e.current = Energy(nodes)
	e.peak = math.Max(e.peak, e.current)
}

func (e *KineticEnergy) Value() float64 { return e.current }
func (e *KineticEnergy) Peak() float64  { return e.peak }

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.peak = 0
}

func Energy(nodes []*sim.Node) float64 {
	total := 0.0
	for _, n := range nodes {
		total += 0.5 * (n.VX()*n.VX() + n.VY()*n.VY())
	}
	return total
}

// Spread is the mean distance of nodes from their centroid.
type Spread struct {
	name    string
	current float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(nodes []*sim.Node, _ float64) {
	if len(nodes) == 0 {
		s.current = 0
		return
	}
	var cx, cy float64
	for _, n := range nodes {
		cx += n.X()
		cy += n.Y()
	}
	cx /= float64(len(nodes))
	cy /= float64(len(nodes))

	sum := 0.0
	for _, n := range nodes {
		sum += math.Hypot(n.X()-cx, n.Y()-cy)
	}
	s.current = sum / float64(len(nodes))
}

func (s *Spread) Value() float64 { return s.current }
func (s *Spread) Reset()         { s.current = 0 }
