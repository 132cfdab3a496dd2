package forces

import (
	"math/rand"

	"github.com/san-kum/bubblechart/internal/sim"
)

type axis int

const (
	axisX axis = iota
	axisY
)

// Position pulls each node toward a target coordinate on one axis with a
// velocity delta of (target - pos) * strength * alpha.
type Position struct {
	axis      axis
	target    Accessor
	strength  Accessor
	targets   []float64
	strengths []float64
}

func NewX(target, strength Accessor) *Position {
	return &Position{axis: axisX, target: target, strength: strength}
}

func NewY(target, strength Accessor) *Position {
	return &Position{axis: axisY, target: target, strength: strength}
}

func (p *Position) Initialize(nodes []*sim.Node, _ *rand.Rand) {
	p.targets = evaluate(p.targets, nodes, p.target)
	p.strengths = evaluate(p.strengths, nodes, p.strength)
}

func (p *Position) Apply(nodes []*sim.Node, alpha float64, delta []sim.Vec) {
	if len(p.targets) != len(nodes) {
		p.Initialize(nodes, nil)
	}
	for i, n := range nodes {
		if p.axis == axisX {
			delta[i].X += (p.targets[i] - n.X()) * p.strengths[i] * alpha
		} else {
			delta[i].Y += (p.targets[i] - n.Y()) * p.strengths[i] * alpha
		}
	}
}

// Target returns the cached target for node i.
func (p *Position) Target(i int) float64 { return p.targets[i] }
