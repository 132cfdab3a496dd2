package metrics

import (
	"math"

	"github.com/san-kum/bubblechart/internal/sim"
)

// Overlap counts node pairs closer than twice the radius at the latest step.
type Overlap struct {
	name       string
	radius     float64
	violations int
}

func NewOverlap(radius float64) *Overlap {
	return &Overlap{
		name:   "overlaps",
		radius: radius,
	}
}

func (o *Overlap) Name() string {
	return o.name
}

func (o *Overlap) Observe(nodes []*sim.Node, _ float64) {
	o.violations = 0
	minDist := 2 * o.radius
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if math.Hypot(a.X()-b.X(), a.Y()-b.Y()) < minDist {
				o.violations++
			}
		}
	}
}

func (o *Overlap) Value() float64 {
	return float64(o.violations)
}

func (o *Overlap) Reset() {
	o.violations = 0
}
