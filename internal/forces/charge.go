package forces

import (
	"math"
	"math/rand"

	"github.com/san-kum/bubblechart/internal/sim"
)

const chargeDistanceMin2 = 1.0

// ChargeStrength is the many-body strength of a circle: repulsive and
// proportional to its area.
func ChargeStrength(radius, forceStrength float64) float64 {
	return -forceStrength * radius * radius
}

// RadiusCharge applies ChargeStrength to each node's radius.
func RadiusCharge(forceStrength float64) Accessor {
	return func(n *sim.Node) float64 { return ChargeStrength(n.Radius(), forceStrength) }
}

// Charge is an all-pairs many-body force. Node i gains
// d * s_j * alpha / |d|^2 from every other node j, where d points from i to j,
// so negative strengths repel with a 1/r falloff.
type Charge struct {
	strength  Accessor
	strengths []float64
	rng       *rand.Rand
}

func NewCharge(strength Accessor) *Charge {
	return &Charge{strength: strength}
}

func (c *Charge) Initialize(nodes []*sim.Node, rng *rand.Rand) {
	if rng != nil {
		c.rng = rng
	}
	c.strengths = evaluate(c.strengths, nodes, c.strength)
}

// Strength returns the cached strength for node i.
func (c *Charge) Strength(i int) float64 { return c.strengths[i] }

func (c *Charge) Apply(nodes []*sim.Node, alpha float64, delta []sim.Vec) {
	if len(c.strengths) != len(nodes) {
		c.Initialize(nodes, nil)
	}
	if c.rng == nil {
		c.rng = defaultRand()
	}
	for i, ni := range nodes {
		for j, nj := range nodes {
			if i == j || c.strengths[j] == 0 {
				continue
			}
			dx := nj.X() - ni.X()
			dy := nj.Y() - ni.Y()
			if dx == 0 {
				dx = jiggle(c.rng)
			}
			if dy == 0 {
				dy = jiggle(c.rng)
			}
			l := dx*dx + dy*dy
			if l < chargeDistanceMin2 {
				l = math.Sqrt(chargeDistanceMin2 * l)
			}
			w := c.strengths[j] * alpha / l
			delta[i].X += dx * w
			delta[i].Y += dy * w
		}
	}
}
