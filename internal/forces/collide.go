package forces

import (
	"math"
	"math/rand"

	"github.com/san-kum/bubblechart/internal/sim"
)

const DefaultCollideStrength = 0.7

// Collide separates overlapping circles. Each overlapping pair is pushed
// apart along the axis between their predicted positions, the smaller circle
// moving more. Unlike the other forces it is not scaled by alpha, so the
// constraint still holds once the layout cools.
type Collide struct {
	radius   Accessor
	strength float64
	radii    []float64
	rng      *rand.Rand
}

func NewCollide(radius Accessor, strength float64) *Collide {
	return &Collide{radius: radius, strength: strength}
}

func (c *Collide) Initialize(nodes []*sim.Node, rng *rand.Rand) {
	if rng != nil {
		c.rng = rng
	}
	c.radii = evaluate(c.radii, nodes, c.radius)
}

func (c *Collide) Apply(nodes []*sim.Node, _ float64, delta []sim.Vec) {
	if len(c.radii) != len(nodes) {
		c.Initialize(nodes, nil)
	}
	if c.rng == nil {
		c.rng = defaultRand()
	}
	for i, ni := range nodes {
		ri := c.radii[i]
		ri2 := ri * ri
		xi := ni.X() + ni.VX()
		yi := ni.Y() + ni.VY()
		for j := i + 1; j < len(nodes); j++ {
			nj := nodes[j]
			rj := c.radii[j]
			r := ri + rj
			dx := xi - nj.X() - nj.VX()
			dy := yi - nj.Y() - nj.VY()
			l := dx*dx + dy*dy
			if l >= r*r {
				continue
			}
			if dx == 0 {
				dx = jiggle(c.rng)
				l += dx * dx
			}
			if dy == 0 {
				dy = jiggle(c.rng)
				l += dy * dy
			}
			l = math.Sqrt(l)
			k := (r - l) / l * c.strength
			rj2 := rj * rj
			w := 0.5
			if ri2+rj2 > 0 {
				w = rj2 / (ri2 + rj2)
			}
			delta[i].X += dx * k * w
			delta[i].Y += dy * k * w
			delta[j].X -= dx * k * (1 - w)
			delta[j].Y -= dy * k * (1 - w)
		}
	}
}
