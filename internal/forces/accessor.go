package forces

import (
	"math/rand"

	"github.com/san-kum/bubblechart/internal/sim"
)

// Accessor yields a per-node parameter.
type Accessor func(n *sim.Node) float64

func Constant(v float64) Accessor {
	return func(*sim.Node) float64 { return v }
}

// Radius reads the node radius, optionally grown by padding.
func Radius(padding float64) Accessor {
	return func(n *sim.Node) float64 { return n.Radius() + padding }
}

func evaluate(dst []float64, nodes []*sim.Node, fn Accessor) []float64 {
	if cap(dst) < len(nodes) {
		dst = make([]float64, len(nodes))
	}
	dst = dst[:len(nodes)]
	for i, n := range nodes {
		dst[i] = fn(n)
	}
	return dst
}

// jiggle breaks exact ties between coincident nodes.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
