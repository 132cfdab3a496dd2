package metrics

import (
	"math"

	"github.com/san-kum/bubblechart/internal/sim"
)

// Travel is the mean path length covered per node since the last reset.
type Travel struct {
	name  string
	sum   float64
	nodes int
}

func NewTravel() *Travel {
	return &Travel{
		name: "travel",
	}
}

func (t *Travel) Name() string {
	return t.name
}

func (t *Travel) Observe(nodes []*sim.Node, _ float64) {
	for _, n := range nodes {
		t.sum += math.Hypot(n.VX(), n.VY())
	}
	t.nodes = len(nodes)
}

func (t *Travel) Value() float64 {
	if t.nodes == 0 {
		return 0
	}
	return t.sum / float64(t.nodes)
}

func (t *Travel) Reset() {
	t.sum = 0
	t.nodes = 0
}
