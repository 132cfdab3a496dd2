// Package metrics observes a simulation step by step and summarizes how the
// layout is moving.
package metrics

import (
	"sort"

	"github.com/san-kum/bubblechart/internal/sim"
)

type Metric interface {
	Name() string
	Observe(nodes []*sim.Node, alpha float64)
	Value() float64
	Reset()
}

// Recorder fans each step notification out to its metrics.
type Recorder struct {
	metrics []Metric
	settled int
}

func NewRecorder(metrics ...Metric) *Recorder {
	return &Recorder{metrics: metrics}
}

// Standard returns a recorder with every built-in metric.
func Standard(radius float64) *Recorder {
	return NewRecorder(
		NewKineticEnergy(),
		NewSpread(),
		NewOverlap(radius),
		NewTravel(),
	)
}

func (r *Recorder) Add(m Metric) { r.metrics = append(r.metrics, m) }

func (r *Recorder) OnStep(nodes []*sim.Node, alpha float64) {
	for _, m := range r.metrics {
		m.Observe(nodes, alpha)
	}
}

func (r *Recorder) OnSettle(steps int) { r.settled = steps }

// SettledAt is the step count when the simulation last settled, or 0.
func (r *Recorder) SettledAt() int { return r.settled }

func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}

func (r *Recorder) Reset() {
	r.settled = 0
	for _, m := range r.metrics {
		m.Reset()
	}
}
