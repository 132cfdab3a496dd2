package metrics

import "github.com/san-kum/bubblechart/internal/sim"

// Trace keeps the most recent alpha and energy samples for plotting.
type Trace struct {
	limit  int
	alpha  []float64
	energy []float64
}

// NewTrace keeps at most limit samples; limit <= 0 keeps everything.
func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

func (t *Trace) OnStep(nodes []*sim.Node, alpha float64) {
	t.alpha = t.push(t.alpha, alpha)
	t.energy = t.push(t.energy, Energy(nodes))
}

func (t *Trace) push(buf []float64, v float64) []float64 {
	buf = append(buf, v)
	if t.limit > 0 && len(buf) > t.limit {
		buf = buf[len(buf)-t.limit:]
	}
	return buf
}

func (t *Trace) Alpha() []float64  { return t.alpha }
func (t *Trace) Energy() []float64 { return t.energy }
func (t *Trace) Len() int          { return len(t.alpha) }

func (t *Trace) Reset() {
	t.alpha = t.alpha[:0]
	t.energy = t.energy[:0]
}
