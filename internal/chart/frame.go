package chart

// NodeFrame is one node's visual state in a Frame.
type NodeFrame struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	R       float64 `json:"r"`
	Opacity float64 `json:"opacity"`
}

// Frame is a copy of the chart after a step, safe to send to another
// goroutine.
type Frame struct {
	Step    int         `json:"step"`
	Alpha   float64     `json:"alpha"`
	Settled bool        `json:"settled"`
	Nodes   []NodeFrame `json:"nodes"`
}

func (c *Chart) Frame() Frame {
	f := Frame{
		Step:    c.sim.Steps(),
		Alpha:   c.sim.Alpha(),
		Settled: !c.sim.Running(),
		Nodes:   make([]NodeFrame, len(c.elements)),
	}
	for i, el := range c.elements {
		f.Nodes[i] = NodeFrame{
			Name:    el.Key,
			X:       el.X,
			Y:       el.Y,
			R:       el.Radius,
			Opacity: el.Opacity,
		}
	}
	return f
}
