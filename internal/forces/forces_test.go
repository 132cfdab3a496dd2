package forces

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/bubblechart/internal/sim"
)

func pair(x0, y0, x1, y1, r float64) []*sim.Node {
	return []*sim.Node{
		sim.NewNode("0", "a", "", "", r, x0, y0),
		sim.NewNode("1", "b", "", "", r, x1, y1),
	}
}

func TestChargeStrength(t *testing.T) {
	for _, r := range []float64{10, 22, 50} {
		for _, s := range []float64{0, 0.5, 1} {
			got := ChargeStrength(r, s)
			want := -s * r * r
			if got != want {
				t.Errorf("ChargeStrength(%v, %v) = %v, want %v", r, s, got, want)
			}
		}
	}
}

func TestChargeCachesPerNodeStrength(t *testing.T) {
	nodes := []*sim.Node{
		sim.NewNode("0", "a", "", "", 10, 0, 0),
		sim.NewNode("1", "b", "", "", 22, 5, 5),
		sim.NewNode("2", "c", "", "", 50, 9, 9),
	}
	c := NewCharge(RadiusCharge(0.5))
	c.Initialize(nodes, rand.New(rand.NewSource(1)))

	want := []float64{-50, -242, -1250}
	for i, w := range want {
		if got := c.Strength(i); got != w {
			t.Errorf("node %d strength %v, want %v", i, got, w)
		}
	}
}

func TestChargeRepels(t *testing.T) {
	nodes := pair(0, 0, 10, 0, 22)
	c := NewCharge(Constant(-100))
	c.Initialize(nodes, rand.New(rand.NewSource(1)))

	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	if math.Abs(delta[0].X+10) > 1e-9 || math.Abs(delta[1].X-10) > 1e-9 {
		t.Errorf("unexpected deltas %+v", delta)
	}

	half := make([]sim.Vec, 2)
	c.Apply(nodes, 0.5, half)
	if math.Abs(half[1].X-5) > 1e-9 {
		t.Errorf("charge should scale with alpha, got %v", half[1].X)
	}
}

func TestChargeZeroStrength(t *testing.T) {
	nodes := pair(0, 0, 10, 0, 22)
	c := NewCharge(RadiusCharge(0))
	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	for i, d := range delta {
		if d != (sim.Vec{}) {
			t.Errorf("node %d moved under zero strength: %+v", i, d)
		}
	}
}

func TestChargeCoincidentNodes(t *testing.T) {
	nodes := pair(5, 5, 5, 5, 22)
	c := NewCharge(RadiusCharge(0.03))
	c.Initialize(nodes, rand.New(rand.NewSource(1)))
	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	for i, d := range delta {
		if math.IsNaN(d.X) || math.IsNaN(d.Y) || math.IsInf(d.X, 0) || math.IsInf(d.Y, 0) {
			t.Errorf("node %d got non-finite delta %+v", i, d)
		}
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name  string
		force *Position
		wantX float64
		wantY float64
	}{
		{"x pulls toward target", NewX(Constant(20), Constant(0.5)), 2.5, 0},
		{"y pulls toward target", NewY(Constant(0), Constant(0.5)), 0, -5},
		{"zero strength", NewX(Constant(20), Constant(0)), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []*sim.Node{sim.NewNode("0", "a", "", "", 22, 10, 20)}
			tt.force.Initialize(nodes, nil)
			delta := make([]sim.Vec, 1)
			tt.force.Apply(nodes, 0.5, delta)

			if math.Abs(delta[0].X-tt.wantX) > 1e-9 || math.Abs(delta[0].Y-tt.wantY) > 1e-9 {
				t.Errorf("delta %+v, want (%v, %v)", delta[0], tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPositionInitializesLazily(t *testing.T) {
	p := NewX(Constant(100), Constant(1))
	nodes := []*sim.Node{sim.NewNode("0", "a", "", "", 22, 0, 0)}
	delta := make([]sim.Vec, 1)
	p.Apply(nodes, 1, delta)

	if delta[0].X != 100 || p.Target(0) != 100 {
		t.Errorf("delta %v, target %v", delta[0].X, p.Target(0))
	}
}

func TestCollideSeparatesOverlap(t *testing.T) {
	nodes := pair(0, 0, 10, 0, 22)
	c := NewCollide(Radius(2), DefaultCollideStrength)
	c.Initialize(nodes, rand.New(rand.NewSource(1)))

	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	if delta[0].X >= 0 || delta[1].X <= 0 {
		t.Fatalf("overlapping nodes should be pushed apart, got %+v", delta)
	}
	if math.Abs(delta[0].X+delta[1].X) > 1e-9 {
		t.Errorf("equal radii should move equally, got %+v", delta)
	}
	want := (48.0 - 10.0) * DefaultCollideStrength / 2
	if math.Abs(delta[1].X-want) > 1e-9 {
		t.Errorf("push %v, want %v", delta[1].X, want)
	}

	cold := make([]sim.Vec, 2)
	c.Apply(nodes, 0, cold)
	if math.Abs(cold[1].X-delta[1].X) > 1e-9 {
		t.Error("collide should not depend on alpha")
	}
}

func TestCollideIgnoresSeparatedNodes(t *testing.T) {
	nodes := pair(0, 0, 100, 0, 22)
	c := NewCollide(Radius(2), DefaultCollideStrength)
	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	if delta[0] != (sim.Vec{}) || delta[1] != (sim.Vec{}) {
		t.Errorf("separated nodes should not interact, got %+v", delta)
	}
}

func TestCollideSmallerCircleMovesMore(t *testing.T) {
	nodes := []*sim.Node{
		sim.NewNode("0", "big", "", "", 30, 0, 0),
		sim.NewNode("1", "small", "", "", 10, 20, 0),
	}
	c := NewCollide(Radius(0), 1)
	delta := make([]sim.Vec, 2)
	c.Apply(nodes, 1, delta)

	if math.Abs(delta[1].X) <= math.Abs(delta[0].X) {
		t.Errorf("small circle moved %v, big moved %v", delta[1].X, delta[0].X)
	}
}
