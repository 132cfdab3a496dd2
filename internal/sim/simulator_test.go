package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bubblechart/internal/forces"
	"github.com/san-kum/bubblechart/internal/sim"
)

type countingObserver struct {
	steps   int
	settled int
	alphas  []float64
}

func (o *countingObserver) OnStep(_ []*sim.Node, alpha float64) {
	o.steps++
	o.alphas = append(o.alphas, alpha)
}

func (o *countingObserver) OnSettle(int) { o.settled++ }

func mustNew(cfg sim.Config) *sim.Simulation {
	s, err := sim.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Simulation", func() {
	var (
		s   *sim.Simulation
		obs *countingObserver
	)

	BeforeEach(func() {
		s = mustNew(sim.DefaultConfig())
		obs = &countingObserver{}
		s.AddObserver(obs)
	})

	It("starts stopped at full energy", func() {
		Expect(s.Running()).To(BeFalse())
		Expect(s.Alpha()).To(Equal(1.0))
		Expect(s.Nodes()).To(BeEmpty())
	})

	It("does not start stepping when nodes are assigned", func() {
		s.SetNodes([]*sim.Node{sim.NewNode("1", "a", "", "", 22, 10, 10)})
		Expect(s.Running()).To(BeFalse())
		Expect(s.Tick()).To(BeFalse())
		Expect(obs.steps).To(BeZero())
	})

	Context("after Restart(1)", func() {
		BeforeEach(func() {
			s.SetNodes([]*sim.Node{
				sim.NewNode("1", "a", "", "", 22, 100, 100),
				sim.NewNode("2", "b", "", "", 22, 200, 200),
			})
			s.SetAlpha(0.3)
			s.Restart(1)
		})

		It("begins at alpha 1", func() {
			Expect(s.Alpha()).To(Equal(1.0))
			Expect(s.Running()).To(BeTrue())
		})

		It("cools strictly until it settles, then stops", func() {
			prev := s.Alpha()
			for s.Running() {
				Expect(s.Tick()).To(BeTrue())
				Expect(s.Alpha()).To(BeNumerically("<", prev))
				prev = s.Alpha()
			}

			Expect(s.Settled()).To(BeTrue())
			Expect(s.Alpha()).To(BeNumerically("<", sim.DefaultAlphaMin))
			Expect(s.Steps()).To(BeNumerically("~", 300, 2))
			Expect(obs.steps).To(Equal(s.Steps()))
			Expect(obs.settled).To(Equal(1))
		})

		It("ignores manual steps once settled until restarted", func() {
			for s.Running() {
				s.Tick()
			}
			steps, alpha := s.Steps(), s.Alpha()
			x := s.Nodes()[0].X()

			Expect(s.Step()).To(BeFalse())
			Expect(s.Tick()).To(BeFalse())
			Expect(s.Steps()).To(Equal(steps))
			Expect(s.Alpha()).To(Equal(alpha))
			Expect(s.Nodes()[0].X()).To(Equal(x))

			s.Restart(1)
			Expect(s.Step()).To(BeTrue())
			Expect(s.Steps()).To(Equal(steps + 1))
		})

		It("reports settlement once even if started again", func() {
			for s.Running() {
				s.Tick()
			}
			steps := s.Steps()
			for i := 0; i < 3; i++ {
				s.Start()
				Expect(s.Tick()).To(BeFalse())
				Expect(s.Running()).To(BeFalse())
			}

			Expect(obs.settled).To(Equal(1))
			Expect(s.Steps()).To(Equal(steps))
		})

		It("stops on request and keeps its state", func() {
			s.Tick()
			s.Stop()
			alpha := s.Alpha()

			Expect(s.Tick()).To(BeFalse())
			Expect(s.Alpha()).To(Equal(alpha))

			s.Start()
			Expect(s.Alpha()).To(Equal(alpha))
			Expect(s.Tick()).To(BeTrue())
		})
	})

	It("stays quiet with no nodes and no energy", func() {
		s.SetAlpha(0)
		s.SetNodes(nil)

		Expect(s.Running()).To(BeFalse())
		Expect(s.Tick()).To(BeFalse())
		Expect(s.Step()).To(BeFalse())
		Expect(obs.steps).To(BeZero())

		s.Start()
		Expect(s.Tick()).To(BeFalse())
		Expect(s.Running()).To(BeFalse())
		Expect(obs.steps).To(BeZero())
	})

	It("damps velocity to rest when no force acts", func() {
		n := sim.NewNode("1", "a", "", "", 22, 0, 0)
		s.SetNodes([]*sim.Node{n})
		s.SetForce("kick", sim.ForceFunc(func(_ []*sim.Node, _ float64, delta []sim.Vec) {
			delta[0] = sim.Vec{X: 10, Y: -5}
		}))
		Expect(s.Step()).To(BeTrue())
		Expect(n.VX()).To(BeNumerically("~", 6, 1e-9))

		s.SetForce("kick", nil)
		prev := math.Hypot(n.VX(), n.VY())
		for i := 0; i < 60; i++ {
			s.Step()
			speed := math.Hypot(n.VX(), n.VY())
			Expect(speed).To(BeNumerically("<", prev))
			prev = speed
		}
		Expect(prev).To(BeNumerically("<", 1e-9))

		x, y := n.X(), n.Y()
		s.Step()
		Expect(n.X()).To(BeNumerically("~", x, 1e-9))
		Expect(n.Y()).To(BeNumerically("~", y, 1e-9))
	})

	It("computes every force against the previous step's positions", func() {
		a := sim.NewNode("1", "a", "", "", 22, 0, 0)
		b := sim.NewNode("2", "b", "", "", 22, 50, 0)
		s.SetNodes([]*sim.Node{a, b})

		push := sim.ForceFunc(func(nodes []*sim.Node, _ float64, delta []sim.Vec) {
			for i := range nodes {
				delta[i].X += 10
			}
		})
		var seen [][2]float64
		record := sim.ForceFunc(func(nodes []*sim.Node, _ float64, _ []sim.Vec) {
			for _, n := range nodes {
				seen = append(seen, [2]float64{n.X(), n.Y()})
			}
		})
		s.SetForce("push", push)
		s.SetForce("record", record)

		s.Step()
		Expect(seen).To(Equal([][2]float64{{0, 0}, {50, 0}}))
		Expect(a.X()).To(BeNumerically("~", 6, 1e-9))
	})

	It("replaces and removes named forces", func() {
		s.SetNodes([]*sim.Node{sim.NewNode("1", "a", "", "", 22, 0, 0)})

		var first, second int
		s.SetForce("f", sim.ForceFunc(func([]*sim.Node, float64, []sim.Vec) { first++ }))
		s.Step()
		s.SetForce("f", sim.ForceFunc(func([]*sim.Node, float64, []sim.Vec) { second++ }))
		s.Step()

		Expect(first).To(Equal(1))
		Expect(second).To(Equal(1))

		s.SetForce("f", nil)
		_, ok := s.Force("f")
		Expect(ok).To(BeFalse())
		s.Step()
		Expect(second).To(Equal(1))
	})

	Describe("Run", func() {
		It("runs to settlement on an immediate clock", func() {
			s.SetNodes([]*sim.Node{sim.NewNode("1", "a", "", "", 22, 0, 0)})
			s.Restart(1)

			Expect(s.Run(context.Background(), sim.Immediate{})).To(Succeed())
			Expect(s.Running()).To(BeFalse())
			Expect(s.Settled()).To(BeTrue())
		})

		It("returns the context error when cancelled", func() {
			s.Restart(1)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(s.Run(ctx, sim.Immediate{})).To(MatchError(context.Canceled))
			Expect(s.Steps()).To(BeZero())
		})

		It("returns at once when stopped", func() {
			Expect(s.Run(context.Background(), sim.Immediate{})).To(Succeed())
			Expect(s.Steps()).To(BeZero())
		})
	})

	Describe("two circles pulled to one center", func() {
		const (
			radius   = 22.0
			strength = 0.5
			cx, cy   = 313.0, 300.0
		)

		It("settles near the center without overlapping", func() {
			a := sim.NewNode("1", "a", "", "", radius, 120, 480)
			b := sim.NewNode("2", "b", "", "", radius, 540, 90)
			s.SetNodes([]*sim.Node{a, b})
			s.SetForce("x", forces.NewX(forces.Constant(cx), forces.Constant(strength)))
			s.SetForce("y", forces.NewY(forces.Constant(cy), forces.Constant(strength)))
			s.SetForce("charge", forces.NewCharge(forces.RadiusCharge(strength)))
			s.SetForce("collide", forces.NewCollide(forces.Radius(2), forces.DefaultCollideStrength))
			s.Restart(1)

			Expect(s.Run(context.Background(), sim.Immediate{})).To(Succeed())

			dist := math.Hypot(a.X()-b.X(), a.Y()-b.Y())
			Expect(dist).To(BeNumerically(">=", 2*radius))
			Expect((a.X() + b.X()) / 2).To(BeNumerically("~", cx, 5))
			Expect((a.Y() + b.Y()) / 2).To(BeNumerically("~", cy, 5))
			for _, n := range []*sim.Node{a, b} {
				Expect(math.Hypot(n.X()-cx, n.Y()-cy)).To(BeNumerically("<", 4*radius))
				Expect(n.Radius()).To(Equal(radius))
			}
		})
	})
})

var _ = Describe("Config", func() {
	It("defaults to about 300 steps of cooling", func() {
		cfg := sim.DefaultConfig()
		Expect(cfg.Validate()).To(Succeed())
		Expect(math.Pow(1-cfg.AlphaDecay, 300)).To(BeNumerically("~", cfg.AlphaMin, 1e-9))
	})

	DescribeTable("rejects out of range values",
		func(mutate func(*sim.Config)) {
			cfg := sim.DefaultConfig()
			mutate(&cfg)
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(sim.ErrInvalidConfig))
		},
		Entry("negative velocity decay", func(c *sim.Config) { c.VelocityDecay = -0.1 }),
		Entry("velocity decay above one", func(c *sim.Config) { c.VelocityDecay = 1.5 }),
		Entry("zero alpha min", func(c *sim.Config) { c.AlphaMin = 0 }),
		Entry("alpha min of one", func(c *sim.Config) { c.AlphaMin = 1 }),
		Entry("zero alpha decay", func(c *sim.Config) { c.AlphaDecay = 0 }),
		Entry("alpha decay of one", func(c *sim.Config) { c.AlphaDecay = 1 }),
	)
})
