package physics_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/demonsim/internal/dynamo"
	"github.com/san-kum/demonsim/internal/physics"
)

var _ = Describe("World", func() {
	var (
		yellow, white *physics.Circles
		walls         *physics.Boxes
		world         *physics.World
	)

	BeforeEach(func() {
		var err error
		walls, err = physics.NewBoxes(0, 1,
			[]mgl64.Vec2{{0, 0}, {0.99, 0}, {0.01, 0}, {0.01, 0.99}},
			[]mgl64.Vec2{{0.01, 1}, {1, 1}, {0.99, 0.01}, {0.99, 1}},
			make([]mgl64.Vec2, 4),
		)
		Expect(err).NotTo(HaveOccurred())

		yellow, err = physics.NewCircles(1, 1, 0.05,
			[]mgl64.Vec2{{0.3, 0.5}, {0.2, 0.2}},
			[]mgl64.Vec2{{1, 0}, {0.3, -0.4}},
		)
		Expect(err).NotTo(HaveOccurred())

		white, err = physics.NewCircles(1, 1, 0.05,
			[]mgl64.Vec2{{0.38, 0.5}, {0.8, 0.8}},
			[]mgl64.Vec2{{-1, 0}, {-0.2, 0.6}},
		)
		Expect(err).NotTo(HaveOccurred())

		world, err = physics.NewWorld(walls, yellow, white)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("a cross-set contact", func() {
		It("swaps velocities of an equal-mass head-on pair", func() {
			for i := 0; i < 20; i++ {
				Expect(world.Step(0.001)).To(Succeed())
			}
			Expect(yellow.Velocity(0)[0]).To(BeNumerically("~", -1, 1e-12))
			Expect(white.Velocity(0)[0]).To(BeNumerically("~", 1, 1e-12))
		})

		It("applies both directions in one detect phase", func() {
			Expect(world.DetectAndAccumulate()).To(Succeed())
			sum := yellow.Delta(0).Add(white.Delta(0))
			Expect(sum.Len()).To(BeNumerically("<", 1e-12))
			Expect(yellow.Delta(0).Len()).To(BeNumerically(">", 0))
		})
	})

	Describe("integration", func() {
		It("leaves every delta cleared", func() {
			Expect(world.Step(0.001)).To(Succeed())
			for _, set := range world.Sets() {
				for i := 0; i < set.Len(); i++ {
					Expect(set.Delta(i)).To(Equal(mgl64.Vec2{}))
				}
			}
			Expect(world.Phase()).To(Equal(dynamo.PhaseIdle))
		})

		It("refuses to integrate without detection", func() {
			Expect(world.Integrate(0.001)).To(MatchError(dynamo.ErrPhaseOrder))
		})
	})

	Describe("long runs", func() {
		It("keep every body inside the walls", func() {
			for i := 0; i < 3000; i++ {
				Expect(world.Step(0.0005)).To(Succeed())
			}
			Expect(world.Valid()).To(BeTrue())
			for _, set := range world.Sets() {
				for _, p := range set.Positions() {
					Expect(p[0]).To(BeNumerically(">", 0))
					Expect(p[0]).To(BeNumerically("<", 1))
					Expect(p[1]).To(BeNumerically(">", 0))
					Expect(p[1]).To(BeNumerically("<", 1))
				}
			}
		})
	})
})
