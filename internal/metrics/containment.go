package metrics

import (
	"github.com/san-kum/demonsim/internal/physics"
)

// Containment is the fraction of observed steps in which every circle centre
// stayed inside the square [lo, hi]². Tunnelling through a wall drops it
// below 1.
type Containment struct {
	name       string
	lo, hi     float64
	violations int
	samples    int
}

func NewContainment(lo, hi float64) *Containment {
	return &Containment{
		name: "containment",
		lo:   lo,
		hi:   hi,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *physics.World, t float64) {
	c.samples++
	for _, set := range w.Sets() {
		if !c.inside(set) {
			c.violations++
			return
		}
	}
}

func (c *Containment) inside(set *physics.Circles) bool {
	for i := 0; i < set.Len(); i++ {
		p := set.Position(i)
		if p[0] < c.lo || p[0] > c.hi || p[1] < c.lo || p[1] > c.hi {
			return false
		}
	}
	return true
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
