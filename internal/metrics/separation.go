package metrics

import (
	"github.com/san-kum/demonsim/internal/physics"
)

// Separation averages the fraction of circles on their target side of a
// vertical line. The left set belongs left of it, the right set right.
type Separation struct {
	name        string
	left, right *physics.Circles
	line        float64
	sum         float64
	last        float64
	samples     int
}

func NewSeparation(left, right *physics.Circles, line float64) *Separation {
	return &Separation{
		name:  "separation",
		left:  left,
		right: right,
		line:  line,
	}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(w *physics.World, t float64) {
	n := s.left.Len() + s.right.Len()
	frac := 1.0
	if n > 0 {
		ok := s.left.CountInside(physics.SideLeft, s.line) + s.right.CountInside(physics.SideRight, s.line)
		frac = float64(ok) / float64(n)
	}
	s.last = frac
	s.sum += frac
	s.samples++
}

func (s *Separation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

// Last returns the most recently observed fraction.
func (s *Separation) Last() float64 { return s.last }

func (s *Separation) Reset() {
	s.sum = 0
	s.last = 0
	s.samples = 0
}
