package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/physics"
)

// MomentumDrift is the largest distance of total momentum from its first
// observed value. Walls absorb momentum, so this only stays near zero for
// worlds without them.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(w *physics.World, t float64) {
	p := w.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
