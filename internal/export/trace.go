package export

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/physics"
)

// Tracer records the path of one circle every Every steps. It satisfies
// sim.Observer.
type Tracer struct {
	set   *physics.Circles
	index int
	every int
	n     int
	path  []mgl64.Vec2
}

func NewTracer(set *physics.Circles, index, every int) *Tracer {
	return &Tracer{set: set, index: index, every: max(every, 1)}
}

func (t *Tracer) OnStep(_ *physics.World, _ float64) {
	if t.n%t.every == 0 {
		t.path = append(t.path, t.set.Position(t.index))
	}
	t.n++
}

// Path returns the recorded positions in order.
func (t *Tracer) Path() []mgl64.Vec2 { return t.path }
