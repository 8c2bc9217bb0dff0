package metrics

import (
	"math"

	"github.com/san-kum/demonsim/internal/physics"
)

// RMSSpeed is the root mean square speed over every moving circle and every
// observed step, the gas temperature up to a constant.
type RMSSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewRMSSpeed() *RMSSpeed {
	return &RMSSpeed{name: "rms_speed"}
}

func (r *RMSSpeed) Name() string {
	return r.name
}

func (r *RMSSpeed) Observe(w *physics.World, t float64) {
	for _, set := range w.Sets() {
		if set.Static() {
			continue
		}
		for _, v := range set.Velocities() {
			r.sum += v.LenSqr()
			r.samples++
		}
	}
}

func (r *RMSSpeed) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sum / float64(r.samples))
}

func (r *RMSSpeed) Reset() {
	r.sum = 0
	r.samples = 0
}
