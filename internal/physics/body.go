package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

// Rigid holds the fields shared by every homogeneous body set: mass,
// elasticity, velocities and the pending velocity delta accumulated by the
// narrow phase. A mass of zero means infinite mass.
type Rigid struct {
	n          int
	mass       float64
	invMass    float64
	elasticity float64
	vel        []mgl64.Vec2
	delta      []mgl64.Vec2
}

func newRigid(mass, elasticity float64, vel []mgl64.Vec2) (Rigid, error) {
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return Rigid{}, fmt.Errorf("mass %v: %w", mass, dynamo.ErrParameterBounds)
	}
	if elasticity < 0 || elasticity > 1 || math.IsNaN(elasticity) {
		return Rigid{}, fmt.Errorf("elasticity %v: %w", elasticity, dynamo.ErrParameterBounds)
	}

	r := Rigid{
		n:          len(vel),
		mass:       mass,
		elasticity: elasticity,
		vel:        make([]mgl64.Vec2, len(vel)),
		delta:      make([]mgl64.Vec2, len(vel)),
	}
	copy(r.vel, vel)
	if mass != 0 {
		r.invMass = 1 / mass
	}
	return r, nil
}

func (r *Rigid) Len() int            { return r.n }
func (r *Rigid) Mass() float64       { return r.mass }
func (r *Rigid) InvMass() float64    { return r.invMass }
func (r *Rigid) Elasticity() float64 { return r.elasticity }

// Static reports whether the set has infinite mass.
func (r *Rigid) Static() bool { return r.invMass == 0 }

func (r *Rigid) Velocity(i int) mgl64.Vec2 { return r.vel[i] }

// SetVelocity overwrites the velocity of body i. It is meant for setup code,
// not for use between detection and integration.
func (r *Rigid) SetVelocity(i int, v mgl64.Vec2) { r.vel[i] = v }

// Velocities returns a copy of every velocity.
func (r *Rigid) Velocities() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, r.n)
	copy(out, r.vel)
	return out
}

func (r *Rigid) Delta(i int) mgl64.Vec2 { return r.delta[i] }

func (r *Rigid) AccumulateDelta(i int, dv mgl64.Vec2) {
	r.delta[i] = r.delta[i].Add(dv)
}

func (r *Rigid) ClearDelta() {
	for i := range r.delta {
		r.delta[i] = mgl64.Vec2{}
	}
}

// applyDelta folds the pending delta into the velocity and returns it.
func (r *Rigid) applyDelta(i int) mgl64.Vec2 {
	r.vel[i] = r.vel[i].Add(r.delta[i])
	return r.vel[i]
}

// KineticEnergy returns Σ m|v|²/2, which is zero for infinite mass sets.
func (r *Rigid) KineticEnergy() float64 {
	if r.Static() {
		return 0
	}
	k := 0.0
	for _, v := range r.vel {
		k += r.mass * v.LenSqr()
	}
	return k / 2
}

// Momentum returns Σ m·v, which is zero for infinite mass sets.
func (r *Rigid) Momentum() mgl64.Vec2 {
	var p mgl64.Vec2
	if r.Static() {
		return p
	}
	for _, v := range r.vel {
		p = p.Add(v.Mul(r.mass))
	}
	return p
}

func (r *Rigid) validVelocities() bool {
	for i := range r.vel {
		if !finite(r.vel[i]) || !finite(r.delta[i]) {
			return false
		}
	}
	return true
}

func finite(v mgl64.Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
