package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Resolve returns the collision impulse for a contact with relative velocity
// rv along the unit normal. Separating or resting contacts (rv·normal >= 0)
// get no impulse, and so do pairs where neither body has finite mass.
func Resolve(rv, normal mgl64.Vec2, elasticityA, elasticityB, invMassA, invMassB float64) mgl64.Vec2 {
	vn := rv.Dot(normal)
	if vn >= 0 {
		return mgl64.Vec2{}
	}

	invSum := invMassA + invMassB
	if invSum == 0 {
		return mgl64.Vec2{}
	}

	e := math.Min(elasticityA, elasticityB)
	j := -(1 + e) * vn / invSum
	return normal.Mul(j)
}

// unit normalizes v, reporting false for a zero-length vector.
func unit(v mgl64.Vec2) (mgl64.Vec2, bool) {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}, false
	}
	return v.Mul(1 / l), true
}

// VelocityFromHeading converts a speed and heading angle (radians) to a velocity.
func VelocityFromHeading(speed, theta float64) mgl64.Vec2 {
	s, c := math.Sincos(theta)
	return mgl64.Vec2{c * speed, s * speed}
}
