package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

// Boxes is a group of axis-aligned boxes. Each box is stored as its top-left
// (minimum) and bottom-right (maximum) corner and only ever translates.
type Boxes struct {
	Rigid
	topLeft     []mgl64.Vec2
	bottomRight []mgl64.Vec2
}

var _ dynamo.Body = (*Boxes)(nil)

func NewBoxes(mass, elasticity float64, topLeft, bottomRight, vel []mgl64.Vec2) (*Boxes, error) {
	if len(topLeft) != len(bottomRight) || len(topLeft) != len(vel) {
		return nil, fmt.Errorf("boxes: %d/%d corners, %d velocities: %w",
			len(topLeft), len(bottomRight), len(vel), dynamo.ErrDimensionMismatch)
	}
	for i := range topLeft {
		if !finite(topLeft[i]) || !finite(bottomRight[i]) {
			return nil, fmt.Errorf("boxes: box %d: %w", i, dynamo.ErrInvalidState)
		}
		if topLeft[i][0] > bottomRight[i][0] || topLeft[i][1] > bottomRight[i][1] {
			return nil, fmt.Errorf("boxes: box %d inverted: %w", i, dynamo.ErrParameterBounds)
		}
	}
	rigid, err := newRigid(mass, elasticity, vel)
	if err != nil {
		return nil, fmt.Errorf("boxes: %w", err)
	}

	b := &Boxes{
		Rigid:       rigid,
		topLeft:     make([]mgl64.Vec2, len(topLeft)),
		bottomRight: make([]mgl64.Vec2, len(bottomRight)),
	}
	copy(b.topLeft, topLeft)
	copy(b.bottomRight, bottomRight)
	return b, nil
}

// Corners returns the top-left and bottom-right corner of box i.
func (b *Boxes) Corners(i int) (mgl64.Vec2, mgl64.Vec2) {
	return b.topLeft[i], b.bottomRight[i]
}

func (b *Boxes) Center(i int) mgl64.Vec2 {
	return b.topLeft[i].Add(b.bottomRight[i]).Mul(0.5)
}

func (b *Boxes) HalfExtents(i int) mgl64.Vec2 {
	return mgl64.Vec2{
		math.Abs(b.topLeft[i][0]-b.bottomRight[i][0]) / 2,
		math.Abs(b.topLeft[i][1]-b.bottomRight[i][1]) / 2,
	}
}

// SetSpan replaces the vertical extent of box i. External controls use it
// between steps; physics never calls it.
func (b *Boxes) SetSpan(i int, minY, maxY float64) error {
	if minY > maxY || math.IsNaN(minY) || math.IsNaN(maxY) {
		return fmt.Errorf("boxes: span [%v, %v]: %w", minY, maxY, dynamo.ErrParameterBounds)
	}
	b.topLeft[i][1] = minY
	b.bottomRight[i][1] = maxY
	return nil
}

// Integrate applies pending deltas and translates every box by h·v.
func (b *Boxes) Integrate(h float64) {
	for i := 0; i < b.n; i++ {
		step := b.applyDelta(i).Mul(h)
		b.topLeft[i] = b.topLeft[i].Add(step)
		b.bottomRight[i] = b.bottomRight[i].Add(step)
	}
	b.ClearDelta()
}

func (b *Boxes) Valid() bool {
	for i := range b.topLeft {
		if !finite(b.topLeft[i]) || !finite(b.bottomRight[i]) {
			return false
		}
	}
	return b.validVelocities()
}
