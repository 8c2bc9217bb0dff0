package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

// Side selects a half of the playfield relative to a vertical line.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Circles is a group of equal-radius circles sharing mass and elasticity.
type Circles struct {
	Rigid
	pos    []mgl64.Vec2
	radius float64
}

var _ dynamo.Body = (*Circles)(nil)

func NewCircles(mass, elasticity, radius float64, pos, vel []mgl64.Vec2) (*Circles, error) {
	if len(pos) != len(vel) {
		return nil, fmt.Errorf("circles: %d positions, %d velocities: %w", len(pos), len(vel), dynamo.ErrDimensionMismatch)
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("circles: radius %v: %w", radius, dynamo.ErrParameterBounds)
	}
	rigid, err := newRigid(mass, elasticity, vel)
	if err != nil {
		return nil, fmt.Errorf("circles: %w", err)
	}

	c := &Circles{
		Rigid:  rigid,
		pos:    make([]mgl64.Vec2, len(pos)),
		radius: radius,
	}
	copy(c.pos, pos)
	return c, nil
}

func (c *Circles) Radius() float64           { return c.radius }
func (c *Circles) Position(i int) mgl64.Vec2 { return c.pos[i] }

// Positions returns a copy of every center.
func (c *Circles) Positions() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, c.n)
	copy(out, c.pos)
	return out
}

// SelfCollide accumulates impulses for every overlapping pair inside the set.
// Both bodies of a pair are updated, so the loop stays serial.
func (c *Circles) SelfCollide() {
	minDist := 2 * c.radius
	for i := 0; i < c.n; i++ {
		for j := i + 1; j < c.n; j++ {
			diff := c.pos[j].Sub(c.pos[i])
			if diff.Len() >= minDist {
				continue
			}
			normal, ok := unit(diff)
			if !ok {
				continue
			}
			rv := c.vel[j].Sub(c.vel[i])
			impulse := Resolve(rv, normal, c.elasticity, c.elasticity, c.invMass, c.invMass)
			dv := impulse.Mul(c.invMass)
			c.delta[i] = c.delta[i].Sub(dv)
			c.delta[j] = c.delta[j].Add(dv)
		}
	}
}

// CollideCircles accumulates this set's response to contacts with other.
// Only this set's deltas are written; other must make the reciprocal call
// for the pair to conserve momentum. See ResolvePair.
func (c *Circles) CollideCircles(other *Circles) {
	minDist := c.radius + other.radius
	dynamo.ParallelFor(c.n, dynamo.MinParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < other.n; j++ {
				diff := other.pos[j].Sub(c.pos[i])
				if diff.Len() >= minDist {
					continue
				}
				normal, ok := unit(diff)
				if !ok {
					continue
				}
				rv := other.vel[j].Sub(c.vel[i])
				impulse := Resolve(rv, normal, c.elasticity, other.elasticity, c.invMass, other.invMass)
				c.delta[i] = c.delta[i].Sub(impulse.Mul(c.invMass))
			}
		}
	})
}

// CollideBoxes accumulates this set's response to contacts with the boxes.
// The boxes themselves are never pushed.
func (c *Circles) CollideBoxes(boxes *Boxes) {
	dynamo.ParallelFor(c.n, dynamo.MinParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < boxes.n; j++ {
				offset := c.pos[i].Sub(boxes.Center(j))
				half := boxes.HalfExtents(j)
				closest := mgl64.Vec2{
					clamp(offset[0], -half[0], half[0]),
					clamp(offset[1], -half[1], half[1]),
				}
				normal := offset.Sub(closest)
				if normal.Len() >= c.radius {
					continue
				}
				normal, ok := unit(normal)
				if !ok {
					continue
				}
				rv := c.vel[i].Sub(boxes.vel[j])
				impulse := Resolve(rv, normal, c.elasticity, boxes.elasticity, c.invMass, boxes.invMass)
				c.delta[i] = c.delta[i].Add(impulse.Mul(c.invMass))
			}
		}
	})
}

// Integrate applies the pending deltas and advances positions by h.
func (c *Circles) Integrate(h float64) {
	for i := 0; i < c.n; i++ {
		v := c.applyDelta(i)
		c.pos[i] = c.pos[i].Add(v.Mul(h))
	}
	c.ClearDelta()
}

// CountInside counts circles lying strictly on one side of the vertical line x = line.
func (c *Circles) CountInside(side Side, line float64) int {
	num := 0
	for _, p := range c.pos {
		switch side {
		case SideLeft:
			if p[0]+c.radius < line {
				num++
			}
		case SideRight:
			if p[0]-c.radius > line {
				num++
			}
		}
	}
	return num
}

// AllInside reports whether no circle crosses the line x = line from the given side.
func (c *Circles) AllInside(side Side, line float64) bool {
	for _, p := range c.pos {
		if side == SideLeft && p[0]+c.radius > line {
			return false
		}
		if side == SideRight && p[0]-c.radius < line {
			return false
		}
	}
	return true
}

func (c *Circles) FractionInside(side Side, line float64) float64 {
	if c.n == 0 {
		return 1
	}
	return float64(c.CountInside(side, line)) / float64(c.n)
}

// Valid reports whether every position, velocity and delta is finite.
func (c *Circles) Valid() bool {
	for _, p := range c.pos {
		if !finite(p) {
			return false
		}
	}
	return c.validVelocities()
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(math.Min(x, hi), lo)
}
