package control

import (
	"math"

	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/physics"
)

// Policy picks a gate move for the current game state. ok is false when
// the gate should stay put.
type Policy interface {
	Decide(g *demon.Game) (dir demon.Direction, ok bool)
}

// Greedy predicts, ignoring bounces, where each ball heading for the
// divider from the wrong side will cross it, and moves the opening
// towards the earliest such crossing.
type Greedy struct{}

func NewGreedy() *Greedy { return &Greedy{} }

func (p *Greedy) Decide(g *demon.Game) (demon.Direction, bool) {
	gate := g.Gate()
	if gate == nil {
		return 0, false
	}

	line := g.Line()
	bestT := math.Inf(1)
	target := math.NaN()

	consider := func(c *physics.Circles, wrong physics.Side) {
		for i := 0; i < c.Len(); i++ {
			pos, vel := c.Position(i), c.Velocity(i)
			dx := line - pos[0]
			onWrong := (wrong == physics.SideLeft && dx > 0) || (wrong == physics.SideRight && dx < 0)
			if !onWrong || vel[0] == 0 || math.Signbit(dx) != math.Signbit(vel[0]) {
				continue
			}
			t := dx / vel[0]
			if t < bestT {
				bestT = t
				target = pos[1] + vel[1]*t
			}
		}
	}
	// Left balls belong left, so they are wrong on the right.
	consider(g.Left(), physics.SideRight)
	consider(g.Right(), physics.SideLeft)

	if math.IsNaN(target) {
		return 0, false
	}

	top, bottom := gate.Opening()
	center := (top + bottom) / 2
	switch {
	case target < center-gate.Step()/2:
		return demon.DirDecreaseY, true
	case target > center+gate.Step()/2:
		return demon.DirIncreaseY, true
	}
	return 0, false
}
