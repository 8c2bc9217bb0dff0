package control

import (
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/physics"
)

// Autopilot consults a policy every few steps and moves the gate. It
// satisfies sim.Observer, so it runs between physics steps.
type Autopilot struct {
	game   *demon.Game
	policy Policy
	every  int
	n      int
	moves  int
}

func NewAutopilot(game *demon.Game, policy Policy, every int) *Autopilot {
	return &Autopilot{game: game, policy: policy, every: max(every, 1)}
}

func (a *Autopilot) OnStep(_ *physics.World, _ float64) {
	a.n++
	if a.n%a.every != 0 {
		return
	}
	a.Act()
}

// Act asks the policy once and applies its move.
func (a *Autopilot) Act() {
	dir, ok := a.policy.Decide(a.game)
	if !ok {
		return
	}
	if a.game.MoveGate(dir) != 0 {
		a.moves++
	}
}

// Moves counts gate moves that actually shifted the opening.
func (a *Autopilot) Moves() int { return a.moves }
