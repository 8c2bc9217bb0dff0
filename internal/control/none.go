package control

import "github.com/san-kum/demonsim/internal/demon"

// None leaves the gate alone.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Decide(g *demon.Game) (demon.Direction, bool) {
	return 0, false
}
