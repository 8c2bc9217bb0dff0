package physics

import (
	"fmt"

	"github.com/san-kum/demonsim/internal/dynamo"
)

// ResolvePair accumulates both directions of a cross-set interaction, so
// each contact impulse reaches a and b with opposite signs.
func ResolvePair(a, b *Circles) {
	a.CollideCircles(b)
	b.CollideCircles(a)
}

// checkPair rejects pairings in which neither side can move.
func checkPair(a, b dynamo.Body) error {
	if a.InvMass() == 0 && b.InvMass() == 0 {
		return fmt.Errorf("physics: %w", dynamo.ErrStaticPair)
	}
	return nil
}
