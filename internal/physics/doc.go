// Package physics implements impulse-based collision response for
// non-rotating 2D rigid bodies.
//
// Two body sets are provided, both embedding [Rigid]:
//
//   - [Circles]: equal-radius circles, with self, circle-set and box tests
//   - [Boxes]: axis-aligned boxes that only translate
//
// Narrow-phase calls never touch velocity or position. They accumulate
// into each body's pending delta, which [Circles.Integrate] and
// [Boxes.Integrate] fold into the velocity before moving the body
// (semi-implicit Euler) and then clear. [World] orders this as two
// phases per step:
//
//	w, _ := physics.NewWorld(walls, yellow, white)
//	for i := 0; i < steps; i++ {
//	    if err := w.Step(h); err != nil {
//	        return err
//	    }
//	}
//
// A mass of zero marks a set as infinitely massive. Such sets can be hit
// but never pushed, and [NewWorld] refuses to pair two of them.
package physics
