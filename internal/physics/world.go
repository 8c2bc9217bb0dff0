package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

// World drives one simulation step over a fixed collection of circle sets
// and a single wall set. Each step is two phases: every contact in the world
// is detected and accumulated, then every set integrates. No set integrates
// while another can still read its velocities.
type World struct {
	sets  []*Circles
	walls *Boxes
	phase dynamo.Phase
}

// NewWorld validates the pairings the step will perform. walls may be nil.
func NewWorld(walls *Boxes, sets ...*Circles) (*World, error) {
	for i, s := range sets {
		if s == nil {
			return nil, fmt.Errorf("physics: circle set %d is nil: %w", i, dynamo.ErrParameterBounds)
		}
		if walls != nil && walls.Len() > 0 && s.Len() > 0 {
			if err := checkPair(s, walls); err != nil {
				return nil, fmt.Errorf("circle set %d vs walls: %w", i, err)
			}
		}
		for j := i + 1; j < len(sets); j++ {
			if sets[j] == nil || s.Len() == 0 || sets[j].Len() == 0 {
				continue
			}
			if err := checkPair(s, sets[j]); err != nil {
				return nil, fmt.Errorf("circle sets %d and %d: %w", i, j, err)
			}
		}
	}
	return &World{sets: sets, walls: walls}, nil
}

func (w *World) Sets() []*Circles    { return w.sets }
func (w *World) Walls() *Boxes       { return w.walls }
func (w *World) Phase() dynamo.Phase { return w.phase }

// DetectAndAccumulate runs every narrow-phase test of the step. Nothing moves.
func (w *World) DetectAndAccumulate() error {
	if w.phase != dynamo.PhaseIdle {
		return fmt.Errorf("detect during %s: %w", w.phase, dynamo.ErrPhaseOrder)
	}
	for i, s := range w.sets {
		s.SelfCollide()
		if w.walls != nil {
			s.CollideBoxes(w.walls)
		}
		for _, other := range w.sets[i+1:] {
			ResolvePair(s, other)
		}
	}
	w.phase = dynamo.PhaseAccumulated
	return nil
}

// Integrate advances every set by h and clears all deltas.
func (w *World) Integrate(h float64) error {
	if w.phase != dynamo.PhaseAccumulated {
		return fmt.Errorf("integrate during %s: %w", w.phase, dynamo.ErrPhaseOrder)
	}
	for _, s := range w.sets {
		s.Integrate(h)
	}
	if w.walls != nil {
		w.walls.Integrate(h)
	}
	w.phase = dynamo.PhaseIdle
	return nil
}

func (w *World) Step(h float64) error {
	if h <= 0 {
		return fmt.Errorf("step %v: %w", h, dynamo.ErrParameterBounds)
	}
	if err := w.DetectAndAccumulate(); err != nil {
		return err
	}
	return w.Integrate(h)
}

func (w *World) KineticEnergy() float64 {
	k := 0.0
	for _, s := range w.sets {
		k += s.KineticEnergy()
	}
	return k
}

func (w *World) Momentum() mgl64.Vec2 {
	var p mgl64.Vec2
	for _, s := range w.sets {
		p = p.Add(s.Momentum())
	}
	return p
}

func (w *World) Bodies() int {
	n := 0
	for _, s := range w.sets {
		n += s.Len()
	}
	return n
}

func (w *World) Valid() bool {
	for _, s := range w.sets {
		if !s.Valid() {
			return false
		}
	}
	return w.walls == nil || w.walls.Valid()
}
