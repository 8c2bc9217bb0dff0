package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

func boundary(t *testing.T, e float64) *Boxes {
	t.Helper()
	b, err := NewBoxes(0, e,
		[]mgl64.Vec2{{0, 0}, {0.99, 0}, {0.01, 0}, {0.01, 0.99}},
		[]mgl64.Vec2{{0.01, 1}, {1, 1}, {0.99, 0.01}, {0.99, 1}},
		make([]mgl64.Vec2, 4),
	)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestWorldClosedSystemConservation(t *testing.T) {
	a := mustCircles(t, 1, 1, 0.05,
		[]mgl64.Vec2{{0, 0}, {0, 1}},
		[]mgl64.Vec2{{1, 0}, {0.5, 0}},
	)
	b := mustCircles(t, 2, 1, 0.05,
		[]mgl64.Vec2{{0.3, 0.02}, {0.6, 1}},
		[]mgl64.Vec2{{-1, 0}, {-0.5, 0.1}},
	)
	w, err := NewWorld(nil, a, b)
	if err != nil {
		t.Fatal(err)
	}

	e0 := w.KineticEnergy()
	p0 := w.Momentum()
	v0 := a.Velocity(0)

	for i := 0; i < 1000; i++ {
		if err := w.Step(0.001); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if a.Velocity(0) == v0 {
		t.Fatal("expected the pair to collide")
	}
	if drift := math.Abs(w.KineticEnergy()-e0) / e0; drift > 1e-9 {
		t.Errorf("energy drift %g", drift)
	}
	if p := w.Momentum(); !p.ApproxEqualThreshold(p0, 1e-9) {
		t.Errorf("momentum %v -> %v", p0, p)
	}
}

func TestWorldBallStaysInBox(t *testing.T) {
	ball := mustCircles(t, 1, 1, 0.05,
		[]mgl64.Vec2{{0.5, 0.5}},
		[]mgl64.Vec2{{1, 0.7}},
	)
	w, err := NewWorld(boundary(t, 1), ball)
	if err != nil {
		t.Fatal(err)
	}
	e0 := w.KineticEnergy()

	for i := 0; i < 5000; i++ {
		if err := w.Step(0.001); err != nil {
			t.Fatal(err)
		}
		p := ball.Position(0)
		if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
			t.Fatalf("step %d: ball escaped to %v", i, p)
		}
	}

	if drift := math.Abs(w.KineticEnergy()-e0) / e0; drift > 1e-9 {
		t.Errorf("energy drift %g against static walls", drift)
	}
}

func TestNewWorldRejectsStaticPairs(t *testing.T) {
	static := mustCircles(t, 0, 1, 0.05, []mgl64.Vec2{{0.5, 0.5}}, []mgl64.Vec2{{0, 0}})
	other := mustCircles(t, 0, 1, 0.05, []mgl64.Vec2{{0.2, 0.5}}, []mgl64.Vec2{{0, 0}})
	moving := mustCircles(t, 1, 1, 0.05, []mgl64.Vec2{{0.7, 0.5}}, []mgl64.Vec2{{1, 0}})

	if _, err := NewWorld(boundary(t, 1), static); !errors.Is(err, dynamo.ErrStaticPair) {
		t.Errorf("static circles vs static walls: got %v", err)
	}
	if _, err := NewWorld(nil, static, other); !errors.Is(err, dynamo.ErrStaticPair) {
		t.Errorf("two static sets: got %v", err)
	}
	if _, err := NewWorld(boundary(t, 1), moving); err != nil {
		t.Errorf("moving circles vs walls: %v", err)
	}
	if _, err := NewWorld(nil, static, moving); err != nil {
		t.Errorf("static vs moving circles: %v", err)
	}
}

func TestWorldPhaseOrder(t *testing.T) {
	c := mustCircles(t, 1, 1, 0.05, []mgl64.Vec2{{0.5, 0.5}}, []mgl64.Vec2{{1, 0}})
	w, err := NewWorld(nil, c)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Integrate(0.01); !errors.Is(err, dynamo.ErrPhaseOrder) {
		t.Errorf("integrate before detect: got %v", err)
	}
	if err := w.DetectAndAccumulate(); err != nil {
		t.Fatal(err)
	}
	if w.Phase() != dynamo.PhaseAccumulated {
		t.Errorf("phase = %s", w.Phase())
	}
	if err := w.DetectAndAccumulate(); !errors.Is(err, dynamo.ErrPhaseOrder) {
		t.Errorf("detect twice: got %v", err)
	}
	if err := w.Integrate(0.01); err != nil {
		t.Fatal(err)
	}
	if w.Phase() != dynamo.PhaseIdle {
		t.Errorf("phase = %s", w.Phase())
	}
	if err := w.Step(0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("zero step: got %v", err)
	}
}

func TestWorldValid(t *testing.T) {
	c := mustCircles(t, 1, 1, 0.05, []mgl64.Vec2{{0.5, 0.5}}, []mgl64.Vec2{{1, 0}})
	w, err := NewWorld(boundary(t, 1), c)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Valid() {
		t.Fatal("fresh world should be valid")
	}

	c.SetVelocity(0, mgl64.Vec2{math.NaN(), 0})
	if w.Valid() {
		t.Error("NaN velocity should invalidate the world")
	}
}
