package demon

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
	"github.com/san-kum/demonsim/internal/physics"
)

func assembled(t *testing.T, opts Options, leftPos, rightPos []mgl64.Vec2) *Game {
	t.Helper()
	walls, err := NewWalls(opts.Layout, opts.WallElasticity)
	if err != nil {
		t.Fatal(err)
	}
	left, err := physics.NewCircles(1, 1, 0.015, leftPos, make([]mgl64.Vec2, len(leftPos)))
	if err != nil {
		t.Fatal(err)
	}
	right, err := physics.NewCircles(1, 1, 0.015, rightPos, make([]mgl64.Vec2, len(rightPos)))
	if err != nil {
		t.Fatal(err)
	}
	g, err := Assemble(opts, walls, left, right)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGameDefaults(t *testing.T) {
	g, err := NewGame(DefaultOptions(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	if g.Left().Len() != 15 || g.Right().Len() != 15 {
		t.Errorf("group sizes %d/%d", g.Left().Len(), g.Right().Len())
	}
	if g.Status() != StatusPlaying {
		t.Errorf("status = %s", g.Status())
	}
	if s := g.Score(); s < 0 || s > 100 {
		t.Errorf("score out of range: %v", s)
	}
	if g.Remaining() != 90*time.Second {
		t.Errorf("remaining = %v", g.Remaining())
	}
}

func TestNewGamePlacementFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.Left.Count = 500
	opts.Left.Radius = 0.05
	opts.MaxRetries = 20

	_, err := NewGame(opts, rand.New(rand.NewSource(1)))
	if !errors.Is(err, dynamo.ErrPlacement) {
		t.Errorf("expected ErrPlacement, got %v", err)
	}
}

func TestGameWinsWhenSorted(t *testing.T) {
	g := assembled(t, DefaultOptions(),
		[]mgl64.Vec2{{0.2, 0.5}, {0.3, 0.2}},
		[]mgl64.Vec2{{0.8, 0.5}},
	)

	if err := g.Tick(5e-5, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if g.Status() != StatusWon {
		t.Errorf("status = %s, want won", g.Status())
	}
	if g.Score() != 100 {
		t.Errorf("score = %v", g.Score())
	}
	if g.Steps() != 0 {
		t.Errorf("a won round must not step, took %d steps", g.Steps())
	}
}

func TestGameWithoutGoalNeverWins(t *testing.T) {
	opts := DefaultOptions()
	opts.Goal = false
	g := assembled(t, opts,
		[]mgl64.Vec2{{0.2, 0.5}},
		[]mgl64.Vec2{{0.8, 0.5}},
	)

	for i := 0; i < 10; i++ {
		if err := g.Tick(5e-5, time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	if g.Status() != StatusPlaying || g.Steps() != 10 {
		t.Errorf("status %s after %d steps", g.Status(), g.Steps())
	}
}

func TestGameTimesOut(t *testing.T) {
	opts := DefaultOptions()
	opts.TimeLimit = 10 * time.Millisecond
	g := assembled(t, opts,
		[]mgl64.Vec2{{0.8, 0.5}},
		[]mgl64.Vec2{{0.2, 0.5}},
	)

	for i := 0; i < 20; i++ {
		if err := g.Tick(5e-5, time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}

	if g.Status() != StatusTimeUp {
		t.Fatalf("status = %s, want time up", g.Status())
	}
	if g.Steps() != 9 {
		t.Errorf("steps = %d, want 9", g.Steps())
	}
	if g.Remaining() != 0 {
		t.Errorf("remaining = %v", g.Remaining())
	}
	if g.Score() != 0 {
		t.Errorf("score = %v, want 0", g.Score())
	}
}

func TestGameStopFreezesGate(t *testing.T) {
	g := assembled(t, DefaultOptions(),
		[]mgl64.Vec2{{0.8, 0.5}},
		[]mgl64.Vec2{{0.2, 0.5}},
	)

	if g.MoveGate(DirIncreaseY) == 0 {
		t.Error("gate should move while playing")
	}
	g.Stop()
	if g.Status() != StatusTimeUp {
		t.Errorf("status = %s", g.Status())
	}
	if g.MoveGate(DirIncreaseY) != 0 {
		t.Error("gate moved after the round stopped")
	}
	if err := g.Tick(5e-5, time.Millisecond); err != nil || g.Steps() != 0 {
		t.Errorf("stopped round stepped: %v, %d", err, g.Steps())
	}
}
