package demon

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
)

func TestSpawnPlacesWithoutOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	regions := DefaultLayout().Chambers()
	r := 0.015

	pos, headings, err := Spawn(rng, 30, r, regions, DefaultMaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 30 || len(headings) != 30 {
		t.Fatalf("got %d positions, %d headings", len(pos), len(headings))
	}

	for i, p := range pos {
		inside := false
		for _, reg := range regions {
			if p[0]-r >= reg.Min[0] && p[0]+r <= reg.Max[0] && p[1]-r >= reg.Min[1] && p[1]+r <= reg.Max[1] {
				inside = true
			}
		}
		if !inside {
			t.Errorf("body %d at %v outside every chamber", i, p)
		}
		if headings[i] < 0 || headings[i] >= 2*math.Pi {
			t.Errorf("heading %d = %v", i, headings[i])
		}
		for j := 0; j < i; j++ {
			if d := p.Sub(pos[j]).Len(); d < 2*r {
				t.Errorf("bodies %d and %d overlap (d=%v)", i, j, d)
			}
		}
	}
}

func TestSpawnDeterministic(t *testing.T) {
	a, _, err := Spawn(rand.New(rand.NewSource(3)), 10, 0.02, DefaultLayout().Chambers(), 100)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Spawn(rand.New(rand.NewSource(3)), 10, 0.02, DefaultLayout().Chambers(), 100)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different placements at %d", i)
		}
	}
}

func TestSpawnGivesUp(t *testing.T) {
	tight := []Region{{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{0.1, 0.1}}}

	_, _, err := Spawn(rand.New(rand.NewSource(1)), 5, 0.04, tight, 50)
	if !errors.Is(err, dynamo.ErrPlacement) {
		t.Errorf("expected ErrPlacement, got %v", err)
	}

	_, _, err = Spawn(rand.New(rand.NewSource(1)), 1, 0.06, tight, 50)
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for a region smaller than the body, got %v", err)
	}
}

func TestNewBallsSpeed(t *testing.T) {
	g := Group{Count: 2, Mass: 1, Radius: 0.015, Speed: 80, Elasticity: 1}
	balls, err := NewBalls(g, []mgl64.Vec2{{0.2, 0.2}, {0.7, 0.7}}, []float64{0, math.Pi / 3})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < balls.Len(); i++ {
		if s := balls.Velocity(i).Len(); math.Abs(s-80) > 1e-9 {
			t.Errorf("ball %d speed = %v", i, s)
		}
	}

	if _, err := NewBalls(g, []mgl64.Vec2{{0.2, 0.2}}, nil); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
