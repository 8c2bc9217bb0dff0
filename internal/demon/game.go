package demon

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/demonsim/internal/dynamo"
	"github.com/san-kum/demonsim/internal/physics"
)

type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusTimeUp
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusTimeUp:
		return "time up"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options configures a game. Left balls must end up left of the divider,
// Right balls right of it.
type Options struct {
	Layout         Layout
	Left, Right    Group
	WallElasticity float64
	GateStep       float64
	GateMinLength  float64
	TimeLimit      time.Duration
	MaxRetries     int
	// Goal disables the win check when false, for free-running scenarios.
	Goal           bool
}

func DefaultOptions() Options {
	ball := Group{Count: 15, Mass: 1, Radius: 0.015, Speed: 80, Elasticity: 1}
	return Options{
		Layout:         DefaultLayout(),
		Left:           ball,
		Right:          ball,
		WallElasticity: 1,
		GateStep:       0.02,
		GateMinLength:  0.02,
		TimeLimit:      90 * time.Second,
		MaxRetries:     DefaultMaxRetries,
		Goal:           true,
	}
}

// Game is the Maxwell's demon round: two ball groups, the walls, and a gate
// the player moves between physics steps.
type Game struct {
	left, right *physics.Circles
	walls       *physics.Boxes
	gate        *Gate
	world       *physics.World
	line        float64
	goal        bool
	timeLimit   time.Duration
	elapsed     time.Duration
	status      Status
	steps       int
}

// NewGame spawns both groups with rng and assembles the world.
func NewGame(opts Options, rng *rand.Rand) (*Game, error) {
	walls, err := NewWalls(opts.Layout, opts.WallElasticity)
	if err != nil {
		return nil, fmt.Errorf("walls: %w", err)
	}

	n := opts.Left.Count + opts.Right.Count
	radius := max(opts.Left.Radius, opts.Right.Radius)
	retries := opts.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}
	pos, headings, err := Spawn(rng, n, radius, opts.Layout.Chambers(), retries)
	if err != nil {
		return nil, err
	}

	k := opts.Left.Count
	left, err := NewBalls(opts.Left, pos[:k], headings[:k])
	if err != nil {
		return nil, fmt.Errorf("left balls: %w", err)
	}
	right, err := NewBalls(opts.Right, pos[k:], headings[k:])
	if err != nil {
		return nil, fmt.Errorf("right balls: %w", err)
	}

	return Assemble(opts, walls, left, right)
}

// Assemble builds a game from already constructed bodies.
func Assemble(opts Options, walls *physics.Boxes, left, right *physics.Circles) (*Game, error) {
	world, err := physics.NewWorld(walls, left, right)
	if err != nil {
		return nil, err
	}

	g := &Game{
		left:      left,
		right:     right,
		walls:     walls,
		world:     world,
		line:      opts.Layout.DividerX,
		goal:      opts.Goal,
		timeLimit: opts.TimeLimit,
	}
	if !opts.Layout.NoDivider {
		g.gate, err = NewGate(walls, opts.GateStep, opts.GateMinLength)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) World() *physics.World   { return g.world }
func (g *Game) Left() *physics.Circles  { return g.left }
func (g *Game) Right() *physics.Circles { return g.right }
func (g *Game) Walls() *physics.Boxes   { return g.walls }
func (g *Game) Status() Status          { return g.status }
func (g *Game) Steps() int              { return g.steps }
func (g *Game) Line() float64           { return g.line }

// Gate returns nil for layouts without a divider.
func (g *Game) Gate() *Gate { return g.gate }

func (g *Game) Remaining() time.Duration {
	if g.timeLimit <= 0 {
		return 0
	}
	return max(g.timeLimit-g.elapsed, 0)
}

// RemainingFraction is Remaining over the time limit, 1 without a limit.
func (g *Game) RemainingFraction() float64 {
	if g.timeLimit <= 0 {
		return 1
	}
	return float64(g.Remaining()) / float64(g.timeLimit)
}

// Sorted reports whether every ball sits fully on its target side.
func (g *Game) Sorted() bool {
	return g.left.AllInside(physics.SideLeft, g.line) && g.right.AllInside(physics.SideRight, g.line)
}

// Done reports whether a goal-driven game has been sorted.
func (g *Game) Done() bool {
	return g.goal && g.Sorted()
}

// Score is the percentage of balls strictly on their target side.
func (g *Game) Score() float64 {
	n := g.left.Len() + g.right.Len()
	if n == 0 {
		return 100
	}
	ok := g.left.CountInside(physics.SideLeft, g.line) + g.right.CountInside(physics.SideRight, g.line)
	return 100 * float64(ok) / float64(n)
}

// MoveGate shifts the gate while the round is running.
func (g *Game) MoveGate(dir Direction) float64 {
	if g.gate == nil || g.status != StatusPlaying {
		return 0
	}
	return g.gate.Move(dir)
}

// Stop ends a running round early. State freezes from here on.
func (g *Game) Stop() {
	if g.status == StatusPlaying {
		g.status = StatusTimeUp
	}
}

// Tick advances the round clock by elapsed and, while the round is still
// running, the physics by one step of size h.
func (g *Game) Tick(h float64, elapsed time.Duration) error {
	if g.status != StatusPlaying {
		return nil
	}
	if g.Done() {
		g.status = StatusWon
		return nil
	}
	g.elapsed += elapsed
	if g.timeLimit > 0 && g.elapsed >= g.timeLimit {
		g.status = StatusTimeUp
		return nil
	}

	if err := g.world.Step(h); err != nil {
		return err
	}
	g.steps++
	if !g.world.Valid() {
		g.status = StatusTimeUp
		return &dynamo.SimulationError{Step: g.steps, Time: g.elapsed.Seconds(), Wrapped: dynamo.ErrInvalidState}
	}
	return nil
}
