package demon

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
	"github.com/san-kum/demonsim/internal/physics"
)

// Wall indices inside the box set built by NewWalls.
const (
	WallLeft = iota
	WallRight
	WallTop
	WallBottom
	WallGateUpper
	WallGateLower
	numWalls
)

// Layout describes the unit-square playfield: a boundary of the given
// thickness and a vertical divider at DividerX with an opening between
// GapTop and GapBottom.
type Layout struct {
	Thickness   float64 `yaml:"thickness"`
	DividerX    float64 `yaml:"divider_x"`
	DividerHalf float64 `yaml:"divider_half"`
	GapTop      float64 `yaml:"gap_top"`
	GapBottom   float64 `yaml:"gap_bottom"`
	NoDivider   bool    `yaml:"no_divider"`
}

func DefaultLayout() Layout {
	return Layout{
		Thickness:   0.01,
		DividerX:    0.5,
		DividerHalf: 0.005,
		GapTop:      0.45,
		GapBottom:   0.55,
	}
}

func (l Layout) Validate() error {
	t := l.Thickness
	if t <= 0 || t >= 0.5 {
		return fmt.Errorf("layout thickness %v: %w", t, dynamo.ErrParameterBounds)
	}
	if l.NoDivider {
		return nil
	}
	if l.DividerHalf <= 0 || l.DividerX-l.DividerHalf <= t || l.DividerX+l.DividerHalf >= 1-t {
		return fmt.Errorf("layout divider at %v±%v: %w", l.DividerX, l.DividerHalf, dynamo.ErrParameterBounds)
	}
	if l.GapTop < t || l.GapBottom > 1-t || l.GapTop >= l.GapBottom {
		return fmt.Errorf("layout gap [%v, %v]: %w", l.GapTop, l.GapBottom, dynamo.ErrParameterBounds)
	}
	return nil
}

// NewWalls builds the static wall set: four boundary walls and, unless the
// layout disables it, the two divider walls framing the gate opening.
func NewWalls(l Layout, elasticity float64) (*physics.Boxes, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	t := l.Thickness

	tl := []mgl64.Vec2{
		{0, 0},
		{1 - t, 0},
		{t, 0},
		{t, 1 - t},
	}
	br := []mgl64.Vec2{
		{t, 1},
		{1, 1},
		{1 - t, t},
		{1 - t, 1},
	}
	if !l.NoDivider {
		x0, x1 := l.DividerX-l.DividerHalf, l.DividerX+l.DividerHalf
		tl = append(tl, mgl64.Vec2{x0, t}, mgl64.Vec2{x0, l.GapBottom})
		br = append(br, mgl64.Vec2{x1, l.GapTop}, mgl64.Vec2{x1, 1 - t})
	}

	return physics.NewBoxes(0, elasticity, tl, br, make([]mgl64.Vec2, len(tl)))
}

// Direction is a gate move along the y axis.
type Direction int

const (
	DirDecreaseY Direction = iota
	DirIncreaseY
)

// Gate slides the opening between the two divider walls. Both walls move
// together so the opening keeps its width, and neither wall is ever shorter
// than MinLength.
type Gate struct {
	walls        *physics.Boxes
	upper, lower int
	step         float64
	minLength    float64
}

func NewGate(walls *physics.Boxes, step, minLength float64) (*Gate, error) {
	if walls.Len() < numWalls {
		return nil, fmt.Errorf("gate needs %d walls, got %d: %w", numWalls, walls.Len(), dynamo.ErrDimensionMismatch)
	}
	if step <= 0 || minLength < 0 {
		return nil, fmt.Errorf("gate step %v min length %v: %w", step, minLength, dynamo.ErrParameterBounds)
	}

	g := &Gate{walls: walls, upper: WallGateUpper, lower: WallGateLower, step: step, minLength: minLength}
	if g.upperLength() < minLength || g.lowerLength() < minLength {
		return nil, fmt.Errorf("gate walls shorter than %v: %w", minLength, dynamo.ErrParameterBounds)
	}
	return g, nil
}

// Step is the distance the opening moves per Move.
func (g *Gate) Step() float64 { return g.step }

// MinLength is the shortest either gate wall may become.
func (g *Gate) MinLength() float64 { return g.minLength }

// Indices returns the wall indices of the upper and lower gate walls.
func (g *Gate) Indices() (upper, lower int) { return g.upper, g.lower }

// Opening returns the y range of the gap between the divider walls.
func (g *Gate) Opening() (top, bottom float64) {
	_, upperBR := g.walls.Corners(g.upper)
	lowerTL, _ := g.walls.Corners(g.lower)
	return upperBR[1], lowerTL[1]
}

func (g *Gate) upperLength() float64 {
	tl, br := g.walls.Corners(g.upper)
	return br[1] - tl[1]
}

func (g *Gate) lowerLength() float64 {
	tl, br := g.walls.Corners(g.lower)
	return br[1] - tl[1]
}

// Move shifts the opening one step and returns the signed distance moved,
// which is smaller than Step (or zero) once a wall reaches MinLength.
func (g *Gate) Move(dir Direction) float64 {
	upperTL, upperBR := g.walls.Corners(g.upper)
	lowerTL, lowerBR := g.walls.Corners(g.lower)

	var shift float64
	switch dir {
	case DirDecreaseY:
		bottom := max(upperBR[1]-g.step, upperTL[1]+g.minLength)
		shift = bottom - upperBR[1]
		if shift >= 0 {
			return 0
		}
	case DirIncreaseY:
		top := min(lowerTL[1]+g.step, lowerBR[1]-g.minLength)
		shift = top - lowerTL[1]
		if shift <= 0 {
			return 0
		}
	default:
		return 0
	}

	// Both walls keep at least minLength >= 0, so neither span can invert.
	if err := g.walls.SetSpan(g.upper, upperTL[1], upperBR[1]+shift); err != nil {
		return 0
	}
	if err := g.walls.SetSpan(g.lower, lowerTL[1]+shift, lowerBR[1]); err != nil {
		_ = g.walls.SetSpan(g.upper, upperTL[1], upperBR[1])
		return 0
	}
	return shift
}
