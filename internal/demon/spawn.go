package demon

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/dynamo"
	"github.com/san-kum/demonsim/internal/physics"
)

// DefaultMaxRetries bounds the rejection sampling per body.
const DefaultMaxRetries = 1000

// Region is an axis-aligned area bodies may be spawned in.
type Region struct {
	Min, Max mgl64.Vec2
}

// Chambers returns the two halves of the playfield on either side of the
// divider. With no divider the whole interior is one region.
func (l Layout) Chambers() []Region {
	t := l.Thickness
	if l.NoDivider {
		return []Region{{Min: mgl64.Vec2{t, t}, Max: mgl64.Vec2{1 - t, 1 - t}}}
	}
	return []Region{
		{Min: mgl64.Vec2{t, t}, Max: mgl64.Vec2{l.DividerX - l.DividerHalf, 1 - t}},
		{Min: mgl64.Vec2{l.DividerX + l.DividerHalf, t}, Max: mgl64.Vec2{1 - t, 1 - t}},
	}
}

// Spawn places n circles of the given radius inside the regions, picking a
// region uniformly for each attempt, and draws a uniform heading for each.
// A candidate overlapping an already placed circle is rejected; after
// maxRetries rejections for one body Spawn gives up with ErrPlacement.
func Spawn(rng *rand.Rand, n int, radius float64, regions []Region, maxRetries int) ([]mgl64.Vec2, []float64, error) {
	if n < 0 || radius < 0 || maxRetries < 1 || len(regions) == 0 {
		return nil, nil, fmt.Errorf("spawn n=%d r=%v retries=%d: %w", n, radius, maxRetries, dynamo.ErrParameterBounds)
	}
	for _, reg := range regions {
		if reg.Max[0]-reg.Min[0] < 2*radius || reg.Max[1]-reg.Min[1] < 2*radius {
			return nil, nil, fmt.Errorf("spawn region %v too small for radius %v: %w", reg, radius, dynamo.ErrParameterBounds)
		}
	}

	pos := make([]mgl64.Vec2, 0, n)
	headings := make([]float64, 0, n)
	minDist := 2 * radius

	for i := 0; i < n; i++ {
		placed := false
		for attempt := 0; attempt < maxRetries; attempt++ {
			reg := regions[rng.Intn(len(regions))]
			p := mgl64.Vec2{
				reg.Min[0] + radius + rng.Float64()*(reg.Max[0]-reg.Min[0]-2*radius),
				reg.Min[1] + radius + rng.Float64()*(reg.Max[1]-reg.Min[1]-2*radius),
			}
			theta := rng.Float64() * 2 * math.Pi

			if overlaps(p, pos, minDist) {
				continue
			}
			pos = append(pos, p)
			headings = append(headings, theta)
			placed = true
			break
		}
		if !placed {
			return nil, nil, fmt.Errorf("spawn body %d after %d attempts: %w", i, maxRetries, dynamo.ErrPlacement)
		}
	}
	return pos, headings, nil
}

func overlaps(p mgl64.Vec2, placed []mgl64.Vec2, minDist float64) bool {
	for _, q := range placed {
		if p.Sub(q).Len() < minDist {
			return true
		}
	}
	return false
}

// Group describes one colour of balls.
type Group struct {
	Count      int     `yaml:"count"`
	Mass       float64 `yaml:"mass"`
	Radius     float64 `yaml:"radius"`
	Speed      float64 `yaml:"speed"`
	Elasticity float64 `yaml:"elasticity"`
}

// NewBalls builds a circle set whose velocities all have the group speed
// along the given headings.
func NewBalls(g Group, pos []mgl64.Vec2, headings []float64) (*physics.Circles, error) {
	if len(pos) != len(headings) {
		return nil, fmt.Errorf("balls: %d positions, %d headings: %w", len(pos), len(headings), dynamo.ErrDimensionMismatch)
	}
	vel := make([]mgl64.Vec2, len(headings))
	for i, theta := range headings {
		vel[i] = physics.VelocityFromHeading(g.Speed, theta)
	}
	return physics.NewCircles(g.Mass, g.Elasticity, g.Radius, pos, vel)
}
