package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/demonsim/internal/config"
	"github.com/san-kum/demonsim/internal/experiment"
)

// Setter applies one swept parameter value to a configuration.
type Setter func(cfg *config.Config, v float64)

// Params are the configuration fields a sweep may vary.
var Params = map[string]Setter{
	"dt":              func(c *config.Config, v float64) { c.Dt = v },
	"speed":           func(c *config.Config, v float64) { c.Left.Speed, c.Right.Speed = v, v },
	"radius":          func(c *config.Config, v float64) { c.Left.Radius, c.Right.Radius = v, v },
	"ball_elasticity": func(c *config.Config, v float64) { c.Left.Elasticity, c.Right.Elasticity = v, v },
	"wall_elasticity": func(c *config.Config, v float64) { c.Walls.Elasticity = v },
	"gate_step":       func(c *config.Config, v float64) { c.Walls.GateStep = v },
}

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params, %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Params[p]; !ok {
			return nil, fmt.Errorf("unknown sweep parameter: %s", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs one experiment per grid cell on a copy of base and returns
// the cell with the smallest value of metricName, plus every cell visited.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
) (Point, []Point, error) {
	best := Point{Value: math.Inf(1)}
	all := make([]Point, 0)

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		for k, v := range params {
			Params[k](cfg, v)
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return fmt.Errorf("%v: %w", params, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%v: %w", params, err)
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		p := Point{Params: params, Value: val}
		all = append(all, p)
		if val < best.Value {
			best = p
		}
		return nil
	})
	if err != nil {
		return Point{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}
