package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/config"
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/metrics"
	"github.com/san-kum/demonsim/internal/physics"
	"github.com/san-kum/demonsim/internal/sim"
)

const (
	headonRadius = 0.1
	headonSpeed  = 5.0
)

// Builder turns a configuration and a seeded source into a ready game.
type Builder func(cfg *config.Config, rng *rand.Rand) (*demon.Game, error)

type Registry struct {
	scenarios map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Builder)}

	r.scenarios["demon"] = func(cfg *config.Config, rng *rand.Rand) (*demon.Game, error) {
		opts := cfg.GameOptions()
		opts.Goal = true
		return demon.NewGame(opts, rng)
	}
	r.scenarios["gas"] = func(cfg *config.Config, rng *rand.Rand) (*demon.Game, error) {
		opts := cfg.GameOptions()
		opts.Layout.NoDivider = true
		opts.Goal = false
		return demon.NewGame(opts, rng)
	}
	r.scenarios["headon"] = buildHeadOn

	return r
}

// buildHeadOn places two equal balls overlapping on the horizontal midline,
// moving straight at each other. Randomness is not used.
func buildHeadOn(cfg *config.Config, _ *rand.Rand) (*demon.Game, error) {
	opts := cfg.GameOptions()
	opts.Layout.NoDivider = true
	opts.Goal = false

	walls, err := demon.NewWalls(opts.Layout, opts.WallElasticity)
	if err != nil {
		return nil, err
	}
	left, err := physics.NewCircles(cfg.Left.Mass, cfg.Left.Elasticity, headonRadius,
		[]mgl64.Vec2{{0.425, 0.5}}, []mgl64.Vec2{{headonSpeed, 0}})
	if err != nil {
		return nil, err
	}
	right, err := physics.NewCircles(cfg.Right.Mass, cfg.Right.Elasticity, headonRadius,
		[]mgl64.Vec2{{0.575, 0.5}}, []mgl64.Vec2{{-headonSpeed, 0}})
	if err != nil {
		return nil, err
	}
	return demon.Assemble(opts, walls, left, right)
}

// Register adds or replaces a scenario builder.
func (r *Registry) Register(name string, b Builder) {
	r.scenarios[name] = b
}

func (r *Registry) GetScenario(name string) (Builder, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn, nil
}

// Build resolves cfg.Scenario and builds it with a source seeded from seed.
func (r *Registry) Build(cfg *config.Config, seed int64) (*demon.Game, error) {
	fn, err := r.GetScenario(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	return fn(cfg, rand.New(rand.NewSource(seed)))
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(g *demon.Game) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewContainment(0, 1),
		metrics.NewRMSSpeed(),
		metrics.NewSeparation(g.Left(), g.Right(), g.Line()),
	}
}
