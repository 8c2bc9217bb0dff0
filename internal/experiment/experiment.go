package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/demonsim/internal/config"
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	game      *demon.Game
	simulator *sim.Simulator
	logger    *log.Logger
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		logger:   log.New(io.Discard),
	}
}

func (e *Experiment) SetLogger(l *log.Logger) { e.logger = l }

// Setup builds the scenario for the configured seed and attaches the
// default metrics plus any extra ones.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	game, err := e.registry.Build(e.cfg, e.cfg.Seed)
	if err != nil {
		return fmt.Errorf("build %s: %w", e.cfg.Scenario, err)
	}

	e.game = game
	e.simulator = sim.New(game)
	for _, m := range e.registry.DefaultMetrics(game) {
		e.simulator.AddMetric(m)
	}
	for _, m := range extra {
		e.simulator.AddMetric(m)
	}

	e.logger.Debug("scenario ready",
		"scenario", e.cfg.Scenario,
		"seed", e.cfg.Seed,
		"bodies", game.World().Bodies())
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := e.cfg.SimConfig()
	e.logger.Info("running", "scenario", e.cfg.Scenario, "steps", simCfg.Steps(), "dt", simCfg.Dt)

	res, err := e.simulator.Run(ctx, simCfg)
	if err != nil {
		return res, err
	}
	for _, rerr := range res.Errors {
		e.logger.Warn("run error", "err", rerr)
	}
	e.logger.Info("finished",
		"steps", res.StepsTaken,
		"drift", res.EnergyDrift,
		"score", res.Final().Score)
	return res, nil
}

// Watch steps the scenario without metrics or snapshots, handing fn the
// game before each step. It stops early when fn returns false.
func (e *Experiment) Watch(ctx context.Context, fn func(g *demon.Game, t float64) bool) error {
	if e.simulator == nil {
		return fmt.Errorf("experiment not setup")
	}
	return e.simulator.RunWithCallback(ctx, e.cfg.SimConfig(), func(_ sim.Scenario, t float64) bool {
		return fn(e.game, t)
	})
}

// Ensemble runs the configured scenario once per seed in
// [cfg.Seed, cfg.Seed+runs), at most limit at a time.
func (e *Experiment) Ensemble(ctx context.Context, runs, limit int) ([]*sim.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	ens := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
		game, err := e.registry.Build(e.cfg, seed)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}
		s := sim.New(game)
		for _, m := range e.registry.DefaultMetrics(game) {
			s.AddMetric(m)
		}
		return s, nil
	}, runs, e.cfg.Seed)
	ens.SetLimit(limit)
	return ens.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Game() *demon.Game { return e.game }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
