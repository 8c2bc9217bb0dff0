package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/demonsim/internal/dynamo"
)

type Simulator struct {
	scenario  Scenario
	metrics   []Metric
	observers []Observer
}

func New(scenario Scenario) *Simulator {
	return &Simulator{
		scenario:  scenario,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scenario() Scenario { return s.scenario }

// Run steps the scenario for cfg.Duration, sampling every cfg.SampleEvery
// steps. It stops early once the scenario reports Done.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.SampleEvery
	result := &Result{
		Snapshots: make([]Snapshot, 0, steps/every+2),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.scenario.World()
	t := 0.0
	dt := cfg.Dt

	result.Snapshots = append(result.Snapshots, s.snapshot(t))
	initialEnergy := w.KineticEnergy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, t)
		}

		if err := w.Step(dt); err != nil {
			return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}

		if cfg.ValidateState && !w.Valid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		t += dt
		result.StepsTaken++

		sampled := result.StepsTaken%every == 0
		if sampled {
			result.Snapshots = append(result.Snapshots, s.snapshot(t))
		}
		if s.scenario.Done() {
			result.Finished = true
			if !sampled {
				result.Snapshots = append(result.Snapshots, s.snapshot(t))
			}
			break
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(w.KineticEnergy()-initialEnergy) / initialEnergy
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) snapshot(t float64) Snapshot {
	w := s.scenario.World()
	p := w.Momentum()
	return Snapshot{
		Time:      t,
		Energy:    w.KineticEnergy(),
		MomentumX: p[0],
		MomentumY: p[1],
		Score:     s.scenario.Score(),
	}
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("sample_every must be at least 1, got %d: %w", cfg.SampleEvery, dynamo.ErrParameterBounds)
	}
	return nil
}

// RunWithCallback steps until Duration, the scenario is done, or callback
// returns false. The callback sees the world before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(Scenario, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	w := s.scenario.World()
	t := 0.0
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.scenario, t) || s.scenario.Done() {
			return nil
		}

		if err := w.Step(cfg.Dt); err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt

		if cfg.ValidateState && !w.Valid() {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
	}

	return nil
}
