package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/demonsim/internal/config"
	"github.com/san-kum/demonsim/internal/control"
	"github.com/san-kum/demonsim/internal/experiment"
	"github.com/san-kum/demonsim/internal/sim"
	"github.com/san-kum/demonsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Batch defines a scripted sequence of headless runs.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep is one preset run, repeated over Runs consecutive seeds.
// Zero fields keep the preset's value.
type BatchStep struct {
	Preset    string  `yaml:"preset"`
	Scenario  string  `yaml:"scenario"`
	Seed      int64   `yaml:"seed"`
	Runs      int     `yaml:"runs"`
	Duration  float64 `yaml:"duration"`
	Dt        float64 `yaml:"dt"`
	Autopilot bool    `yaml:"autopilot"`
	Save      bool    `yaml:"save"`
}

// StepResult is the outcome of one seed of one step.
type StepResult struct {
	Step   int
	Seed   int64
	RunID  string
	Result *sim.Result
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Steps) == 0 {
		return nil, fmt.Errorf("%s: batch has no steps", path)
	}

	return &batch, nil
}

// Config resolves the step against its preset.
func (s BatchStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "classic"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Scenario != "" {
		cfg.Scenario = s.Scenario
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	cfg.Seed = s.Seed
	return cfg, cfg.Validate()
}

// Runner executes batches, optionally saving each run.
type Runner struct {
	registry *experiment.Registry
	store    *storage.Store
	logger   *log.Logger
}

func NewRunner(registry *experiment.Registry, store *storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{registry: registry, store: store, logger: logger}
}

// Run executes all steps in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, batch *Batch) ([]StepResult, error) {
	results := make([]StepResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runs := max(step.Runs, 1)
		for k := 0; k < runs; k++ {
			cfg.Seed = step.Seed + int64(k)
			r.logger.Info("batch step", "step", i+1, "of", len(batch.Steps), "scenario", cfg.Scenario, "seed", cfg.Seed)

			sr, err := r.runOne(ctx, cfg, step)
			if err != nil {
				return results, fmt.Errorf("step %d seed %d: %w", i+1, cfg.Seed, err)
			}
			sr.Step = i + 1
			results = append(results, sr)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config, step BatchStep) (StepResult, error) {
	exp := experiment.New(cfg, r.registry)
	exp.SetLogger(r.logger)
	if err := exp.Setup(); err != nil {
		return StepResult{}, err
	}
	if step.Autopilot {
		exp.GetSimulator().AddObserver(control.NewAutopilot(exp.Game(), control.NewGreedy(), cfg.SampleEvery))
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return StepResult{}, err
	}

	sr := StepResult{Seed: cfg.Seed, Result: result}
	if step.Save && r.store != nil {
		sr.RunID, err = r.store.Save(storage.RunMetadata{
			Scenario: cfg.Scenario,
			Preset:   step.Preset,
			Seed:     cfg.Seed,
			Dt:       cfg.Dt,
			Duration: cfg.Duration,
			Bodies:   exp.Game().World().Bodies(),
		}, result)
		if err != nil {
			return sr, err
		}
	}
	return sr, nil
}

// Summary reports how many runs finished sorted and the mean final score.
func Summary(results []StepResult) (finished int, meanScore float64) {
	if len(results) == 0 {
		return 0, 0
	}
	for _, r := range results {
		if r.Result.Finished {
			finished++
		}
		meanScore += r.Result.Final().Score
	}
	return finished, meanScore / float64(len(results))
}
