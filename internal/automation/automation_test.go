package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/demonsim/internal/experiment"
	"github.com/san-kum/demonsim/internal/storage"
)

const batchYAML = `
name: smoke
description: quick head-on and demon runs
steps:
  - preset: headon
    duration: 0.01
    save: true
  - preset: classic
    seed: 5
    runs: 2
    duration: 0.002
    autopilot: true
`

func writeBatch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBatch(t *testing.T) {
	b, err := LoadBatch(writeBatch(t, batchYAML))
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "smoke" || len(b.Steps) != 2 {
		t.Fatalf("unexpected batch: %+v", b)
	}
	if b.Steps[1].Runs != 2 || !b.Steps[1].Autopilot {
		t.Errorf("step 2 = %+v", b.Steps[1])
	}

	if _, err := LoadBatch(writeBatch(t, "name: empty\n")); err == nil {
		t.Error("expected error for batch without steps")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := BatchStep{Preset: "gas", Duration: 0.5, Seed: 9}.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scenario != "gas" || cfg.Duration != 0.5 || cfg.Seed != 9 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := (BatchStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestRunnerRun(t *testing.T) {
	b, err := LoadBatch(writeBatch(t, batchYAML))
	if err != nil {
		t.Fatal(err)
	}

	st := storage.New(t.TempDir())
	results, err := NewRunner(experiment.NewRegistry(), st, nil).Run(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].RunID == "" {
		t.Error("first step should be saved")
	}
	if results[1].RunID != "" {
		t.Error("second step should not be saved")
	}
	if results[1].Seed != 5 || results[2].Seed != 6 {
		t.Errorf("seeds = %d, %d", results[1].Seed, results[2].Seed)
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected one stored run, got %d (%v)", len(runs), err)
	}

	_, mean := Summary(results)
	if mean < 0 || mean > 100 {
		t.Errorf("mean score %v out of range", mean)
	}
}
