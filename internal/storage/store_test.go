package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/demonsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Snapshots: []sim.Snapshot{
			{Time: 0, Energy: 1.5, MomentumX: 0.25, MomentumY: -1, Score: 50},
			{Time: 0.01, Energy: 1.5, MomentumX: 0.3, MomentumY: -0.9, Score: 60},
		},
		Metrics:     map[string]float64{"energy": 1.5},
		StepsTaken:  200,
		EnergyDrift: 1e-12,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "demon", Seed: 42, Dt: 5e-5, Duration: 0.01, Bodies: 30}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "demon" {
		t.Errorf("expected scenario 'demon', got '%s'", meta.Scenario)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Steps != 200 {
		t.Errorf("expected 200 steps, got %d", meta.Steps)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	snaps, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(snaps) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(snaps))
	}
	if snaps[1].Score != 60 || snaps[0].MomentumY != -1 || snaps[1].Time != 0.01 {
		t.Errorf("row mismatch: %+v", snaps)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for seed := int64(1); seed <= 2; seed++ {
		if _, err := st.Save(RunMetadata{Scenario: "gas", Seed: seed}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Scenario: "headon"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatal("states.csv not created")
	}
	if !bytes.HasPrefix(data, []byte("time,energy,px,py,score\n")) {
		t.Errorf("unexpected header: %q", data)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.Save(RunMetadata{Scenario: "demon", Seed: 7}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Meta.Seed != 7 || len(data.Snapshots) != 2 {
		t.Errorf("unexpected export: %+v", data)
	}
	if data.Snapshots[0].Momentum != [2]float64{0.25, -1} {
		t.Errorf("momentum = %v", data.Snapshots[0].Momentum)
	}
}

func TestExportJSONMissing(t *testing.T) {
	st := New(t.TempDir())
	if err := st.ExportJSON(&bytes.Buffer{}, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
