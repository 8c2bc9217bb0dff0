package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/demonsim/internal/sim"
)

var stateHeader = []string{"time", "energy", "px", "py", "score"}

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: log.New(io.Discard)}
}

// WithLogger attaches a logger for save and skip events.
func (s *Store) WithLogger(l *log.Logger) *Store {
	s.logger = l
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Bodies      int                `json:"bodies"`
	Steps       int                `json:"steps"`
	Finished    bool               `json:"finished"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv into a fresh run directory.
// ID, Timestamp, Steps, Finished, EnergyDrift and Metrics are filled from
// result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d_%d", meta.Scenario, meta.Seed, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Finished = result.Finished
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, "states.csv"), result.Snapshots); err != nil {
		return "", err
	}

	s.logger.Debug("saved run", "id", meta.ID, "rows", len(result.Snapshots))
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, snaps []sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stateHeader); err != nil {
		return err
	}
	for _, sn := range snaps {
		row := []string{
			strconv.FormatFloat(sn.Time, 'f', 6, 64),
			strconv.FormatFloat(sn.Energy, 'g', 12, 64),
			strconv.FormatFloat(sn.MomentumX, 'g', 12, 64),
			strconv.FormatFloat(sn.MomentumY, 'g', 12, 64),
			strconv.FormatFloat(sn.Score, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Warn("skipping run", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads the sampled rows back. Malformed rows are skipped.
func (s *Store) LoadStates(runID string) ([]sim.Snapshot, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(stateHeader) {
			continue
		}

		var vals [5]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		snaps = append(snaps, sim.Snapshot{
			Time:      vals[0],
			Energy:    vals[1],
			MomentumX: vals[2],
			MomentumY: vals[3],
			Score:     vals[4],
		})
	}

	return snaps, nil
}
