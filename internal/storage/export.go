package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/demonsim/internal/sim"
)

type ExportData struct {
	Meta      RunMetadata    `json:"meta"`
	Snapshots []ExportSample `json:"snapshots"`
}

type ExportSample struct {
	Time     float64    `json:"time"`
	Energy   float64    `json:"energy"`
	Momentum [2]float64 `json:"momentum"`
	Score    float64    `json:"score"`
}

func newExportData(meta RunMetadata, snaps []sim.Snapshot) ExportData {
	data := ExportData{
		Meta:      meta,
		Snapshots: make([]ExportSample, len(snaps)),
	}
	for i, s := range snaps {
		data.Snapshots[i] = ExportSample{
			Time:     s.Time,
			Energy:   s.Energy,
			Momentum: [2]float64{s.MomentumX, s.MomentumY},
			Score:    s.Score,
		}
	}
	return data
}

// ExportJSON writes a stored run as one JSON document to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(*meta, snaps))
}

// ExportJSONFile is ExportJSON into a new file at path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.ExportJSON(file, runID)
}
