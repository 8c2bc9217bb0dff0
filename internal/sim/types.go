package sim

import (
	"github.com/san-kum/demonsim/internal/physics"
)

// Scenario is anything the simulator can step: a world plus a goal.
type Scenario interface {
	World() *physics.World
	Score() float64
	Done() bool
}

type Metric interface {
	Name() string
	Observe(w *physics.World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *physics.World, t float64)
}

// Snapshot is one sampled row of a run.
type Snapshot struct {
	Time      float64
	Energy    float64
	MomentumX float64
	MomentumY float64
	Score     float64
}

type Result struct {
	Snapshots   []Snapshot
	Metrics     map[string]float64
	Errors      []error
	StepsTaken  int
	EnergyDrift float64
	// Finished is set when the scenario reached its goal before Duration.
	Finished    bool
}

func (r *Result) Final() Snapshot {
	if len(r.Snapshots) == 0 {
		return Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// Energies returns the sampled kinetic energy series.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Energy
	}
	return out
}

func (r *Result) Scores() []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Score
	}
	return out
}
