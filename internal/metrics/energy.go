package metrics

import (
	"math"

	"github.com/san-kum/demonsim/internal/physics"
)

// Energy is the mean total kinetic energy over all observed steps.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *physics.World, t float64) {
	e.totalEnergy += w.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation from the first observed
// kinetic energy. Elastic runs should stay near zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *physics.World, t float64) {
	energy := w.KineticEnergy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
