package dynamo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the capability shared by every homogeneous group of rigid bodies.
type Body interface {
	Len() int
	InvMass() float64
	AccumulateDelta(i int, dv mgl64.Vec2)
	ClearDelta()
	Integrate(h float64)
}

// Phase marks where a world is inside a single step.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAccumulated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulated:
		return "accumulated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            5e-5,
		Duration:      1.0,
		SampleEvery:   100,
		ValidateState: true,
	}
}

// Steps returns the number of fixed steps covering Duration.
func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 0.5)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
