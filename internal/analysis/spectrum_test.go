package analysis

import (
	"math"
	"testing"
)

func TestDominantFrequencySine(t *testing.T) {
	const (
		dt = 0.01
		f  = 5.0
	)
	samples := make([]float64, 200)
	for i := range samples {
		samples[i] = 3 + math.Sin(2*math.Pi*f*float64(i)*dt)
	}

	if got := DominantFrequency(samples, dt); math.Abs(got-f) > 1e-9 {
		t.Errorf("dominant frequency = %v, want %v", got, f)
	}

	_, amp := Spectrum(samples, dt)
	if amp[0] > 1e-9 {
		t.Errorf("mean should be removed, bin 0 = %v", amp[0])
	}
	if math.Abs(amp[10]-0.5) > 1e-9 {
		t.Errorf("amplitude at %v Hz = %v, want 0.5", f, amp[10])
	}
}

func TestSpectrumDegenerate(t *testing.T) {
	if f, a := Spectrum([]float64{1}, 0.1); f != nil || a != nil {
		t.Error("single sample should give no spectrum")
	}
	if DominantFrequency([]float64{1, 2, 3}, 0) != 0 {
		t.Error("zero dt should give zero")
	}
}
