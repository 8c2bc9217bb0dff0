package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided amplitude spectrum of samples taken every
// dt seconds. The mean is removed first so bin 0 carries no offset.
func Spectrum(samples []float64, dt float64) (freqs, amp []float64) {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	var mean float64
	for _, s := range samples {
		mean += s
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, s := range samples {
		centered[i] = s - mean
	}

	coeffs := fft.FFTReal(centered)
	freqs = make([]float64, n/2+1)
	amp = make([]float64, n/2+1)
	for k := range amp {
		freqs[k] = float64(k) / (float64(n) * dt)
		amp[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return freqs, amp
}

// DominantFrequency is the frequency of the strongest non-zero bin, or 0
// when there is nothing to analyse. For a ball's x coordinate this is the
// wall-to-wall bounce rate.
func DominantFrequency(samples []float64, dt float64) float64 {
	freqs, amp := Spectrum(samples, dt)
	if len(amp) < 2 {
		return 0
	}
	best := 1
	for k := 2; k < len(amp); k++ {
		if amp[k] > amp[best] {
			best = k
		}
	}
	return freqs[best]
}
