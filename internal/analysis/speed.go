package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/demonsim/internal/physics"
)

// Histogram holds speed counts in equal-width bins over [0, Max).
type Histogram struct {
	Max    float64
	Counts []int
	// MeanSq is the mean squared speed of every counted body.
	MeanSq float64
	Total  int
}

// Width is the bin width.
func (h *Histogram) Width() float64 { return h.Max / float64(len(h.Counts)) }

// SpeedHistogram bins the speeds of every movable circle. A maxSpeed of
// zero uses the largest observed speed. Speeds at or past maxSpeed land in
// the last bin.
func SpeedHistogram(sets []*physics.Circles, bins int, maxSpeed float64) *Histogram {
	bins = max(bins, 1)
	speeds := make([]float64, 0)
	for _, c := range sets {
		if c.Static() {
			continue
		}
		for _, v := range c.Velocities() {
			speeds = append(speeds, v.Len())
		}
	}

	h := &Histogram{Max: maxSpeed, Counts: make([]int, bins), Total: len(speeds)}
	if h.Max <= 0 {
		for _, s := range speeds {
			h.Max = math.Max(h.Max, s)
		}
	}
	if h.Max == 0 {
		h.Max = 1
	}

	for _, s := range speeds {
		h.MeanSq += s * s
		idx := min(int(s/h.Width()), bins-1)
		h.Counts[idx]++
	}
	if h.Total > 0 {
		h.MeanSq /= float64(h.Total)
	}
	return h
}

// RayleighPDF is the 2D Maxwell-Boltzmann speed density for a gas whose
// mean squared speed is meanSq.
func RayleighPDF(v, meanSq float64) float64 {
	if meanSq <= 0 || v < 0 {
		return 0
	}
	return 2 * v / meanSq * math.Exp(-v*v/meanSq)
}

// Expected returns the Rayleigh count expected in each bin, integrating
// the density exactly over the bin.
func (h *Histogram) Expected() []float64 {
	out := make([]float64, len(h.Counts))
	if h.MeanSq <= 0 {
		return out
	}
	cdf := func(v float64) float64 { return 1 - math.Exp(-v*v/h.MeanSq) }
	w := h.Width()
	for i := range out {
		out[i] = float64(h.Total) * (cdf(float64(i+1)*w) - cdf(float64(i)*w))
	}
	return out
}

// ChiSquare is Pearson's statistic of the counts against Expected, skipping
// bins expected to hold less than one body.
func (h *Histogram) ChiSquare() float64 {
	var chi float64
	for i, e := range h.Expected() {
		if e < 1 {
			continue
		}
		d := float64(h.Counts[i]) - e
		chi += d * d / e
	}
	return chi
}

// HistogramToASCII draws one bar per bin, with a marker at the expected
// Rayleigh count.
func HistogramToASCII(h *Histogram, width int) string {
	if h == nil || h.Total == 0 {
		return ""
	}
	width = max(width, 1)
	expected := h.Expected()

	peak := 1.0
	for i, c := range h.Counts {
		peak = math.Max(peak, math.Max(float64(c), expected[i]))
	}

	var sb strings.Builder
	for i, c := range h.Counts {
		filled := int(float64(c) / peak * float64(width))
		bar := []rune(strings.Repeat("█", filled) + strings.Repeat(" ", width-filled))
		mark := int(expected[i] / peak * float64(width-1))
		if mark >= 0 && mark < len(bar) {
			if bar[mark] == ' ' {
				bar[mark] = '┊'
			} else {
				bar[mark] = '▓'
			}
		}
		fmt.Fprintf(&sb, "%8.2f │%s│ %d\n", float64(i)*h.Width(), string(bar), c)
	}
	return sb.String()
}
