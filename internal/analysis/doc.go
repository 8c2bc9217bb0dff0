// Package analysis compares the speed distribution of a gas of circles
// with the two-dimensional Maxwell-Boltzmann (Rayleigh) distribution, and
// finds bounce frequencies in traced paths.
//
// Equal-speed starts relax towards it after enough collisions:
//
//	h := analysis.SpeedHistogram(world.Sets(), 20, 0)
//	fmt.Print(analysis.HistogramToASCII(h, 40))
package analysis
