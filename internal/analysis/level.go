// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RMS calculates the root mean square level of samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(samples, samples) / float64(len(samples)))
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Max(floats.Max(samples), -floats.Min(samples))
}

// AmplitudeDB converts a linear amplitude to dBFS, floored at FloorDB.
func AmplitudeDB(v float64) float64 {
	if v <= 0 {
		return FloorDB
	}
	return math.Max(FloorDB, 20*math.Log10(v))
}

// Correlation returns the Pearson correlation of two equally long channels.
// Constant inputs have no defined correlation; 1 is returned when they are
// equal and 0 otherwise.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		if floats.Equal(x, y) {
			return 1
		}
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// LoopSeam compares the wrap-around step x[n-1] -> x[0] with the ordinary
// sample-to-sample steps. It returns the seam step and the standard
// deviation of all interior steps.
func LoopSeam(samples []float64) (seam, stepStdDev float64) {
	n := len(samples)
	if n < 3 {
		return 0, 0
	}
	steps := make([]float64, n-1)
	for i := 1; i < n; i++ {
		steps[i-1] = samples[i] - samples[i-1]
	}
	return math.Abs(samples[0] - samples[n-1]), stat.StdDev(steps, nil)
}
