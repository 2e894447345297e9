// SPDX-License-Identifier: MIT
package analysis

// SpectrumProvider is implemented by components that produce power spectra
// of whole signals. Report building depends on it rather than on Analyzer so
// alternative estimators can be swapped in.
type SpectrumProvider interface {
	PowerSpectrum(samples []float64) []float64 // PowerSpectrum returns size/2+1 one-sided power bins.
	FrequencyForBin(binIndex int) float64      // FrequencyForBin returns the center frequency (Hz) of a bin.
	BandEnergies(power []float64, bands []FrequencyBand) []BandEnergy
	Size() int
	SampleRate() float64
}

// Compile-time checks for interface implementations.
var _ SpectrumProvider = (*Analyzer)(nil)
