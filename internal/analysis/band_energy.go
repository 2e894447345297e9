// SPDX-License-Identifier: MIT
package analysis

import "math"

// FloorDB is reported for bands with no energy, keeping results finite for
// JSON encoding.
const FloorDB = -200.0

// FrequencyBand defines the name and frequency range [LowHz, HighHz) for an
// energy band. HighHz of 0 means "up to Nyquist".
type FrequencyBand struct {
	Name   string  `json:"name" yaml:"name"`
	LowHz  float64 `json:"low_hz" yaml:"low_hz"`
	HighHz float64 `json:"high_hz" yaml:"high_hz"`
}

// DefaultBands covers the audible range in six musically named bands.
var DefaultBands = []FrequencyBand{
	{Name: "sub", LowHz: 20, HighHz: 60},
	{Name: "bass", LowHz: 60, HighHz: 250},
	{Name: "lowMid", LowHz: 250, HighHz: 500},
	{Name: "mid", LowHz: 500, HighHz: 2000},
	{Name: "highMid", LowHz: 2000, HighHz: 4000},
	{Name: "treble", LowHz: 4000},
}

// BandEnergy is the summed power of one band.
type BandEnergy struct {
	FrequencyBand `yaml:",inline"`
	Energy        float64 `json:"energy" yaml:"energy"`
	DB            float64 `json:"db" yaml:"db"`
	Bins          int     `json:"bins" yaml:"bins"`
}

// BandEnergies sums the power spectrum produced by PowerSpectrum over each
// band.
func (a *Analyzer) BandEnergies(power []float64, bands []FrequencyBand) []BandEnergy {
	nyquist := a.sampleRate / 2
	out := make([]BandEnergy, len(bands))
	for i, band := range bands {
		high := band.HighHz
		if high <= 0 || high > nyquist {
			high = nyquist
		}
		out[i].FrequencyBand = band
		for k, p := range power {
			f := a.FrequencyForBin(k)
			// Nyquist itself belongs to the top band.
			if f >= band.LowHz && (f < high || (high == nyquist && f == nyquist)) {
				out[i].Energy += p
				out[i].Bins++
			}
		}
		out[i].DB = ToDB(out[i].Energy)
	}
	return out
}

// BandEnergy returns the summed power between lowHz and highHz of samples.
func (a *Analyzer) BandEnergy(samples []float64, lowHz, highHz float64) float64 {
	power := a.PowerSpectrum(samples)
	return a.BandEnergies(power, []FrequencyBand{{Name: "band", LowHz: lowHz, HighHz: highHz}})[0].Energy
}

// ToDB converts a power ratio to decibels, floored at FloorDB.
func ToDB(power float64) float64 {
	if power <= 0 {
		return FloorDB
	}
	return math.Max(FloorDB, 10*math.Log10(power))
}
