// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ChannelLevel summarizes one channel.
type ChannelLevel struct {
	Peak   float64 `json:"peak" yaml:"peak"`
	PeakDB float64 `json:"peak_db" yaml:"peak_db"`
	RMS    float64 `json:"rms" yaml:"rms"`
	RMSDB  float64 `json:"rms_db" yaml:"rms_db"`
	// SeamRatio is the loop seam step divided by the typical step; values
	// of a few units or less mean the loop point is inaudible.
	SeamRatio float64 `json:"seam_ratio" yaml:"seam_ratio"`
}

// Report describes a rendered track.
type Report struct {
	SampleRate int            `json:"sample_rate" yaml:"sample_rate"`
	Channels   int            `json:"channels" yaml:"channels"`
	Frames     int            `json:"frames" yaml:"frames"`
	Duration   float64        `json:"duration_s" yaml:"duration_s"`
	Levels     []ChannelLevel `json:"levels" yaml:"levels"`
	// Correlation between the first two channels, 1 for mono.
	Correlation float64      `json:"correlation" yaml:"correlation"`
	Bands       []BandEnergy `json:"bands" yaml:"bands"`
}

// Analyze builds a Report for channel data laid out [channel][frame]. Band
// energies are measured on the mono mix.
func Analyze(p SpectrumProvider, data [][]float64, bands []FrequencyBand) (*Report, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, fmt.Errorf("cannot analyze an empty signal")
	}
	frames := len(data[0])
	for ch := range data {
		if len(data[ch]) != frames {
			return nil, fmt.Errorf("channel %d has %d frames, want %d", ch, len(data[ch]), frames)
		}
	}
	if bands == nil {
		bands = DefaultBands
	}

	rate := p.SampleRate()
	r := &Report{
		SampleRate:  int(rate),
		Channels:    len(data),
		Frames:      frames,
		Duration:    float64(frames) / rate,
		Levels:      make([]ChannelLevel, len(data)),
		Correlation: 1,
	}

	mono := make([]float64, frames)
	for ch, samples := range data {
		peak, rms := Peak(samples), RMS(samples)
		level := ChannelLevel{Peak: peak, PeakDB: AmplitudeDB(peak), RMS: rms, RMSDB: AmplitudeDB(rms)}
		if seam, sd := LoopSeam(samples); sd > 0 {
			level.SeamRatio = seam / sd
		}
		r.Levels[ch] = level
		floats.Add(mono, samples)
	}
	floats.Scale(1/float64(len(data)), mono)
	if len(data) > 1 {
		r.Correlation = Correlation(data[0], data[1])
	}

	r.Bands = p.BandEnergies(p.PowerSpectrum(mono), bands)
	return r, nil
}
