// SPDX-License-Identifier: MIT
package noise

import (
	"math"

	"ambient/internal/filter"

	"gonum.org/v1/gonum/floats"
)

const (
	LowPassOrder = 5 // Butterworth order of the tone low-pass
	BandOrder    = 4 // Butterworth order of each shelving band edge

	// maxBandEdge bounds band edges relative to the sample rate so the
	// designs stay clear of Nyquist.
	maxBandEdge = 0.45
)

// Band is one shelving band.
type Band struct {
	Name   string
	LowHz  float64
	HighHz float64
}

// ShelfBands are the fixed low/mid/high shelving bands.
var ShelfBands = [3]Band{
	{Name: "low", LowHz: 20, HighHz: 250},
	{Name: "mid", LowHz: 250, HighHz: 4000},
	{Name: "high", LowHz: 4000, HighHz: 16000},
}

// ToneShaper applies either the low-pass or the 3-band shelving. Channels
// are filtered independently with zero-phase periodic filtering, so
// inter-channel phase and the loop seam are preserved.
type ToneShaper struct {
	SampleRate int
	CutoffHz   float64
	Shelving   bool
	GainsDB    [3]float64 // low, mid, high
}

// NewToneShaper derives the shaper from request params.
func NewToneShaper(p RequestParams) ToneShaper {
	return ToneShaper{
		SampleRate: p.SampleRate,
		CutoffHz:   p.ToneCutoffHz,
		Shelving:   p.Shelving,
		GainsDB:    [3]float64{p.LowShelfDB, p.MidShelfDB, p.HighShelfDB},
	}
}

// Active reports whether Apply changes the buffer.
func (t ToneShaper) Active() bool {
	if t.Shelving {
		return true
	}
	return t.CutoffHz > 0 && t.CutoffHz < float64(t.SampleRate)/2
}

// Apply shapes buf in place.
func (t ToneShaper) Apply(buf *SampleBuffer) {
	switch {
	case t.Shelving:
		t.shelve(buf)
	case t.Active():
		t.lowPass(buf)
	}
}

func (t ToneShaper) lowPass(buf *SampleBuffer) {
	coeffs := filter.ButterworthLP(t.CutoffHz, LowPassOrder, float64(t.SampleRate))
	for _, ch := range buf.Data {
		filter.ZeroPhasePeriodic(coeffs, ch)
	}
}

// shelve splits each channel into the three bands, applies the linear band
// gains and recombines. The result is re-normalized to unit peak.
func (t ToneShaper) shelve(buf *SampleBuffer) {
	rate := float64(t.SampleRate)
	designs := make([][]filter.Coefficients, len(ShelfBands))
	for i, band := range ShelfBands {
		high := math.Min(band.HighHz, maxBandEdge*rate)
		designs[i] = filter.ButterworthBP(band.LowHz, high, BandOrder, rate)
	}

	scratch := make([]float64, buf.Frames())
	for _, ch := range buf.Data {
		mixed := make([]float64, len(ch))
		for i, coeffs := range designs {
			if coeffs == nil {
				continue // band lies above the usable range
			}
			copy(scratch, ch)
			filter.ZeroPhasePeriodic(coeffs, scratch)
			floats.AddScaled(mixed, dbToGain(t.GainsDB[i]), scratch)
		}
		copy(ch, mixed)
	}
	buf.normalizePeak(1)
}

// dbToGain converts decibels to a linear amplitude factor.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
