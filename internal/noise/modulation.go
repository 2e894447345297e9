// SPDX-License-Identifier: MIT
package noise

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Modulator applies the slow "breathing" gain envelope
// g(t) = 1 − m(t)·(1 − 10^(−depth/20)) with m(t) = (1 + sin 2πft)/2.
type Modulator struct {
	RateHz  float64
	DepthDB float64
}

// SnapRate returns the rate closest to rateHz that completes a whole number
// of cycles (at least one) in duration seconds, which keeps the envelope
// periodic with the loop.
func SnapRate(rateHz, duration float64) float64 {
	cycles := math.Round(rateHz * duration)
	if cycles < 1 {
		cycles = 1
	}
	return cycles / duration
}

// Envelope samples the gain envelope over frames samples.
func (m Modulator) Envelope(frames, sampleRate int) []float64 {
	floor := math.Pow(10, -m.DepthDB/20)
	env := make([]float64, frames)
	w := 2 * math.Pi * m.RateHz / float64(sampleRate)
	for i := range env {
		wave := (1 + math.Sin(w*float64(i))) / 2
		env[i] = 1 - wave*(1-floor)
	}
	return env
}

// Apply multiplies the envelope into every channel and re-normalizes the
// peak to 1.
func (m Modulator) Apply(buf *SampleBuffer) {
	env := m.Envelope(buf.Frames(), buf.SampleRate)
	for _, ch := range buf.Data {
		floats.Mul(ch, env)
	}
	buf.normalizePeak(1)
}
