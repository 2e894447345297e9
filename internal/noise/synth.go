// SPDX-License-Identifier: MIT
package noise

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthesize builds an exactly periodic noise buffer of
// round(duration × rate) frames. Each channel is drawn as a one-sided
// spectrum with uniform random phase and magnitude, shaped by the color's
// 1/f^e slope, and brought to the time domain with an inverse real FFT.
// Because every component completes a whole number of cycles over the
// buffer, copies of it concatenate without a seam.
//
// All randomness comes from rng, so a seeded generator reproduces the output.
func Synthesize(p RequestParams, rng *rand.Rand) (*SampleBuffer, error) {
	if !(p.Duration > 0) || p.SampleRate <= 0 {
		return nil, invalidf("duration_s and sample_rate must be positive, got %v s at %d Hz", p.Duration, p.SampleRate)
	}
	if p.Channels < 1 {
		return nil, invalidf("channels must be positive, got %d", p.Channels)
	}
	if rng == nil {
		return nil, invalidf("random source is required")
	}
	n := p.NumSamples()
	if n < 2 {
		return nil, invalidf("duration_s %v yields fewer than 2 samples", p.Duration)
	}

	buf := NewSampleBuffer(p.Channels, n, p.SampleRate)
	fft := fourier.NewFFT(n)
	shape := spectralShape(n, p.SampleRate, p.Color)

	magnitude := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	phase := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}

	coeffs := make([]complex128, len(shape))
	for ch := range buf.Data {
		for k := range coeffs {
			a := magnitude.Rand() * shape[k]
			coeffs[k] = cmplx.Rect(a, phase.Rand())
		}
		fft.Sequence(buf.Data[ch], coeffs)
		floats.Scale(1/float64(n), buf.Data[ch])
	}

	if err := buf.CheckFinite("synthesis"); err != nil {
		return nil, err
	}
	return buf, nil
}

// spectralShape returns the amplitude scale f^-e of each of the n/2+1 bins.
// The zero-frequency bin uses one bin spacing instead of 0 Hz so the DC
// term stays on the scale of the lowest audible bin.
func spectralShape(n, sampleRate int, color Color) []float64 {
	e := color.amplitudeExponent()
	df := float64(sampleRate) / float64(n)
	shape := make([]float64, n/2+1)
	for k := range shape {
		f := float64(k) * df
		if k == 0 {
			f = df
		}
		shape[k] = math.Pow(f, -e)
	}
	return shape
}
