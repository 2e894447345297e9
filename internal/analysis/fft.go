// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"strings"

	"ambient/internal/log"
	"ambient/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc defines the type for selecting an FFT window function.
type WindowFunc int

// Enum for available window functions.
const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

// DefaultSegmentSize is the Welch segment length used when the caller
// passes 0.
const DefaultSegmentSize = 8192

// Analyzer computes averaged power spectra of whole signals. Segments of
// Size() samples are windowed, transformed and averaged with 50% overlap
// (Welch's method). An Analyzer reuses its buffers and is not safe for
// concurrent use.
type Analyzer struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64

	window  []float64
	winPow  float64 // sum of squared window coefficients
	input   []float64
	coeffs  []complex128
	scratch []float64
}

// NewAnalyzer creates an Analyzer with the given segment size, which must be
// a power of two. A size of 0 selects DefaultSegmentSize.
func NewAnalyzer(size int, sampleRate float64, windowType WindowFunc) (*Analyzer, error) {
	if size == 0 {
		size = DefaultSegmentSize
	}
	if !bitint.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("segment size must be a power of 2, got %d", size)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	win := make([]float64, size)
	applyWindow(win, windowType)
	var winPow float64
	for _, w := range win {
		winPow += w * w
	}

	log.Debugf("Analysis: segment %d, rate %.0f Hz, window %v", size, sampleRate, windowType)

	return &Analyzer{
		fft:        fourier.NewFFT(size),
		size:       size,
		sampleRate: sampleRate,
		window:     win,
		winPow:     winPow,
		input:      make([]float64, size),
		coeffs:     make([]complex128, size/2+1),
		scratch:    make([]float64, size/2+1),
	}, nil
}

// Size returns the segment length.
func (a *Analyzer) Size() int {
	return a.size
}

// SampleRate returns the configured sample rate (Hz).
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// FrequencyForBin returns the center frequency (Hz) of bin i, or 0 when i is
// out of range.
func (a *Analyzer) FrequencyForBin(i int) float64 {
	if i < 0 || i > a.size/2 {
		return 0
	}
	return float64(i) * a.sampleRate / float64(a.size)
}

// PowerSpectrum returns the averaged one-sided power of samples in
// size/2+1 bins. Signals shorter than one segment are zero-padded. The
// result is normalized by the window power so that, by Parseval, its sum
// approximates the mean square of the input.
func (a *Analyzer) PowerSpectrum(samples []float64) []float64 {
	power := make([]float64, a.size/2+1)
	if len(samples) == 0 {
		return power
	}

	hop := a.size / 2
	segments := 0
	for start := 0; start == 0 || start+a.size <= len(samples); start += hop {
		for i := range a.input {
			var v float64
			if start+i < len(samples) {
				v = samples[start+i]
			}
			a.input[i] = v * a.window[i]
		}
		a.fft.Coefficients(a.coeffs, a.input)
		for k, c := range a.coeffs {
			re, im := real(c), imag(c)
			a.scratch[k] = re*re + im*im
		}
		for k := range power {
			power[k] += a.scratch[k]
		}
		segments++
	}

	norm := 1 / (float64(segments) * a.winPow * float64(a.size))
	for k := range power {
		p := power[k] * norm
		// One-sided: fold the negative frequencies onto the interior bins.
		if k != 0 && k != a.size/2 {
			p *= 2
		}
		power[k] = p
	}
	return power
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc
// enum, returns a known default (Hann) and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown FFT window function name: '%s'", name)
	}
}

// applyWindow fills coeffs with the selected window. Unknown types fall back
// to Hann.
func applyWindow(coeffs []float64, windowType WindowFunc) {
	// gonum windows scale the slice in place.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		log.Warnf("Analysis: Unknown window function type %d, defaulting to Hann", windowType)
		window.Hann(coeffs)
	}
}
