// SPDX-License-Identifier: MIT
package filter

import "math"

// ButterworthLP designs a low-pass Butterworth cascade at freq (Hz).
// Odd orders end with a first-order section (B2=A2=0). Returns nil when the
// order is not positive or freq is outside (0, Nyquist).
func ButterworthLP(freq float64, order int, sampleRate float64) []Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return nil
	}
	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, lowpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLP(freq, sampleRate))
	}
	return sections
}

// ButterworthHP designs a high-pass Butterworth cascade at freq (Hz).
func ButterworthHP(freq float64, order int, sampleRate float64) []Coefficients {
	if order <= 0 || !validFreq(freq, sampleRate) {
		return nil
	}
	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, highpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderHP(freq, sampleRate))
	}
	return sections
}

// ButterworthBP designs a band-pass as a high-pass at lowHz followed by a
// low-pass at highHz, each of the given order.
func ButterworthBP(lowHz, highHz float64, order int, sampleRate float64) []Coefficients {
	if lowHz >= highHz {
		return nil
	}
	hp := ButterworthHP(lowHz, order, sampleRate)
	lp := ButterworthLP(highHz, order, sampleRate)
	if hp == nil || lp == nil {
		return nil
	}
	return append(hp, lp...)
}

// Response returns the magnitude of the cascade at freq (Hz).
func Response(coeffs []Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := complex(math.Cos(-w), math.Sin(-w)) // z^-1
	z2 := z1 * z1
	h := complex(1, 0)
	for _, c := range coeffs {
		num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
		den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
		h *= num / den
	}
	return math.Hypot(real(h), imag(h))
}

func validFreq(freq, sampleRate float64) bool {
	return sampleRate > 0 && freq > 0 && freq < sampleRate/2
}

// butterworthQ returns the Q of the index-th pole pair of an order-n design.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}
	return 1 / (2 * s)
}

func lowpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func highpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func firstOrderLP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)
	return Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
}

func firstOrderHP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)
	return Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
