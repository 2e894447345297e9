// SPDX-License-Identifier: MIT
/*
Package filter implements the IIR filters used for tone shaping:
- RBJ biquad sections in Direct Form II Transposed
- Butterworth low/high-pass cascades of arbitrary order
- Zero-phase filtering of exactly periodic buffers

The periodic filter warms each pass up on the samples that precede the
buffer start in circular time, so an exactly periodic input produces an
exactly periodic (up to the warm-up residue) output.
*/
package filter

// Coefficients holds the transfer function of one second-order section.
// a0 is normalized to 1 and not stored.
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Section is a single biquad with its delay state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// ProcessSample filters one sample (Direct Form II Transposed).
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y
	return y
}

// Reset clears the delay state.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// Chain is a cascade of sections processed in series.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade with one section per coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
	return c
}

// ProcessSample runs x through every section in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place. Zero-alloc.
func (c *Chain) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears the state of every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of cascaded sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}
