// SPDX-License-Identifier: MIT
package filter

// SettleSamples is the number of samples the filter state runs on before
// each pass of ZeroPhasePeriodic. Periods shorter than this are repeated
// as often as needed.
const SettleSamples = 1 << 16

// ZeroPhasePeriodic filters one period of a periodic signal in place with
// the cascade run forward and then backward. Before each pass the state is
// settled on the samples that precede the pass start in circular time, so
// the output keeps the input's period and has no phase shift. The effective
// magnitude response is the square of the cascade's.
func ZeroPhasePeriodic(coeffs []Coefficients, x []float64) {
	n := len(x)
	if n == 0 || len(coeffs) == 0 {
		return
	}
	chain := NewChain(coeffs)

	// Forward: the samples before x[0] are x[-SettleSamples..-1] mod n.
	start := n - SettleSamples%n
	for i := range SettleSamples {
		chain.ProcessSample(x[(start+i)%n])
	}
	chain.ProcessBlock(x)

	// Backward: in reversed time the samples before x[n-1] are
	// x[n+SettleSamples-1..n] mod n.
	chain.Reset()
	for i := SettleSamples - 1; i >= 0; i-- {
		chain.ProcessSample(x[i%n])
	}
	for i := n - 1; i >= 0; i-- {
		x[i] = chain.ProcessSample(x[i])
	}
}
