// SPDX-License-Identifier: MIT
package noise

import (
	"math"
	"math/rand/v2"
	"testing"

	"ambient/internal/analysis"

	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// params returns validated request params for the given overrides.
func params(t testing.TB, values map[string]string) RequestParams {
	t.Helper()
	p, err := NewRequestParams(values)
	require.NoError(t, err)
	return p
}

// bandEnergy measures the power of the mono mix between lowHz and highHz.
func bandEnergy(t testing.TB, buf *SampleBuffer, lowHz, highHz float64) float64 {
	t.Helper()
	a, err := analysis.NewAnalyzer(analysis.DefaultSegmentSize, float64(buf.SampleRate), analysis.Hann)
	require.NoError(t, err)
	return a.BandEnergy(buf.Mono(), lowHz, highHz)
}

func db(ratio float64) float64 {
	return 10 * math.Log10(ratio)
}
