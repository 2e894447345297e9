// SPDX-License-Identifier: MIT
package noise

import (
	"fmt"
	"math"
	"testing"

	"ambient/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStereoWidthZeroCollapsesToMono(t *testing.T) {
	buf, err := Synthesize(params(t, map[string]string{KeyDuration: "0.25"}), seeded(8))
	require.NoError(t, err)
	mono := buf.Mono()

	ApplyStereoWidth(buf, 0)
	for i := range mono {
		assert.InDelta(t, mono[i], buf.Data[0][i], 1e-12)
		assert.InDelta(t, mono[i], buf.Data[1][i], 1e-12)
	}
}

func TestStereoWidthOneIsNoOp(t *testing.T) {
	buf, err := Synthesize(params(t, map[string]string{KeyDuration: "0.25"}), seeded(8))
	require.NoError(t, err)
	before := buf.Clone()

	ApplyStereoWidth(buf, 1)
	assert.Equal(t, before.Data, buf.Data)
}

func TestStereoWidthIgnoresMono(t *testing.T) {
	buf, err := Synthesize(params(t, map[string]string{KeyDuration: "0.25", KeyChannels: "1"}), seeded(8))
	require.NoError(t, err)
	before := buf.Clone()

	ApplyStereoWidth(buf, 0)
	assert.Equal(t, before.Data, buf.Data)
}

func TestStereoWidthCorrelationDecreasesWithWidth(t *testing.T) {
	prev := math.Inf(1)
	for _, width := range []float64{0, 0.25, 0.5, 0.75, 1} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			buf, err := Synthesize(params(t, map[string]string{KeyDuration: "0.5"}), seeded(12))
			require.NoError(t, err)

			ApplyStereoWidth(buf, width)
			corr := analysis.Correlation(buf.Data[0], buf.Data[1])
			if width == 0 {
				assert.InDelta(t, 1, corr, 1e-9)
			}
			assert.Less(t, corr, prev+1e-12)
			prev = corr
		})
	}
}

func TestStereoWidthPreservesMono(t *testing.T) {
	buf, err := Synthesize(params(t, map[string]string{KeyDuration: "0.25"}), seeded(13))
	require.NoError(t, err)
	mono := buf.Mono()

	ApplyStereoWidth(buf, 0.3)
	after := buf.Mono()
	for i := range mono {
		assert.InDelta(t, mono[i], after[i], 1e-12)
	}
}
