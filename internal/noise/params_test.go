// SPDX-License-Identifier: MIT
package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestParamsDefaults(t *testing.T) {
	p, err := NewRequestParams(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultRequestParams(), p)
	assert.Equal(t, 441000, p.NumSamples())
	assert.Equal(t, Pink, p.Color)
	assert.False(t, p.Shelving)
	assert.False(t, p.Modulated())
}

func TestNewRequestParamsParsesValues(t *testing.T) {
	p, err := NewRequestParams(map[string]string{
		KeyDuration:          "2.5",
		KeySampleRate:        "48000.0",
		KeyChannels:          "1",
		KeyColor:             "Brown",
		KeyToneCutoff:        "1200",
		KeyStereoWidth:       " 0.3 ",
		KeyModulationRate:    "0.2",
		KeyModulationDepthDB: "6",
	})
	require.NoError(t, err)

	assert.Equal(t, 2.5, p.Duration)
	assert.Equal(t, 48000, p.SampleRate)
	assert.Equal(t, 1, p.Channels)
	assert.Equal(t, Brown, p.Color)
	assert.Equal(t, 1200.0, p.ToneCutoffHz)
	assert.Equal(t, 0.3, p.StereoWidth)
	assert.True(t, p.Modulated())
	assert.Equal(t, 120000, p.NumSamples())
}

func TestShelfKeysEnableShelving(t *testing.T) {
	p, err := NewRequestParams(map[string]string{KeyHighShelf: "-6"})
	require.NoError(t, err)
	assert.True(t, p.Shelving)
	assert.Equal(t, -6.0, p.HighShelfDB)
	assert.Zero(t, p.LowShelfDB)
}

func TestInheritedCutoffDisabledAtLowRate(t *testing.T) {
	p, err := NewRequestParams(map[string]string{KeySampleRate: "8000"})
	require.NoError(t, err)
	assert.Zero(t, p.ToneCutoffHz, "default cutoff above the new Nyquist turns the low-pass off")

	_, err = NewRequestParams(map[string]string{KeySampleRate: "8000", KeyToneCutoff: "4000"})
	assert.ErrorIs(t, err, ErrInvalidParameter, "an explicit cutoff at Nyquist is rejected")
}

func TestRequestParamsRejectsInvalid(t *testing.T) {
	tests := []struct {
		desc   string
		values map[string]string
	}{
		{"zero duration", map[string]string{KeyDuration: "0"}},
		{"negative duration", map[string]string{KeyDuration: "-1"}},
		{"NaN duration", map[string]string{KeyDuration: "NaN"}},
		{"too long", map[string]string{KeyDuration: "7200"}},
		{"one sample", map[string]string{KeyDuration: "0.00001"}},
		{"zero rate", map[string]string{KeySampleRate: "0"}},
		{"negative rate", map[string]string{KeySampleRate: "-44100"}},
		{"rate too low", map[string]string{KeySampleRate: "4000"}},
		{"fractional rate", map[string]string{KeySampleRate: "44100.5"}},
		{"three channels", map[string]string{KeyChannels: "3"}},
		{"unknown color", map[string]string{KeyColor: "purple"}},
		{"negative cutoff", map[string]string{KeyToneCutoff: "-10"}},
		{"cutoff above nyquist", map[string]string{KeyToneCutoff: "30000"}},
		{"width above one", map[string]string{KeyStereoWidth: "1.5"}},
		{"negative width", map[string]string{KeyStereoWidth: "-0.1"}},
		{"shelf gain too large", map[string]string{KeyLowShelf: "40"}},
		{"modulation too fast", map[string]string{KeyModulationRate: "20"}},
		{"negative depth", map[string]string{KeyModulationDepthDB: "-3"}},
		{"not a number", map[string]string{KeyStereoWidth: "wide"}},
		{"unknown key", map[string]string{"reverb": "1"}},
		{"post key", map[string]string{KeyVolumeDB: "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := NewRequestParams(tt.values)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestPostProcessParams(t *testing.T) {
	p, err := NewPostProcessParams(nil)
	require.NoError(t, err)
	assert.Equal(t, PostProcessParams{VolumeDB: -6, FadeInMs: 1000, FadeOutMs: 1000}, p)

	p, err = NewPostProcessParams(map[string]string{KeyVolumeDB: "-12", KeyFadeInMs: "0", KeyFadeOutMs: "250"})
	require.NoError(t, err)
	assert.Equal(t, PostProcessParams{VolumeDB: -12, FadeInMs: 0, FadeOutMs: 250}, p)

	for _, values := range []map[string]string{
		{KeyVolumeDB: "3"},
		{KeyVolumeDB: "-100"},
		{KeyFadeInMs: "-1"},
		{KeyFadeOutMs: "1.5"},
		{KeyDuration: "10"},
	} {
		_, err := NewPostProcessParams(values)
		assert.ErrorIs(t, err, ErrInvalidParameter, "%v", values)
	}
}

func TestSplitValues(t *testing.T) {
	req, post := SplitValues(map[string]string{
		KeyDuration:  "5",
		KeyVolumeDB:  "-3",
		KeyFadeInMs:  "10",
		KeyFadeOutMs: "20",
		KeyColor:     "white",
	})
	assert.Equal(t, map[string]string{KeyDuration: "5", KeyColor: "white"}, req)
	assert.Equal(t, map[string]string{KeyVolumeDB: "-3", KeyFadeInMs: "10", KeyFadeOutMs: "20"}, post)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"white", White},
		{"PINK", Pink},
		{"brown", Brown},
		{"brownian", Brown},
		{"red", Brown},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.NotEmpty(t, got.String())
	}
}
