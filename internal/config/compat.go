// SPDX-License-Identifier: MIT
package config

import (
	"strconv"

	"ambient/internal/noise"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Values returns the generation defaults as request options, the same
// key/value form accepted from the command line.
func (g GenerationConfig) Values() map[string]string {
	values := map[string]string{
		noise.KeyDuration:          formatFloat(g.Duration),
		noise.KeySampleRate:        strconv.Itoa(g.SampleRate),
		noise.KeyChannels:          strconv.Itoa(g.Channels),
		noise.KeyColor:             g.Color,
		noise.KeyToneCutoff:        formatFloat(g.ToneCutoffHz),
		noise.KeyStereoWidth:       formatFloat(g.StereoWidth),
		noise.KeyModulationRate:    formatFloat(g.ModulationRateHz),
		noise.KeyModulationDepthDB: formatFloat(g.ModulationDepthDB),
	}
	if g.Shelves != nil {
		values[noise.KeyLowShelf] = formatFloat(g.Shelves.LowDB)
		values[noise.KeyMidShelf] = formatFloat(g.Shelves.MidDB)
		values[noise.KeyHighShelf] = formatFloat(g.Shelves.HighDB)
	}
	return values
}

// Values returns the post-processing defaults as options.
func (p PostConfig) Values() map[string]string {
	return map[string]string{
		noise.KeyVolumeDB:  formatFloat(p.VolumeDB),
		noise.KeyFadeInMs:  strconv.Itoa(p.FadeInMs),
		noise.KeyFadeOutMs: strconv.Itoa(p.FadeOutMs),
	}
}

// RequestParams merges overrides onto the configured generation defaults
// and validates the result.
func (c *Config) RequestParams(overrides map[string]string) (noise.RequestParams, error) {
	values := c.Generation.Values()
	// An inherited cutoff at or above the effective Nyquist disables the
	// low-pass instead of failing validation, as the built-in default does.
	rate := float64(c.Generation.SampleRate)
	if raw, ok := overrides[noise.KeySampleRate]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			rate = v
		}
	}
	_, explicitCutoff := overrides[noise.KeyToneCutoff]
	if !explicitCutoff && c.Generation.ToneCutoffHz >= rate/2 {
		values[noise.KeyToneCutoff] = "0"
	}
	// An explicit cutoff without explicit shelf gains selects the low-pass
	// over the configured shelves.
	if explicitCutoff && !hasShelfKey(overrides) {
		delete(values, noise.KeyLowShelf)
		delete(values, noise.KeyMidShelf)
		delete(values, noise.KeyHighShelf)
	}
	for k, v := range overrides {
		values[k] = v
	}
	return noise.NewRequestParams(values)
}

func hasShelfKey(values map[string]string) bool {
	for _, k := range []string{noise.KeyLowShelf, noise.KeyMidShelf, noise.KeyHighShelf} {
		if _, ok := values[k]; ok {
			return true
		}
	}
	return false
}

// PostProcessParams merges overrides onto the configured post defaults.
func (c *Config) PostProcessParams(overrides map[string]string) (noise.PostProcessParams, error) {
	values := c.Post.Values()
	for k, v := range overrides {
		values[k] = v
	}
	return noise.NewPostProcessParams(values)
}
