// SPDX-License-Identifier: MIT
package noise

import (
	"math"
	"strconv"
	"strings"
)

// Defaults and limits of the generation parameters.
const (
	DefaultDuration     = 10.0  // Seconds
	DefaultSampleRate   = 44100 // CD-quality audio
	DefaultChannels     = 2     // Stereo
	DefaultToneCutoffHz = 8000  // Soft top end
	DefaultStereoWidth  = 0.8   // Slightly narrowed stereo image

	DefaultVolumeDB  = -6.0
	DefaultFadeInMs  = 1000
	DefaultFadeOutMs = 1000

	MinSampleRate        = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate        = 192000 // Maximum supported sample rate (Hz)
	MaxDuration          = 3600.0 // One hour
	MaxModulationRateHz  = 10.0   // Faster than this is tremolo, not breathing
	MaxModulationDepthDB = 60.0
	MaxShelfGainDB       = 24.0
	MinVolumeDB          = -60.0
	MaxFadeMs            = 600000
)

// Recognized option keys.
const (
	KeyDuration          = "duration_s"
	KeySampleRate        = "sample_rate"
	KeyChannels          = "channels"
	KeyColor             = "color"
	KeyToneCutoff        = "tone_cutoff_hz"
	KeyLowShelf          = "low_shelf_gain_db"
	KeyMidShelf          = "mid_shelf_gain_db"
	KeyHighShelf         = "high_shelf_gain_db"
	KeyStereoWidth       = "stereo_width"
	KeyModulationRate    = "modulation_rate_hz"
	KeyModulationDepthDB = "modulation_depth_db"

	KeyVolumeDB  = "volume_db"
	KeyFadeInMs  = "fade_in_ms"
	KeyFadeOutMs = "fade_out_ms"
)

// Color selects the spectral slope of the synthesized noise.
type Color int

const (
	White Color = iota // flat power spectrum
	Pink               // power falls as 1/f
	Brown              // power falls as 1/f^2
)

// String returns the lower-case name of the color.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Pink:
		return "pink"
	case Brown:
		return "brown"
	default:
		return "unknown"
	}
}

// amplitudeExponent is the exponent e of the per-bin amplitude scale f^-e.
func (c Color) amplitudeExponent() float64 {
	switch c {
	case White:
		return 0
	case Brown:
		return 1
	default:
		return 0.5
	}
}

// ParseColor converts a case-insensitive color name.
func ParseColor(name string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	case "brown", "brownian", "red":
		return Brown, nil
	default:
		return Pink, invalidf("unknown noise color %q", name)
	}
}

// RequestParams describes one generation request. It is a value type; the
// With* helpers return modified copies.
type RequestParams struct {
	Duration   float64 // Seconds, > 0
	SampleRate int     // Hz
	Channels   int     // 1 or 2
	Color      Color

	// ToneCutoffHz enables the low-pass when 0 < cutoff < Nyquist.
	ToneCutoffHz float64

	// Shelving replaces the low-pass with 3-band gain shaping.
	Shelving    bool
	LowShelfDB  float64
	MidShelfDB  float64
	HighShelfDB float64

	StereoWidth float64 // [0,1], 1 keeps full separation

	// Breathing is enabled when both rate and depth are positive.
	ModulationRateHz  float64
	ModulationDepthDB float64
}

// DefaultRequestParams returns the documented defaults.
func DefaultRequestParams() RequestParams {
	return RequestParams{
		Duration:     DefaultDuration,
		SampleRate:   DefaultSampleRate,
		Channels:     DefaultChannels,
		Color:        Pink,
		ToneCutoffHz: DefaultToneCutoffHz,
		StereoWidth:  DefaultStereoWidth,
	}
}

// NewRequestParams builds validated params from key/value input on top of
// the defaults.
func NewRequestParams(values map[string]string) (RequestParams, error) {
	return DefaultRequestParams().WithValues(values)
}

// WithValues returns a copy with the recognized keys applied and validates
// the result. Unknown keys are rejected.
func (p RequestParams) WithValues(values map[string]string) (RequestParams, error) {
	cutoffSet := false
	for key, raw := range values {
		var err error
		switch key {
		case KeyDuration:
			p.Duration, err = parseFloat(key, raw)
		case KeySampleRate:
			p.SampleRate, err = parseInt(key, raw)
		case KeyChannels:
			p.Channels, err = parseInt(key, raw)
		case KeyColor:
			p.Color, err = ParseColor(raw)
		case KeyToneCutoff:
			p.ToneCutoffHz, err = parseFloat(key, raw)
			cutoffSet = true
		case KeyLowShelf:
			p.LowShelfDB, err = parseFloat(key, raw)
			p.Shelving = true
		case KeyMidShelf:
			p.MidShelfDB, err = parseFloat(key, raw)
			p.Shelving = true
		case KeyHighShelf:
			p.HighShelfDB, err = parseFloat(key, raw)
			p.Shelving = true
		case KeyStereoWidth:
			p.StereoWidth, err = parseFloat(key, raw)
		case KeyModulationRate:
			p.ModulationRateHz, err = parseFloat(key, raw)
		case KeyModulationDepthDB:
			p.ModulationDepthDB, err = parseFloat(key, raw)
		default:
			err = invalidf("unknown option %q", key)
		}
		if err != nil {
			return RequestParams{}, err
		}
	}
	// An inherited cutoff that a lower sample rate pushed past Nyquist
	// disables the low-pass; an explicit one is rejected by Validate.
	if !cutoffSet && p.ToneCutoffHz >= p.Nyquist() {
		p.ToneCutoffHz = 0
	}
	if err := p.Validate(); err != nil {
		return RequestParams{}, err
	}
	return p, nil
}

// Validate checks every field. It performs no synthesis work.
func (p RequestParams) Validate() error {
	if !(p.Duration > 0) || math.IsInf(p.Duration, 0) {
		return invalidf("duration_s must be positive, got %v", p.Duration)
	}
	if p.Duration > MaxDuration {
		return invalidf("duration_s must be at most %v, got %v", MaxDuration, p.Duration)
	}
	if p.SampleRate <= 0 {
		return invalidf("sample_rate must be positive, got %d", p.SampleRate)
	}
	if p.SampleRate < MinSampleRate || p.SampleRate > MaxSampleRate {
		return invalidf("sample_rate must be in [%d, %d], got %d", MinSampleRate, MaxSampleRate, p.SampleRate)
	}
	if p.NumSamples() < 2 {
		return invalidf("duration_s %v yields fewer than 2 samples", p.Duration)
	}
	if p.Channels != 1 && p.Channels != 2 {
		return invalidf("channels must be 1 or 2, got %d", p.Channels)
	}
	if p.Color < White || p.Color > Brown {
		return invalidf("unknown noise color %d", p.Color)
	}
	if !isFinite(p.ToneCutoffHz) || p.ToneCutoffHz < 0 {
		return invalidf("tone_cutoff_hz must be non-negative, got %v", p.ToneCutoffHz)
	}
	if p.ToneCutoffHz >= p.Nyquist() {
		return invalidf("tone_cutoff_hz %v must be below Nyquist %v", p.ToneCutoffHz, p.Nyquist())
	}
	for _, g := range []float64{p.LowShelfDB, p.MidShelfDB, p.HighShelfDB} {
		if !isFinite(g) || math.Abs(g) > MaxShelfGainDB {
			return invalidf("shelf gains must be within ±%v dB, got %v", MaxShelfGainDB, g)
		}
	}
	if !(p.StereoWidth >= 0 && p.StereoWidth <= 1) {
		return invalidf("stereo_width must be in [0, 1], got %v", p.StereoWidth)
	}
	if !(p.ModulationRateHz >= 0 && p.ModulationRateHz <= MaxModulationRateHz) {
		return invalidf("modulation_rate_hz must be in [0, %v], got %v", MaxModulationRateHz, p.ModulationRateHz)
	}
	if !(p.ModulationDepthDB >= 0 && p.ModulationDepthDB <= MaxModulationDepthDB) {
		return invalidf("modulation_depth_db must be in [0, %v], got %v", MaxModulationDepthDB, p.ModulationDepthDB)
	}
	return nil
}

// NumSamples is round(duration × sample rate).
func (p RequestParams) NumSamples() int {
	return int(math.Round(p.Duration * float64(p.SampleRate)))
}

// Nyquist returns half the sample rate.
func (p RequestParams) Nyquist() float64 {
	return float64(p.SampleRate) / 2
}

// Modulated reports whether the breathing stage runs.
func (p RequestParams) Modulated() bool {
	return p.ModulationRateHz > 0 && p.ModulationDepthDB > 0
}

// PostProcessParams controls the gain and fades applied before export.
type PostProcessParams struct {
	VolumeDB  float64
	FadeInMs  int
	FadeOutMs int
}

// DefaultPostProcessParams returns the documented defaults.
func DefaultPostProcessParams() PostProcessParams {
	return PostProcessParams{
		VolumeDB:  DefaultVolumeDB,
		FadeInMs:  DefaultFadeInMs,
		FadeOutMs: DefaultFadeOutMs,
	}
}

// NewPostProcessParams builds validated post-processing params from
// key/value input on top of the defaults.
func NewPostProcessParams(values map[string]string) (PostProcessParams, error) {
	return DefaultPostProcessParams().WithValues(values)
}

// WithValues returns a copy with the recognized keys applied.
func (p PostProcessParams) WithValues(values map[string]string) (PostProcessParams, error) {
	for key, raw := range values {
		var err error
		switch key {
		case KeyVolumeDB:
			p.VolumeDB, err = parseFloat(key, raw)
		case KeyFadeInMs:
			p.FadeInMs, err = parseInt(key, raw)
		case KeyFadeOutMs:
			p.FadeOutMs, err = parseInt(key, raw)
		default:
			err = invalidf("unknown option %q", key)
		}
		if err != nil {
			return PostProcessParams{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return PostProcessParams{}, err
	}
	return p, nil
}

// Validate checks the gain and fade ranges. Positive gain is rejected so
// the headroom left by normalization survives into the quantized track.
func (p PostProcessParams) Validate() error {
	if !(p.VolumeDB >= MinVolumeDB && p.VolumeDB <= 0) {
		return invalidf("volume_db must be in [%v, 0], got %v", MinVolumeDB, p.VolumeDB)
	}
	if p.FadeInMs < 0 || p.FadeInMs > MaxFadeMs {
		return invalidf("fade_in_ms must be in [0, %d], got %d", MaxFadeMs, p.FadeInMs)
	}
	if p.FadeOutMs < 0 || p.FadeOutMs > MaxFadeMs {
		return invalidf("fade_out_ms must be in [0, %d], got %d", MaxFadeMs, p.FadeOutMs)
	}
	return nil
}

// SplitValues separates post-processing keys from generation keys.
func SplitValues(values map[string]string) (request, post map[string]string) {
	request = make(map[string]string, len(values))
	post = make(map[string]string)
	for k, v := range values {
		switch k {
		case KeyVolumeDB, KeyFadeInMs, KeyFadeOutMs:
			post[k] = v
		default:
			request[k] = v
		}
	}
	return request, post
}

func parseFloat(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !isFinite(v) {
		return 0, invalidf("%s: %q is not a finite number", key, raw)
	}
	return v, nil
}

func parseInt(key, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	v, err := strconv.Atoi(s)
	if err != nil {
		// Accept integral floats such as "44100.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, invalidf("%s: %q is not an integer", key, raw)
		}
		v = int(f)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
