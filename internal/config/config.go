// SPDX-License-Identifier: MIT
package config

import "ambient/internal/noise"

// Core configuration constants that define the boundaries and defaults of
// the generator, storage, preview and event settings.
const (
	DefaultLogLevel        = "info"
	DefaultOutputDir       = "./tracks"
	DefaultCategory        = noise.DefaultCategory
	DefaultDeviceID        = MinDeviceID // System default output device
	DefaultFramesPerBuffer = 1024        // Balanced latency/performance
	DefaultLowLatency      = false
	DefaultPreviewSeconds  = 30.0 // 0 loops until interrupted

	// Hardware limits
	MinDeviceID     = -1   // -1 represents system default device
	MaxBufferFrames = 8192 // Maximum frames per buffer (power of 2)
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel   string           `yaml:"log_level"`      // Logging level (e.g., "debug", "info", "warn", "error").
	Seed       *uint64          `yaml:"seed,omitempty"` // Fixed random seed; unset draws a fresh seed per run.
	Generation GenerationConfig `yaml:"generation"`     // Default request parameters.
	Post       PostConfig       `yaml:"post"`           // Default post-processing parameters.
	Storage    StorageConfig    `yaml:"storage"`        // Where artifacts are written.
	Preview    PreviewConfig    `yaml:"preview"`        // Loop playback settings.
	Events     EventsConfig     `yaml:"events"`         // Pipeline event sinks.
}

// GenerationConfig holds the default synthesis parameters. Request values
// given on the command line are applied on top.
type GenerationConfig struct {
	Duration          float64      `yaml:"duration_s"`
	SampleRate        int          `yaml:"sample_rate"`
	Channels          int          `yaml:"channels"`
	Color             string       `yaml:"color"`
	ToneCutoffHz      float64      `yaml:"tone_cutoff_hz"` // 0 disables the low-pass
	Shelves           *ShelfConfig `yaml:"shelves,omitempty"`
	StereoWidth       float64      `yaml:"stereo_width"`
	ModulationRateHz  float64      `yaml:"modulation_rate_hz"`
	ModulationDepthDB float64      `yaml:"modulation_depth_db"`
}

// ShelfConfig switches tone shaping to 3-band gains when present. A request
// that sets tone_cutoff_hz but no shelf gain uses the low-pass instead.
type ShelfConfig struct {
	LowDB  float64 `yaml:"low_gain_db"`
	MidDB  float64 `yaml:"mid_gain_db"`
	HighDB float64 `yaml:"high_gain_db"`
}

// PostConfig holds the default gain and fades.
type PostConfig struct {
	VolumeDB  float64 `yaml:"volume_db"`
	FadeInMs  int     `yaml:"fade_in_ms"`
	FadeOutMs int     `yaml:"fade_out_ms"`
}

// StorageConfig locates the artifact directory.
type StorageConfig struct {
	OutputDir string `yaml:"output_dir"` // Root directory; categories are subdirectories.
	Category  string `yaml:"category"`   // Category tracks are written under.
}

// PreviewConfig holds settings related to audio output.
type PreviewConfig struct {
	DeviceID        int     `yaml:"device"`            // PortAudio device index for output (-1 for default).
	Seconds         float64 `yaml:"seconds"`           // Playback length; 0 loops until interrupted.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per output callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency settings from PortAudio device.
}

// EventsConfig enables network event sinks. Empty addresses disable them.
type EventsConfig struct {
	WebSocketAddr string `yaml:"websocket_addr"` // e.g. "127.0.0.1:8080", served at /events
	UDPAddr       string `yaml:"udp_addr"`       // e.g. "127.0.0.1:9090"
}

// NewConfig creates a new Config instance with default values. This is the
// base that configuration files and environment overrides are applied to.
func NewConfig() *Config {
	req := noise.DefaultRequestParams()
	post := noise.DefaultPostProcessParams()
	return &Config{
		LogLevel: DefaultLogLevel,
		Generation: GenerationConfig{
			Duration:          req.Duration,
			SampleRate:        req.SampleRate,
			Channels:          req.Channels,
			Color:             req.Color.String(),
			ToneCutoffHz:      req.ToneCutoffHz,
			StereoWidth:       req.StereoWidth,
			ModulationRateHz:  req.ModulationRateHz,
			ModulationDepthDB: req.ModulationDepthDB,
		},
		Post: PostConfig{
			VolumeDB:  post.VolumeDB,
			FadeInMs:  post.FadeInMs,
			FadeOutMs: post.FadeOutMs,
		},
		Storage: StorageConfig{
			OutputDir: DefaultOutputDir,
			Category:  DefaultCategory,
		},
		Preview: PreviewConfig{
			DeviceID:        DefaultDeviceID,
			Seconds:         DefaultPreviewSeconds,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
	}
}
