// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ambient/internal/log"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is searched for in the working directory when no path
// is given.
const DefaultConfigFile = "config.yaml"

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it searches default locations ("config.yaml"). If no file is found, it uses built-in
// defaults. After loading defaults or from file, it applies environment variable
// overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		candidates := []string{DefaultConfigFile}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Debugf("configuration: loaded %s", path)
	}

	// Apply environment variable overrides AFTER loading from file.
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every section. Generation and post defaults are validated
// by building the pipeline parameters from them.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error, fatal", c.LogLevel)
	}
	if _, err := c.RequestParams(nil); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if _, err := c.PostProcessParams(nil); err != nil {
		return fmt.Errorf("post: %w", err)
	}
	if strings.TrimSpace(c.Storage.OutputDir) == "" {
		return errors.New("storage.output_dir must be set")
	}
	if c.Storage.Category == "" || strings.ContainsAny(c.Storage.Category, `/\`) || c.Storage.Category == "." || c.Storage.Category == ".." {
		return fmt.Errorf("storage.category %q must be a plain directory name", c.Storage.Category)
	}
	if c.Preview.DeviceID < MinDeviceID {
		return fmt.Errorf("preview.device must be >= %d, got %d", MinDeviceID, c.Preview.DeviceID)
	}
	if c.Preview.Seconds < 0 {
		return fmt.Errorf("preview.seconds must not be negative, got %v", c.Preview.Seconds)
	}
	if c.Preview.FramesPerBuffer <= 0 || c.Preview.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("preview.frames_per_buffer must be in [1, %d], got %d", MaxBufferFrames, c.Preview.FramesPerBuffer)
	}
	for name, addr := range map[string]string{
		"events.websocket_addr": c.Events.WebSocketAddr,
		"events.udp_addr":       c.Events.UDPAddr,
	} {
		if addr != "" && !strings.Contains(addr, ":") {
			return fmt.Errorf("%s %q appears invalid (missing port?)", name, addr)
		}
	}
	return nil
}

// applyEnvOverrides applies ENV_* variables on top of file values.
// Malformed numeric values are reported rather than ignored.
func (cfg *Config) applyEnvOverrides() error {
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		cfg.LogLevel = val
		log.Debugf("configuration: Overriding log_level from env: %s", val)
	}

	// ENV_SEED
	if val, ok := os.LookupEnv("ENV_SEED"); ok {
		seed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("ENV_SEED: %w", err)
		}
		cfg.Seed = &seed
		log.Debugf("configuration: Overriding seed from env: %d", seed)
	}

	// ENV_OUTPUT_DIR / ENV_CATEGORY
	if val, ok := os.LookupEnv("ENV_OUTPUT_DIR"); ok {
		cfg.Storage.OutputDir = val
		log.Debugf("configuration: Overriding storage.output_dir from env: %s", val)
	}
	if val, ok := os.LookupEnv("ENV_CATEGORY"); ok {
		cfg.Storage.Category = val
		log.Debugf("configuration: Overriding storage.category from env: %s", val)
	}

	// ENV_PREVIEW_DEVICE
	if val, ok := os.LookupEnv("ENV_PREVIEW_DEVICE"); ok {
		id, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("ENV_PREVIEW_DEVICE: %w", err)
		}
		cfg.Preview.DeviceID = id
		log.Debugf("configuration: Overriding preview.device from env: %d", id)
	}

	// ENV_EVENTS_{...}
	if val, ok := os.LookupEnv("ENV_EVENTS_WS_ADDR"); ok {
		cfg.Events.WebSocketAddr = val
		log.Debugf("configuration: Overriding events.websocket_addr from env: %s", val)
	}
	if val, ok := os.LookupEnv("ENV_EVENTS_UDP_ADDR"); ok {
		cfg.Events.UDPAddr = val
		log.Debugf("configuration: Overriding events.udp_addr from env: %s", val)
	}
	return nil
}
