// SPDX-License-Identifier: MIT
package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"ambient/internal/config"
	"ambient/internal/log"
	"ambient/internal/noise"
	"ambient/pkg/build"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// app carries state shared by all commands of one invocation.
type app struct {
	cfg        *config.Config
	configPath string
	logLevel   string
	seed       uint64
	out        io.Writer
}

// paramFlag binds a command line flag to a request option key.
type paramFlag struct {
	name  string
	key   string
	usage string
}

var paramFlags = []paramFlag{
	{"duration", noise.KeyDuration, "Track length in seconds"},
	{"sample-rate", noise.KeySampleRate, "Sample rate, measured in Hertz (Hz)"},
	{"channels", noise.KeyChannels, "Number of channels (1=mono, 2=stereo)"},
	{"color", noise.KeyColor, "Spectral color: white, pink or brown"},
	{"tone-cutoff", noise.KeyToneCutoff, "Low-pass cutoff in Hz, 0 disables; overrides configured shelves"},
	{"low-shelf", noise.KeyLowShelf, "Low band gain in dB, enables 3-band shaping"},
	{"mid-shelf", noise.KeyMidShelf, "Mid band gain in dB, enables 3-band shaping"},
	{"high-shelf", noise.KeyHighShelf, "High band gain in dB, enables 3-band shaping"},
	{"stereo-width", noise.KeyStereoWidth, "Stereo width, 0 (mono) to 1 (independent)"},
	{"mod-rate", noise.KeyModulationRate, "Amplitude modulation rate in Hz, 0 disables"},
	{"mod-depth", noise.KeyModulationDepthDB, "Amplitude modulation depth in dB"},
	{"volume", noise.KeyVolumeDB, "Output volume in dB, -60 to 0"},
	{"fade-in", noise.KeyFadeInMs, "Fade-in length in milliseconds"},
	{"fade-out", noise.KeyFadeOutMs, "Fade-out length in milliseconds"},
}

// addParamFlags registers the request option flags and --set on fs.
func addParamFlags(fs *pflag.FlagSet, set *map[string]string) {
	for _, p := range paramFlags {
		fs.String(p.name, "", p.usage)
	}
	fs.StringToStringVar(set, "set", nil, "Extra options as key=value pairs, e.g. --set stereo_width=0.5")
}

// collectParams returns the options given on the command line. Named flags
// win over --set.
func collectParams(fs *pflag.FlagSet, set map[string]string) map[string]string {
	values := make(map[string]string, len(set))
	for k, v := range set {
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	for _, p := range paramFlags {
		if f := fs.Lookup(p.name); f != nil && f.Changed {
			values[p.key] = f.Value.String()
		}
	}
	return values
}

// rng returns the random source for job i. A fixed seed makes every job
// reproducible; otherwise each job gets fresh entropy.
func (a *app) rng(i int) (*rand.Rand, uint64) {
	seed := rand.Uint64()
	if a.cfg.Seed != nil {
		seed = *a.cfg.Seed + uint64(i)
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

// NewRootCommand builds the command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	buildInfo := build.GetBuildFlags()
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         build.Description,
		Version:       buildInfo.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(out)

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Path to a YAML configuration file (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Uint64Var(&a.seed, "seed", 0,
		"Random seed; the same seed and options reproduce the same track")

	rootCmd.AddCommand(
		newGenerateCommand(a),
		newAnalyzeCommand(a),
		newPreviewCommand(a),
		newListCommand(a),
	)
	return rootCmd
}

// setup loads configuration and applies the global flags on top.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	level, ok := log.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: unknown log level %q", noise.ErrInvalidParameter, cfg.LogLevel)
	}
	log.SetLevel(level)
	if cmd.Flags().Changed("seed") {
		seed := a.seed
		cfg.Seed = &seed
	}
	a.cfg = cfg
	return nil
}

// Execute runs the command line and returns the error of the command that
// ran, if any.
func Execute(args []string) error {
	rootCmd := NewRootCommand(os.Stdout)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// ExitCode maps an error from Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, noise.ErrInvalidParameter):
		return ExitInvalid
	default:
		return ExitFailure
	}
}
