// SPDX-License-Identifier: MIT
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ambient/internal/analysis"
	"ambient/internal/noise"
	"ambient/internal/storage"
	"ambient/pkg/bitint"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type analyzeOptions struct {
	set       map[string]string
	segment   int
	window    string
	format    string
	bandsFile string
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}
	c := &cobra.Command{
		Use:   "analyze [FILE...]",
		Short: "Report levels, loop seam and band energies of WAV tracks",
		Long: "Report levels, loop seam and band energies of WAV tracks. Without files, a track\n" +
			"is rendered in memory from the generation options and analyzed without export.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, opts, args)
		},
	}
	addParamFlags(c.Flags(), &opts.set)
	c.Flags().IntVar(&opts.segment, "segment", analysis.DefaultSegmentSize, "FFT segment size, rounded up to a power of 2")
	c.Flags().StringVar(&opts.window, "window", "hann", "FFT window function")
	c.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or yaml")
	c.Flags().StringVar(&opts.bandsFile, "bands", "", "YAML file listing frequency bands (name, low_hz, high_hz)")
	return c
}

func (a *app) runAnalyze(cmd *cobra.Command, opts *analyzeOptions, files []string) error {
	win, err := analysis.ParseWindowFunc(opts.window)
	if err != nil {
		return fmt.Errorf("%w: %w", noise.ErrInvalidParameter, err)
	}
	var bands []analysis.FrequencyBand
	if opts.bandsFile != "" {
		if bands, err = loadBands(opts.bandsFile); err != nil {
			return err
		}
	}

	if len(files) == 0 {
		reqValues, _ := noise.SplitValues(collectParams(cmd.Flags(), opts.set))
		req, err := a.cfg.RequestParams(reqValues)
		if err != nil {
			return err
		}
		rng, seed := a.rng(0)
		buf, err := noise.Generate(req, rng)
		if err != nil {
			return err
		}
		report, err := analyzeBuffer(buf, opts.segment, win, bands)
		if err != nil {
			return err
		}
		return writeReport(a.out, fmt.Sprintf("rendered (seed %d)", seed), report, opts.format)
	}

	for _, path := range files {
		buf, err := readTrack(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		report, err := analyzeBuffer(buf, opts.segment, win, bands)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeReport(a.out, path, report, opts.format); err != nil {
			return err
		}
	}
	return nil
}

// readTrack decodes a stored WAV track.
func readTrack(path string) (*noise.SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pcm, err := storage.ReadWAV(f)
	if err != nil {
		return nil, err
	}
	return noise.FromIntBuffer(pcm)
}

func analyzeBuffer(buf *noise.SampleBuffer, segment int, win analysis.WindowFunc, bands []analysis.FrequencyBand) (*analysis.Report, error) {
	// Segments longer than the track would only add zero padding.
	size := bitint.NextPowerOfTwo(segment)
	if fit := bitint.PrevPowerOfTwo(buf.Frames()); fit > 0 && size > fit {
		size = fit
	}
	an, err := analysis.NewAnalyzer(size, float64(buf.SampleRate), win)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(an, buf.Data, bands)
}

func loadBands(path string) ([]analysis.FrequencyBand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bands []analysis.FrequencyBand
	if err := yaml.Unmarshal(data, &bands); err != nil {
		return nil, fmt.Errorf("failed to parse bands file: %w", err)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: bands file %s lists no bands", noise.ErrInvalidParameter, path)
	}
	return bands, nil
}

func writeReport(w io.Writer, path string, r *analysis.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			File string `json:"file"`
			analysis.Report
		}{path, *r})
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(struct {
			File            string `yaml:"file"`
			analysis.Report `yaml:",inline"`
		}{path, *r})
	case "text":
		return writeText(w, path, r)
	default:
		return fmt.Errorf("%w: unknown format %q", noise.ErrInvalidParameter, format)
	}
}

func writeText(w io.Writer, path string, r *analysis.Report) error {
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "%d Hz, %d channel(s), %.2f s, correlation %.3f\n", r.SampleRate, r.Channels, r.Duration, r.Correlation)

	levels := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("channel", "peak dB", "rms dB", "seam")
	for ch, l := range r.Levels {
		levels.Row(fmt.Sprint(ch), fmt.Sprintf("%.1f", l.PeakDB), fmt.Sprintf("%.1f", l.RMSDB), fmt.Sprintf("%.2f", l.SeamRatio))
	}

	bands := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("band", "range Hz", "energy dB")
	for _, b := range r.Bands {
		high := fmt.Sprintf("%.0f", b.HighHz)
		if b.HighHz == 0 {
			high = "nyquist"
		}
		bands.Row(b.Name, fmt.Sprintf("%.0f-%s", b.LowHz, high), fmt.Sprintf("%.1f", b.DB))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", levels, bands)
	return err
}
