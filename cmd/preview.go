// SPDX-License-Identifier: MIT
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambient/internal/audio"
	"ambient/internal/log"
	"ambient/internal/noise"
	"ambient/internal/tui"

	"github.com/spf13/cobra"
)

type previewOptions struct {
	set             map[string]string
	device          int
	seconds         float64
	framesPerBuffer int
	lowLatency      bool
	pick            bool
}

func newPreviewCommand(a *app) *cobra.Command {
	opts := &previewOptions{}
	c := &cobra.Command{
		Use:   "preview [FILE]",
		Short: "Loop a stored track, or a freshly rendered one, on an output device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview(cmd, opts, args)
		},
	}
	addParamFlags(c.Flags(), &opts.set)
	c.Flags().IntVarP(&opts.device, "device", "d", 0, "Output device ID, -1 for the system default. Use 'list' to see devices.")
	c.Flags().Float64Var(&opts.seconds, "seconds", 0, "Playback length in seconds, 0 loops until interrupted")
	c.Flags().IntVarP(&opts.framesPerBuffer, "frames-per-buffer", "b", 0, "The number of frames per buffer (affects latency)")
	c.Flags().BoolVarP(&opts.lowLatency, "low-latency", "l", false, "Use low latency output settings")
	c.Flags().BoolVar(&opts.pick, "pick", false, "Choose the output device interactively")
	return c
}

func (a *app) runPreview(cmd *cobra.Command, opts *previewOptions, args []string) error {
	preview := a.cfg.Preview
	flags := cmd.Flags()
	if flags.Changed("device") {
		preview.DeviceID = opts.device
	}
	if flags.Changed("seconds") {
		preview.Seconds = opts.seconds
	}
	if flags.Changed("frames-per-buffer") {
		preview.FramesPerBuffer = opts.framesPerBuffer
	}
	if flags.Changed("low-latency") {
		preview.LowLatency = opts.lowLatency
	}
	a.cfg.Preview = preview
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", noise.ErrInvalidParameter, err)
	}

	buf, err := a.previewTrack(cmd, opts, args)
	if err != nil {
		return err
	}

	if opts.pick {
		chosen, err := tui.PickDevice(preview)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		preview = chosen
	}

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	player, err := audio.NewPlayer(buf.Interleaved32(), buf.Channels(), buf.SampleRate, preview)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Playing on %s, press Ctrl+C to stop\n", player.Device())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return player.Play(ctx, time.Duration(preview.Seconds*float64(time.Second)))
}

// previewTrack loads the named WAV file or renders a track in memory from
// the request options.
func (a *app) previewTrack(cmd *cobra.Command, opts *previewOptions, args []string) (*noise.SampleBuffer, error) {
	if len(args) == 1 {
		return readTrack(args[0])
	}

	reqValues, postValues := noise.SplitValues(collectParams(cmd.Flags(), opts.set))
	req, err := a.cfg.RequestParams(reqValues)
	if err != nil {
		return nil, err
	}
	post, err := a.cfg.PostProcessParams(postValues)
	if err != nil {
		return nil, err
	}
	rng, seed := a.rng(0)
	log.Debugf("Preview: rendering with seed %d", seed)
	buf, err := noise.Generate(req, rng)
	if err != nil {
		return nil, err
	}
	// Fades would be audible on every loop, so only the volume applies.
	noise.ApplyGain(buf, post.VolumeDB)
	return buf, nil
}
