// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"

	"ambient/internal/config"
	"ambient/internal/log"
	"ambient/internal/noise"
	"ambient/internal/storage"
	"ambient/internal/transport"
	"ambient/internal/transport/udp"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type generateOptions struct {
	set          map[string]string
	outDir       string
	category     string
	count        int
	jobs         int
	wsAddr       string
	udpAddr      string
	validateOnly bool
}

func newGenerateCommand(a *app) *cobra.Command {
	opts := &generateOptions{}
	c := &cobra.Command{
		Use:   "generate",
		Short: "Render noise tracks and store them as WAV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts)
		},
	}
	addParamFlags(c.Flags(), &opts.set)
	c.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Output directory (default from config, "+config.DefaultOutputDir+")")
	c.Flags().StringVar(&opts.category, "category", "", "Storage category, a subdirectory of the output directory")
	c.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of tracks to render")
	c.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Tracks rendered in parallel")
	c.Flags().StringVar(&opts.wsAddr, "events-ws", "", "Serve pipeline events over WebSocket at this address")
	c.Flags().StringVar(&opts.udpAddr, "events-udp", "", "Send pipeline events as UDP datagrams to this address")
	c.Flags().BoolVar(&opts.validateOnly, "validate", false, "Validate the options and print the effective parameters without rendering")
	return c
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("%w: --count must be at least 1", noise.ErrInvalidParameter)
	}
	if opts.jobs < 1 {
		return fmt.Errorf("%w: --jobs must be at least 1", noise.ErrInvalidParameter)
	}

	reqValues, postValues := noise.SplitValues(collectParams(cmd.Flags(), opts.set))
	req, err := a.cfg.RequestParams(reqValues)
	if err != nil {
		return err
	}
	post, err := a.cfg.PostProcessParams(postValues)
	if err != nil {
		return err
	}
	if opts.validateOnly {
		fmt.Fprintf(a.out, "%+v\n%+v\n", req, post)
		return nil
	}

	if opts.outDir != "" {
		a.cfg.Storage.OutputDir = opts.outDir
	}
	if opts.category != "" {
		a.cfg.Storage.Category = opts.category
	}
	if opts.wsAddr != "" {
		a.cfg.Events.WebSocketAddr = opts.wsAddr
	}
	if opts.udpAddr != "" {
		a.cfg.Events.UDPAddr = opts.udpAddr
	}

	sink, err := storage.NewDirSink(a.cfg.Storage.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %w", noise.ErrStorageFailure, err)
	}
	events, err := openEvents(a.cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warnf("Events: close failed: %v", err)
		}
	}()

	pipeline := &noise.Pipeline{
		Sink:     sink,
		Category: a.cfg.Storage.Category,
		Events:   events,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i := range opts.count {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng, seed := a.rng(i)
			log.WithFields(log.Fields{"job": i, "seed": seed}).Debugf("Generate: rendering")
			name, err := pipeline.Run(req, post, rng)
			if err != nil {
				return fmt.Errorf("track %d (seed %d): %w", i, seed, err)
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(a.out, sink.Path(pipeline.Category, name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("Generate: wrote %d track(s) to %s", opts.count, filepath.Join(a.cfg.Storage.OutputDir, a.cfg.Storage.Category))
	return nil
}

// openEvents builds the event fan-out: debug logging always, plus the
// network transports that are configured.
func openEvents(cfg config.EventsConfig) (*transport.Fanout, error) {
	transports := []transport.Transport{transport.NewLoggingTransport()}
	if cfg.WebSocketAddr != "" {
		ws, err := transport.NewWebSocketTransport(cfg.WebSocketAddr)
		if err != nil {
			return nil, err
		}
		transports = append(transports, ws)
	}
	if cfg.UDPAddr != "" {
		sender, err := udp.NewSender(cfg.UDPAddr)
		if err != nil {
			for _, t := range transports {
				_ = t.Close()
			}
			return nil, err
		}
		transports = append(transports, sender)
	}
	return transport.NewFanout(transports...), nil
}
