// SPDX-License-Identifier: MIT
/*
Package audio plays rendered tracks on an output device:
- Seamless loop playback using PortAudio
- Device enumeration and lookup

Thread Safety:
- Uses atomic operations for playback state
- Pre-allocates the interleaved loop so the callback never allocates
- Locks OS thread during audio processing
*/
package audio

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"ambient/internal/config"
	"ambient/internal/log"

	"github.com/gordonklaus/portaudio"
)

// loopBuffer replays interleaved samples end to start without a gap.
type loopBuffer struct {
	samples []float32
	pos     int // next sample; only the audio callback touches it
	loops   atomic.Uint64
}

// fill copies the next len(out) samples into out, wrapping as often as
// needed.
func (l *loopBuffer) fill(out []float32) {
	for len(out) > 0 {
		n := copy(out, l.samples[l.pos:])
		out = out[n:]
		l.pos += n
		if l.pos == len(l.samples) {
			l.pos = 0
			l.loops.Add(1)
		}
	}
}

// Player loops one track on an output device.
type Player struct {
	loopBuffer

	config     config.PreviewConfig
	channels   int
	sampleRate float64

	device  *portaudio.DeviceInfo
	latency time.Duration
	stream  *portaudio.Stream
	playing atomic.Bool
}

// NewPlayer prepares playback of interleaved samples on the configured
// device. PortAudio must be initialized.
func NewPlayer(samples []float32, channels, sampleRate int, cfg config.PreviewConfig) (*Player, error) {
	if channels <= 0 || len(samples) == 0 || len(samples)%channels != 0 {
		return nil, fmt.Errorf("invalid loop: %d samples for %d channels", len(samples), channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	device, err := OutputDevice(cfg.DeviceID)
	if err != nil {
		return nil, err
	}
	if device.MaxOutputChannels < channels {
		return nil, fmt.Errorf("device %s supports %d output channels, need %d", device.Name, device.MaxOutputChannels, channels)
	}

	p := &Player{
		loopBuffer: loopBuffer{samples: samples},
		config:     cfg,
		channels:   channels,
		sampleRate: float64(sampleRate),
		device:     device,
	}
	if cfg.LowLatency {
		p.latency = device.DefaultLowOutputLatency
	} else {
		p.latency = device.DefaultHighOutputLatency
	}
	return p, nil
}

// Device returns the output device name.
func (p *Player) Device() string {
	return p.device.Name
}

// Loops returns how many times the track has wrapped around.
func (p *Player) Loops() uint64 {
	return p.loops.Load()
}

// Start opens the output stream and begins playback.
func (p *Player) Start() error {
	if p.playing.Load() {
		return fmt.Errorf("already playing")
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 0, // No input device
			Device:   nil,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: p.channels,
			Device:   p.device,
			Latency:  p.latency,
		},
		FramesPerBuffer: p.config.FramesPerBuffer,
		SampleRate:      p.sampleRate,
	}

	stream, err := portaudio.OpenStream(params, p.processOutputStream)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	p.stream = stream

	if err := p.stream.Start(); err != nil {
		p.stream.Close()
		p.stream = nil
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	p.playing.Store(true)
	log.Infof("Audio: Playing %.1f s loop on %s", float64(len(p.samples)/p.channels)/p.sampleRate, p.device.Name)
	return nil
}

// Stop halts playback and closes the stream.
func (p *Player) Stop() error {
	if p.stream == nil {
		return nil
	}
	p.playing.Store(false)
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	p.stream = nil
	return nil
}

// Play loops the track until ctx is done or, when d > 0, for d.
func (p *Player) Play(ctx context.Context, d time.Duration) error {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	if err := p.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Debugf("Audio: stopping after %d loops", p.Loops())
	return p.Stop()
}

// processOutputStream is the output callback.
// Performance Critical:
// - Runs in a dedicated OS thread (LockOSThread)
// - Uses pre-allocated buffers only
// - No dynamic allocations in the hot path
func (p *Player) processOutputStream(out []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p.fill(out)
}
