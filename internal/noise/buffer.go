// SPDX-License-Identifier: MIT
package noise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SampleBuffer holds floating-point audio as one contiguous slice per
// channel, Data[channel][frame]. Every stage mutates it in place.
type SampleBuffer struct {
	SampleRate int
	Data       [][]float64
}

// NewSampleBuffer allocates a zeroed buffer.
func NewSampleBuffer(channels, frames, sampleRate int) *SampleBuffer {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	return &SampleBuffer{SampleRate: sampleRate, Data: data}
}

// Channels returns the channel count.
func (b *SampleBuffer) Channels() int {
	return len(b.Data)
}

// Frames returns the number of samples per channel.
func (b *SampleBuffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Peak returns the largest absolute sample value across all channels.
func (b *SampleBuffer) Peak() float64 {
	var peak float64
	for _, ch := range b.Data {
		if len(ch) == 0 {
			continue
		}
		peak = math.Max(peak, math.Max(floats.Max(ch), -floats.Min(ch)))
	}
	return peak
}

// Scale multiplies every sample by c.
func (b *SampleBuffer) Scale(c float64) {
	for _, ch := range b.Data {
		floats.Scale(c, ch)
	}
}

// normalizePeak rescales so the peak equals target. Silent buffers are
// left untouched and reported.
func (b *SampleBuffer) normalizePeak(target float64) (silent bool) {
	peak := b.Peak()
	if peak == 0 {
		return true
	}
	b.Scale(target / peak)
	return false
}

// Mono returns the per-frame mean across channels.
func (b *SampleBuffer) Mono() []float64 {
	mono := make([]float64, b.Frames())
	for _, ch := range b.Data {
		floats.Add(mono, ch)
	}
	if n := b.Channels(); n > 1 {
		floats.Scale(1/float64(n), mono)
	}
	return mono
}

// Clone returns a deep copy.
func (b *SampleBuffer) Clone() *SampleBuffer {
	c := &SampleBuffer{SampleRate: b.SampleRate, Data: make([][]float64, len(b.Data))}
	for ch := range b.Data {
		c.Data[ch] = append([]float64(nil), b.Data[ch]...)
	}
	return c
}

// Interleaved32 returns the frames interleaved as float32, the layout used
// by output devices.
func (b *SampleBuffer) Interleaved32() []float32 {
	channels := b.Channels()
	out := make([]float32, b.Frames()*channels)
	for ch, samples := range b.Data {
		for i, v := range samples {
			out[i*channels+ch] = float32(v)
		}
	}
	return out
}

// CheckFinite fails with ErrSynthesisFailure if any sample is NaN or Inf.
func (b *SampleBuffer) CheckFinite(stage string) error {
	for ch, samples := range b.Data {
		for i, v := range samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite sample %v after %s (channel %d, frame %d)",
					ErrSynthesisFailure, v, stage, ch, i)
			}
		}
	}
	return nil
}
