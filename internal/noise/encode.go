// SPDX-License-Identifier: MIT
package noise

import (
	"encoding/binary"
	"math"

	"github.com/go-audio/audio"
)

const (
	// Headroom divides the peak during normalization, leaving ~5% margin
	// below full scale.
	Headroom = 1.05
	// BitDepth of the encoded PCM.
	BitDepth = 16

	fullScale = math.MaxInt16
)

// Normalize scales buf so its peak sits at 1/Headroom. A silent buffer is
// left as is and reported instead of dividing by zero.
func Normalize(buf *SampleBuffer) (silent bool) {
	peak := buf.Peak()
	if peak == 0 {
		return true
	}
	buf.Scale(1 / (peak * Headroom))
	return false
}

// Format describes encoded PCM.
type Format struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// EncodedTrack is interleaved little-endian signed 16-bit PCM.
type EncodedTrack struct {
	Format Format
	Data   []byte
}

// Quantize rounds every sample to a signed 16-bit integer and interleaves
// the channels. Values outside [-1, 1] saturate instead of wrapping.
func Quantize(buf *SampleBuffer) *EncodedTrack {
	channels := buf.Channels()
	frames := buf.Frames()
	data := make([]byte, frames*channels*2)
	for ch, samples := range buf.Data {
		for i, v := range samples {
			q := math.Round(v * fullScale)
			q = math.Max(math.MinInt16, math.Min(math.MaxInt16, q))
			binary.LittleEndian.PutUint16(data[(i*channels+ch)*2:], uint16(int16(q)))
		}
	}
	return &EncodedTrack{
		Format: Format{SampleRate: buf.SampleRate, BitDepth: BitDepth, Channels: channels},
		Data:   data,
	}
}

// Frames returns the number of interleaved frames.
func (t *EncodedTrack) Frames() int {
	if t.Format.Channels == 0 {
		return 0
	}
	return len(t.Data) / (2 * t.Format.Channels)
}

// Samples decodes the interleaved samples.
func (t *EncodedTrack) Samples() []int16 {
	out := make([]int16, len(t.Data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(t.Data[i*2:]))
	}
	return out
}

// IntBuffer converts the track for container export.
func (t *EncodedTrack) IntBuffer() *audio.IntBuffer {
	samples := t.Samples()
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: t.Format.Channels,
			SampleRate:  t.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: t.Format.BitDepth,
	}
}

// FromIntBuffer converts decoded PCM back to floats in [-1, 1), for
// analysis and preview of stored tracks.
func FromIntBuffer(buf *audio.IntBuffer) (*SampleBuffer, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, invalidf("PCM buffer has no format")
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = BitDepth
	}
	channels := buf.Format.NumChannels
	if len(buf.Data)%channels != 0 {
		return nil, invalidf("%d samples do not fill %d channels", len(buf.Data), channels)
	}
	out := NewSampleBuffer(channels, len(buf.Data)/channels, buf.Format.SampleRate)
	scale := 1 / float64(int(1)<<(depth-1))
	for i, s := range buf.Data {
		out.Data[i%channels][i/channels] = float64(s) * scale
	}
	return out, nil
}
