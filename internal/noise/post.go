// SPDX-License-Identifier: MIT
package noise

import (
	"fmt"
	"math"
	"time"

	"ambient/internal/storage"
)

// DefaultCategory is the storage category tracks are written under.
const DefaultCategory = "mainsound"

// ApplyGain scales buf by volumeDB decibels.
func ApplyGain(buf *SampleBuffer, volumeDB float64) {
	if volumeDB == 0 {
		return
	}
	buf.Scale(dbToGain(volumeDB))
}

// fadeFrames converts a fade length to frames, clipped to the buffer.
func fadeFrames(ms float64, sampleRate, frames int) int {
	n := int(math.Round(ms * float64(sampleRate) / 1000))
	return max(0, min(n, frames))
}

// ApplyFades ramps the first fadeIn ms linearly up from 0 and the last
// fadeOut ms linearly down to 0. Fades longer than the buffer are clipped to
// it; overlapping ramps multiply.
func ApplyFades(buf *SampleBuffer, fadeInMs, fadeOutMs float64) {
	frames := buf.Frames()
	in := fadeFrames(fadeInMs, buf.SampleRate, frames)
	out := fadeFrames(fadeOutMs, buf.SampleRate, frames)
	for _, ch := range buf.Data {
		for i := 0; i < in; i++ {
			ch[i] *= float64(i) / float64(in)
		}
		for i := frames - out; i < frames; i++ {
			ch[i] *= float64(frames-1-i) / float64(out)
		}
	}
}

// PostProcess applies volume and fades to buf, encodes it as 16-bit PCM
// and writes exactly one artifact through sink under category. It returns
// the artifact name. buf is modified in place.
func PostProcess(buf *SampleBuffer, post PostProcessParams, sink storage.Sink, category string) (string, error) {
	if err := post.Validate(); err != nil {
		return "", err
	}
	if buf == nil || buf.Frames() == 0 {
		return "", invalidf("empty sample buffer")
	}
	if sink == nil {
		return "", invalidf("storage sink is required")
	}
	if category == "" {
		category = DefaultCategory
	}

	ApplyGain(buf, post.VolumeDB)
	ApplyFades(buf, float64(post.FadeInMs), float64(post.FadeOutMs))
	if err := buf.CheckFinite("post-processing"); err != nil {
		return "", err
	}

	track := Quantize(buf)
	name := storage.NewArtifactName(time.Now())
	if err := storage.ExportWAV(sink, category, name, track.IntBuffer(), track.Format.BitDepth); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return name, nil
}
