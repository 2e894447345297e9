// SPDX-License-Identifier: MIT
package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag.
const wavFormatPCM = 1

// ExportWAV writes buf as a PCM WAV artifact through the sink. The handle is
// closed on every path; if encoding or closing fails the partial artifact is
// removed and the error returned.
func ExportWAV(sink Sink, category, name string, buf *audio.IntBuffer, bitDepth int) (err error) {
	if buf == nil || buf.Format == nil {
		return errors.New("storage: missing PCM buffer format")
	}

	f, err := sink.Create(category, name)
	if err != nil {
		return fmt.Errorf("failed to create %s/%s: %w", category, name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s/%s: %w", category, name, cerr)
		}
		if err != nil {
			_ = sink.Remove(category, name)
		}
	}()

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", category, name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s/%s: %w", category, name, err)
	}
	return nil
}

// ReadWAV decodes a whole WAV stream into an IntBuffer.
func ReadWAV(r io.ReadSeeker) (*audio.IntBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("storage: not a valid WAV stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}
	return buf, nil
}
