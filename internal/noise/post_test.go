// SPDX-License-Identifier: MIT
package noise

import (
	"bytes"
	"errors"
	"math"
	"regexp"
	"testing"

	"ambient/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var artifactName = regexp.MustCompile(`^temp_\d{8}-\d{6}_[0-9a-f]{12}\.wav$`)

func constantBuffer(frames, rate int, v float64) *SampleBuffer {
	buf := NewSampleBuffer(2, frames, rate)
	for _, ch := range buf.Data {
		for i := range ch {
			ch[i] = v
		}
	}
	return buf
}

func TestApplyGain(t *testing.T) {
	buf := constantBuffer(10, 1000, 0.5)
	ApplyGain(buf, -6)
	assert.InDelta(t, 0.5*math.Pow(10, -6.0/20), buf.Data[0][3], 1e-12)

	buf = constantBuffer(10, 1000, 0.5)
	ApplyGain(buf, 0)
	assert.Equal(t, 0.5, buf.Data[1][9])
}

func TestApplyFadesRamps(t *testing.T) {
	const frames, rate = 100, 1000 // 1 frame per ms
	buf := constantBuffer(frames, rate, 1)

	ApplyFades(buf, 10, 20)
	for _, ch := range buf.Data {
		for i := 0; i < 10; i++ {
			assert.InDelta(t, float64(i)/10, ch[i], 1e-12, "fade-in frame %d", i)
		}
		for i := 10; i < frames-20; i++ {
			assert.Equal(t, 1.0, ch[i], "untouched frame %d", i)
		}
		for i := frames - 20; i < frames; i++ {
			assert.InDelta(t, float64(frames-1-i)/20, ch[i], 1e-12, "fade-out frame %d", i)
		}
		assert.Zero(t, ch[0])
		assert.Zero(t, ch[frames-1])
	}
}

func TestApplyFadesClippedToBuffer(t *testing.T) {
	const frames = 50
	buf := constantBuffer(frames, 1000, 1)

	ApplyFades(buf, 5000, 0)
	for i := 1; i < frames; i++ {
		assert.Greater(t, buf.Data[0][i], buf.Data[0][i-1], "fade-in must rise over the whole buffer")
	}

	buf = constantBuffer(frames, 1000, 1)
	ApplyFades(buf, 0, 5000)
	for i := 1; i < frames; i++ {
		assert.Less(t, buf.Data[0][i], buf.Data[0][i-1])
	}
	assert.Zero(t, buf.Data[0][frames-1])
}

// 10 s of default stereo noise lands in storage as a single 441000-frame WAV.
func TestPostProcessStoresTrack(t *testing.T) {
	p := params(t, map[string]string{KeyDuration: "10", KeyChannels: "2"})
	buf, err := Generate(p, seeded(100))
	require.NoError(t, err)
	require.Equal(t, 441000, buf.Frames())

	sink := storage.NewMemorySink()
	name, err := PostProcess(buf, DefaultPostProcessParams(), sink, "")
	require.NoError(t, err)

	assert.Regexp(t, artifactName, name)
	assert.Equal(t, 1, sink.Creates())
	assert.Equal(t, []string{name}, sink.Names(DefaultCategory))

	data, ok := sink.Bytes(DefaultCategory, name)
	require.True(t, ok)
	decoded, err := storage.ReadWAV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Format.NumChannels)
	assert.Equal(t, 44100, decoded.Format.SampleRate)
	assert.Len(t, decoded.Data, 2*441000)

	limit := int(math.Round(math.MaxInt16 / Headroom))
	for i, s := range decoded.Data {
		if s > limit || s < -limit {
			t.Fatalf("sample %d = %d exceeds the normalized range ±%d", i, s, limit)
		}
	}
	// Fades start and end the file in silence.
	assert.Zero(t, decoded.Data[0])
	assert.Zero(t, decoded.Data[len(decoded.Data)-1])
}

func TestPostProcessUsesCategory(t *testing.T) {
	buf := constantBuffer(1000, 8000, 0.5)
	sink := storage.NewMemorySink()

	name, err := PostProcess(buf, DefaultPostProcessParams(), sink, "ambience")
	require.NoError(t, err)
	assert.Equal(t, []string{name}, sink.Names("ambience"))
	assert.Empty(t, sink.Names(DefaultCategory))
}

func TestPostProcessRejectsInvalidInput(t *testing.T) {
	sink := storage.NewMemorySink()

	_, err := PostProcess(constantBuffer(10, 8000, 0.1), PostProcessParams{VolumeDB: 6}, sink, "")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = PostProcess(NewSampleBuffer(2, 0, 8000), DefaultPostProcessParams(), sink, "")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = PostProcess(constantBuffer(10, 8000, 0.1), DefaultPostProcessParams(), nil, "")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	assert.Zero(t, sink.Creates(), "nothing may be written for a rejected request")
}

type brokenSink struct {
	*storage.MemorySink
	removed int
}

type brokenFile struct{ storage.File }

func (brokenFile) Write([]byte) (int, error) { return 0, errors.New("device full") }

func (s *brokenSink) Create(category, name string) (storage.File, error) {
	f, err := s.MemorySink.Create(category, name)
	if err != nil {
		return nil, err
	}
	return brokenFile{f}, nil
}

func (s *brokenSink) Remove(category, name string) error {
	s.removed++
	return s.MemorySink.Remove(category, name)
}

func TestPostProcessStorageFailure(t *testing.T) {
	sink := &brokenSink{MemorySink: storage.NewMemorySink()}

	name, err := PostProcess(constantBuffer(1000, 8000, 0.5), DefaultPostProcessParams(), sink, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Empty(t, name)
	assert.Equal(t, 1, sink.Creates())
	assert.Equal(t, 1, sink.removed)
	assert.Empty(t, sink.Names(DefaultCategory), "partial artifact must be removed")
}
