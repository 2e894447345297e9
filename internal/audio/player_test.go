// SPDX-License-Identifier: MIT
package audio

import (
	"strings"
	"testing"

	"ambient/internal/config"
)

func ramp(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i)
	}
	return s
}

func TestLoopBuffer_FillWraps(t *testing.T) {
	l := &loopBuffer{samples: ramp(6)}

	out := make([]float32, 4)
	l.fill(out)
	assertSamples(t, out, []float32{0, 1, 2, 3})
	if got := l.loops.Load(); got != 0 {
		t.Errorf("loops = %d, want 0", got)
	}

	l.fill(out)
	assertSamples(t, out, []float32{4, 5, 0, 1})
	if got := l.loops.Load(); got != 1 {
		t.Errorf("loops = %d, want 1", got)
	}
}

func TestLoopBuffer_FillLongerThanLoop(t *testing.T) {
	l := &loopBuffer{samples: ramp(3)}

	out := make([]float32, 8)
	l.fill(out)
	assertSamples(t, out, []float32{0, 1, 2, 0, 1, 2, 0, 1})
	if got := l.loops.Load(); got != 2 {
		t.Errorf("loops = %d, want 2", got)
	}
	if l.pos != 2 {
		t.Errorf("pos = %d, want 2", l.pos)
	}
}

func TestLoopBuffer_FillZeroAlloc(t *testing.T) {
	l := &loopBuffer{samples: ramp(4410)}
	out := make([]float32, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		l.fill(out)
	})
	if allocs != 0 {
		t.Errorf("fill allocated %.1f times per run", allocs)
	}
}

func TestNewPlayer_InvalidLoop(t *testing.T) {
	cfg := config.NewConfig().Preview

	tests := []struct {
		name     string
		samples  []float32
		channels int
		rate     int
		substr   string
	}{
		{"Empty", nil, 2, 44100, "invalid loop"},
		{"Partial frame", ramp(5), 2, 44100, "invalid loop"},
		{"No channels", ramp(4), 0, 44100, "invalid loop"},
		{"Bad rate", ramp(4), 2, 0, "sample rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlayer(tt.samples, tt.channels, tt.rate, cfg)
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected %q error, got %v", tt.substr, err)
			}
		})
	}
}

func TestNewPlayer_Device(t *testing.T) {
	withFakeDevices(t)
	cfg := config.NewConfig().Preview

	t.Run("Low latency", func(t *testing.T) {
		cfg := cfg
		cfg.LowLatency = true
		p, err := NewPlayer(ramp(8), 2, 44100, cfg)
		if err != nil {
			t.Fatalf("NewPlayer error: %v", err)
		}
		if p.Device() != "Speakers" {
			t.Errorf("device = %q, want Speakers", p.Device())
		}
		if p.latency != fakeDevices[1].DefaultLowOutputLatency {
			t.Errorf("latency = %v, want low latency", p.latency)
		}
	})

	t.Run("High latency", func(t *testing.T) {
		cfg := cfg
		cfg.LowLatency = false
		p, err := NewPlayer(ramp(8), 2, 44100, cfg)
		if err != nil {
			t.Fatalf("NewPlayer error: %v", err)
		}
		if p.latency != fakeDevices[1].DefaultHighOutputLatency {
			t.Errorf("latency = %v, want high latency", p.latency)
		}
	})

	t.Run("Too many channels", func(t *testing.T) {
		_, err := NewPlayer(ramp(12), 3, 44100, cfg)
		if err == nil || !strings.Contains(err.Error(), "output channels") {
			t.Errorf("expected channel error, got %v", err)
		}
	})

	t.Run("Stop before start", func(t *testing.T) {
		p, err := NewPlayer(ramp(8), 2, 44100, cfg)
		if err != nil {
			t.Fatalf("NewPlayer error: %v", err)
		}
		if err := p.Stop(); err != nil {
			t.Errorf("Stop on idle player: %v", err)
		}
	})
}

func assertSamples(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}
