// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"sync"

	"ambient/internal/transport"
)

// MockTransport implements the Transport interface for testing. It records
// every message instead of transmitting.
type MockTransport struct {
	mu       sync.Mutex
	messages []any
	closed   bool
	// Err, when set, is returned by Send after recording the message.
	Err error
}

// Send stores the data for later inspection.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return transport.ErrClosed
	}
	m.messages = append(m.messages, data)
	return m.Err
}

// Close marks the transport closed; later sends fail.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Messages returns a copy of the recorded messages in send order.
func (m *MockTransport) Messages() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.messages...)
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ transport.Transport = (*MockTransport)(nil)

// GenerateComplexWave returns a 440 Hz tone with two harmonics, peaking
// below 0.9.
func GenerateComplexWave(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2 // 440Hz fundamental + harmonics
		buffer[i] = signal * 0.9
	}
	return buffer
}

// GenerateSineWave returns a sine of the given frequency with peak 0.9.
func GenerateSineWave(size int, sampleRate, frequency float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*frequency*t) * 0.9
	}
	return buffer
}

// FindPeakBin returns the index of the largest value in
// magnitudes[startBin:endBin+1], clipping the range to the slice.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	// Clamp both ends into range; an empty range yields startBin.
	startBin = max(0, min(startBin, len(magnitudes)-1))
	endBin = min(endBin, len(magnitudes)-1)

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
