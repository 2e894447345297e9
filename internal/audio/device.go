// SPDX-License-Identifier: MIT
package audio

import "time"

// Device represents an audio device
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	LowLatency        time.Duration // default low output latency
	HighLatency       time.Duration // default high output latency
}

// CanPlay reports whether the device has output channels.
func (d Device) CanPlay() bool {
	return d.MaxOutputChannels > 0
}

// Type describes the device direction.
func (d Device) Type() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	default:
		return "Unknown"
	}
}

// GetDevices returns all available audio devices, initializing PortAudio
// for the duration of the call.
func GetDevices() ([]Device, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	defer Terminate()

	return HostDevices()
}

// OutputDevices returns only the devices that can play.
func OutputDevices() ([]Device, error) {
	all, err := GetDevices()
	if err != nil {
		return nil, err
	}
	return playable(all), nil
}

func playable(all []Device) []Device {
	out := make([]Device, 0, len(all))
	for _, d := range all {
		if d.CanPlay() {
			out = append(out, d)
		}
	}
	return out
}
