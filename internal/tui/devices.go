// SPDX-License-Identifier: MIT
package tui

import (
	"errors"
	"fmt"
	"strings"

	"ambient/internal/audio"
	"ambient/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// ErrCancelled is returned by PickDevice when the user quits without
// choosing.
var ErrCancelled = errors.New("device selection cancelled")

var (
	keyQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyEnter  = key.NewBinding(key.WithKeys("enter"))
	keyBack   = key.NewBinding(key.WithKeys("esc"))
	latencies = []string{"High latency (stable)", "Low latency"}
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	ListScreen ScreenType = iota
	ConfigScreen
)

// DeviceListModel lets the user pick an output device and latency mode for
// preview playback.
type DeviceListModel struct {
	fetch         func() ([]audio.Device, error)
	devices       []audio.Device
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
	activeScreen  ScreenType

	latencyIndex int
	chosen       bool
}

type devicesMsg struct {
	devices []audio.Device
}

type errMsg struct {
	err error
}

// NewDeviceListModel creates a picker starting from the given preview
// settings.
func NewDeviceListModel(current config.PreviewConfig) DeviceListModel {
	m := DeviceListModel{
		fetch:        audio.OutputDevices,
		activeScreen: ListScreen,
	}
	if current.LowLatency {
		m.latencyIndex = 1
	}
	return m
}

// Init initializes the Bubble Tea model
func (m DeviceListModel) Init() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		devices, err := fetch()
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg{devices}
	}
}

func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refresh()

	case devicesMsg:
		m.devices = msg.devices
		m.refresh()

	case errMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, keyQuit) {
			return m, tea.Quit
		}

		switch m.activeScreen {
		case ListScreen:
			switch {
			case key.Matches(msg, keyUp):
				if m.selectedIndex > 0 {
					m.selectedIndex--
				}
			case key.Matches(msg, keyDown):
				if m.selectedIndex < len(m.devices)-1 {
					m.selectedIndex++
				}
			case key.Matches(msg, keyEnter):
				if len(m.devices) > 0 {
					m.activeScreen = ConfigScreen
				}
			}
		case ConfigScreen:
			switch {
			case key.Matches(msg, keyBack):
				m.activeScreen = ListScreen
			case key.Matches(msg, keyUp):
				if m.latencyIndex > 0 {
					m.latencyIndex--
				}
			case key.Matches(msg, keyDown):
				if m.latencyIndex < len(latencies)-1 {
					m.latencyIndex++
				}
			case key.Matches(msg, keyEnter):
				m.chosen = true
				return m, tea.Quit
			}
		}
		m.refresh()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *DeviceListModel) refresh() {
	if !m.ready {
		return
	}
	if m.activeScreen == ConfigScreen {
		m.viewport.SetContent(m.renderDeviceConfig())
	} else {
		m.viewport.SetContent(m.renderDevices())
	}
}

// Selection applies the user's choice to current. ok is false when nothing
// was chosen.
func (m DeviceListModel) Selection(current config.PreviewConfig) (config.PreviewConfig, bool) {
	if !m.chosen || len(m.devices) == 0 {
		return current, false
	}
	current.DeviceID = m.devices[m.selectedIndex].ID
	current.LowLatency = m.latencyIndex == 1
	return current, true
}

// View renders the UI
func (m DeviceListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var title, help string

	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Output Devices")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Select • q: Quit")
	} else {
		title = titleStyle.Render("Preview Settings")
		help = infoStyle.Render("↑/↓: Change Value • Enter: Confirm • Esc: Back • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m DeviceListModel) renderDevices() string {
	var sb strings.Builder

	if len(m.devices) == 0 {
		return "No output devices found."
	}

	for i, device := range m.devices {
		deviceInfo := fmt.Sprintf("[%d] %s\n", device.ID, device.Name)
		deviceInfo += fmt.Sprintf("    Output channels: %d, Default sample rate: %.0f Hz\n",
			device.MaxOutputChannels, device.DefaultSampleRate)
		deviceInfo += fmt.Sprintf("    Latency: %.1f-%.1f ms\n",
			device.LowLatency.Seconds()*1000, device.HighLatency.Seconds()*1000)

		if i == m.selectedIndex {
			deviceInfo = highlightStyle.Render(deviceInfo)
		}

		sb.WriteString(deviceInfo)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m DeviceListModel) renderDeviceConfig() string {
	var sb strings.Builder
	device := m.devices[m.selectedIndex]

	sb.WriteString(fmt.Sprintf("Play on: %s\n\n", device.Name))
	sb.WriteString("Latency:\n")

	for i, label := range latencies {
		marker := " "
		if i == m.latencyIndex {
			marker = "▶"
		}
		line := fmt.Sprintf("  %s %s\n", marker, label)
		if i == m.latencyIndex {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
	}

	return sb.String()
}

// PickDevice runs the picker and returns current updated with the chosen
// device and latency mode.
func PickDevice(current config.PreviewConfig) (config.PreviewConfig, error) {
	p := tea.NewProgram(
		NewDeviceListModel(current),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return current, err
	}
	m := final.(DeviceListModel)
	if m.err != nil {
		return current, m.err
	}
	chosen, ok := m.Selection(current)
	if !ok {
		return current, ErrCancelled
	}
	return chosen, nil
}
