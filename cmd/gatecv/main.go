//go:build darwin && cgo

// Command gatecv is the terminal front end for the gate pulse controller:
// a device picker, the eight-channel routing table and a trigger key.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shaban/gatecv"
	"github.com/shaban/gatecv/devices"
	"github.com/shaban/gatecv/events"
	"github.com/shaban/gatecv/routing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	gateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// changedMsg tells the model to re-read controller state.
type changedMsg struct{}

// triggeredMsg flashes the trigger indicator.
type triggeredMsg struct{ channels []int }

// errorMsg surfaces a reported controller error.
type errorMsg struct{ err error }

type model struct {
	ctrl *gatecv.Controller

	available devices.List
	selected  *devices.Device
	cursor    int

	lastTrigger []int
	lastError   error
	quitting    bool
}

func newModel(ctrl *gatecv.Controller) model {
	m := model{ctrl: ctrl}
	m.reload()
	return m
}

// reload re-reads controller state; events carry no payload.
func (m *model) reload() {
	m.available = m.ctrl.Devices()
	if selected, ok := m.ctrl.Selected(); ok {
		m.selected = &selected
	} else {
		m.selected = nil
	}
	if m.cursor >= len(m.available) {
		m.cursor = 0
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case changedMsg:
		m.reload()
	case triggeredMsg:
		m.lastTrigger = msg.channels
	case errorMsg:
		m.lastError = msg.err
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.available)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(m.available) {
			if err := m.ctrl.SelectDevice(m.available[m.cursor]); err != nil {
				m.lastError = err
			} else {
				m.lastError = nil
			}
			m.reload()
		}

	case "r":
		m.ctrl.Refresh()
		m.reload()

	case " ":
		if err := m.ctrl.Trigger(); err != nil {
			m.lastError = err
		} else {
			m.lastError = nil
		}

	case "1", "2", "3", "4", "5", "6", "7", "8":
		channel := int(key[0] - '0')
		table := m.ctrl.Routing()
		next := routing.SignalGate
		if signal, ok := table.Get(channel); ok && signal == routing.SignalGate {
			next = routing.SignalNone
		}
		if err := table.Set(channel, next); err != nil {
			m.lastError = err
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return "Stopping engine...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("GateCV"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Output Devices (%d)", len(m.available))))
	b.WriteString("\n")
	if len(m.available) == 0 {
		b.WriteString(valueStyle.Render("  No output devices found"))
		b.WriteString("\n")
	}
	for i, device := range m.available {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s (%d ch)", marker, device.Name, device.OutputChannelCount)
		if m.selected != nil && device.ID == m.selected.ID {
			b.WriteString(selectedStyle.Render(line + "  [bound]"))
		} else {
			b.WriteString(valueStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Routing"))
	b.WriteString("\n  ")
	for channel := 1; channel <= routing.NumChannels; channel++ {
		signal, _ := m.ctrl.Routing().Get(channel)
		cell := fmt.Sprintf("[%d:--]", channel)
		if signal == routing.SignalGate {
			b.WriteString(gateStyle.Render(fmt.Sprintf("[%d:GT]", channel)))
		} else {
			b.WriteString(valueStyle.Render(cell))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if len(m.lastTrigger) > 0 {
		b.WriteString(headerStyle.Render("Last trigger: "))
		b.WriteString(gateStyle.Render(fmt.Sprintf("%v", m.lastTrigger)))
		b.WriteString("\n")
	}
	if m.lastError != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("! %v", m.lastError)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓:Device  Enter:Bind  1-8:Toggle gate  Space:Trigger  r:Refresh  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func main() {
	ctrl := gatecv.NewController(gatecv.Config{})
	if err := ctrl.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Stop()

	program := tea.NewProgram(newModel(ctrl), tea.WithAltScreen())

	// Push controller notifications into the bubbletea loop; the model
	// re-reads state on arrival.
	unsubList := ctrl.Bus().Subscribe(func(events.DeviceListChangedEvent) {
		program.Send(changedMsg{})
	})
	defer unsubList()
	unsubSelection := ctrl.Bus().Subscribe(func(events.SelectionChangedEvent) {
		program.Send(changedMsg{})
	})
	defer unsubSelection()
	unsubGate := ctrl.Bus().Subscribe(func(e events.GateTriggeredEvent) {
		program.Send(triggeredMsg{channels: e.Channels})
	})
	defer unsubGate()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI failed: %v\n", err)
		os.Exit(1)
	}
}
