// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/aukletsystems/auklet/pkg/bmc"
	"github.com/aukletsystems/auklet/pkg/simboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// simModel is the front-panel TUI over the simulated board.
type simModel struct {
	ctl   *bmc.Controller
	board *simboard.Board

	status    bmc.Snapshot
	pins      simboard.PinState
	lastState bmc.PowerState

	powerHeld  bool
	railFailed bool

	log      []string
	logView  viewport.Model
	width    int
	height   int
	quitting bool
}

type simTickMsg time.Time

// buttonTapDuration approximates a human tap: long enough to clear any
// sane debounce window at the stock tick rate.
const buttonTapDuration = 100 * time.Millisecond

func initialSimModel(ctl *bmc.Controller, board *simboard.Board) simModel {
	vp := viewport.New(60, 8)
	return simModel{
		ctl:       ctl,
		board:     board,
		lastState: bmc.StateOff,
		logView:   vp,
		width:     80,
		height:    24,
	}
}

func (m simModel) Init() tea.Cmd {
	return tea.Batch(simTickCmd(), tea.EnterAltScreen)
}

func simTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return simTickMsg(t)
	})
}

// tapButton presses a raw input and schedules its release.
func tapButton(set func(bool)) {
	set(true)
	time.AfterFunc(buttonTapDuration, func() { set(false) })
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "p":
			tapButton(m.board.SetPowerButton)
			m.addLog("power button tapped")

		case "P":
			m.powerHeld = !m.powerHeld
			m.board.SetPowerButton(m.powerHeld)
			if m.powerHeld {
				m.addLog("power button held")
			} else {
				m.addLog("power button released")
			}

		case "r":
			tapButton(m.board.SetResetButton)
			m.addLog("reset button tapped")

		case "f":
			m.railFailed = !m.railFailed
			name := m.ctl.Status().Rails[0].Name
			m.board.FailRail(name, m.railFailed)
			if m.railFailed {
				m.addLog(fmt.Sprintf("rail %s failed", name))
			} else {
				m.addLog(fmt.Sprintf("rail %s restored", name))
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		m.logView.Height = 8

	case simTickMsg:
		m.status = m.ctl.Status()
		m.pins = m.board.Pins()
		if m.status.State != m.lastState {
			m.addLog(fmt.Sprintf("power state: %s -> %s", m.lastState, m.status.State))
			m.lastState = m.status.State
		}
		return m, simTickCmd()
	}

	return m, nil
}

func (m *simModel) addLog(line string) {
	m.log = append(m.log, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05.000"), line))
	if len(m.log) > 200 {
		m.log = m.log[len(m.log)-200:]
	}
	m.logView.SetContent(strings.Join(m.log, "\n"))
	m.logView.GotoBottom()
}

func (m simModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	s.WriteString(titleStyle.Render("AUKLET BMC SIMULATOR"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render("| p=power P=hold-power r=reset f=fail-rail q=quit"))
	s.WriteString("\n\n")

	// Power state and LED
	stateText := valueStyle.Render(m.status.State.String())
	if m.status.State == bmc.StateFault {
		stateText = errorStyle.Render(m.status.State.String())
	}
	led := "○"
	if m.status.LedOn {
		led = "●"
	}
	standby := ""
	if m.status.Standby {
		standby = " (standby)"
	}

	var panel strings.Builder
	panel.WriteString(fmt.Sprintf("%s %s%s\n", labelStyle.Render("Power:"), stateText, standby))
	panel.WriteString(fmt.Sprintf("%s %s %s\n", labelStyle.Render("LED:  "), led,
		headerStyle.Render(m.status.LedMode.String())))
	panel.WriteString(fmt.Sprintf("%s enable=%v reset=%v ready=%v\n", labelStyle.Render("Pins: "),
		m.pins.PowerEnable, m.pins.Reset, m.pins.Ready))
	panel.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Tick: "), m.status.Tick))

	panel.WriteString("\n")
	for _, r := range m.status.Rails {
		status := valueStyle.Render("OK")
		if !r.Valid {
			status = errorStyle.Render("OUT")
		}
		panel.WriteString(fmt.Sprintf("  %-6s %5d mV  %s\n", r.Name, r.Millivolts, status))
	}

	if m.status.Stats != nil {
		panel.WriteString(fmt.Sprintf("\n%s ok=%d crc=%d framing=%d rejects=%d\n",
			labelStyle.Render("Bus:  "),
			m.status.Stats.FramesOK, m.status.Stats.CRCErrors,
			m.status.Stats.FramingErrors, m.status.Stats.Rejects))
	}

	s.WriteString(boxStyle.Render(panel.String()))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Events"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.logView.View()))
	s.WriteString("\n")

	return s.String()
}
