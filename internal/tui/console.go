package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/simloop"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// archetype is a named starting point for a concept's density/volume,
// offered on the injection menu in place of dynsim's model list.
type archetype struct {
	name        string
	description string
	density     float64
	volume      float64
}

var archetypes = []archetype{
	{"despair", "dense, sinks fast", 0.9, 0.5},
	{"inspiration", "light, rises fast", 0.1, 0.3},
	{"dread", "dense, wide", 0.8, 0.9},
	{"joy", "light, buoyant", 0.15, 0.4},
	{"custom", "tune density/volume yourself", 0.5, 0.5},
}

type consoleState int

const (
	stateMenu consoleState = iota
	stateConfig
	stateLive
)

// consoleModel drives an interactive injection console: pick an
// archetype, tune its parameters, inject it into a running loop, then
// watch its layer/velocity settle and apply ballast/buoyancy nudges.
// State-machine and style grounded on dynsim's interactive model list
// (menu -> config -> running screens, the same lipgloss palette and
// bordered-panel conventions), generalized from picking a physics
// model to picking and injecting a concept.
type consoleModel struct {
	loop *simloop.Loop

	state   consoleState
	cursor  int
	chosen  archetype
	density float64
	volume  float64
	field   int // 0 = density, 1 = volume

	conceptID   entity.ConceptID
	conceptName string
	injected    bool

	layerHistory []float64
	lastTick     uint64

	status string
}

func newConsoleModel(loop *simloop.Loop) *consoleModel {
	return &consoleModel{
		loop:         loop,
		chosen:       archetypes[0],
		density:      archetypes[0].density,
		volume:       archetypes[0].volume,
		layerHistory: make([]float64, 0, historyCapacity),
	}
}

func (m *consoleModel) Init() tea.Cmd { return tick(150 * time.Millisecond) }

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.state == stateLive && m.injected {
			m.sample()
		}
		return m, tick(150 * time.Millisecond)
	}
	return m, nil
}

func (m *consoleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateLive:
		return m.liveKey(msg)
	}
	return m, nil
}

func (m *consoleModel) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(archetypes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.chosen = archetypes[m.cursor]
		m.density = m.chosen.density
		m.volume = m.chosen.volume
		m.field = 0
		m.state = stateConfig
	}
	return m, nil
}

func (m *consoleModel) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k", "down", "j":
		m.field = 1 - m.field
	case "left", "h":
		m.adjust(-0.05)
	case "right", "l":
		m.adjust(0.05)
	case "enter", "i":
		m.inject()
		m.state = stateLive
	}
	return m, nil
}

func (m *consoleModel) liveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
		m.injected = false
		m.layerHistory = m.layerHistory[:0]
	case "b":
		m.ballast(0.1)
	case "B":
		m.ballast(-0.1)
	case "n":
		m.state = stateMenu
		m.injected = false
		m.layerHistory = m.layerHistory[:0]
	}
	return m, nil
}

func (m *consoleModel) adjust(delta float64) {
	if m.field == 0 {
		m.density = clamp01(m.density + delta)
	} else {
		m.volume = clamp01(m.volume + delta)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (m *consoleModel) inject() {
	m.conceptName = fmt.Sprintf("%s-%d", m.chosen.name, time.Now().UnixNano()%1000)
	res, err := m.loop.Submit(context.Background(), command.Command{
		Kind:        command.KindInject,
		ConceptName: m.conceptName,
		Density:     m.density,
		Volume:      m.volume,
	})
	if err != nil {
		m.status = "inject failed: " + err.Error()
		return
	}
	m.conceptID = res.ConceptID
	m.injected = true
	m.status = ""
}

func (m *consoleModel) ballast(delta float64) {
	if !m.injected {
		return
	}
	if _, err := m.loop.Submit(context.Background(), command.Command{
		Kind:      command.KindBallast,
		ConceptID: m.conceptID,
		Delta:     delta,
	}); err != nil {
		m.status = "ballast failed: " + err.Error()
	}
}

func (m *consoleModel) sample() {
	f := m.loop.Fluid()
	f.RLock()
	c, ok := f.Concepts()[m.conceptID]
	tick := f.Tick
	var layer float64
	var status string
	if ok {
		layer = c.Layer
		status = c.Status.String()
	}
	f.RUnlock()

	if tick == m.lastTick {
		return
	}
	m.lastTick = tick
	if !ok {
		m.status = "concept left the fluid (mineralized, evaporated, or broke through)"
		return
	}
	m.status = status
	m.layerHistory = append(m.layerHistory, layer)
	if len(m.layerHistory) > historyCapacity {
		m.layerHistory = m.layerHistory[1:]
	}
}

func (m *consoleModel) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateLive:
		return m.viewLive()
	}
	return ""
}

func (m *consoleModel) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("        " + cyan.Render("f l u i d m i n d") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, a := range archetypes {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", a.name)) + dim.Render(a.description) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", a.name)) + dimmer.Render(a.description) + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (m *consoleModel) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n      " + cyan.Render(m.chosen.name) + "  " + dim.Render(m.chosen.description) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	fields := []struct {
		name string
		val  float64
	}{{"density", m.density}, {"volume", m.volume}}
	for i, f := range fields {
		if i == m.field {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", f.name)) + yellow.Render(fmt.Sprintf("%.2f", f.val)) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", f.name)) + dim.Render(fmt.Sprintf("%.2f", f.val)) + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("      ↑↓ field  ←→ adjust  enter inject  esc back") + "\n")
	return b.String()
}

func (m *consoleModel) viewLive() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n   %s  %s\n", cyan.Render(m.conceptName), dim.Render(m.status)))

	if len(m.layerHistory) > 0 {
		last := m.layerHistory[len(m.layerHistory)-1]
		barWidth := 40
		filled := int(last * float64(barWidth))
		bar := green.Render(strings.Repeat("█", filled)) + dimmer.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("   depth %s  layer %.2f\n", bar, last))
	}

	b.WriteString("\n" + dim.Render("   b ballast+  B ballast-  n new concept  q menu") + "\n")
	return b.String()
}

// RunConsole launches the interactive injection console over loop.
func RunConsole(loop *simloop.Loop) error {
	p := tea.NewProgram(newConsoleModel(loop), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
