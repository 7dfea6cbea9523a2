// Package tui renders a live terminal dashboard over a running
// simulation loop. Grounded on dynsim's viz.Model (bubbletea tick
// loop, lipgloss panel styling, asciigraph sparklines) and
// interactive.go's style palette, generalized from a single-model
// explorer to a read-only monitor over fluidmind's fluid.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidmind/internal/simloop"
)

const historyCapacity = 120

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	frozenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	warmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type dashboard struct {
	loop     *simloop.Loop
	interval time.Duration

	tick            uint64
	conceptCount    int
	ventCount       int
	oreCount        int
	continentCount  int
	salinity        float64
	turbulence      float64
	frozen          bool
	orePressure     float64
	missedTicks     uint64
	divisionActive  bool
	peakJitter      float64

	turbulenceHistory []float64
	jitterHistory     []float64
}

func newDashboard(loop *simloop.Loop, fps int) *dashboard {
	interval := 250 * time.Millisecond
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &dashboard{
		loop:              loop,
		interval:          interval,
		turbulenceHistory: make([]float64, 0, historyCapacity),
		jitterHistory:     make([]float64, 0, historyCapacity),
	}
}

func (d *dashboard) Init() tea.Cmd { return tick(d.interval) }

func (d *dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return d, tea.Quit
		}
	case tickMsg:
		d.sample()
		return d, tick(d.interval)
	}
	return d, nil
}

// sample takes the fluid's read lock once per frame and copies out the
// handful of scalars the dashboard renders; it never mutates state.
func (d *dashboard) sample() {
	f := d.loop.Fluid()
	f.RLock()
	defer f.RUnlock()

	d.tick = f.Tick
	d.conceptCount = len(f.Concepts())
	d.ventCount = len(f.Vents())
	d.oreCount = len(f.Ores())
	d.continentCount = len(f.Continents())
	d.salinity = f.Salinity
	d.turbulence = f.Turbulence
	d.frozen = f.Frozen
	d.orePressure = f.OrePressure
	d.missedTicks = d.loop.MissedTicks()
	d.divisionActive = f.Experiment != nil
	if d.divisionActive {
		d.peakJitter = f.Experiment.PeakJitter
	}

	d.turbulenceHistory = append(d.turbulenceHistory, d.turbulence)
	if len(d.turbulenceHistory) > historyCapacity {
		d.turbulenceHistory = d.turbulenceHistory[1:]
	}
	d.jitterHistory = append(d.jitterHistory, d.peakJitter)
	if len(d.jitterHistory) > historyCapacity {
		d.jitterHistory = d.jitterHistory[1:]
	}
}

func (d *dashboard) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("fluidmind monitor") + "\n")

	stateLabel := valueStyle.Render("fluid")
	if d.frozen {
		stateLabel = frozenStyle.Render("frozen")
	} else if d.turbulence > 1.0 {
		stateLabel = warmStyle.Render("turbulent")
	}

	b.WriteString(row("tick", fmt.Sprintf("%d", d.tick)))
	b.WriteString(row("state", stateLabel))
	b.WriteString(row("concepts", fmt.Sprintf("%d", d.conceptCount)))
	b.WriteString(row("vents", fmt.Sprintf("%d", d.ventCount)))
	b.WriteString(row("ores", fmt.Sprintf("%d", d.oreCount)))
	b.WriteString(row("continents", fmt.Sprintf("%d", d.continentCount)))
	b.WriteString(row("salinity", fmt.Sprintf("%.3f", d.salinity)))
	b.WriteString(row("ore pressure", fmt.Sprintf("%.3f", d.orePressure)))
	b.WriteString(row("missed ticks", fmt.Sprintf("%d", d.missedTicks)))

	if d.divisionActive {
		b.WriteString(row("division", fmt.Sprintf("active, peak_jitter=%.4f", d.peakJitter)))
	} else {
		b.WriteString(row("division", "idle"))
	}

	if len(d.turbulenceHistory) > 1 {
		graph := asciigraph.Plot(d.turbulenceHistory,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("turbulence"),
		)
		b.WriteString("\n" + graphStyle.Render(graph) + "\n")
	}

	if d.divisionActive && len(d.jitterHistory) > 1 {
		graph := asciigraph.Plot(d.jitterHistory,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("peak jitter"),
		)
		b.WriteString("\n" + graphStyle.Render(graph) + "\n")
	}

	b.WriteString(helpStyle.Render("\n  q quit") + "\n")

	return b.String()
}

func row(label, value string) string {
	return "  " + labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// RunDashboard attaches a live terminal dashboard to loop, polling it
// fps times per second, until ctx is canceled or the user quits.
func RunDashboard(ctx context.Context, loop *simloop.Loop, fps int) error {
	p := tea.NewProgram(newDashboard(loop, fps), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}
