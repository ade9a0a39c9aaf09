// Package tui renders a live terminal view of a running simulation: a tracer
// heatmap beside the run statistics and a mean-value sparkline.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hydroeco/hydrosim/internal/biogeo"
	"github.com/hydroeco/hydrosim/internal/remediation"
	"github.com/hydroeco/hydrosim/internal/sim"
)

const (
	heatmapWidth    = 60
	heatmapHeight   = 24
	historyCapacity = 600
	framesPerSecond = 10
)

var shades = []rune(" .:-=+*#%@")

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live view. It owns the simulation for the duration of the
// program.
type Model struct {
	sim     *sim.Simulation
	dt      float64
	tracer  int
	running bool
	last    sim.Snapshot
	history []float64
}

func NewModel(s *sim.Simulation, dt float64, tracer string) Model {
	idx := 0
	for i, name := range biogeo.TracerNames {
		if name == tracer {
			idx = i
			break
		}
	}
	return Model{
		sim:     s,
		dt:      dt,
		tracer:  idx,
		running: true,
		last:    s.Status(),
		history: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.sim.Reset(); err == nil {
				m.last = m.sim.Status()
				m.history = m.history[:0]
			}
		case "tab", "t":
			m.tracer = (m.tracer + 1) % len(biogeo.TracerNames)
			m.history = m.history[:0]
		case "n":
			m.sim.InjectNutrientCenter(10.0)
		case "p":
			m.sim.InjectPollutantCenter(3.0)
		case "h":
			if active, _ := m.sim.Chemistry().Heatwave(); active {
				m.sim.DeactivateHeatwave()
			} else {
				m.sim.ActivateHeatwave(3.5)
			}
		case "a":
			p := m.sim.Profile()
			m.sim.Deploy(p.GridNx/2, p.GridNy/2, 8, remediation.Aeration, 1.0)
		}
	case TickMsg:
		if m.running {
			m.last = m.sim.Step(m.dt)
			m.history = append(m.history, m.last.Means[m.tracerName()])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) tracerName() string {
	return biogeo.TracerNames[m.tracer]
}

// heatmap downsamples the tracer field to the fixed character canvas and
// shades each cell by its value within the current min/max span.
func (m Model) heatmap() string {
	f := m.sim.Tracer(m.tracerName())

	lo, hi := f.At(0, 0), f.At(0, 0)
	for i := 0; i < f.Nx; i++ {
		for j := 0; j < f.Ny; j++ {
			v := f.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := hi - lo

	var b strings.Builder
	for row := 0; row < heatmapHeight; row++ {
		j := row * f.Ny / heatmapHeight
		for col := 0; col < heatmapWidth; col++ {
			i := col * f.Nx / heatmapWidth
			idx := 0
			if span > 0 {
				idx = int((f.At(i, j) - lo) / span * float64(len(shades)-1))
				if idx >= len(shades) {
					idx = len(shades) - 1
				}
			}
			b.WriteRune(shades[idx])
		}
		if row < heatmapHeight-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.sim.Profile().Name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("mean "+m.tracerName()))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	snap := m.last
	s.WriteString(labelStyle.Render("Tracer") + valueStyle.Render(m.tracerName()) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", snap.Step)) + "\n")
	s.WriteString(labelStyle.Render("Clock") + valueStyle.Render(fmt.Sprintf("%.1fs (hour %.1f)", snap.Clock, snap.HourOfDay)) + "\n")
	s.WriteString(labelStyle.Render("Mean") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Means[m.tracerName()])) + "\n")
	s.WriteString(labelStyle.Render("DO") + valueStyle.Render(fmt.Sprintf("%.2f mg/L", snap.Means["dissolved_oxygen"])) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.2f C", snap.Means["temperature"])) + "\n")

	if snap.Hypoxic {
		s.WriteString(alertStyle.Render("HYPOXIC") + "\n")
	}
	if snap.HypoxicFraction > 0 {
		s.WriteString(labelStyle.Render("Hypoxic area") + alertStyle.Render(fmt.Sprintf("%.0f%%", snap.HypoxicFraction*100)) + "\n")
	}
	s.WriteString(labelStyle.Render("Compliance") + valueStyle.Render(snap.Status) + "\n")
	s.WriteString(labelStyle.Render("Ecosystem") + valueStyle.Render(snap.Ecosystem) + "\n")

	if active, intensity := m.sim.Chemistry().Heatwave(); active {
		s.WriteString(alertStyle.Render(fmt.Sprintf("HEATWAVE +%.1fC", intensity)) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset T:Tracer Q:Quit\nN:Nutrient P:Pollutant H:Heatwave A:Aerate"))

	canvas := canvasStyle.Render(m.heatmap())
	stats := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)
}
