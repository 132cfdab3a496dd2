package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/metrics"
	"github.com/san-kum/bubblechart/internal/render"
	"github.com/san-kum/bubblechart/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 30
	panelWidth      = 50
	historyCapacity = 600
	maxFrameDelta   = 100 * time.Millisecond
)

type TickMsg time.Time

type Options struct {
	Title string
	FPS   int
	Theme string

	// Palette colors the bubbles instead of the theme's palette when its
	// domain is non-empty. Cycling themes switches back to built-ins.
	Palette render.Palette
}

// Model drives a chart from bubbletea frame ticks. All simulation calls
// happen inside Update, so the simulation stays on one goroutine.
type Model struct {
	chart    *chart.Chart
	sim      *sim.Simulation
	scene    *render.Scene
	canvas   *render.Canvas
	trace    *metrics.Trace
	recorder *metrics.Recorder
	help     help.Model
	theme    Theme
	title    string
	interval time.Duration
	last     time.Time
	paused   bool
}

// NewModel wraps an initialized chart. It subscribes its own metrics to the
// chart's simulation.
func NewModel(c *chart.Chart, scene *render.Scene, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = sim.DefaultFPS
	}
	trace := metrics.NewTrace(historyCapacity)
	recorder := metrics.Standard(c.Config().Radius)
	c.Simulation().AddObserver(trace)
	c.Simulation().AddObserver(recorder)

	theme := GetTheme(opts.Theme)
	if len(opts.Palette.Domain) > 0 {
		c.Recolor(opts.Palette)
	} else {
		c.Recolor(theme.Palette)
	}

	return Model{
		chart:    c,
		sim:      c.Simulation(),
		scene:    scene,
		canvas:   render.NewCanvas(defaultWidth, defaultHeight),
		trace:    trace,
		recorder: recorder,
		help:     help.New(),
		theme:    theme,
		title:    opts.Title,
		interval: time.Second / time.Duration(fps),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Regroup):
			m.chart.ApplyGroupedLayout()
			m.paused = false
		case key.Matches(msg, keys.Pause):
			m.togglePause()
		case key.Matches(msg, keys.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.chart.Recolor(m.theme.Palette)
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		w := max(20, msg.Width-panelWidth-6)
		h := max(10, msg.Height-4)
		m.canvas = render.NewCanvas(w, h)
		m.help.Width = msg.Width
	case TickMsg:
		now := time.Time(msg)
		dt := m.interval
		if !m.last.IsZero() {
			dt = min(now.Sub(m.last), maxFrameDelta)
		}
		m.last = now
		if !m.paused {
			m.chart.Tick(dt)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) togglePause() {
	m.paused = !m.paused
	if m.paused {
		m.sim.Stop()
		return
	}
	if !m.sim.Settled() {
		m.sim.Start()
	}
}

func (m Model) status() (string, lipgloss.Color) {
	switch {
	case m.paused:
		return "PAUSED", m.theme.Warning
	case !m.sim.Running():
		return "SETTLED", m.theme.Success
	}
	return "RUNNING", m.theme.Primary
}

// coolingProgress maps alpha from 1 down to the settle threshold onto [0,1].
func coolingProgress(alpha, alphaMin float64) float64 {
	if alpha <= alphaMin {
		return 1
	}
	if alpha >= 1 {
		return 0
	}
	return math.Log(alpha) / math.Log(alphaMin)
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.DrawScene(m.scene)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := m.title
	if title == "" {
		title = "bubblechart"
	}
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(title)) + "\n")

	status, color := m.status()
	s.WriteString(statusStyle(color).Render(status) + "\n\n")
	s.WriteString(ProgressBar(coolingProgress(m.sim.Alpha(), m.sim.Config().AlphaMin), 30, m.theme) + "\n\n")

	values := m.recorder.Values()
	rows := []struct {
		label string
		value string
	}{
		{"Step", fmt.Sprintf("%d", m.sim.Steps())},
		{"Alpha", fmt.Sprintf("%.4f", m.sim.Alpha())},
		{"Energy", fmt.Sprintf("%.3f", values["energy"])},
		{"Spread", fmt.Sprintf("%.1f", values["spread"])},
		{"Overlaps", fmt.Sprintf("%.0f", values["overlaps"])},
		{"Nodes", fmt.Sprintf("%d", len(m.chart.Nodes()))},
		{"Mode", m.chart.Mode().String()},
		{"Theme", m.theme.Name},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}

	if m.trace.Len() > 1 {
		plot := asciigraph.Plot(m.trace.Alpha(), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Alpha"))
		s.WriteString(graphStyle.Foreground(m.theme.Primary).Render(plot) + "\n")
		plot = asciigraph.Plot(m.trace.Energy(), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(m.theme.Accent).Render(plot) + "\n")
	}

	s.WriteString(helpStyle.Render(m.help.View(keys)))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
