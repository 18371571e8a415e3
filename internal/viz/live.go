package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/export"
	"github.com/CodeByRiley/SpaceTime/internal/scenario"
	"github.com/CodeByRiley/SpaceTime/internal/sim"
	"github.com/CodeByRiley/SpaceTime/internal/space"
)

const (
	canvasWidth     = 72
	canvasHeight    = 26
	tickRate        = time.Second / 30
	historyCapacity = 600
	trailCapacity   = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type point struct{ x, y int }

// Model is the live orbit view: a braille canvas centered on a followed
// body, body trails, and a stats pane with an energy-drift strip.
type Model struct {
	cfg    *config.Config
	sim    *sim.Simulation
	canvas *Canvas

	follow    int
	zoom      float64 // meters per sub-pixel
	paused    bool
	prevScale float64

	trails       [][]point
	energy0      float64
	driftHistory []float64
	showHelp     bool
	note         string
}

// NewModel builds a simulation from cfg and frames the whole system.
func NewModel(cfg *config.Config) (Model, error) {
	s, err := sim.New(cfg)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		cfg:          cfg,
		sim:          s,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		trails:       make([][]point, len(s.Bodies())),
		energy0:      s.Energy(),
		driftHistory: make([]float64, 0, historyCapacity),
	}
	m.zoom = fitZoom(scenario.Extent(s.Bodies()))
	return m, nil
}

// fitZoom picks meters-per-sub-pixel so the system's extent fills most of
// the canvas.
func fitZoom(extent float64) float64 {
	if extent <= 0 {
		return 1
	}
	span := math.Min(float64(canvasWidth*2), float64(canvasHeight*4))
	return 2.4 * extent / span
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sim.Close()
			return m, tea.Quit
		case " ":
			m.togglePause()
		case "+", "=":
			m.sim.SetTimeScale(m.sim.TimeScale() * 2)
		case "-", "_":
			m.sim.SetTimeScale(m.sim.TimeScale() / 2)
		case "tab":
			m.follow = (m.follow + 1) % len(m.sim.Bodies())
			m.resetTrails()
		case "z":
			m.zoom /= 2
			m.resetTrails()
		case "x":
			m.zoom *= 2
			m.resetTrails()
		case "w":
			m.sim.SetWorkers(m.sim.Workers()%8 + 1)
		case "s":
			m.note = m.saveSnapshot()
		case "r":
			m.reset()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if !m.paused {
			m.sim.Advance(tickRate.Seconds())
			m.recordDrift()
		}
		m.draw()
		return m, tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) togglePause() {
	if m.paused {
		m.sim.SetTimeScale(m.prevScale)
		m.paused = false
		return
	}
	m.prevScale = m.sim.TimeScale()
	m.sim.SetTimeScale(0)
	m.paused = true
}

// reset rebuilds the simulation from the original config.
func (m *Model) reset() {
	s, err := sim.New(m.cfg)
	if err != nil {
		return
	}
	m.sim.Close()
	m.sim = s
	m.paused = false
	m.energy0 = s.Energy()
	m.driftHistory = m.driftHistory[:0]
	m.resetTrails()
}

func (m *Model) resetTrails() {
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
}

// saveSnapshot writes the current canvas as an SVG next to the binary and
// returns a status line for the stats pane.
func (m *Model) saveSnapshot() string {
	name := fmt.Sprintf("spacetime-%d.svg", time.Now().Unix())
	svg := export.BrailleToSVG(m.canvas.Grid, 4)
	if err := os.WriteFile(name, []byte(svg), 0644); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "saved " + name
}

func (m *Model) recordDrift() {
	drift := 0.0
	if m.energy0 != 0 {
		drift = (m.sim.Energy() - m.energy0) / math.Abs(m.energy0)
	}
	m.driftHistory = append(m.driftHistory, drift)
	if len(m.driftHistory) > historyCapacity {
		m.driftHistory = m.driftHistory[1:]
	}
}

// draw projects every body onto the canvas relative to the followed body.
func (m *Model) draw() {
	m.canvas.Clear()
	bodies := m.sim.Bodies()
	camera := bodies[m.follow].World
	cx, cy := canvasWidth, canvasHeight*2 // sub-pixel center

	for i := range bodies {
		d := space.Delta(camera, bodies[i].World)
		px := cx + int(math.Round(d.X/m.zoom))
		py := cy - int(math.Round(d.Y/m.zoom))

		m.trails[i] = append(m.trails[i], point{px, py})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
		for _, pt := range m.trails[i] {
			m.canvas.Set(pt.x, pt.y)
		}

		if r := int(bodies[i].Def.Radius / m.zoom); r >= 2 {
			m.canvas.DrawCircle(px, py, r)
		} else {
			m.canvas.DrawMarker(px, py)
		}
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("SPACETIME") + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	bodies := m.sim.Bodies()
	s.WriteString(fmt.Sprintf("%s  following %s\n\n", status, bodies[m.follow].Def.Name))

	if len(m.driftHistory) > 1 {
		chart := asciigraph.Plot(m.driftHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Sim time") + valueStyle.Render(fmtSimTime(m.sim.SimTime())) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmtScale(m.sim.TimeScale())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Workers") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Workers())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.3g m/px", m.zoom)) + "\n")

	s.WriteString("\nBODIES\n")
	camera := bodies[m.follow].World
	for i := range bodies {
		b := &bodies[i]
		nameStyle := valueStyle
		if b.Color != "" {
			nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color))
		}
		dist := space.Delta(camera, b.World).Norm()
		s.WriteString(fmt.Sprintf("  %s %s km/s  %s\n",
			nameStyle.Width(7).Render(b.Def.Name),
			valueStyle.Render(fmt.Sprintf("%7.2f", b.Speed()/1000)),
			valueStyle.Render(fmtDistance(dist))))
	}

	if m.note != "" {
		s.WriteString("\n" + valueStyle.Render(m.note) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:pause  +/-:speed  TAB:follow\nZ/X:zoom  W:workers  S:snapshot\nR:reset  Q:quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `  Space  pause / resume
  + / -  double / halve time scale
  Tab    follow next body
  Z / X  zoom in / out
  W      cycle worker count
  S      save an SVG snapshot
  R      rebuild the scenario
  ?      toggle this help
  Q      quit`

func fmtSimTime(sec float64) string {
	switch {
	case sec < 3600:
		return fmt.Sprintf("%.0f s", sec)
	case sec < 86400:
		return fmt.Sprintf("%.2f h", sec/3600)
	case sec < 86400*365.25:
		return fmt.Sprintf("%.2f d", sec/86400)
	default:
		return fmt.Sprintf("%.2f y", sec/(86400*365.25))
	}
}

func fmtScale(scale float64) string {
	if scale >= 86400 {
		return fmt.Sprintf("%.2f d/s", scale/86400)
	}
	return fmt.Sprintf("%.0f s/s", scale)
}

func fmtDistance(m float64) string {
	switch {
	case m >= 1e9:
		return fmt.Sprintf("%.3f Gm", m/1e9)
	case m >= 1e6:
		return fmt.Sprintf("%.1f Mm", m/1e6)
	default:
		return fmt.Sprintf("%.0f km", m/1e3)
	}
}
