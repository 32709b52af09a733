package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/sim"
)

const (
	canvasWidth     = 48
	canvasHeight    = 16
	historyCapacity = 600
	frameRate       = 30
	maxStepsPerTick = 64
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
)

type TickMsg time.Time

// LiveModel steps a model on the sim.Config grid one frame at a time.
type LiveModel struct {
	model      dynamo.Model
	integrator dynamo.Integrator
	cfg        sim.Config
	x0         dynamo.State

	state   dynamo.State
	last    dynamo.Sample
	step    int
	perTick int
	running bool
	err     error

	xHist   []float64
	fHist   []float64
	phaseX  []float64
	phaseY  []float64
	canvas  *Canvas
	started bool
}

func NewLiveModel(model dynamo.Model, integrator dynamo.Integrator, cfg sim.Config, x0 dynamo.State) *LiveModel {
	m := &LiveModel{
		model:      model,
		integrator: integrator,
		cfg:        cfg,
		x0:         x0,
		perTick:    4,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Init() tea.Cmd { return tick() }

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.perTick = min(m.perTick*2, maxStepsPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		}
	case TickMsg:
		if m.running {
			m.Advance(m.perTick)
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) reset() {
	m.state = m.x0
	m.step = 0
	m.err = nil
	m.started = false
	m.running = true
	m.xHist = m.xHist[:0]
	m.fHist = m.fHist[:0]
	m.phaseX = m.phaseX[:0]
	m.phaseY = m.phaseY[:0]
}

// Advance records up to n grid rows, stepping between them. It stops at the
// end of the interval or on the first error.
func (m *LiveModel) Advance(n int) {
	for range n {
		if m.Done() {
			m.running = false
			return
		}
		if m.started {
			t := m.cfg.TimeAt(m.step)
			next, err := m.integrator.Step(m.model.Derive, t, m.state, m.cfg.Step)
			if err != nil {
				m.fail(&dynamo.SimulationError{Step: m.step, Time: t, State: m.state, Wrapped: err})
				return
			}
			m.state = next
			m.step++
		}

		t := m.cfg.TimeAt(m.step)
		d, err := m.model.Derive(t, m.state)
		if err != nil {
			m.fail(&dynamo.SimulationError{Step: m.step, Time: t, State: m.state, Wrapped: err})
			return
		}
		m.started = true
		m.last = dynamo.Sample{T: t, State: m.state, Derivative: d, Forcing: m.model.Forcing(t)}
		m.record(m.last)
	}
}

func (m *LiveModel) fail(err error) {
	m.err = err
	m.running = false
}

func (m *LiveModel) record(s dynamo.Sample) {
	m.xHist = pushBounded(m.xHist, s.State[0])
	m.fHist = pushBounded(m.fHist, s.Forcing)
	m.phaseX = pushBounded(m.phaseX, s.State[2])
	m.phaseY = pushBounded(m.phaseY, s.State[3])
}

func pushBounded(buf []float64, v float64) []float64 {
	buf = append(buf, v)
	if len(buf) > historyCapacity {
		buf = buf[1:]
	}
	return buf
}

// Done reports whether the last grid row has been recorded.
func (m *LiveModel) Done() bool {
	return m.err != nil || (m.started && m.step >= m.cfg.Steps())
}

func (m *LiveModel) Err() error          { return m.err }
func (m *LiveModel) Last() dynamo.Sample { return m.last }
func (m *LiveModel) StepIndex() int      { return m.step }
func (m *LiveModel) Running() bool       { return m.running }
func (m *LiveModel) StepsPerTick() int   { return m.perTick }
func (m *LiveModel) History() []float64  { return m.xHist }

func (m *LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.Done():
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m *LiveModel) View() string {
	m.canvas.Trace(m.phaseX, m.phaseY)
	phase := canvasStyle.Render(Subtle.Render("x'' vs x'''") + "\n" + m.canvas.String())

	var s strings.Builder
	s.WriteString(TitleStyle.Render("ENGINE CONTROL LOOP") + "  " + m.status() + "\n\n")

	if m.err != nil {
		s.WriteString(StatusFailed.Render(m.err.Error()) + "\n\n")
	}

	if len(m.xHist) > 1 {
		chart := asciigraph.Plot(m.xHist, asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption("x(t)"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("t", fmt.Sprintf("%.3f", m.last.T))
	row("x", fmt.Sprintf("%.6g", m.last.State[0]))
	row("x'", fmt.Sprintf("%.6g", m.last.State[1]))
	row("x''", fmt.Sprintf("%.6g", m.last.State[2]))
	row("x'''", fmt.Sprintf("%.6g", m.last.State[3]))
	row("x''''", fmt.Sprintf("%.6g", m.last.Fourth()))
	row("F", fmt.Sprintf("%.6g", m.last.Forcing))
	row("speed", fmt.Sprintf("%d steps/frame", m.perTick))

	s.WriteString("\n" + Subtle.Render("F ") + Sparkline(m.fHist, 34) + "\n")

	total := m.cfg.Steps()
	progress := 1.0
	if total > 0 {
		progress = float64(m.step) / float64(total)
	}
	s.WriteString(ProgressBar(progress, 34) + fmt.Sprintf(" %d/%d\n", m.step, total))

	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Reset +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, phase, statsStyle.Render(s.String()))
}
