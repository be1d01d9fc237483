package viz

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/input"
	"github.com/san-kum/runefall/internal/render"
	"github.com/san-kum/runefall/internal/sim"
)

// errNoSize stands in for a size query until the first WindowSizeMsg.
var errNoSize = errors.New("viz: window size not reported yet")

type TickMsg time.Time

// Model drives a sim.Clock from Bubble Tea messages.
type Model struct {
	clock    *sim.Clock
	renderer *render.Renderer
	profile  termenv.Profile
	queue    []config.Event
	width    int
	height   int
	sized    bool
	view     string
	now      func() time.Time
	quitting bool
}

func NewModel(clock *sim.Clock, profile termenv.Profile) Model {
	return Model{
		clock:    clock,
		renderer: render.New(),
		profile:  profile,
		now:      time.Now,
	}
}

func tickAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tickAfter(0)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ev, action := input.Decode(msg.String())
		switch action {
		case input.Quit:
			m.quitting = true
			return m, tea.Quit
		case input.Apply:
			m.queue = append(m.queue, ev)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sized = true
	case TickMsg:
		start := m.now()
		m.step()
		return m, tickAfter(sim.Remaining(m.clock.Settings().FPS, m.now().Sub(start)))
	}
	return m, nil
}

// step runs one tick with everything queued since the last one.
func (m *Model) step() {
	in := sim.Input{Width: m.width, Height: m.height, Events: m.queue}
	if !m.sized {
		in.SizeErr = errNoSize
	}
	m.queue = nil
	m.clock.Tick(in)

	frame := m.renderer.Render(m.clock)
	rows := Paint(frame, m.profile)
	if hud := m.clock.HUD(); hud.Visible && len(rows) > 0 {
		s := m.clock.Settings()
		text, x := render.StatusLine(render.Status(s, s.FPS), frame.Width)
		last := frame.Rows()[frame.Height-1]
		rows[len(rows)-1] = PaintRow(last[:x], m.profile) + StatusView(text, hud)
	}
	m.view = strings.Join(rows, "\n")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.view
}

func (m Model) Clock() *sim.Clock { return m.clock }

// Pending is the number of events waiting for the next tick.
func (m Model) Pending() int { return len(m.queue) }
