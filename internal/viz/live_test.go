package viz

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return NewModel(sim.New(config.DefaultSettings(), sim.WithSeed(1)), termenv.Ascii)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitSchedulesTick(t *testing.T) {
	if newTestModel(t).Init() == nil {
		t.Fatal("expected a tick command")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "Q", "esc", "ctrl+c"} {
		m, cmd := update(t, newTestModel(t), key(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg", k)
		}
		if m.View() != "" {
			t.Errorf("%s: view should be empty after quit", k)
		}
	}
}

func TestKeysWaitForTick(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	m, _ = update(t, m, key("+"))
	m, _ = update(t, m, key("]"))
	m, _ = update(t, m, key("x"))

	if m.Pending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", m.Pending())
	}
	if m.Clock().Settings().FPS != config.DefaultFPS {
		t.Error("settings changed before the tick")
	}

	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	s := m.Clock().Settings()
	if s.FPS != config.DefaultFPS+config.FPSStep {
		t.Errorf("expected fps %d, got %d", config.DefaultFPS+config.FPSStep, s.FPS)
	}
	if s.Density != 0.45 {
		t.Errorf("expected density 0.45, got %.2f", s.Density)
	}
	if m.Pending() != 0 {
		t.Error("queue not drained")
	}
}

func TestViewFillsWindow(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 15})
	m, _ = update(t, m, TickMsg(time.Now()))

	rows := strings.Split(m.View(), "\n")
	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(rows))
	}
	for i, row := range rows[:14] {
		if n := utf8.RuneCountInString(row); n != 60 {
			t.Errorf("row %d: expected 60 cells, got %d", i, n)
		}
	}
	if !strings.Contains(rows[14], "FPS") {
		t.Errorf("status line missing from last row: %q", rows[14])
	}
}

func TestHUDToggleHidesStatus(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 15})
	m, _ = update(t, m, key("i"))
	m, _ = update(t, m, TickMsg(time.Now()))

	if strings.Contains(m.View(), "FPS") {
		t.Error("status line should be hidden")
	}
}

func TestTickBeforeSize(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, TickMsg(time.Now()))
	if m.View() != "" {
		t.Errorf("expected empty view before the first size, got %q", m.View())
	}
	if !m.Clock().Grid().Empty() {
		t.Error("grid should still be empty")
	}
}

func TestDirectionKeyRebuildsLanes(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 10})
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, TickMsg(time.Now()))

	if n := len(m.Clock().Columns()); n != 10 {
		t.Errorf("expected 10 lanes after turning left, got %d", n)
	}
}
