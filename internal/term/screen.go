// Package term is the tcell front-end: an explicit poll, tick, paint, sleep
// loop for terminals where a plain screen is preferred over Bubble Tea.
package term

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/input"
	"github.com/san-kum/runefall/internal/render"
	"github.com/san-kum/runefall/internal/sim"
)

var errNoSize = errors.New("term: screen reports 0x0")

type Screen struct {
	screen   tcell.Screen
	clock    *sim.Clock
	renderer *render.Renderer
	queue    []config.Event
	events   chan tcell.Event
	stop     chan struct{}
	stopOnce sync.Once
	polling  bool
	pollDone chan struct{}
	now      func() time.Time
}

// Open creates and initialises a real terminal screen.
func Open(clock *sim.Clock) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	return New(screen, clock), nil
}

// New wraps an already initialised screen.
func New(screen tcell.Screen, clock *sim.Clock) *Screen {
	return &Screen{
		screen:   screen,
		clock:    clock,
		renderer: render.New(),
		events:   make(chan tcell.Event, 32),
		stop:     make(chan struct{}),
		pollDone: make(chan struct{}),
		now:      time.Now,
	}
}

// Close stops the poller, restores the terminal and waits for the poller
// to exit.
func (s *Screen) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.screen.Fini()
	if s.polling {
		<-s.pollDone
	}
}

// Run loops until a quit key or ctx is done.
func (s *Screen) Run(ctx context.Context) error {
	s.screen.Clear()
	s.screen.HideCursor()

	s.startPolling()

	for {
		start := s.now()
		if s.drain() {
			return nil
		}
		s.Step()

		wait := sim.Remaining(s.clock.Settings().FPS, s.now().Sub(start))
		if wait == 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func (s *Screen) startPolling() {
	if s.polling {
		return
	}
	s.polling = true
	go s.pollEvents()
}

// pollEvents forwards events until Fini makes PollEvent return nil or Close
// is called.
func (s *Screen) pollEvents() {
	defer close(s.pollDone)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

// drain empties the event channel without blocking and reports whether a
// quit key was seen.
func (s *Screen) drain() bool {
	for {
		select {
		case ev := <-s.events:
			if s.handle(ev) {
				return true
			}
		default:
			return false
		}
	}
}

func (s *Screen) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		e, action := input.Decode(KeyName(ev))
		switch action {
		case input.Quit:
			return true
		case input.Apply:
			s.queue = append(s.queue, e)
		}
	}
	return false
}

// Step runs one tick on the current screen size and paints the result.
func (s *Screen) Step() sim.Report {
	w, h := s.screen.Size()
	in := sim.Input{Width: w, Height: h, Events: s.queue}
	if w <= 0 || h <= 0 {
		in.SizeErr = errNoSize
	}
	s.queue = nil

	rep := s.clock.Tick(in)
	s.paint(s.renderer.Render(s.clock))
	s.screen.Show()
	return rep
}

func (s *Screen) paint(f *render.Frame) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			style := tcell.StyleDefault
			if !c.Blank() {
				style = style.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
			}
			s.screen.SetContent(x, y, c.Rune, nil, style)
		}
	}

	hud := s.clock.HUD()
	if !hud.Visible || f.Height == 0 {
		return
	}
	settings := s.clock.Settings()
	text, x := render.StatusLine(render.Status(settings, settings.FPS), f.Width)
	grey := int32(render.StatusBrightness(hud))
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(grey, grey, grey))
	for _, r := range text {
		s.screen.SetContent(x, f.Height-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// KeyName converts a tcell key event to the names input.Decode expects.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	}
	return ""
}
