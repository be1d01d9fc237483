package sim

import "github.com/san-kum/runefall/internal/config"

// Input is everything the front-end hands the clock for one tick.
type Input struct {
	Width   int
	Height  int
	SizeErr error
	Events  []config.Event
}

// Report summarises one tick for observers.
type Report struct {
	Tick      uint64
	Lanes     int
	Active    int
	Spawned   int
	Retired   int
	Lifetimes []int // ticks spent active by each column retired this tick
}

// ActiveFraction is Active/Lanes, or 0 on an empty grid.
func (r Report) ActiveFraction() float64 {
	if r.Lanes == 0 {
		return 0
	}
	return float64(r.Active) / float64(r.Lanes)
}

type Metric interface {
	Name() string
	Observe(r Report)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(r Report)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Report)

func (f ObserverFunc) OnTick(r Report) { f(r) }

// HUDState is the status line timer. Remaining counts down in ticks; Fade is
// the length of the dimming window at the end.
type HUDState struct {
	Visible   bool
	Remaining int
	Total     int
	Fade      int
}
