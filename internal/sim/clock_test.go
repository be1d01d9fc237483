package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/sim"
	"github.com/san-kum/runefall/internal/stream"
)

var errNoTTY = errors.New("inappropriate ioctl for device")

func sized(w, h int, events ...config.Event) sim.Input {
	return sim.Input{Width: w, Height: h, Events: events}
}

func run(c *sim.Clock, w, h, n int) []sim.Report {
	out := make([]sim.Report, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.Tick(sized(w, h)))
	}
	return out
}

var _ = Describe("Clock", func() {
	var (
		settings config.Settings
		clock    *sim.Clock
	)

	BeforeEach(func() {
		settings = config.DefaultSettings()
		clock = sim.New(settings, sim.WithSeed(7))
	})

	Describe("sizing", func() {
		It("has no lanes until a size arrives", func() {
			rep := clock.Tick(sim.Input{SizeErr: errNoTTY})
			Expect(rep.Lanes).To(Equal(0))
			Expect(clock.Grid().Empty()).To(BeTrue())
		})

		It("lays out one lane per terminal column when falling down", func() {
			rep := clock.Tick(sized(80, 24))
			Expect(rep.Lanes).To(Equal(80))
			Expect(clock.Columns()).To(HaveLen(80))
			for i, col := range clock.Columns() {
				Expect(col.Lane).To(Equal(i))
			}
		})

		It("warm-starts so the first frame is not empty", func() {
			rep := clock.Tick(sized(80, 24))
			Expect(rep.Active).To(BeNumerically(">", 10))
		})

		It("reuses the last grid when the size query fails", func() {
			clock.Tick(sized(80, 24))
			before := clock.Columns()

			clock.Tick(sim.Input{SizeErr: errNoTTY})
			Expect(clock.Grid()).To(Equal(stream.Grid{Width: 80, Height: 24}))
			Expect(clock.Columns()).To(HaveLen(80))

			clock.Tick(sized(0, 0))
			Expect(clock.Grid()).To(Equal(stream.Grid{Width: 80, Height: 24}))
			Expect(&clock.Columns()[0]).To(BeIdenticalTo(&before[0]))
		})

		It("rebuilds the lanes when the terminal grows", func() {
			clock.Tick(sized(80, 24))
			rep := clock.Tick(sized(100, 30))
			Expect(rep.Lanes).To(Equal(100))
			Expect(clock.Grid()).To(Equal(stream.Grid{Width: 100, Height: 30}))
		})
	})

	Describe("events", func() {
		BeforeEach(func() {
			clock.Tick(sized(80, 24))
		})

		It("applies a whole batch before touching columns", func() {
			rep := clock.Tick(sized(80, 24,
				config.AdjustFPS{Delta: config.FPSStep},
				config.SelectDirection{Direction: stream.Right},
				config.AdjustDensity{Delta: config.DensityStep},
			))

			s := clock.Settings()
			Expect(s.FPS).To(Equal(25))
			Expect(s.Direction).To(Equal(stream.Right))
			Expect(s.Density).To(BeNumerically("~", 0.45, 1e-9))

			Expect(rep.Lanes).To(Equal(24))
			lifetime := stream.ExpectedLifetime(80, 25, s.Tuning.Params())
			Expect(clock.SpawnProbability()).To(BeNumerically("~", sim.SpawnChance(0.45, lifetime), 1e-12))
		})

		It("rebuilds lanes along the new axis on a direction change", func() {
			clock.Tick(sized(80, 24, config.SelectDirection{Direction: stream.Left}))
			Expect(clock.Columns()).To(HaveLen(24))

			clock.Tick(sized(80, 24, config.SelectDirection{Direction: stream.Up}))
			Expect(clock.Columns()).To(HaveLen(80))
		})

		It("keeps falling columns at the same on-screen rate when fps changes", func() {
			var lane int
			var speed float64
			for i, col := range clock.Columns() {
				if col.Active {
					lane, speed = i, col.Speed
					break
				}
			}
			Expect(speed).To(BeNumerically(">", 0))

			clock.Tick(sized(80, 24, config.AdjustFPS{Delta: config.FPSStep * 4}))
			col := clock.Columns()[lane]
			if col.Active && col.Spawns == 1 {
				Expect(col.Speed).To(BeNumerically("~", speed*20/40, 1e-9))
			}
		})

		It("pins values at their bounds instead of failing", func() {
			events := make([]config.Event, 0, 30)
			for i := 0; i < 30; i++ {
				events = append(events, config.AdjustDensity{Delta: -config.DensityStep})
			}
			clock.Tick(sized(80, 24, events...))
			Expect(clock.Settings().Density).To(Equal(config.MinDensity))
		})
	})

	Describe("column lifecycle", func() {
		It("enters newly spawned columns at row zero", func() {
			clock.Tick(sized(80, 24))
			checked := 0
			for i := 0; i < 200 && checked < 20; i++ {
				before := append([]stream.Column(nil), clock.Columns()...)
				clock.Tick(sized(80, 24))
				for j, col := range clock.Columns() {
					if !before[j].Active && col.Active {
						Expect(col.Head).To(BeZero())
						Expect(col.HeadRow()).To(Equal(0))
						Expect(col.Glyphs).To(HaveLen(col.Length))
						checked++
					}
				}
			}
			Expect(checked).To(BeNumerically(">", 0))
		})

		It("retires a column on the first tick its tail passes the edge", func() {
			span := 24
			clock.Tick(sized(80, span))
			retired := 0
			for i := 0; i < 400; i++ {
				before := append([]stream.Column(nil), clock.Columns()...)
				clock.Tick(sized(80, span))
				for j, col := range clock.Columns() {
					if before[j].Active && !col.Active {
						overshoot := col.HeadRow() - col.Length - span
						Expect(overshoot).To(BeNumerically(">=", 1))
						Expect(overshoot).To(BeNumerically("<=", int(math.Ceil(col.Speed))))
						Expect(before[j].HeadRow() - before[j].Length).To(BeNumerically("<=", span))
						retired++
					}
				}
			}
			Expect(retired).To(BeNumerically(">", 50))
		})

		It("reports lifetimes matching the expected lifetime", func() {
			reports := run(clock, 80, 24, 3000)
			sum, n := 0, 0
			for _, rep := range reports[500:] {
				for _, l := range rep.Lifetimes {
					sum += l
					n++
				}
			}
			Expect(n).To(BeNumerically(">", 200))
			mean := float64(sum) / float64(n)
			Expect(mean).To(BeNumerically("~", clock.ExpectedLifetime(), clock.ExpectedLifetime()*0.05))
		})

		It("leaves existing glyphs alone on a rune set change when shimmer is off", func() {
			settings.Tuning.ShimmerRate = 0
			clock = sim.New(settings, sim.WithSeed(11))
			clock.Tick(sized(80, 24))

			snapshot := make(map[int][]rune)
			spawns := make(map[int]int)
			for i, col := range clock.Columns() {
				if col.Active {
					snapshot[i] = append([]rune(nil), col.Glyphs...)
					spawns[i] = col.Spawns
				}
			}

			clock.Tick(sized(80, 24, config.SelectRuneSet{Set: glyph.Ogham}))
			for i := 0; i < 40; i++ {
				clock.Tick(sized(80, 24))
			}

			fresh := 0
			for i, col := range clock.Columns() {
				if !col.Active {
					continue
				}
				if old, ok := snapshot[i]; ok && col.Spawns == spawns[i] {
					Expect(col.Glyphs).To(Equal(old))
					continue
				}
				fresh++
				for _, r := range col.Glyphs {
					Expect(glyph.Contains(glyph.Ogham, r)).To(BeTrue())
				}
			}
			Expect(fresh).To(BeNumerically(">", 0))
		})

		It("only rolls sparks for the blinking rainbow palette", func() {
			clock.Tick(sized(80, 24))
			for _, col := range clock.Columns() {
				Expect(col.Sparks).To(BeEmpty())
			}

			clock.Tick(sized(80, 24, config.SelectPalette{Palette: palette.BlinkingRainbow}))
			sparks := 0
			for _, col := range clock.Columns() {
				if !col.Active {
					continue
				}
				Expect(col.Sparks).To(HaveLen(col.Length))
				for d := range col.Sparks {
					if _, ok := col.Spark(d); ok {
						sparks++
					}
				}
			}
			Expect(sparks).To(BeNumerically(">", 0))
		})
	})

	Describe("density", func() {
		DescribeTable("converges on the configured active fraction",
			func(density float64, fps int) {
				settings.Density = density
				settings.FPS = fps
				clock = sim.New(settings, sim.WithSeed(3))

				reports := run(clock, 80, 24, 4000)
				sum := 0.0
				for _, rep := range reports[1000:] {
					sum += rep.ActiveFraction()
				}
				mean := sum / float64(len(reports)-1000)
				Expect(mean).To(BeNumerically("~", density, 0.04))
			},
			Entry("sparse", 0.2, 20),
			Entry("default", 0.4, 20),
			Entry("dense at high fps", 0.7, 60),
			Entry("slow", 0.4, 5),
		)

		It("spawns on every idle tick at full density", func() {
			Expect(sim.SpawnChance(1, 50)).To(Equal(1.0))
			Expect(sim.SpawnChance(0.5, 10)).To(BeNumerically("~", 0.1, 1e-12))
			Expect(sim.SpawnChance(0.99, 1)).To(Equal(1.0))
		})
	})

	Describe("HUD timer", func() {
		It("hides after the configured number of seconds", func() {
			total := settings.HUDTicks()
			clock.Tick(sized(80, 24))
			Expect(clock.HUD().Visible).To(BeTrue())
			Expect(clock.HUD().Total).To(Equal(total))

			run(clock, 80, 24, total)
			Expect(clock.HUD().Visible).To(BeFalse())
		})

		It("wakes on any adjusting key", func() {
			run(clock, 80, 24, settings.HUDTicks()+5)
			clock.Tick(sized(80, 24, config.AdjustDensity{Delta: config.DensityStep}))
			hud := clock.HUD()
			Expect(hud.Visible).To(BeTrue())
			Expect(hud.Remaining).To(Equal(hud.Total - 1))
		})

		It("can be forced off and back on", func() {
			clock.Tick(sized(80, 24, config.ToggleHUD{}))
			Expect(clock.HUD().Visible).To(BeFalse())

			clock.Tick(sized(80, 24, config.AdjustFPS{Delta: 5}))
			Expect(clock.HUD().Visible).To(BeFalse())

			clock.Tick(sized(80, 24, config.ToggleHUD{}))
			Expect(clock.HUD().Visible).To(BeTrue())
		})
	})

	Describe("observers", func() {
		It("sees every tick in order", func() {
			var ticks []uint64
			clock = sim.New(settings, sim.WithSeed(1), sim.WithObserver(sim.ObserverFunc(func(r sim.Report) {
				ticks = append(ticks, r.Tick)
			})))
			run(clock, 40, 10, 5)
			Expect(ticks).To(Equal([]uint64{0, 1, 2, 3, 4}))
			Expect(clock.TickCount()).To(Equal(uint64(5)))
		})

		It("is deterministic for a fixed seed", func() {
			a := run(sim.New(settings, sim.WithSeed(99)), 60, 20, 300)
			b := run(sim.New(settings, sim.WithSeed(99)), 60, 20, 300)
			Expect(a).To(Equal(b))
		})
	})
})
