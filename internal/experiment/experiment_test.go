package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/experiment"
)

func scenario() experiment.Config {
	s := config.DefaultSettings()
	s.Density = 0.4
	s.FPS = 20
	return experiment.Config{
		Settings: s,
		Width:    80,
		Height:   24,
		Ticks:    1000,
		Warmup:   200,
		Seed:     2024,

		TrackLanes: true,
	}
}

var _ = Describe("Experiment", func() {
	var registry *experiment.Registry

	BeforeEach(func() {
		registry = experiment.NewRegistry()
	})

	Context("80x24 at density 0.4 and 20 fps for 1000 ticks", func() {
		var result *experiment.Result

		BeforeEach(func() {
			cfg := scenario()
			exp := experiment.New(cfg)
			Expect(exp.Setup(registry.DefaultMetrics(uint64(cfg.Warmup)))).To(Succeed())

			var err error
			result, err = exp.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("records one sample per tick", func() {
			Expect(result.Ticks).To(Equal(1000))
			Expect(result.Series).To(HaveLen(1000))
		})

		It("holds the active fraction near the density", func() {
			Expect(result.SteadyMean(200)).To(BeNumerically("~", 0.4, 0.06))
			Expect(result.Metrics["active_fraction"]).To(BeNumerically("~", 0.4, 0.06))
		})

		It("spawns at the renewal rate", func() {
			lanes := 80.0
			expected := lanes * float64(result.Ticks) * 0.4 / result.ExpectedLifetime
			spawned := result.Metrics["spawn_rate"] * lanes * float64(result.Ticks)
			Expect(spawned).To(BeNumerically("~", expected, expected*0.15))
		})

		It("retires columns after about their expected lifetime", func() {
			Expect(result.Metrics["retirements"]).To(BeNumerically(">", 100))
			Expect(result.Metrics["mean_lifetime"]).To(BeNumerically("~", result.ExpectedLifetime, result.ExpectedLifetime*0.1))
		})

		It("keeps neighbouring lanes independent", func() {
			Expect(result.LaneCorrelation).To(BeNumerically("~", 0, 0.1))
		})

		It("trims the warmup from the steady series", func() {
			Expect(result.Steady(200)).To(HaveLen(800))
			Expect(result.Steady(5000)).To(HaveLen(1000))
		})
	})

	It("stops early when the context is cancelled", func() {
		exp := experiment.New(scenario())
		Expect(exp.Setup(nil)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := exp.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Ticks).To(Equal(0))
	})

	It("refuses to run before setup", func() {
		_, err := experiment.New(scenario()).Run(context.Background())
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("rejects degenerate runs",
		func(mutate func(*experiment.Config)) {
			cfg := scenario()
			mutate(&cfg)
			Expect(experiment.New(cfg).Setup(nil)).NotTo(Succeed())
		},
		Entry("zero width", func(c *experiment.Config) { c.Width = 0 }),
		Entry("negative height", func(c *experiment.Config) { c.Height = -3 }),
		Entry("no ticks", func(c *experiment.Config) { c.Ticks = 0 }),
	)

	Describe("Registry", func() {
		It("lists metrics in order", func() {
			Expect(registry.ListMetrics()).To(Equal([]string{"active_fraction", "mean_lifetime", "retirements", "spawn_rate"}))
		})

		It("rejects unknown names", func() {
			_, err := registry.GetMetric("entropy", 0)
			Expect(err).To(MatchError(ContainSubstring("unknown metric")))
		})
	})

	Describe("Ensemble", func() {
		It("runs each seed independently", func() {
			cfg := scenario()
			cfg.Ticks = 400
			results, err := experiment.NewEnsemble(cfg, 4, registry).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
			Expect(results[0].Series).NotTo(Equal(results[1].Series))
			Expect(experiment.Mean(results, "active_fraction")).To(BeNumerically("~", 0.4, 0.08))
		})
	})
})
