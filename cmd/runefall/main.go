package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"
	"github.com/san-kum/runefall/internal/analysis"
	"github.com/san-kum/runefall/internal/automation"
	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/experiment"
	"github.com/san-kum/runefall/internal/export"
	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/input"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/render"
	"github.com/san-kum/runefall/internal/sim"
	"github.com/san-kum/runefall/internal/stream"
	"github.com/san-kum/runefall/internal/term"
	"github.com/san-kum/runefall/internal/viz"
	"github.com/spf13/cobra"
)

var (
	paletteName string
	fps         int
	density     float64
	runeSet     string
	direction   string
	noHUD       bool
	backend     string
	configFile  string
	preset      string
	seed        int64
	strict      bool
	debugLog    string
	// Headless runs
	width      int
	height     int
	ticks      int
	frameTicks int
	warmup     int
	runs       int
	plain      bool
	asJSON     bool
	asSVG      bool
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main exits with status 1 when the command returns an error, which covers
// every configuration problem found before the first frame.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "runefall",
		Short:        "falling runes for your terminal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runRain,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&paletteName, "palette", "p", config.DefaultPalette, "colour palette (arcane, emerald, frost, ember, rainbow, blinking)")
	pf.IntVarP(&fps, "fps", "f", config.DefaultFPS, "frames per second (5-60)")
	pf.Float64VarP(&density, "density", "d", config.DefaultDensity, "share of lanes streaming at once (0.1-1.0)")
	pf.StringVarP(&runeSet, "runes", "r", config.DefaultRunes, "rune set (all, elder, younger, anglo, ogham, mystic)")
	pf.StringVar(&direction, "direction", config.DefaultDirection, "scroll direction (down, up, left, right)")
	pf.BoolVar(&noHUD, "no-hud", false, "start with the status line hidden")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.BoolVar(&strict, "strict", false, "reject out-of-range values instead of clamping")

	rootCmd.Flags().StringVar(&backend, "backend", "bubbletea", "terminal front-end (bubbletea, tcell)")
	rootCmd.Flags().StringVar(&debugLog, "debug-log", "", "write debug log to file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list palettes, rune sets, directions and keys",
		Args:  cobra.NoArgs,
		RunE:  listOptions,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run the simulation headless and report statistics",
		Args:  cobra.NoArgs,
		RunE:  benchRain,
	}
	benchCmd.Flags().IntVar(&width, "width", 80, "grid width")
	benchCmd.Flags().IntVar(&height, "height", 24, "grid height")
	benchCmd.Flags().IntVar(&ticks, "ticks", 1000, "ticks to simulate")
	benchCmd.Flags().IntVar(&warmup, "warmup", 200, "ticks ignored by steady-state statistics")
	benchCmd.Flags().IntVar(&runs, "runs", 1, "independent runs on consecutive seeds")
	benchCmd.Flags().BoolVar(&asJSON, "json", false, "print results as json")
	benchCmd.Flags().BoolVar(&asSVG, "svg", false, "print the active fraction series as svg")
	benchCmd.MarkFlagsMutuallyExclusive("json", "svg")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "simulate headless and print a single frame",
		Args:  cobra.NoArgs,
		RunE:  printFrame,
	}
	frameCmd.Flags().IntVar(&width, "width", 80, "frame width")
	frameCmd.Flags().IntVar(&height, "height", 24, "frame height")
	frameCmd.Flags().IntVar(&frameTicks, "ticks", 60, "ticks to simulate before printing")
	frameCmd.Flags().BoolVar(&plain, "plain", false, "print without colour")
	frameCmd.Flags().BoolVar(&asSVG, "svg", false, "print the frame as svg")

	scriptCmd := &cobra.Command{
		Use:   "script FILE",
		Short: "replay scripted key presses headless and report the state after each",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure steady-state activity across a range of densities",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&width, "width", 80, "grid width")
	sweepCmd.Flags().IntVar(&height, "height", 24, "grid height")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 1000, "ticks to simulate per density")
	sweepCmd.Flags().IntVar(&warmup, "warmup", 200, "ticks ignored by steady-state statistics")
	sweepCmd.Flags().Float64Var(&sweepMin, "from", config.MinDensity, "first density")
	sweepCmd.Flags().Float64Var(&sweepMax, "to", config.MaxDensity, "last density")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of densities")

	rootCmd.AddCommand(listCmd, presetsCmd, configCmd, benchCmd, frameCmd, scriptCmd, sweepCmd)
	return rootCmd
}

// resolveSettings layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveSettings(cmd *cobra.Command) (config.Settings, int64, error) {
	f := config.DefaultFile()

	if preset != "" {
		p, err := config.LoadPreset(preset)
		if err != nil {
			return config.Settings{}, 0, err
		}
		f = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(f, configFile)
		if err != nil {
			return config.Settings{}, 0, fmt.Errorf("failed to load config: %w", err)
		}
		f = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("palette") {
		f.Palette = paletteName
	}
	if flags.Changed("runes") {
		f.Runes = runeSet
	}
	if flags.Changed("fps") {
		f.FPS = fps
	}
	if flags.Changed("density") {
		f.Density = density
	}
	if flags.Changed("direction") {
		f.Direction = direction
	}
	if flags.Changed("no-hud") {
		f.HUD = !noHUD
	}
	if flags.Changed("seed") {
		f.Seed = seed
	}

	settings, err := f.Resolve(strict)
	if err != nil {
		return config.Settings{}, 0, err
	}
	s := f.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return settings, s, nil
}

// setupLogging routes the standard logger to a file, or discards it so
// nothing is written over the rain.
func setupLogging() (func(), error) {
	if debugLog == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(debugLog, "runefall")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return func() { f.Close() }, nil
}

func runRain(cmd *cobra.Command, args []string) error {
	if backend != "bubbletea" && backend != "tcell" {
		return fmt.Errorf("unknown backend: %s (available: bubbletea, tcell)", backend)
	}
	settings, s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("start: backend=%s seed=%d palette=%s runes=%s fps=%d density=%.2f direction=%s",
		backend, s, settings.Palette, settings.RuneSet, settings.FPS, settings.Density, settings.Direction)

	clock := sim.New(settings, sim.WithSeed(s))

	if backend == "tcell" {
		screen, err := term.Open(clock)
		if err != nil {
			return err
		}
		defer screen.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return screen.Run(ctx)
	}

	p := tea.NewProgram(viz.NewModel(clock, termenv.ColorProfile()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Printf("quit after %d ticks", clock.TickCount())
	return nil
}

func listOptions(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, viz.HeaderStyle.Render("palettes"))
	for _, p := range palette.Palettes {
		fmt.Fprintf(out, "  %s %s\n", viz.Swatch(p), lipgloss.NewStyle().Foreground(viz.Accent(p)).Render(p.String()))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.HeaderStyle.Render("rune sets"))
	for _, s := range glyph.Sets {
		sample := glyph.Runes(s)
		if len(sample) > 12 {
			sample = sample[:12]
		}
		fmt.Fprintf(out, "  %s %s\n", viz.KeyHint.Render(s.String()), string(sample))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.HeaderStyle.Render("directions"))
	names := make([]string, len(stream.Directions))
	for i, d := range stream.Directions {
		names[i] = d.String()
	}
	fmt.Fprintf(out, "  %s\n", strings.Join(names, ", "))

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.HeaderStyle.Render("keys"))
	for _, b := range input.Bindings {
		fmt.Fprintf(out, "  %s %s\n", viz.KeyHint.Render(b.Keys), b.Description)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPALETTE\tRUNES\tFPS\tDENSITY\tDIRECTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n", name, p.Palette, p.Runes, p.FPS, p.Density, p.Direction)
	}
	return w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	settings, s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	data, err := config.Marshal(config.FileFrom(settings, s))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func headless(cmd *cobra.Command, n int) (experiment.Config, error) {
	settings, s, err := resolveSettings(cmd)
	if err != nil {
		return experiment.Config{}, err
	}
	log.SetOutput(io.Discard)
	return experiment.Config{
		Settings: settings,
		Width:    width,
		Height:   height,
		Ticks:    n,
		Warmup:   warmup,
		Seed:     s,
	}, nil
}

func benchRain(cmd *cobra.Command, args []string) error {
	cfg, err := headless(cmd, ticks)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}
	cfg.TrackLanes = true

	registry := experiment.NewRegistry()
	start := time.Now()
	results, err := experiment.NewEnsemble(cfg, runs, registry).Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	if asJSON {
		return export.WriteJSON(out, export.NewBenchData(cfg, results))
	}
	if asSVG {
		stroke := palette.Table(cfg.Settings.Palette, palette.Levels).Hex()
		fmt.Fprintln(out, export.SeriesToSVG(results[0].Series, 0, 1, 800, 200, stroke))
		return nil
	}

	fmt.Fprintln(out, viz.Metric("grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)))
	fmt.Fprintln(out, viz.Metric("ticks", fmt.Sprintf("%d x %d runs", cfg.Ticks, runs)))
	fmt.Fprintln(out, viz.Metric("seed", fmt.Sprint(cfg.Seed)))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "target_density\t%.3f\n", cfg.Settings.Density)
	fmt.Fprintf(w, "steady_active\t%.3f\n", steadyMean(results, cfg.Warmup))
	for _, name := range registry.ListMetrics() {
		fmt.Fprintf(w, "%s\t%.4f\n", name, experiment.Mean(results, name))
	}
	fmt.Fprintf(w, "spawn_probability\t%.5f\n", results[0].SpawnProbability)
	fmt.Fprintf(w, "expected_lifetime\t%.2f\n", results[0].ExpectedLifetime)
	fmt.Fprintf(w, "lane_correlation\t%.4f\n", laneCorrelation(results))
	steady := results[0].Steady(cfg.Warmup)
	fmt.Fprintf(w, "dominant_period\t%.1f\n", analysis.DominantPeriod(steady))
	fmt.Fprintf(w, "peak_ratio\t%.2f\n", analysis.PeakRatio(steady))
	fmt.Fprintf(w, "ticks_per_sec\t%.0f\n", float64(cfg.Ticks*runs)/elapsed.Seconds())
	if err := w.Flush(); err != nil {
		return err
	}

	graph := asciigraph.Plot(results[0].Series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("active fraction per tick"),
	)
	fmt.Fprintln(out)
	fmt.Fprintln(out, graph)
	return nil
}

func steadyMean(results []*experiment.Result, warmup int) float64 {
	sum := 0.0
	for _, r := range results {
		sum += r.SteadyMean(warmup)
	}
	return sum / float64(len(results))
}

func laneCorrelation(results []*experiment.Result) float64 {
	sum := 0.0
	for _, r := range results {
		sum += r.LaneCorrelation
	}
	return sum / float64(len(results))
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	settings, s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	log.SetOutput(io.Discard)

	clock := sim.New(settings, sim.WithSeed(s))
	snaps, err := automation.RunScenario(cmd.Context(), scenario, clock)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tKEYS\tPALETTE\tRUNES\tFPS\tDENSITY\tDIRECTION\tACTIVE\tHUD")
	for _, snap := range snaps {
		keys := strings.Join(snap.Keys, " ")
		if snap.Quit {
			keys += " (quit)"
		}
		st := snap.Settings
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\t%s\t%.3f\t%v\n",
			snap.Tick, keys, st.Palette, st.RuneSet, st.FPS, st.Density, st.Direction,
			snap.Report.ActiveFraction(), snap.HUD.Visible)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := headless(cmd, ticks)
	if err != nil {
		return err
	}
	if sweepSteps < 1 {
		return fmt.Errorf("steps must be positive, got %d", sweepSteps)
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.DensitySweep{
		Base:     cfg,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DENSITY\tSTEADY\tERROR\tSPAWN_P\tLIFETIME")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%.3f\t%+.3f\t%.5f\t%.1f\n",
			r.Density, r.Steady, r.Steady-r.Density, r.SpawnProbability, r.ExpectedLifetime)
	}
	return w.Flush()
}

func printFrame(cmd *cobra.Command, args []string) error {
	cfg, err := headless(cmd, frameTicks)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return err
	}
	if _, err := exp.Run(cmd.Context()); err != nil {
		return err
	}

	frame := render.New().Render(exp.GetClock())
	if asSVG {
		fmt.Fprintln(cmd.OutOrStdout(), export.FrameToSVG(frame, 16))
		return nil
	}

	profile := termenv.EnvColorProfile()
	if plain {
		profile = termenv.Ascii
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.Join(frame, profile))
	return nil
}
