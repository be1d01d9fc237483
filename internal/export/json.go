package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/runefall/internal/experiment"
)

// BenchData is the machine-readable form of a bench run.
type BenchData struct {
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Ticks    int                `json:"ticks"`
	Warmup   int                `json:"warmup"`
	Runs     int                `json:"runs"`
	Seed     int64              `json:"seed"`
	Palette  string             `json:"palette"`
	Runes    string             `json:"runes"`
	FPS      int                `json:"fps"`
	Density  float64            `json:"density"`
	Metrics  map[string]float64 `json:"metrics"`
	Series   []float64          `json:"series"`
	Lifetime float64            `json:"expected_lifetime"`
	SpawnP   float64            `json:"spawn_probability"`
}

// NewBenchData averages each metric across results; the series is the
// first run's.
func NewBenchData(cfg experiment.Config, results []*experiment.Result) BenchData {
	data := BenchData{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Ticks:   cfg.Ticks,
		Warmup:  cfg.Warmup,
		Runs:    len(results),
		Seed:    cfg.Seed,
		Palette: cfg.Settings.Palette.String(),
		Runes:   cfg.Settings.RuneSet.String(),
		FPS:     cfg.Settings.FPS,
		Density: cfg.Settings.Density,
		Metrics: make(map[string]float64),
	}
	if len(results) == 0 {
		return data
	}

	for name := range results[0].Metrics {
		data.Metrics[name] = experiment.Mean(results, name)
	}
	data.Series = results[0].Series
	data.Lifetime = results[0].ExpectedLifetime
	data.SpawnP = results[0].SpawnProbability
	return data
}

func WriteJSON(w io.Writer, data BenchData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
