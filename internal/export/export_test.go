package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/experiment"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/render"
)

func TestFrameToSVG(t *testing.T) {
	f := render.NewFrame(4, 3)
	f.Cells[1*4+2] = render.Cell{Rune: 'ᚠ', Color: palette.RGB{R: 0x12, G: 0xab, B: 0xff}, Level: palette.Levels}
	f.Cells[2*4+0] = render.Cell{Rune: '<', Color: palette.RGB{R: 1, G: 2, B: 3}, Level: 1}

	svg := FrameToSVG(f, 10)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="20" height="30"`)
	assert.Equal(t, 2, strings.Count(svg, "<text"))
	assert.Contains(t, svg, `fill="#12abff">ᚠ</text>`)
	assert.Contains(t, svg, "&lt;</text>")
}

func TestFrameToSVGEmpty(t *testing.T) {
	assert.Empty(t, FrameToSVG(nil, 10))
	assert.Empty(t, FrameToSVG(render.NewFrame(0, 0), 10))
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 0.5, 2}, 0, 1, 100, 50, "#00ff00")
	assert.Contains(t, svg, `d="M0.0,50.0 L50.0,25.0 L100.0,0.0"`)
	assert.Empty(t, SeriesToSVG([]float64{1}, 0, 1, 100, 50, "#fff"))
}

func TestBenchJSON(t *testing.T) {
	cfg := experiment.Config{
		Settings: config.DefaultSettings(),
		Width:    20,
		Height:   8,
		Ticks:    50,
		Seed:     3,
	}
	results := []*experiment.Result{
		{Series: []float64{0.1, 0.2}, Metrics: map[string]float64{"active_fraction": 0.2}, ExpectedLifetime: 12},
		{Series: []float64{0.3, 0.4}, Metrics: map[string]float64{"active_fraction": 0.4}, ExpectedLifetime: 12},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewBenchData(cfg, results)))

	var got BenchData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Runs)
	assert.Equal(t, "arcane", got.Palette)
	assert.InDelta(t, 0.3, got.Metrics["active_fraction"], 1e-9)
	assert.Equal(t, []float64{0.1, 0.2}, got.Series)
	assert.Equal(t, 12.0, got.Lifetime)
}
