package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/render"
	"github.com/san-kum/runefall/internal/sim"
)

var (
	// HUD text on the bottom row; the foreground is set per frame as it fades.
	statusStyle = lipgloss.NewStyle()

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	KeyHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(20)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(18)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)
)

// Metric renders one label/value pair for summaries.
func Metric(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// Accent is the head glow of a palette as a lipgloss colour, for headers and
// swatches in listings.
func Accent(p palette.Palette) lipgloss.Color {
	return lipgloss.Color(palette.Table(p, palette.Levels).Hex())
}

// Swatch renders one block per intensity level, head first.
func Swatch(p palette.Palette) string {
	out := ""
	for level := palette.Levels; level >= 1; level-- {
		var c palette.RGB
		switch p {
		case palette.Rainbow:
			c = palette.RainbowColor(0, level*6, level)
		case palette.BlinkingRainbow:
			c = palette.BlinkColor(0, 0, level, 0, level)
		default:
			c = palette.Table(p, level)
		}
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█")
	}
	return out
}

// StatusView styles the HUD text at its current brightness.
func StatusView(text string, hud sim.HUDState) string {
	return statusStyle.Foreground(lipgloss.Color(render.StatusColor(hud).Hex())).Render(text)
}
