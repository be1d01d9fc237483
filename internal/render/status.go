package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/sim"
)

const (
	statusGrey    = 150
	statusGreyMin = 50
)

// Status is the HUD text. fps is passed separately so a front-end can show
// the rate it actually achieves.
func Status(s config.Settings, fps int) string {
	return fmt.Sprintf(" ᛟ %s | %s | %d FPS | Density: %.2f ", s.RuneSet.Name(), s.Palette.Name(), fps, s.Density)
}

// StatusBrightness is the grey level of the HUD text, 0 when hidden. It dims
// linearly over the final fade window.
func StatusBrightness(hud sim.HUDState) uint8 {
	if !hud.Visible {
		return 0
	}
	if hud.Total == 0 || hud.Fade <= 0 || hud.Remaining >= hud.Fade {
		return statusGrey
	}
	return uint8(statusGreyMin + (statusGrey-statusGreyMin)*hud.Remaining/hud.Fade)
}

func StatusColor(hud sim.HUDState) palette.RGB {
	b := StatusBrightness(hud)
	return palette.RGB{R: b, G: b, B: b}
}

// StatusLine fits text into the bottom-right corner of a width-wide screen
// and returns the column it starts at.
func StatusLine(text string, width int) (string, int) {
	if width <= 0 {
		return "", 0
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "")
	}
	return text, width - runewidth.StringWidth(text)
}
