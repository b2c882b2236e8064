package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oil-strike/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorSlate:        lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
	core.ColorAmber:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	core.ColorPurple:       lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	core.ColorForest:       lipgloss.NewStyle().Foreground(lipgloss.Color("29")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// paletteRGB approximates each stratum-capable palette entry in RGB.
var paletteRGB = []struct {
	color   core.Color
	r, g, b int
}{
	{core.ColorOrange, 0xd7, 0x5f, 0x00},
	{core.ColorYellow, 0xc0, 0xa0, 0x00},
	{core.ColorForest, 0x00, 0x87, 0x5f},
	{core.ColorGreen, 0x00, 0xa0, 0x00},
	{core.ColorGray, 0x8a, 0x8a, 0x8a},
	{core.ColorSlate, 0x5f, 0x5f, 0x87},
	{core.ColorBlue, 0x1e, 0x3a, 0x8a},
	{core.ColorRed, 0xa0, 0x00, 0x00},
	{core.ColorPurple, 0xaf, 0x5f, 0xff},
}

// layerColor maps a "#rrggbb" layer colour to the nearest palette colour.
// Unparseable values fall back to gray.
func layerColor(hex string) core.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return core.ColorGray
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return core.ColorGray
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best, bestDist := core.ColorGray, -1
	for _, p := range paletteRGB {
		dr, dg, db := r-p.r, g-p.g, b-p.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.color, d
		}
	}
	return best
}
