package core

// Color represents a foreground color for a screen cell.
// Mapped to ANSI 256-color codes by the terminal renderer.
type Color uint8

// Palette used by the drill game.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
	ColorSlate  // rock
	ColorAmber  // drill body
	ColorPurple // powerup crystal
	ColorForest // cap rock in the reservoir
)
