package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/loop"
	"github.com/vovakirdan/oil-strike/internal/sim"
)

// One terminal cell stands for a cellPxW x cellPxH block of logical pixels,
// roughly the aspect of a monospace glyph.
const (
	cellPxW = 12.0
	cellPxH = 24.0

	hudRows     = 2
	minCols     = 24
	minPlayRows = 8
)

// Field draws simulation snapshots into a terminal screen buffer. The top
// rows show the play area and the bottom rows the HUD. It implements
// loop.ResettableSurface.
type Field struct {
	screen *core.Screen
	title  string
	layers []config.Layer
	dip    float64 // Degrees

	geosteering bool // Strata are drawn once the reservoir is reached
}

var _ loop.ResettableSurface = (*Field)(nil)

// NewField creates a field for a terminal of cols x rows cells.
func NewField(cols, rows int, m config.MapConfig) *Field {
	return &Field{
		screen: core.NewScreen(cols, rows),
		title:  m.Title,
		layers: m.Layers,
		dip:    m.DipAngle,
	}
}

// Screen returns the buffer the field draws into.
func (f *Field) Screen() *core.Screen { return f.screen }

// Resize follows the terminal size.
func (f *Field) Resize(cols, rows int) {
	f.screen.Resize(cols, rows)
}

// Viewport returns the play area in logical pixels. It is unavailable while
// the terminal is too small to play in.
func (f *Field) Viewport() (core.Viewport, bool) {
	cols, rows := f.screen.Width(), f.screen.Height()-hudRows
	if cols < minCols || rows < minPlayRows {
		return core.Viewport{}, false
	}
	return core.Viewport{W: float64(cols) * cellPxW, H: float64(rows) * cellPxH}, true
}

// Reset clears the buffer after the viewport changed.
func (f *Field) Reset(core.Viewport) {
	f.screen.Clear()
}

// Draw paints a full frame: background, obstacles, drill and HUD.
func (f *Field) Draw(snap sim.Snapshot, hud loop.HUD) {
	switch snap.Phase {
	case sim.PhaseVertical:
		f.geosteering = false
	case sim.PhaseHorizontal:
		f.geosteering = true
	}

	f.screen.Clear()
	if f.geosteering {
		f.drawStrata(snap)
	} else {
		f.drawRockTexture(snap)
	}

	for _, p := range snap.Trail {
		f.plot(p, '·', core.ColorAmber)
	}
	for _, o := range snap.Obstacles {
		f.drawObstacle(o)
	}
	f.drawDrill(snap)
	f.DrawHUD(hud)
}

func (f *Field) playRows() int { return f.screen.Height() - hudRows }

// playArea is the part of the screen above the HUD.
func (f *Field) playArea() core.Rect {
	return core.NewRect(0, 0, f.screen.Width(), f.playRows())
}

func cellOf(p core.Vec2) (int, int) {
	return int(math.Floor(p.X / cellPxW)), int(math.Floor(p.Y / cellPxH))
}

func (f *Field) plot(p core.Vec2, r rune, c core.Color) {
	x, y := cellOf(p)
	if f.playArea().Contains(x, y) {
		f.screen.SetColored(x, y, r, c)
	}
}

// drawRockTexture scatters grains that scroll up with the descent.
func (f *Field) drawRockTexture(snap sim.Snapshot) {
	offset := int(snap.Scroll / cellPxH)
	for y := range f.playRows() {
		for x := range f.screen.Width() {
			h := uint32(x)*73856093 ^ uint32(y+offset)*19349663
			if h%23 == 0 {
				f.screen.SetColored(x, y, '.', core.ColorGray)
			}
		}
	}
}

// drawStrata fills the play area with the map's layers, tilted by the dip.
func (f *Field) drawStrata(snap sim.Snapshot) {
	if len(f.layers) == 0 {
		return
	}
	vp := snap.Viewport
	slope := math.Tan(f.dip * math.Pi / 180)

	var total float64
	for _, l := range f.layers {
		total += l.Height
	}
	if total <= 0 {
		return
	}

	for x := range f.screen.Width() {
		px := (float64(x) + 0.5) * cellPxW
		shift := (px - vp.W/2) * slope
		for y := range f.playRows() {
			py := (float64(y)+0.5)*cellPxH - shift
			l := f.layerAt(py/vp.H*total, total)
			r := '░'
			if l.Target {
				r = '▒'
			}
			f.screen.SetColored(x, y, r, layerColor(l.Color))
		}
	}
}

// layerAt returns the layer covering a position measured in layer units.
func (f *Field) layerAt(pos, total float64) config.Layer {
	if pos < 0 {
		return f.layers[0]
	}
	var top float64
	for _, l := range f.layers {
		top += l.Height
		if pos < top {
			return l
		}
	}
	return f.layers[len(f.layers)-1]
}

func obstacleGlyph(k sim.Kind) (rune, core.Color) {
	switch k {
	case sim.KindMagma:
		return '▓', core.ColorBrightRed
	case sim.KindPowerup:
		return '◆', core.ColorPurple
	case sim.KindCoin:
		return '●', core.ColorBrightYellow
	default:
		return '█', core.ColorSlate
	}
}

// drawObstacle fills every cell whose centre lies inside the circle. The
// centre cell is always drawn so small objects stay visible.
func (f *Field) drawObstacle(o sim.Obstacle) {
	r, c := obstacleGlyph(o.Kind)
	x0, y0 := cellOf(core.Vec2{X: o.Pos.X - o.Radius, Y: o.Pos.Y - o.Radius})
	x1, y1 := cellOf(core.Vec2{X: o.Pos.X + o.Radius, Y: o.Pos.Y + o.Radius})

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			centre := core.Vec2{X: (float64(x) + 0.5) * cellPxW, Y: (float64(y) + 0.5) * cellPxH}
			if core.Distance(centre, o.Pos) <= o.Radius {
				f.plot(centre, r, c)
			}
		}
	}
	f.plot(o.Pos, r, c)
}

// drawDrill draws the drill string and head. The bit points down while
// descending and right while geosteering.
func (f *Field) drawDrill(snap sim.Snapshot) {
	p := snap.Player
	x0, y0 := cellOf(core.Vec2{X: p.Pos.X - p.HalfW, Y: p.Pos.Y - p.HalfH})
	x1, y1 := cellOf(core.Vec2{X: p.Pos.X + p.HalfW, Y: p.Pos.Y + p.HalfH})
	cx, cy := cellOf(p.Pos)

	if !f.geosteering {
		for y := 0; y < y0; y++ {
			f.screen.SetColored(cx, y, '│', core.ColorGray)
		}
	}
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= f.playRows() {
			continue
		}
		for x := x0; x <= x1; x++ {
			f.screen.SetColored(x, y, '█', core.ColorAmber)
		}
	}

	if f.geosteering {
		if cy >= 0 && cy < f.playRows() {
			f.screen.SetColored(x1+1, cy, '►', core.ColorAmber)
		}
		return
	}
	if y1+1 < f.playRows() {
		f.screen.SetColored(cx, y1+1, 'V', core.ColorAmber)
	}
}

// DrawHUD paints the separator and status line under the play area.
func (f *Field) DrawHUD(hud loop.HUD) {
	row := f.playRows()
	if row < 0 {
		return
	}
	w := f.screen.Width()
	f.screen.DrawHLine(0, row, w, '─', core.ColorGray)
	f.screen.DrawHLine(0, row+1, w, ' ', core.ColorDefault)

	x := 1
	put := func(text string, c core.Color) {
		f.screen.DrawText(x, row+1, text, c)
		x += len([]rune(text))
	}

	put(f.title, core.ColorAmber)
	put(fmt.Sprintf("  DEPTH %dm", int(hud.Depth)), core.ColorDefault)
	put(fmt.Sprintf("  SCORE %d", hud.Score), core.ColorDefault)
	put("  HULL ", core.ColorDefault)
	put(healthBar(hud.Health), healthColor(hud.Health))

	if hud.Phase == sim.PhaseHorizontal || (f.geosteering && hud.Phase.IsTerminal()) {
		if hud.Target > 0 {
			put(fmt.Sprintf("  OIL %d/%d", hud.Droplets, hud.Target), core.ColorBrightYellow)
		} else {
			put(fmt.Sprintf("  OIL %d", hud.Droplets), core.ColorBrightYellow)
		}
		if hud.TimeLeft > 0 || hud.Phase == sim.PhaseHorizontal {
			c := core.ColorDefault
			if hud.TimeLeft <= 10 {
				c = core.ColorBrightRed
			}
			put(fmt.Sprintf("  TIME %ds", hud.TimeLeft), c)
		}
	}
	if hud.Paused {
		put("  PAUSED", core.ColorYellow)
	}
}

func healthBar(health float64) string {
	filled := int(math.Ceil(health / 10))
	filled = core.Clamp(filled, 0, 10)
	return strings.Repeat("■", filled) + strings.Repeat("□", 10-filled)
}

func healthColor(health float64) core.Color {
	switch {
	case health > 50:
		return core.ColorGreen
	case health > 25:
		return core.ColorYellow
	default:
		return core.ColorRed
	}
}

// DrawOverlay draws a centred box with the given lines over the play area.
func (f *Field) DrawOverlay(lines []string, c core.Color) {
	inner := 0
	for _, l := range lines {
		inner = core.Max(inner, len([]rune(l)))
	}
	w, h := inner+4, len(lines)+2
	x := (f.screen.Width() - w) / 2
	y := (f.playRows() - h) / 2
	if y < 0 {
		y = 0
	}

	f.screen.DrawRect(core.NewRect(x, y, w, h), ' ', core.ColorDefault)
	f.screen.DrawBox(core.NewRect(x, y, w, h), c)
	for i, l := range lines {
		pad := (inner - len([]rune(l))) / 2
		f.screen.DrawText(x+2+pad, y+1+i, l, c)
	}
}

// DrawMessage clears the screen and centres a message on it. Lines wider
// than the screen are word-wrapped; rows past the bottom are dropped.
func (f *Field) DrawMessage(lines ...string) {
	f.screen.Clear()
	w := f.screen.Width()
	if w <= 0 {
		return
	}

	text := lipgloss.NewStyle().Width(w).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	rows := strings.Split(text, "\n")
	top := max((f.screen.Height()-len(rows))/2, 0)
	for i, r := range rows {
		f.screen.DrawText(0, top+i, r, core.ColorGray)
	}
}
