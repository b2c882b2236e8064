package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/core"
	"github.com/vovakirdan/oil-strike/internal/loop"
	"github.com/vovakirdan/oil-strike/internal/sim"
)

func testMap() config.MapConfig {
	return config.MapConfig{
		ID:         "zone-a",
		Title:      "BEGINNER",
		Subtitle:   "LEVEL 01",
		Difficulty: config.DifficultyEasy,
		Stars:      1,
		Depth:      "2,500m",
		Layers: []config.Layer{
			{Name: "Sandstone", Color: "#c2410c", Height: 50},
			{Name: "Shale", Color: "#059669", Height: 50, Target: true},
		},
	}
}

func TestFieldViewport(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		expected   core.Viewport
		ok         bool
	}{
		{"standard terminal", 80, 24, core.Viewport{W: 960, H: 528}, true},
		{"too narrow", minCols - 1, 24, core.Viewport{}, false},
		{"too short", 80, minPlayRows + hudRows - 1, core.Viewport{}, false},
		{"smallest playable", minCols, minPlayRows + hudRows, core.Viewport{W: 288, H: 192}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(tt.cols, tt.rows, testMap())
			vp, ok := f.Viewport()
			if vp != tt.expected || ok != tt.ok {
				t.Errorf("Viewport() = (%v, %v), expected (%v, %v)", vp, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestFieldResizeChangesViewport(t *testing.T) {
	f := NewField(10, 5, testMap())
	if _, ok := f.Viewport(); ok {
		t.Fatal("Viewport() ok on a tiny terminal, expected unavailable")
	}

	f.Resize(80, 24)
	vp, ok := f.Viewport()
	if !ok || vp.W != 960 {
		t.Errorf("Viewport() after resize = (%v, %v), expected (960x528, true)", vp, ok)
	}
}

func verticalSnapshot() sim.Snapshot {
	return sim.Snapshot{
		Phase:    sim.PhaseVertical,
		Viewport: core.Viewport{W: 960, H: 528},
		Scale:    528.0 / 1080,
		Health:   80,
		Depth:    57.9,
		Score:    1200,
		Player: sim.Player{
			Pos:   core.Vec2{X: 480, Y: 132},
			HalfW: 10,
			HalfH: 15,
		},
		Obstacles: []sim.Obstacle{
			{ID: 1, Pos: core.Vec2{X: 126, Y: 300}, Kind: sim.KindRock, Radius: 30},
			{ID: 2, Pos: core.Vec2{X: 606, Y: 396}, Kind: sim.KindPowerup, Radius: 5},
		},
	}
}

func TestFieldDrawVertical(t *testing.T) {
	f := NewField(80, 24, testMap())
	snap := verticalSnapshot()
	f.Draw(snap, loop.HUD{Score: 1200, Depth: 57.9, Health: 80, Phase: sim.PhaseVertical})

	s := f.Screen()
	checks := []struct {
		name  string
		x, y  int
		rune  rune
		color core.Color
	}{
		{"drill body", 40, 5, '█', core.ColorAmber},
		{"drill string", 40, 1, '│', core.ColorGray},
		{"drill bit", 40, 7, 'V', core.ColorAmber},
		{"rock centre", 10, 12, '█', core.ColorSlate},
		{"powerup", 50, 16, '◆', core.ColorPurple},
		{"hud separator", 0, 22, '─', core.ColorGray},
	}
	for _, c := range checks {
		cell := s.GetCell(c.x, c.y)
		if cell.Rune != c.rune || cell.Color != c.color {
			t.Errorf("%s: GetCell(%d, %d) = (%q, %v), expected (%q, %v)", c.name, c.x, c.y, cell.Rune, cell.Color, c.rune, c.color)
		}
	}

	hud := s.Row(23)
	for _, want := range []string{"BEGINNER", "DEPTH 57m", "SCORE 1200", "HULL"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD row = %q, expected it to contain %q", hud, want)
		}
	}
	if strings.Contains(hud, "OIL") {
		t.Errorf("HUD row = %q, expected no oil counter while descending", hud)
	}
}

func TestFieldDrawHorizontalStrata(t *testing.T) {
	f := NewField(80, 24, testMap())
	snap := sim.Snapshot{
		Phase:    sim.PhaseHorizontal,
		Viewport: core.Viewport{W: 960, H: 528},
		Scale:    528.0 / 1080,
		Health:   100,
		Player: sim.Player{
			Pos:   core.Vec2{X: 120, Y: 264},
			HalfW: 7,
			HalfH: 7,
		},
		Trail: []core.Vec2{{X: 60, Y: 264}, {X: 84, Y: 264}},
		Obstacles: []sim.Obstacle{
			{ID: 9, Pos: core.Vec2{X: 606, Y: 276}, Kind: sim.KindCoin, Radius: 5},
		},
	}
	f.Draw(snap, loop.HUD{Phase: sim.PhaseHorizontal, Health: 100, Droplets: 3, Target: 25, TimeLeft: 42})

	s := f.Screen()
	checks := []struct {
		name  string
		x, y  int
		rune  rune
		color core.Color
	}{
		{"upper layer", 0, 0, '░', core.ColorOrange},
		{"target layer", 0, 21, '▒', core.ColorForest},
		{"drill head", 10, 11, '█', core.ColorAmber},
		{"drill tip", 11, 11, '►', core.ColorAmber},
		{"trail", 5, 11, '·', core.ColorAmber},
		{"coin", 50, 11, '●', core.ColorBrightYellow},
	}
	for _, c := range checks {
		cell := s.GetCell(c.x, c.y)
		if cell.Rune != c.rune || cell.Color != c.color {
			t.Errorf("%s: GetCell(%d, %d) = (%q, %v), expected (%q, %v)", c.name, c.x, c.y, cell.Rune, cell.Color, c.rune, c.color)
		}
	}

	hud := s.Row(23)
	for _, want := range []string{"OIL 3/25", "TIME 42s"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD row = %q, expected it to contain %q", hud, want)
		}
	}
}

func TestFieldOverlay(t *testing.T) {
	f := NewField(80, 24, testMap())
	f.Draw(verticalSnapshot(), loop.HUD{Phase: sim.PhaseVertical, Health: 100})
	f.DrawOverlay([]string{"PAUSED", "", "P resume"}, core.ColorYellow)

	found := false
	for y := range f.Screen().Height() {
		if strings.Contains(f.Screen().Row(y), "PAUSED") {
			found = true
		}
	}
	if !found {
		t.Error("DrawOverlay() did not draw its first line")
	}
}

func TestFieldMessageWrapsToWidth(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		lines      []string
		expected   []string
	}{
		{"fits", 40, 5, []string{"Rigging up..."}, []string{"Rigging up..."}},
		{"wraps words", 10, 5, []string{"Terminal too small", "Enlarge to drill"}, []string{"Terminal", "too small", "Enlarge to", "drill"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(tt.cols, tt.rows, testMap())
			f.DrawMessage(tt.lines...)

			var got []string
			for y := range f.Screen().Height() {
				if row := strings.TrimSpace(f.Screen().Row(y)); row != "" {
					got = append(got, row)
				}
			}
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("DrawMessage() rows = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLayerColor(t *testing.T) {
	tests := []struct {
		hex      string
		expected core.Color
	}{
		{"#c2410c", core.ColorOrange},
		{"#059669", core.ColorForest},
		{"#1e3a8a", core.ColorBlue},
		{"1e3a8a", core.ColorBlue},
		{"#fff", core.ColorGray},
		{"#zzzzzz", core.ColorGray},
	}

	for _, tt := range tests {
		if got := layerColor(tt.hex); got != tt.expected {
			t.Errorf("layerColor(%q) = %v, expected %v", tt.hex, got, tt.expected)
		}
	}
}

func TestHealthBar(t *testing.T) {
	tests := []struct {
		health float64
		filled int
	}{
		{100, 10},
		{55, 6},
		{10, 1},
		{0, 0},
		{-5, 0},
		{140, 10},
	}

	for _, tt := range tests {
		bar := healthBar(tt.health)
		if got := strings.Count(bar, "■"); got != tt.filled {
			t.Errorf("healthBar(%v) has %d filled segments, expected %d", tt.health, got, tt.filled)
		}
		if got := len([]rune(bar)); got != 10 {
			t.Errorf("healthBar(%v) length = %d, expected 10", tt.health, got)
		}
	}
}

func TestRenderScreenKeepsGeometry(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab", core.ColorDefault)
	s.DrawText(2, 0, "cd", core.ColorRed)
	s.DrawText(0, 1, "xyz", core.ColorAmber)

	lines := strings.Split(RenderScreen(s), "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, expected 2", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 6 {
			t.Errorf("line %d width = %d, expected 6", i, w)
		}
	}
}
