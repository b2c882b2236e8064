package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuStarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const strataPreviewWidth = 36

// MenuItem is one drilling site in the picker.
type MenuItem struct {
	Map       config.MapConfig
	HighScore int
	Runs      int
	Wins      int
}

type menuOutcome int

const (
	menuBrowsing menuOutcome = iota
	menuDrill
	menuScores
	menuQuit
)

// MenuModel is the site picker. It ends its program once the player picks
// a site, opens the scoreboard or quits.
type MenuModel struct {
	items   []MenuItem
	cursor  int
	width   int
	height  int
	keys    *KeyMapper
	outcome menuOutcome
}

// NewMenuModel creates the picker. Per-site stats come from store when one
// is available.
func NewMenuModel(maps []config.MapConfig, store *storage.Store, width, height int) MenuModel {
	var stats map[string]*storage.MapStats
	if store != nil {
		stats, _ = store.AllMapStats()
	}

	items := make([]MenuItem, len(maps))
	for i, mc := range maps {
		items[i].Map = mc
		if st := stats[mc.ID]; st != nil {
			items[i].HighScore, items[i].Runs, items[i].Wins = st.HighScore, st.Runs, st.Wins
		}
	}
	return MenuModel{items: items, width: width, height: height, keys: NewKeyMapper()}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Digits jump straight to a site
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(m.items) {
			m.cursor = i
			m.outcome = menuDrill
			return m, tea.Quit
		}
		return m, nil
	}

	n := len(m.items)
	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionUp:
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case MenuActionDown:
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case MenuActionSelect:
		if n > 0 {
			m.outcome = menuDrill
			return m, tea.Quit
		}
	case MenuActionScoreboard:
		m.outcome = menuScores
		return m, tea.Quit
	case MenuActionQuit:
		m.outcome = menuQuit
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.outcome == menuQuit {
		return ""
	}

	lines := []string{
		"",
		menuTitleStyle.Render("O I L   S T R I K E"),
		"",
		menuDimStyle.Render("Choose a drilling site"),
		"",
	}
	for i, item := range m.items {
		lines = append(lines, m.siteLine(i, item))
	}

	if len(m.items) > 0 {
		sel := m.items[m.cursor]
		lines = append(lines, "", strataPreview(sel.Map), menuDimStyle.Render(siteDetail(sel)))
	} else {
		lines = append(lines, menuDimStyle.Render("No sites configured"))
	}

	lines = append(lines, "", "↑/↓ site   Enter or 1-9 drill   Tab records   Q quit")

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MenuModel) siteLine(i int, item MenuItem) string {
	marker, style := "  ", lipgloss.NewStyle()
	if i == m.cursor {
		marker, style = "▸ ", menuSelectedStyle
	}
	n := max(0, min(item.Map.Stars, 3))
	stars := strings.Repeat("★", n) + strings.Repeat("☆", 3-n)

	name := fmt.Sprintf("%s%d %-13s %-9s", marker, i+1, item.Map.Title, item.Map.Subtitle)
	info := fmt.Sprintf("  %-8s %-7s best %d", item.Map.Depth, item.Map.Difficulty, item.HighScore)
	return style.Render(name) + " " + menuStarStyle.Render(stars) + menuDimStyle.Render(info)
}

func siteDetail(item MenuItem) string {
	detail := fmt.Sprintf("%d runs, %d strikes", item.Runs, item.Wins)
	if t := item.Map.TargetLayer(); t >= 0 {
		detail = fmt.Sprintf("Reservoir: %s   dip %.0f°   %s", item.Map.Layers[t].Name, item.Map.DipAngle, detail)
	}
	return detail
}

// strataPreview draws the site's layers side by side, each as wide as its
// share of the section. The reservoir is shaded darker.
func strataPreview(mc config.MapConfig) string {
	var total float64
	for _, l := range mc.Layers {
		total += l.Height
	}
	if total <= 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	for i, l := range mc.Layers {
		w := int(math.Round(l.Height / total * strataPreviewWidth))
		if i == len(mc.Layers)-1 {
			w = strataPreviewWidth - used
		}
		w = max(w, 0)
		used += w

		glyph := "░"
		if l.Target {
			glyph = "▒"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render(strings.Repeat(glyph, w)))
	}
	return b.String()
}

// Selected returns the picked site, or nil.
func (m MenuModel) Selected() *MenuItem {
	if m.outcome != menuDrill || len(m.items) == 0 {
		return nil
	}
	item := m.items[m.cursor]
	return &item
}

// IsQuitting reports whether the player quit from the menu.
func (m MenuModel) IsQuitting() bool { return m.outcome == menuQuit }

// WantsScoreboard reports whether the player asked for the records.
func (m MenuModel) WantsScoreboard() bool { return m.outcome == menuScores }

// Size returns the last known terminal size.
func (m MenuModel) Size() (width, height int) { return m.width, m.height }

// centerText pads text so it sits in the middle of width columns. Styled
// text is measured without its escape sequences.
func centerText(text string, width int) string {
	visible := lipgloss.Width(text)
	if visible >= width {
		return text
	}
	return strings.Repeat(" ", (width-visible)/2) + text
}

// MenuResult is what the player chose in the menu.
type MenuResult struct {
	Map             config.MapConfig
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the picker in the local terminal.
func RunMenu(maps []config.MapConfig, store *storage.Store, width, height int) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(maps, store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	res := MenuResult{}
	res.Width, res.Height = m.Size()
	switch {
	case m.WantsScoreboard():
		res.WantsScoreboard = true
	case m.Selected() != nil:
		res.Map = m.Selected().Map
	default:
		res.Quit = true
	}
	return res, nil
}
