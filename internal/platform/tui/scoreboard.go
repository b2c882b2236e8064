package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

const (
	statsPanelMinWidth = 96 // Below this the site stats fold into one line
	statsPanelWidth    = 24
	recordLimit        = 100
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("94")).Padding(0, 1)
	boardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(9)
	boardWinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// recordKeys are the scoreboard bindings. They satisfy help.KeyMap.
type recordKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k recordKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Prev, k.Next, k.Back, k.Quit}
}

func (k recordKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newRecordKeys() recordKeys {
	return recordKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("→/tab", "next site")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev site")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "menu")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the best runs of one site at a time, next to that
// site's totals.
type ScoreboardModel struct {
	maps   []config.MapConfig
	site   int
	store  *storage.Store
	runs   []storage.Run
	stats  map[string]*storage.MapStats
	table  table.Model
	help   help.Model
	keys   recordKeys
	width  int
	height int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates the scoreboard starting at the first site.
func NewScoreboardModel(maps []config.MapConfig, store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		maps:   maps,
		store:  store,
		keys:   newRecordKeys(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		if stats, err := store.AllMapStats(); err == nil {
			m.stats = stats
		}
	}
	m.layout()
	m.selectSite(0)
	return m
}

func (m *ScoreboardModel) wide() bool { return m.width >= statsPanelMinWidth }

// withDate reports whether the table is wide enough for the date column.
func (m *ScoreboardModel) withDate() bool {
	avail := m.width - 4
	if m.wide() {
		avail -= statsPanelWidth + 4
	}
	return avail >= 60
}

// layout rebuilds the table for the current terminal size.
func (m *ScoreboardModel) layout() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Result", Width: 8},
		{Title: "Depth", Width: 7},
		{Title: "Oil", Width: 4},
		{Title: "Time", Width: 6},
	}
	if m.withDate() {
		cols = append(cols, table.Column{Title: "Drilled", Width: 12})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("94")).
		Bold(false)

	m.table = table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
		table.WithStyles(styles),
	)
	m.help.Width = m.width
	m.fillRows()
}

// selectSite switches to the site at index i and loads its records.
func (m *ScoreboardModel) selectSite(i int) {
	m.runs = nil
	if len(m.maps) == 0 {
		m.fillRows()
		return
	}
	m.site = (i + len(m.maps)) % len(m.maps)
	if m.store != nil {
		if runs, err := m.store.TopRuns(m.maps[m.site].ID, recordLimit); err == nil {
			m.runs = runs
		}
	}
	m.fillRows()
}

func (m *ScoreboardModel) fillRows() {
	date := m.withDate()
	rows := make([]table.Row, 0, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprint(i + 1),
			fmt.Sprint(r.Score),
			outcomeLabel(r.Outcome),
			fmt.Sprintf("%dm", int(r.Depth)),
			fmt.Sprint(r.Droplets),
			formatDuration(r.Duration),
		}
		if date {
			row = append(row, r.CreatedAt.Local().Format("Jan 02 15:04"))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func outcomeLabel(outcome string) string {
	if outcome == "WIN" {
		return "strike"
	}
	return "lost"
}

// formatDuration renders a run length as m:ss.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (m ScoreboardModel) Init() tea.Cmd { return nil }

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.selectSite(m.site + 1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.selectSite(m.site - 1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render("DRILLING RECORDS"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.siteTabs(), m.width))
	b.WriteString("\n\n")

	records := boardFrameStyle.Render(m.recordsView())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, records, "  ", boardFrameStyle.Render(m.statsPanel())))
	} else {
		b.WriteString(boardDimStyle.Render(m.statsLine()))
		b.WriteString("\n")
		b.WriteString(records)
	}

	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// siteTabs lists every site with the current one highlighted. It falls
// back to the current site alone when the tabs do not fit.
func (m ScoreboardModel) siteTabs() string {
	if len(m.maps) == 0 {
		return boardDimStyle.Render("no sites configured")
	}
	cur := m.maps[m.site]
	tabs := make([]string, len(m.maps))
	for i, mc := range m.maps {
		if i == m.site {
			tabs[i] = boardTabStyle.Render(mc.Title)
		} else {
			tabs[i] = boardDimStyle.Render(" " + mc.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = "‹ " + boardTabStyle.Render(cur.Title) + " ›"
	}
	return line
}

func (m ScoreboardModel) recordsView() string {
	if len(m.runs) == 0 {
		return boardDimStyle.Italic(true).Padding(1, 2).
			Render("No runs on this site yet.\nStrike oil to set a record!")
	}
	return m.table.View()
}

func (m ScoreboardModel) siteStats() storage.MapStats {
	if len(m.maps) == 0 {
		return storage.MapStats{}
	}
	if st, ok := m.stats[m.maps[m.site].ID]; ok && st != nil {
		return *st
	}
	return storage.MapStats{MapID: m.maps[m.site].ID}
}

// statsPanel is the side panel with the site's totals.
func (m ScoreboardModel) statsPanel() string {
	st := m.siteStats()
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(boardLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	if len(m.maps) > 0 {
		mc := m.maps[m.site]
		b.WriteString(boardTitleStyle.Render(mc.Subtitle))
		b.WriteString("\n")
		if t := mc.TargetLayer(); t >= 0 {
			row("Target", mc.Layers[t].Name)
		}
		row("Depth", mc.Depth)
		b.WriteString("\n")
	}

	row("Runs", fmt.Sprint(st.Runs))
	row("Strikes", boardWinStyle.Render(fmt.Sprint(st.Wins))+fmt.Sprintf(" (%s)", winRate(st)))
	row("Best", fmt.Sprint(st.HighScore))
	row("Average", fmt.Sprintf("%.0f", st.AvgScore))
	row("Deepest", fmt.Sprintf("%dm", int(st.MaxDepth)))
	if !st.LastPlayed.IsZero() {
		row("Last", st.LastPlayed.Local().Format("Jan 02"))
	}
	return lipgloss.NewStyle().Width(statsPanelWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// statsLine folds the side panel into one line for narrow terminals.
func (m ScoreboardModel) statsLine() string {
	st := m.siteStats()
	return fmt.Sprintf(" %d runs  %d strikes (%s)  best %d  deepest %dm",
		st.Runs, st.Wins, winRate(st), st.HighScore, int(st.MaxDepth))
}

func winRate(st storage.MapStats) string {
	if st.Runs == 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", st.Wins*100/st.Runs)
}

// IsGoingBack reports whether the player asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the player asked to quit.
func (m ScoreboardModel) IsQuitting() bool { return m.quitting }

// RunScoreboard shows the scoreboard until the player leaves. goBack is
// false when the player quit.
func RunScoreboard(maps []config.MapConfig, store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(maps, store, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
