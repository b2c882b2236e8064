// Package tui hosts the drilling game in a terminal with Bubble Tea. It maps
// keys to drill actions, fires the frame scheduler on a ticker and renders
// the field, menu and scoreboard screens.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to fire the pending frame callbacks.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the given
// frame rate.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
