package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one update of the input core.
type TickMsg time.Time

// TickCmd schedules the next tick after interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
