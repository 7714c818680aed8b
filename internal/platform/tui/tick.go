// Package tui provides the Bubble Tea integration for the snake game.
// It handles the terminal UI loop, input mapping, and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game tick. Gen identifies the tick loop that
// scheduled it; ticks from a stopped loop are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd returns a command that sends one TickMsg after interval.
func tickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// statusExpiredMsg clears the status line if it still shows message id.
type statusExpiredMsg struct {
	id int
}

func statusCmd(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}
