// Package tui provides the Bubble Tea front end for animal-merge.
// It handles the terminal UI loop, input mapping, mode clocks and record
// saving; all game rules live in the engine.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clockInterval is how often timed modes refresh their countdown.
const clockInterval = 250 * time.Millisecond

// TickMsg is sent to refresh the clock of a timed mode.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
