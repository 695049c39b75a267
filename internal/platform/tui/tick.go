// Package tui provides the Bubble Tea host for the bouncing-box game.
// It drives the engine clock, maps keys and mouse clicks, renders the arena
// and routes between the menu, game, profile, settings and records screens.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick. Session tags the game that
// scheduled it so a stale tick chain from a previous game is dropped.
type TickMsg struct {
	Session string
	At      time.Time
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(session string, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Session: session, At: t}
	})
}
