package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a player intent derived from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionSweep
	ActionPause
	ActionNextGame
	ActionRestart
	ActionHistory
	ActionHelp
	ActionBack
	ActionQuit
)

// GameKeyMap defines the key bindings of the game screen.
type GameKeyMap struct {
	Sweep    key.Binding
	Pause    key.Binding
	NextGame key.Binding
	Restart  key.Binding
	History  key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sweep, k.Pause, k.NextGame, k.History, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Sweep, k.Pause, k.NextGame, k.Restart},
		{k.History, k.Back, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Sweep: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space/s", "sweep"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n/enter", "next game"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to an action.
func (k GameKeyMap) MapKey(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.Sweep):
		return ActionSweep
	case key.Matches(msg, k.Pause):
		return ActionPause
	case key.Matches(msg, k.NextGame):
		return ActionNextGame
	case key.Matches(msg, k.Restart):
		return ActionRestart
	case key.Matches(msg, k.History):
		return ActionHistory
	case key.Matches(msg, k.Help):
		return ActionHelp
	case key.Matches(msg, k.Back):
		return ActionBack
	}
	return ActionNone
}
