package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestGameKeyMapMapKey(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Action
	}{
		{"space sweeps", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ActionSweep},
		{"s sweeps", runeKey('s'), ActionSweep},
		{"p pauses", runeKey('p'), ActionPause},
		{"n next game", runeKey('n'), ActionNextGame},
		{"enter next game", tea.KeyMsg{Type: tea.KeyEnter}, ActionNextGame},
		{"r restarts", runeKey('r'), ActionRestart},
		{"h history", runeKey('h'), ActionHistory},
		{"? help", runeKey('?'), ActionHelp},
		{"esc back", tea.KeyMsg{Type: tea.KeyEsc}, ActionBack},
		{"q quits", runeKey('q'), ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
		{"unbound", runeKey('x'), ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestGameKeyMapHelpCoversBindings(t *testing.T) {
	keys := DefaultGameKeyMap()
	n := 0
	for _, col := range keys.FullHelp() {
		n += len(col)
	}
	if n != 8 {
		t.Errorf("full help lists %d bindings, want 8", n)
	}
	if len(keys.ShortHelp()) == 0 {
		t.Error("short help is empty")
	}
}
