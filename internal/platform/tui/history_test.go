package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/payout"
	"github.com/vovakirdan/tron-sweep/internal/storage"
)

func openHistoryStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rounds := []storage.Round{
		{ID: "a1", SessionID: "mine", Round: 1, Cost: 1000, Reward: 200, Win: 200, Balance: 1200, Won: true,
			Matches: []payout.WinningCell{{Type: board.Program, Count: 10}},
			Badges:  payout.BadgeCounts{payout.BadgeDouble: 1}},
		{ID: "a2", SessionID: "mine", Round: 2, Cost: 1000, Balance: 200},
		{ID: "b1", SessionID: "other", Round: 1, Cost: 1000, Balance: 1000},
	}
	for _, r := range rounds {
		if err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound: %v", err)
		}
	}
	return store
}

func TestHistoryModelScopes(t *testing.T) {
	store := openHistoryStore(t)

	m := NewHistoryModel(store, "mine", 120, 40)
	if m.allSessions || len(m.rounds) != 2 || m.stats.Rounds != 2 {
		t.Fatalf("session scope: all=%t rounds=%d", m.allSessions, len(m.rounds))
	}
	view := m.View()
	if !strings.Contains(view, "THIS SESSION") || !strings.Contains(view, "program x10") {
		t.Errorf("session view missing content:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if !m.allSessions || len(m.rounds) != 3 {
		t.Fatalf("all scope: all=%t rounds=%d", m.allSessions, len(m.rounds))
	}
	if !strings.Contains(m.View(), "ALL SESSIONS") {
		t.Error("all-sessions title missing")
	}
}

func TestHistoryModelBackAndQuit(t *testing.T) {
	m := NewHistoryModel(nil, "", 80, 24)
	if !strings.Contains(m.View(), "no database") {
		t.Error("missing store notice")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(HistoryModel).IsGoingBack() {
		t.Error("esc should go back")
	}

	next, cmd := m.Update(runeKey('q'))
	if !next.(HistoryModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestHistoryModelEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	m := NewHistoryModel(store, "", 60, 20)
	if !strings.Contains(m.View(), "No rounds recorded yet") {
		t.Error("empty history notice missing")
	}
}
