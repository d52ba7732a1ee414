package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

func TestTierRange(t *testing.T) {
	tests := []struct {
		tier payout.Tier
		want string
	}{
		{payout.Tier{Min: 10, Max: 15}, "10-14"},
		{payout.Tier{Min: 20}, "20+"},
		{payout.Tier{Min: 7, Max: 8}, "7"},
	}
	for _, tt := range tests {
		if got := tierRange(tt.tier); got != tt.want {
			t.Errorf("tierRange(%+v) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestRenderCell(t *testing.T) {
	hidden := renderCell(board.CellState{Type: board.Flynn, BaseValue: 1000}, false)
	if strings.Contains(hidden, "FLYNN") {
		t.Error("hidden cell leaks its type")
	}
	shown := renderCell(board.CellState{Type: board.Flynn, BaseValue: 1000, Revealed: true}, true)
	if !strings.Contains(shown, "FLYNN") || !strings.Contains(shown, "1,000") {
		t.Errorf("revealed cell = %q", shown)
	}
}

func TestRenderGridRows(t *testing.T) {
	cells := make([]board.CellState, 6)
	for i := range cells {
		cells[i] = board.CellState{Index: i, Type: board.Program, BaseValue: 100, Revealed: true}
	}
	out := renderGrid(cells, 3, -1)
	if n := strings.Count(out, "PROGRAM"); n != 6 {
		t.Errorf("grid shows %d cells, want 6", n)
	}
	if renderGrid(cells, 0, -1) != "" {
		t.Error("zero columns should render nothing")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatMatches(nil); got != "-" {
		t.Errorf("formatMatches(nil) = %q", got)
	}
	got := formatMatches([]payout.WinningCell{{Type: board.Program, Count: 10}, {Type: board.Clue, Count: 5}})
	if got != "program x10, clue x5" {
		t.Errorf("formatMatches = %q", got)
	}
	if got := formatBadges(payout.BadgeCounts{payout.BadgeMega: 1, payout.BadgeDouble: 2, payout.BadgeTriple: 0}); got != "double x2 mega x1" {
		t.Errorf("formatBadges = %q", got)
	}
	if got := formatBadges(nil); got != "-" {
		t.Errorf("formatBadges(nil) = %q", got)
	}
}
