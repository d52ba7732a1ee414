package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRounds(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SaveRound(Round{ID: "r1", SessionID: "s1", Round: 1, Cost: 1000, Balance: 1000}); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	rounds, err := store.RecentRounds(10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 1 || rounds[0].ID != "r1" {
		t.Fatalf("rounds after reopen = %+v", rounds)
	}
}

func TestStoreSaveAndLoadRound(t *testing.T) {
	store := openTestStore(t)

	played := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	want := Round{
		ID:        "round-1",
		SessionID: "session-a",
		Round:     1,
		Cost:      1000,
		Reward:    800,
		Win:       800,
		Balance:   1800,
		Won:       true,
		Matches: []payout.WinningCell{
			{Type: board.Program, Count: 20},
			{Type: board.User, Count: 10},
		},
		Badges:   payout.BadgeCounts{payout.BadgeDouble: 1, payout.BadgeMega: 1, payout.BadgeTriple: 0},
		PlayedAt: played,
	}
	if err := store.SaveRound(want); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}

	rounds, err := store.SessionRounds("session-a")
	if err != nil {
		t.Fatalf("SessionRounds() failed: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("Expected 1 round, got %d", len(rounds))
	}
	got := rounds[0]
	if got.ID != want.ID || got.Reward != 800 || got.Balance != 1800 || !got.Won || got.FastForward {
		t.Errorf("round = %+v", got)
	}
	if len(got.Matches) != 2 || got.Matches[0] != want.Matches[0] || got.Matches[1] != want.Matches[1] {
		t.Errorf("matches = %+v, want %+v", got.Matches, want.Matches)
	}
	if got.Badges[payout.BadgeDouble] != 1 || got.Badges[payout.BadgeMega] != 1 {
		t.Errorf("badges = %v", got.Badges)
	}
	if _, ok := got.Badges[payout.BadgeTriple]; ok {
		t.Errorf("zero badge count should not be stored: %v", got.Badges)
	}
	if !got.PlayedAt.Equal(played) {
		t.Errorf("played at = %v, want %v", got.PlayedAt, played)
	}
}

func TestStoreSaveRoundRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveRound(Round{SessionID: "s"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestStoreDuplicateRound(t *testing.T) {
	store := openTestStore(t)
	r := Round{ID: "dup", SessionID: "s", Round: 1, Cost: 1000}
	if err := store.SaveRound(r); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if err := store.SaveRound(r); err == nil {
		t.Fatal("expected error for duplicate round id")
	}

	rounds, err := store.RecentRounds(10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("failed insert left %d rounds", len(rounds))
	}
}

func TestStoreRecentRoundsOrder(t *testing.T) {
	store := openTestStore(t)
	for i, id := range []string{"a", "b", "c", "d"} {
		if err := store.SaveRound(Round{ID: id, SessionID: "s", Round: i + 1, Cost: 1000}); err != nil {
			t.Fatalf("SaveRound(%s) failed: %v", id, err)
		}
	}

	rounds, err := store.RecentRounds(3)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("Expected 3 rounds, got %d", len(rounds))
	}
	for i, want := range []string{"d", "c", "b"} {
		if rounds[i].ID != want {
			t.Errorf("rounds[%d] = %s, want %s", i, rounds[i].ID, want)
		}
	}
}

func TestStoreRecordRound(t *testing.T) {
	store := openTestStore(t)
	rec := engine.RoundRecord{
		ID:          "rec-1",
		SessionID:   "s1",
		Round:       3,
		Cost:        1000,
		Reward:      200,
		Win:         200,
		Balance:     1200,
		Winning:     []payout.WinningCell{{Type: board.Program, Count: 10}},
		Badges:      payout.BadgeCounts{payout.BadgeDouble: 1},
		FastForward: true,
		PlayedAt:    time.Now(),
	}
	if err := store.RecordRound(rec); err != nil {
		t.Fatalf("RecordRound() failed: %v", err)
	}

	rounds, err := store.SessionRounds("s1")
	if err != nil {
		t.Fatalf("SessionRounds() failed: %v", err)
	}
	if len(rounds) != 1 || !rounds[0].Won || !rounds[0].FastForward || rounds[0].Round != 3 {
		t.Fatalf("rounds = %+v", rounds)
	}
}

func TestStoreBadgeTotals(t *testing.T) {
	store := openTestStore(t)
	rounds := []Round{
		{ID: "1", SessionID: "a", Cost: 1000, Badges: payout.BadgeCounts{payout.BadgeDouble: 1}},
		{ID: "2", SessionID: "a", Cost: 1000, Badges: payout.BadgeCounts{payout.BadgeDouble: 1, payout.BadgeMega: 1}},
		{ID: "3", SessionID: "b", Cost: 1000, Badges: payout.BadgeCounts{payout.BadgeTriple: 2}},
	}
	for _, r := range rounds {
		if err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	tests := []struct {
		session string
		want    payout.BadgeCounts
	}{
		{"a", payout.BadgeCounts{payout.BadgeDouble: 2, payout.BadgeMega: 1}},
		{"b", payout.BadgeCounts{payout.BadgeTriple: 2}},
		{"", payout.BadgeCounts{payout.BadgeDouble: 2, payout.BadgeTriple: 2, payout.BadgeMega: 1}},
		{"missing", payout.BadgeCounts{}},
	}
	for _, tt := range tests {
		got, err := store.BadgeTotals(tt.session)
		if err != nil {
			t.Fatalf("BadgeTotals(%q) failed: %v", tt.session, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("BadgeTotals(%q) = %v, want %v", tt.session, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("BadgeTotals(%q)[%s] = %d, want %d", tt.session, k, got[k], v)
			}
		}
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetStats("")
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if empty.Rounds != 0 || !empty.RTP().IsZero() || !empty.HitRate().IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	rounds := []Round{
		{ID: "1", SessionID: "a", Round: 1, Cost: 1000, Reward: 200, Won: true},
		{ID: "2", SessionID: "a", Round: 2, Cost: 1000, Reward: 0},
		{ID: "3", SessionID: "a", Round: 3, Cost: 1000, Reward: 0},
		{ID: "4", SessionID: "a", Round: 4, Cost: 1000, Reward: 1000, Won: true},
		{ID: "5", SessionID: "b", Round: 1, Cost: 1000, Reward: 0},
	}
	for _, r := range rounds {
		if err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	stats, err := store.GetStats("a")
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.Rounds != 4 || stats.Wins != 2 || stats.TotalCost != 4000 || stats.TotalReward != 1200 || stats.BestReward != 1000 {
		t.Errorf("stats = %+v", stats)
	}
	if !stats.RTP().Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("RTP = %s, want 0.3", stats.RTP())
	}
	if !stats.HitRate().Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("hit rate = %s, want 0.5", stats.HitRate())
	}
	if stats.Net() != -2800 {
		t.Errorf("net = %d, want -2800", stats.Net())
	}
	if stats.LastPlayed.IsZero() {
		t.Error("last played not set")
	}

	all, err := store.GetStats("")
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if all.Rounds != 5 {
		t.Errorf("all rounds = %d, want 5", all.Rounds)
	}

	sessions, err := store.SessionStats(10)
	if err != nil {
		t.Fatalf("SessionStats() failed: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != "b" || sessions[1].Rounds != 4 {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestStoreClearRounds(t *testing.T) {
	store := openTestStore(t)
	r := Round{ID: "x", SessionID: "s", Cost: 1000, Won: true,
		Matches: []payout.WinningCell{{Type: board.Flynn, Count: 5}},
		Badges:  payout.BadgeCounts{payout.BadgeDouble: 1}}
	if err := store.SaveRound(r); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}
	if err := store.ClearRounds(); err != nil {
		t.Fatalf("ClearRounds() failed: %v", err)
	}
	rounds, _ := store.RecentRounds(10)
	badges, _ := store.BadgeTotals("")
	if len(rounds) != 0 || len(badges) != 0 {
		t.Errorf("history not cleared: %d rounds, badges %v", len(rounds), badges)
	}
}
