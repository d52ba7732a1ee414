package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

func TestPresenterForwardsMessages(t *testing.T) {
	ctx := context.Background()
	p := NewPresenter(ctx, Timings{})

	grid, err := board.NewGrid(board.Options{Rows: 1, Cols: 2, Seed: 7, Animator: p})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cell := grid.Cells()[1]
	if err := cell.Reveal(ctx); err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if got := p.Listen()(); got != (cellMsg{index: 1, unveil: true}) {
		t.Fatalf("unveil message = %#v", got)
	}

	if err := cell.SetWinning(ctx, true); err != nil {
		t.Fatalf("SetWinning: %v", err)
	}
	if got := p.Listen()(); got != (cellMsg{index: 1, winning: true}) {
		t.Fatalf("highlight message = %#v", got)
	}

	if err := p.SetBalance(ctx, 1200, true, true); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if got := p.Listen()(); got != (balanceMsg{value: 1200, animated: true, playSound: true}) {
		t.Fatalf("balance message = %#v", got)
	}

	counts := payout.BadgeCounts{payout.BadgeDouble: 1}
	if err := p.SetBadges(ctx, counts); err != nil {
		t.Fatalf("SetBadges: %v", err)
	}
	counts[payout.BadgeDouble] = 5
	got, ok := p.Listen()().(badgesMsg)
	if !ok || got.counts[payout.BadgeDouble] != 1 {
		t.Fatalf("badges message = %#v, want a copy with double=1", got)
	}

	if err := p.Present(ctx, engine.PopupBadge, engine.BadgePopup{Badge: payout.BadgeMega, Count: 1}); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if msg, ok := p.Listen()().(popupMsg); !ok || msg.kind != engine.PopupBadge {
		t.Fatalf("popup message = %#v", msg)
	}
	if err := p.Dismiss(ctx); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if _, ok := p.Listen()().(dismissMsg); !ok {
		t.Fatal("expected dismiss message")
	}
}

func TestPresenterHoldsForAnimation(t *testing.T) {
	p := NewPresenter(context.Background(), Timings{Counter: 30 * time.Millisecond})

	start := time.Now()
	if err := p.SetWinValue(context.Background(), 10, true); err != nil {
		t.Fatalf("SetWinValue: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("animated update returned after %v", elapsed)
	}

	start = time.Now()
	if err := p.SetWinValue(context.Background(), 0, false); err != nil {
		t.Fatalf("SetWinValue: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("instant update took %v", elapsed)
	}
}

func TestPresenterCancelledHold(t *testing.T) {
	p := NewPresenter(context.Background(), Timings{Counter: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.SetBalance(ctx, 1, true, false) }()
	p.Listen()()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("SetBalance error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hold ignored cancellation")
	}
}

func TestPresenterListenStopsWithSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPresenter(ctx, Timings{})
	cancel()
	if msg := p.Listen()(); msg != nil {
		t.Fatalf("Listen after cancel = %#v, want nil", msg)
	}
}
