package engine

import (
	"context"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// Grid is what the engine needs from the board.
type Grid interface {
	Cells() []*board.Cell
	RevealedCells() []*board.Cell
	Reset()
}

// BalanceDisplay shows balance, round win and sweep cost. Calls block until
// the (possibly animated) update has been shown.
type BalanceDisplay interface {
	SetBalance(ctx context.Context, value int, animated, playSound bool) error
	SetWinValue(ctx context.Context, value int, animated bool) error
	SetSweepCost(ctx context.Context, value int) error
}

// BadgeDisplay shows the badge counters.
type BadgeDisplay interface {
	SetBadges(ctx context.Context, counts payout.BadgeCounts) error
}

// PopupKind identifies a popup the presenter can show.
type PopupKind int

const (
	// PopupBadge carries a BadgePopup payload.
	PopupBadge PopupKind = iota
	// PopupRoundSummary carries a RoundSummary payload.
	PopupRoundSummary
	// PopupTutorial carries a Tutorial payload.
	PopupTutorial
)

func (k PopupKind) String() string {
	switch k {
	case PopupBadge:
		return "badge"
	case PopupRoundSummary:
		return "round-summary"
	case PopupTutorial:
		return "tutorial"
	default:
		return "unknown"
	}
}

// BadgePopup is the payload of PopupBadge.
type BadgePopup struct {
	Badge payout.BadgeKind
	Count int
}

// RoundSummary is the payload of PopupRoundSummary. CanContinue is false
// when the balance no longer covers a sweep.
type RoundSummary struct {
	Round       int
	Win         int
	Balance     int
	SweepCost   int
	CanContinue bool
}

// Tutorial is the payload of PopupTutorial.
type Tutorial struct {
	MatchThreshold int
	SweepCost      int
	Tiers          []payout.Tier
}

// PopupPresenter shows one popup at a time.
type PopupPresenter interface {
	Present(ctx context.Context, kind PopupKind, payload any) error
	Dismiss(ctx context.Context) error
}

// RoundRecorder persists settled rounds. Recording is best effort.
type RoundRecorder interface {
	RecordRound(rec RoundRecord) error
}

type nopDisplay struct{}

func (nopDisplay) SetBalance(context.Context, int, bool, bool) error { return nil }
func (nopDisplay) SetWinValue(context.Context, int, bool) error { return nil }
func (nopDisplay) SetSweepCost(context.Context, int) error { return nil }
func (nopDisplay) SetBadges(context.Context, payout.BadgeCounts) error { return nil }
func (nopDisplay) Present(context.Context, PopupKind, any) error { return nil }
func (nopDisplay) Dismiss(context.Context) error { return nil }
