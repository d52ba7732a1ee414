package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// Timings are the animation lengths the presenter waits out before a
// display call returns.
type Timings struct {
	Unveil    time.Duration
	Highlight time.Duration
	Counter   time.Duration
}

// DefaultTimings returns the animation lengths used in play.
func DefaultTimings() Timings {
	return Timings{
		Unveil:    120 * time.Millisecond,
		Highlight: 250 * time.Millisecond,
		Counter:   600 * time.Millisecond,
	}
}

// Display messages sent from the sweep goroutine to the model.

type cellMsg struct {
	index   int
	unveil  bool
	winning bool
}

type balanceMsg struct {
	value     int
	animated  bool
	playSound bool
}

type winMsg struct {
	value    int
	animated bool
}

type costMsg struct{ value int }

type badgesMsg struct{ counts payout.BadgeCounts }

type popupMsg struct {
	kind    engine.PopupKind
	payload any
}

type dismissMsg struct{}

// Presenter implements the engine display sinks and the grid animator on
// top of a Bubble Tea program. Every call is turned into a message and then
// blocks for the length of its animation, so the engine sees the same
// completion semantics as an animated display.
type Presenter struct {
	done    <-chan struct{}
	events  chan tea.Msg
	timings Timings
}

var (
	_ engine.BalanceDisplay = (*Presenter)(nil)
	_ engine.BadgeDisplay   = (*Presenter)(nil)
	_ engine.PopupPresenter = (*Presenter)(nil)
	_ board.CellAnimator    = (*Presenter)(nil)
)

// NewPresenter creates a presenter whose listener stops when ctx ends.
func NewPresenter(ctx context.Context, t Timings) *Presenter {
	return &Presenter{
		done:    ctx.Done(),
		events:  make(chan tea.Msg, 64),
		timings: t,
	}
}

// Listen returns a command that delivers the next display message.
// The model re-arms it after every message it receives.
func (p *Presenter) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.events:
			return msg
		case <-p.done:
			return nil
		}
	}
}

func (p *Presenter) send(ctx context.Context, msg tea.Msg, hold time.Duration) error {
	select {
	case p.events <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}
	if hold <= 0 {
		return nil
	}
	t := time.NewTimer(hold)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unveil implements board.CellAnimator.
func (p *Presenter) Unveil(ctx context.Context, c *board.Cell) error {
	return p.send(ctx, cellMsg{index: c.Index(), unveil: true}, p.timings.Unveil)
}

// Highlight implements board.CellAnimator.
func (p *Presenter) Highlight(ctx context.Context, c *board.Cell, winning bool) error {
	return p.send(ctx, cellMsg{index: c.Index(), winning: winning}, p.timings.Highlight)
}

// SetBalance implements engine.BalanceDisplay.
func (p *Presenter) SetBalance(ctx context.Context, value int, animated, playSound bool) error {
	return p.send(ctx, balanceMsg{value: value, animated: animated, playSound: playSound}, p.counterHold(animated))
}

// SetWinValue implements engine.BalanceDisplay.
func (p *Presenter) SetWinValue(ctx context.Context, value int, animated bool) error {
	return p.send(ctx, winMsg{value: value, animated: animated}, p.counterHold(animated))
}

// SetSweepCost implements engine.BalanceDisplay.
func (p *Presenter) SetSweepCost(ctx context.Context, value int) error {
	return p.send(ctx, costMsg{value: value}, 0)
}

// SetBadges implements engine.BadgeDisplay.
func (p *Presenter) SetBadges(ctx context.Context, counts payout.BadgeCounts) error {
	return p.send(ctx, badgesMsg{counts: counts.Clone()}, 0)
}

// Present implements engine.PopupPresenter.
func (p *Presenter) Present(ctx context.Context, kind engine.PopupKind, payload any) error {
	return p.send(ctx, popupMsg{kind: kind, payload: payload}, 0)
}

// Dismiss implements engine.PopupPresenter.
func (p *Presenter) Dismiss(ctx context.Context) error {
	return p.send(ctx, dismissMsg{}, 0)
}

func (p *Presenter) counterHold(animated bool) time.Duration {
	if !animated {
		return 0
	}
	return p.timings.Counter
}
