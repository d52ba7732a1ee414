package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// CheckWinningCells classifies the currently revealed cells.
func (e *Engine) CheckWinningCells() payout.WinningResult {
	revealed := e.grid.RevealedCells()
	types := make([]board.CellType, len(revealed))
	for i, c := range revealed {
		types[i] = c.Type()
	}
	return payout.Classify(types, e.threshold)
}

// RevealCells reveals every unrevealed cell in grid order and returns them.
// Each reveal waits on the pause gate unless revealAll reports true, in
// which case the remaining cells are revealed without suspension and the
// round is marked fast-forwarded.
func (e *Engine) RevealCells(ctx context.Context, revealAll func() bool) ([]*board.Cell, error) {
	var pending []*board.Cell
	for _, c := range e.grid.Cells() {
		if !c.Revealed() {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		e.logger.Debug("all cells already revealed")
		return nil, nil
	}

	revealed := make([]*board.Cell, 0, len(pending))
	for _, c := range pending {
		var err error
		if revealAll != nil && revealAll() {
			e.mu.Lock()
			e.fastForward = true
			e.mu.Unlock()
			err = c.Reveal(ctx)
		} else {
			err = e.gate.Do(ctx, func() error { return c.Reveal(ctx) })
		}
		if err != nil {
			return revealed, err
		}
		revealed = append(revealed, c)
	}
	return revealed, nil
}

// SetWinningCells marks every revealed cell as winning or not, updating the
// cells concurrently. Each update is pause aware.
func (e *Engine) SetWinningCells(ctx context.Context, res payout.WinningResult) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range e.grid.RevealedCells() {
		winning := res.HasType(c.Type())
		g.Go(func() error {
			return e.gate.Do(gctx, func() error { return c.SetWinning(gctx, winning) })
		})
	}
	return g.Wait()
}

// CountHighScoreBadges adds the badges earned by cells to the session
// counters and returns the counts of this call alone.
func (e *Engine) CountHighScoreBadges(cells []payout.WinningCell) payout.BadgeCounts {
	ev := e.sched.Evaluate(cells)
	e.mu.Lock()
	e.badges.Add(ev.Badges)
	e.mu.Unlock()
	return ev.Badges
}

// ShowHighScoreBadges presents one popup per earned badge kind, in tier
// order, holding each before dismissing it. Popups never overlap.
func (e *Engine) ShowHighScoreBadges(ctx context.Context, counts payout.BadgeCounts) error {
	for _, badge := range e.sched.BadgeOrder() {
		n := counts[badge]
		if n <= 0 {
			continue
		}
		err := e.gate.Do(ctx, func() error {
			return e.popups.Present(ctx, PopupBadge, BadgePopup{Badge: badge, Count: n})
		})
		if err != nil {
			return err
		}
		if err := e.delay(ctx, e.badgeHold); err != nil {
			return err
		}
		if err := e.gate.Do(ctx, func() error { return e.popups.Dismiss(ctx) }); err != nil {
			return err
		}
		e.logger.Debug("badge shown", "badge", badge, "count", n)
	}
	return nil
}

// SetBadgesInBadgesDisplay pushes the current badge counters to the display.
func (e *Engine) SetBadgesInBadgesDisplay(ctx context.Context) error {
	return e.badgeDisp.SetBadges(ctx, e.Badges())
}

// CountTotalReward scores res, adds the total to the round win and then
// credits the round win to the balance. The state is committed before the
// displays are updated. Calling it twice in one round credits the win
// twice; Sweep calls it once. A result that did not win changes nothing,
// not even the credit of a win already earned this round.
func (e *Engine) CountTotalReward(ctx context.Context, res payout.WinningResult) (int, error) {
	if !res.Won {
		return 0, nil
	}
	ev := e.sched.Evaluate(res.Cells)

	e.mu.Lock()
	e.win += ev.Total
	e.balance += e.win
	w, b := e.win, e.balance
	e.mu.Unlock()

	e.logger.Info("reward", "total", ev.Total, "win", w, "balance", b)
	if err := e.balanceDisp.SetWinValue(ctx, w, true); err != nil {
		return ev.Total, err
	}
	return ev.Total, e.balanceDisp.SetBalance(ctx, b, true, true)
}
