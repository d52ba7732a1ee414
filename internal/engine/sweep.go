package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// Outcome tells what a Sweep call did.
type Outcome int

const (
	// OutcomeCompleted means a full round was played.
	OutcomeCompleted Outcome = iota
	// OutcomeIgnoredGameOver means the session had already ended.
	OutcomeIgnoredGameOver
	// OutcomeInsufficientBalance means the balance did not cover the cost.
	// The session is now over.
	OutcomeInsufficientBalance
	// OutcomeFastForward means a sweep was in flight and its remaining
	// reveals, if any, were switched to reveal-all.
	OutcomeFastForward
	// OutcomeAwaitingNextGame means the previous round has not been
	// cleared with NextGame yet.
	OutcomeAwaitingNextGame
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeIgnoredGameOver:
		return "ignored-game-over"
	case OutcomeInsufficientBalance:
		return "insufficient-balance"
	case OutcomeFastForward:
		return "fast-forward"
	case OutcomeAwaitingNextGame:
		return "awaiting-next-game"
	default:
		return "unknown"
	}
}

// Err maps precondition outcomes to their sentinel errors.
func (o Outcome) Err() error {
	switch o {
	case OutcomeIgnoredGameOver:
		return ErrGameOver
	case OutcomeInsufficientBalance:
		return ErrInsufficientBalance
	default:
		return nil
	}
}

// SweepResult reports a Sweep call.
type SweepResult struct {
	Outcome Outcome
	Round   int
	Result  payout.WinningResult
	Badges  payout.BadgeCounts
	Reward  int
	Win     int
	Balance int
}

// RoundRecord is a settled round as handed to the RoundRecorder.
type RoundRecord struct {
	ID          string
	SessionID   string
	Round       int
	Cost        int
	Reward      int
	Win         int
	Balance     int
	Winning     []payout.WinningCell
	Badges      payout.BadgeCounts
	FastForward bool
	PlayedAt    time.Time
}

// Sweep plays one round: debit the cost, reveal the grid, classify,
// highlight, show badges and credit the reward. It finishes by presenting
// the round summary popup, even when a step failed.
//
// A Sweep issued while another is running does not start a new round; it
// makes the running one reveal its remaining cells at once.
func (e *Engine) Sweep(ctx context.Context) (res SweepResult, err error) {
	e.mu.Lock()
	switch {
	case e.gameOver:
		e.mu.Unlock()
		return SweepResult{Outcome: OutcomeIgnoredGameOver}, nil
	case e.inFlight:
		e.revealAll = true
		e.mu.Unlock()
		e.logger.Debug("fast forward requested")
		return SweepResult{Outcome: OutcomeFastForward}, nil
	case e.phase == PhaseRoundComplete:
		e.mu.Unlock()
		return SweepResult{Outcome: OutcomeAwaitingNextGame}, nil
	}
	e.mu.Unlock()

	if !e.HasEnoughBalance() {
		return SweepResult{Outcome: OutcomeInsufficientBalance}, nil
	}

	e.mu.Lock()
	if e.inFlight {
		// Lost a race with a concurrent Sweep.
		e.revealAll = true
		e.mu.Unlock()
		return SweepResult{Outcome: OutcomeFastForward}, nil
	}
	e.inFlight = true
	e.revealAll = false
	e.fastForward = false
	e.round++
	round := e.round
	e.phase = PhaseSweepRequested
	e.mu.Unlock()

	e.logger.Info("sweep started", "session", e.sessionID, "round", round)
	defer func() {
		if finishErr := e.finishRound(ctx, round); err == nil {
			err = finishErr
		}
		if err != nil {
			e.logger.Error("sweep failed", "round", round, "err", err)
		}
	}()

	res, err = e.playRound(ctx, round)
	return res, err
}

func (e *Engine) playRound(ctx context.Context, round int) (SweepResult, error) {
	res := SweepResult{Outcome: OutcomeCompleted, Round: round}

	if err := e.SubtractSweepCost(ctx); err != nil {
		return res, err
	}

	e.setPhase(PhaseRevealing)
	if _, err := e.RevealCells(ctx, e.revealAllRequested); err != nil {
		return res, err
	}

	e.setPhase(PhaseClassifying)
	err := e.gate.Do(ctx, func() error {
		res.Result = e.CheckWinningCells()
		return nil
	})
	if err != nil {
		return res, err
	}

	e.setPhase(PhaseHighlighting)
	if err := e.SetWinningCells(ctx, res.Result); err != nil {
		return res, err
	}

	e.setPhase(PhaseAwarding)
	res.Badges = e.CountHighScoreBadges(res.Result.Cells)
	if err := e.delay(ctx, e.highlightSettle); err != nil {
		return res, err
	}
	if err := e.ShowHighScoreBadges(ctx, res.Badges); err != nil {
		return res, err
	}
	if err := e.SetBadgesInBadgesDisplay(ctx); err != nil {
		return res, err
	}
	reward, err := e.CountTotalReward(ctx, res.Result)
	res.Reward = reward

	e.mu.Lock()
	res.Win, res.Balance = e.win, e.balance
	ff := e.fastForward
	e.mu.Unlock()

	e.record(RoundRecord{
		SessionID:   e.sessionID,
		Round:       round,
		Cost:        e.cost,
		Reward:      res.Reward,
		Win:         res.Win,
		Balance:     res.Balance,
		Winning:     res.Result.Cells,
		Badges:      res.Badges,
		FastForward: ff,
	})
	e.logger.Info("round settled", "round", round, "won", res.Result.Won,
		"reward", res.Reward, "balance", res.Balance)
	return res, err
}

// finishRound waits out the settle delay, presents the round summary and
// clears the in-flight flags. A cancelled context skips the presentation.
func (e *Engine) finishRound(ctx context.Context, round int) error {
	var errs []error
	if ctx.Err() == nil {
		errs = append(errs, e.delay(ctx, e.roundSettle))
	}

	e.mu.Lock()
	e.phase = PhaseRoundComplete
	e.inFlight = false
	e.revealAll = false
	summary := RoundSummary{
		Round:       round,
		Win:         e.win,
		Balance:     e.balance,
		SweepCost:   e.cost,
		CanContinue: e.balance >= e.cost,
	}
	e.mu.Unlock()

	if ctx.Err() == nil {
		errs = append(errs, e.popups.Present(ctx, PopupRoundSummary, summary))
	}
	return errors.Join(errs...)
}

func (e *Engine) revealAllRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revealAll
}

func (e *Engine) record(rec RoundRecord) {
	if e.recorder == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.PlayedAt = time.Now()
	if err := e.recorder.RecordRound(rec); err != nil {
		e.logger.Warn("failed to record round", "round", rec.Round, "err", err)
	}
}
