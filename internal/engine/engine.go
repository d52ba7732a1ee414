// Package engine runs a tron-sweep session: balance and win bookkeeping,
// the reveal/classify/highlight/award pipeline and the pause gate that all
// of its presentation steps pass through.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tron-sweep/internal/config"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// Presentation delays.
const (
	BadgeHold       = 2 * time.Second
	HighlightSettle = 1 * time.Second
	RoundSettle     = 1 * time.Second
)

var (
	// ErrGameOver is reported for sweeps after the session has ended.
	ErrGameOver = errors.New("engine: game over")
	// ErrInsufficientBalance is reported when the balance is below the sweep cost.
	ErrInsufficientBalance = errors.New("engine: insufficient balance")
	// ErrSweepInFlight is returned by NextGame and Restart while a sweep runs.
	ErrSweepInFlight = errors.New("engine: sweep in flight")
)

// Options configures an Engine. Nil sinks discard updates.
type Options struct {
	Grid            Grid
	Schedule        payout.Schedule
	MatchThreshold  int
	SweepCost       int
	StartingBalance int

	// BadgeScopeIsSession keeps badge counters across rounds. When false
	// NextGame clears them.
	BadgeScopeIsSession bool

	Balance  BalanceDisplay
	Badges   BadgeDisplay
	Popups   PopupPresenter
	Recorder RoundRecorder
	Logger   *log.Logger

	// SessionID identifies the session in round records. Generated when empty.
	SessionID string
}

// OptionsFromConfig fills the game rules of Options from cfg. Grid, sinks
// and logger are left for the caller.
func OptionsFromConfig(cfg config.SweepConfig) (Options, error) {
	sched, err := cfg.Schedule()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Schedule:            sched,
		MatchThreshold:      cfg.MatchThreshold,
		SweepCost:           cfg.SweepCost,
		StartingBalance:     cfg.StartingBalance,
		BadgeScopeIsSession: cfg.BadgeScopeIsSession(),
	}, nil
}

// Engine is one game session. It is safe for concurrent use: the sweep
// pipeline runs on its own goroutine while the UI reads state and toggles
// pause.
type Engine struct {
	grid         Grid
	sched        payout.Schedule
	threshold    int
	cost         int
	startBalance int
	sessionScope bool

	balanceDisp BalanceDisplay
	badgeDisp   BadgeDisplay
	popups      PopupPresenter
	recorder    RoundRecorder
	logger      *log.Logger
	sessionID   string

	gate *Gate

	badgeHold       time.Duration
	highlightSettle time.Duration
	roundSettle     time.Duration

	mu          sync.Mutex
	balance     int
	win         int
	gameOver    bool
	badges      payout.BadgeCounts
	phase       Phase
	round       int
	inFlight    bool
	revealAll   bool
	fastForward bool
}

// New creates an engine. The grid is required.
func New(opts Options) (*Engine, error) {
	if opts.Grid == nil {
		return nil, errors.New("engine: grid is required")
	}
	if opts.MatchThreshold < 1 {
		return nil, errors.New("engine: match threshold must be at least 1")
	}
	if opts.SweepCost <= 0 {
		return nil, errors.New("engine: sweep cost must be positive")
	}
	if opts.StartingBalance < 0 {
		return nil, errors.New("engine: starting balance must not be negative")
	}

	var nop nopDisplay
	e := &Engine{
		grid:            opts.Grid,
		sched:           opts.Schedule,
		threshold:       opts.MatchThreshold,
		cost:            opts.SweepCost,
		startBalance:    opts.StartingBalance,
		sessionScope:    opts.BadgeScopeIsSession,
		balanceDisp:     opts.Balance,
		badgeDisp:       opts.Badges,
		popups:          opts.Popups,
		recorder:        opts.Recorder,
		logger:          opts.Logger,
		sessionID:       opts.SessionID,
		gate:            &Gate{},
		badgeHold:       BadgeHold,
		highlightSettle: HighlightSettle,
		roundSettle:     RoundSettle,
		balance:         opts.StartingBalance,
		badges:          opts.Schedule.EmptyBadges(),
		phase:           PhaseIdle,
	}
	if e.balanceDisp == nil {
		e.balanceDisp = nop
	}
	if e.badgeDisp == nil {
		e.badgeDisp = nop
	}
	if e.popups == nil {
		e.popups = nop
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	return e, nil
}

// Init pushes the starting state to the displays.
func (e *Engine) Init(ctx context.Context) error {
	s := e.State()
	return errors.Join(
		e.balanceDisp.SetBalance(ctx, s.Balance, false, false),
		e.balanceDisp.SetSweepCost(ctx, s.SweepCost),
		e.balanceDisp.SetWinValue(ctx, s.Win, false),
		e.badgeDisp.SetBadges(ctx, s.Badges),
	)
}

// State is a point-in-time copy of the engine state.
type State struct {
	SessionID string
	Balance   int
	Win       int
	SweepCost int
	GameOver  bool
	Paused    bool
	Phase     Phase
	Round     int
	InFlight  bool
	Badges    payout.BadgeCounts
}

// State returns a snapshot for renderers.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		SessionID: e.sessionID,
		Balance:   e.balance,
		Win:       e.win,
		SweepCost: e.cost,
		GameOver:  e.gameOver,
		Paused:    e.gate.Paused(),
		Phase:     e.phase,
		Round:     e.round,
		InFlight:  e.inFlight,
		Badges:    e.badges.Clone(),
	}
}

// Balance returns the current balance.
func (e *Engine) Balance() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// Win returns the cumulative win of the current round.
func (e *Engine) Win() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.win
}

// GameOver reports whether the session has ended.
func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// Badges returns a copy of the badge counters.
func (e *Engine) Badges() payout.BadgeCounts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.badges.Clone()
}

// Phase returns the current pipeline phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// SweepCost returns the cost of one sweep.
func (e *Engine) SweepCost() int { return e.cost }

// SessionID returns the session identifier.
func (e *Engine) SessionID() string { return e.sessionID }

// Schedule returns the reward schedule.
func (e *Engine) Schedule() payout.Schedule { return e.sched }

// Tutorial returns the payload of the tutorial popup.
func (e *Engine) Tutorial() Tutorial {
	return Tutorial{
		MatchThreshold: e.threshold,
		SweepCost:      e.cost,
		Tiers:          append([]payout.Tier(nil), e.sched.Tiers...),
	}
}

// ShowTutorial presents the tutorial popup.
func (e *Engine) ShowTutorial(ctx context.Context) error {
	return e.popups.Present(ctx, PopupTutorial, e.Tutorial())
}

// Pause suspends the pipeline at its next suspension point.
func (e *Engine) Pause() {
	e.gate.Pause()
	e.logger.Debug("paused", "phase", e.Phase())
}

// Resume releases every step parked on the pause gate.
func (e *Engine) Resume() {
	e.gate.Resume()
	e.logger.Debug("resumed", "phase", e.Phase())
}

// TogglePause flips the pause state and returns the new one.
func (e *Engine) TogglePause() bool {
	if e.gate.Paused() {
		e.Resume()
		return false
	}
	e.Pause()
	return true
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool { return e.gate.Paused() }

// HasEnoughBalance reports whether a sweep is affordable. When it is not,
// the session is over; game over only clears on NextGame with a
// sufficient balance or on Restart.
func (e *Engine) HasEnoughBalance() bool {
	e.mu.Lock()
	b := e.balance
	ok := b >= e.cost
	ended := !ok && !e.gameOver
	if !ok {
		e.gameOver = true
	}
	e.mu.Unlock()

	if ended {
		e.logger.Info("game over", "balance", b, "cost", e.cost)
	}
	return ok
}

// SubtractSweepCost debits one sweep and shows the new balance.
func (e *Engine) SubtractSweepCost(ctx context.Context) error {
	e.mu.Lock()
	e.balance -= e.cost
	b := e.balance
	e.mu.Unlock()
	return e.balanceDisp.SetBalance(ctx, b, true, false)
}

// NextGame starts a new round: fresh grid, zero win. Badge counters are
// cleared when they are round scoped. It fails with ErrSweepInFlight while
// a sweep is running.
func (e *Engine) NextGame(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrSweepInFlight
	}
	e.grid.Reset()
	e.win = 0
	resetBadges := !e.sessionScope
	if resetBadges {
		e.badges = e.sched.EmptyBadges()
	}
	if e.gameOver && e.balance >= e.cost {
		e.gameOver = false
	}
	e.phase = PhaseIdle
	b, badges := e.balance, e.badges.Clone()
	e.mu.Unlock()

	e.logger.Debug("next game", "balance", b)
	errs := []error{
		e.balanceDisp.SetWinValue(ctx, 0, false),
		e.balanceDisp.SetBalance(ctx, b, false, false),
		e.balanceDisp.SetSweepCost(ctx, e.cost),
	}
	if resetBadges {
		errs = append(errs, e.badgeDisp.SetBadges(ctx, badges))
	}
	return errors.Join(errs...)
}

// Restart resets the session to its starting balance with empty badges
// and a fresh grid. It fails with ErrSweepInFlight while a sweep is running.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrSweepInFlight
	}
	e.grid.Reset()
	e.balance = e.startBalance
	e.win = 0
	e.gameOver = false
	e.badges = e.sched.EmptyBadges()
	e.phase = PhaseIdle
	e.round = 0
	e.mu.Unlock()

	e.logger.Info("session restarted", "balance", e.startBalance)
	return e.Init(ctx)
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}

// delay waits d, suspending while paused.
func (e *Engine) delay(ctx context.Context, d time.Duration) error {
	if err := e.gate.Wait(ctx); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.gate.Wait(ctx)
}
