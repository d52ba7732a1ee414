package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/config"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

// DefaultTickRate is the animation frame rate.
const DefaultTickRate = 30

const flashLength = 600 * time.Millisecond

// RuntimeConfig contains terminal and seeding parameters for a session.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Animation frames per second
	Seed     int64 // Grid RNG seed, 0 means time based
}

// DefaultRuntimeConfig returns a RuntimeConfig with sensible defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Config    config.SweepConfig
	Runtime   RuntimeConfig
	Timings   Timings
	Recorder  engine.RoundRecorder // may be nil
	Logger    *log.Logger          // may be nil
	SessionID string
}

type sweepDoneMsg struct {
	res engine.SweepResult
	err error
}

type actionDoneMsg struct {
	action string
	err    error
}

// GameModel is the Bubble Tea model of the game screen. The sweep pipeline
// runs in a command goroutine and reports back through the Presenter.
type GameModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	engine    *engine.Engine
	grid      *board.Grid
	presenter *Presenter
	logger    *log.Logger
	keys      GameKeyMap
	help      help.Model
	config    RuntimeConfig
	timings   Timings

	balance    counter
	win        counter
	cost       int
	badges     payout.BadgeCounts
	popup      *popupMsg
	lastCell   int
	flashUntil time.Time
	now        time.Time
	status     string

	quitting    bool
	wantHistory bool
}

// NewGameModel builds the grid, presenter and engine of one session.
// The session ends when ctx is cancelled or the player quits.
func NewGameModel(ctx context.Context, opts GameOptions) (GameModel, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = DefaultTickRate
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	presenter := NewPresenter(ctx, opts.Timings)

	gridOpts, err := opts.Config.GridOptions(opts.Runtime.Seed)
	if err != nil {
		cancel()
		return GameModel{}, err
	}
	gridOpts.Animator = presenter
	grid, err := board.NewGrid(gridOpts)
	if err != nil {
		cancel()
		return GameModel{}, err
	}

	engOpts, err := engine.OptionsFromConfig(opts.Config)
	if err != nil {
		cancel()
		return GameModel{}, err
	}
	engOpts.Grid = grid
	engOpts.Balance = presenter
	engOpts.Badges = presenter
	engOpts.Popups = presenter
	engOpts.Recorder = opts.Recorder
	engOpts.Logger = logger
	engOpts.SessionID = opts.SessionID

	eng, err := engine.New(engOpts)
	if err != nil {
		cancel()
		return GameModel{}, err
	}

	st := eng.State()
	h := help.New()
	h.Width = opts.Runtime.ScreenW

	return GameModel{
		ctx:       ctx,
		cancel:    cancel,
		engine:    eng,
		grid:      grid,
		presenter: presenter,
		logger:    logger,
		keys:      DefaultGameKeyMap(),
		help:      h,
		config:    opts.Runtime,
		timings:   opts.Timings,
		balance:   newCounter(st.Balance),
		win:       newCounter(st.Win),
		cost:      st.SweepCost,
		badges:    st.Badges,
		lastCell:  -1,
	}, nil
}

// Init pushes the starting state to the displays and shows the tutorial.
func (m GameModel) Init() tea.Cmd {
	eng := m.engine
	return tea.Batch(
		tickCmd(m.config.TickRate),
		m.presenter.Listen(),
		m.run("init", func(ctx context.Context) error {
			if err := eng.Init(ctx); err != nil {
				return err
			}
			return eng.ShowTutorial(ctx)
		}),
	)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.now = time.Time(msg)
		m.balance = m.balance.step(m.now)
		m.win = m.win.step(m.now)
		return m, tickCmd(m.config.TickRate)

	case sweepDoneMsg:
		m.status = m.sweepStatus(msg)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Error("action failed", "action", msg.action, "err", msg.err)
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		}
		return m, nil
	}

	if m.applyDisplay(msg) {
		return m, m.presenter.Listen()
	}
	return m, nil
}

// applyDisplay applies a presenter message. It reports whether msg was one.
func (m *GameModel) applyDisplay(msg tea.Msg) bool {
	now := time.Now()
	switch msg := msg.(type) {
	case cellMsg:
		if msg.unveil {
			m.lastCell = msg.index
		}
	case balanceMsg:
		m.balance = m.balance.set(msg.value, msg.animated, now, m.timings.Counter)
		if msg.playSound {
			m.flashUntil = now.Add(flashLength)
		}
	case winMsg:
		m.win = m.win.set(msg.value, msg.animated, now, m.timings.Counter)
	case costMsg:
		m.cost = msg.value
	case badgesMsg:
		m.badges = msg.counts
	case popupMsg:
		m.popup = &msg
	case dismissMsg:
		m.popup = nil
	default:
		return false
	}
	return true
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case ActionQuit:
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case ActionHelp:
		m.help.ShowAll = !m.help.ShowAll

	case ActionPause:
		if m.engine.TogglePause() {
			m.status = "Paused"
		} else {
			m.status = ""
		}

	case ActionBack:
		if m.popupIs(engine.PopupTutorial) {
			m.popup = nil
		}

	case ActionHistory:
		if !m.engine.State().InFlight {
			m.wantHistory = true
		}

	case ActionSweep:
		if m.popupIs(engine.PopupRoundSummary) {
			return m, nil
		}
		if m.popupIs(engine.PopupTutorial) {
			m.popup = nil
		}
		return m, m.sweepCmd()

	case ActionNextGame:
		switch {
		case m.popupIs(engine.PopupTutorial):
			m.popup = nil
		case m.popupIs(engine.PopupRoundSummary):
			summary, _ := m.popup.payload.(engine.RoundSummary)
			if !summary.CanContinue {
				return m, nil
			}
			m.popup = nil
			m.status = ""
			m.lastCell = -1
			return m, m.run("next game", m.engine.NextGame)
		}

	case ActionRestart:
		if m.engine.State().InFlight {
			return m, nil
		}
		m.popup = nil
		m.status = ""
		m.lastCell = -1
		return m, m.run("restart", m.engine.Restart)
	}

	return m, nil
}

func (m GameModel) popupIs(kind engine.PopupKind) bool {
	return m.popup != nil && m.popup.kind == kind
}

func (m GameModel) sweepCmd() tea.Cmd {
	eng, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, err := eng.Sweep(ctx)
		return sweepDoneMsg{res: res, err: err}
	}
}

func (m GameModel) run(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

func (m GameModel) sweepStatus(msg sweepDoneMsg) string {
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return ""
		}
		m.logger.Error("sweep failed", "err", msg.err)
		return fmt.Sprintf("Sweep failed: %v", msg.err)
	}
	switch msg.res.Outcome {
	case engine.OutcomeCompleted:
		if msg.res.Reward > 0 {
			return fmt.Sprintf("Match! +%s", humanize.Comma(int64(msg.res.Reward)))
		}
		return "No match this round"
	case engine.OutcomeFastForward:
		return "Revealing the rest of the grid"
	case engine.OutcomeAwaitingNextGame:
		return "Press n for the next game"
	case engine.OutcomeInsufficientBalance, engine.OutcomeIgnoredGameOver:
		return "Game over: balance below sweep cost. Press r to restart"
	}
	return ""
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory reports whether the player asked for the history board.
func (m GameModel) WantsHistory() bool {
	return m.wantHistory
}

// BackFromHistory clears the history request.
func (m GameModel) BackFromHistory() GameModel {
	m.wantHistory = false
	return m
}

// SessionID returns the engine session id.
func (m GameModel) SessionID() string {
	return m.engine.SessionID()
}

// Close stops any sweep still running for this model.
func (m GameModel) Close() {
	m.cancel()
}

// counter is a number display that can animate towards a new value.
type counter struct {
	from, to int
	value    int
	start    time.Time
	dur      time.Duration
}

func newCounter(v int) counter {
	return counter{from: v, to: v, value: v}
}

func (c counter) set(v int, animated bool, now time.Time, dur time.Duration) counter {
	if !animated || dur <= 0 {
		return newCounter(v)
	}
	return counter{from: c.value, to: v, value: c.value, start: now, dur: dur}
}

func (c counter) step(now time.Time) counter {
	if c.value == c.to {
		return c
	}
	elapsed := now.Sub(c.start)
	if elapsed >= c.dur {
		c.value = c.to
		return c
	}
	if elapsed < 0 {
		elapsed = 0
	}
	c.value = c.from + int(float64(c.to-c.from)*float64(elapsed)/float64(c.dur))
	return c
}
