package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tron-sweep/internal/storage"
)

// SessionModel manages the full session flow: game -> history -> game.
// This is the top-level model for both local and SSH play.
type SessionModel struct {
	store     *storage.Store
	game      GameModel
	history   HistoryModel
	inHistory bool
	quitting  bool
	width     int
	height    int
}

// NewSessionModel creates the game for a session. A nil store disables
// round recording and the history board shows a notice instead.
func NewSessionModel(ctx context.Context, store *storage.Store, opts GameOptions) (SessionModel, error) {
	if store != nil {
		opts.Recorder = store
	}
	game, err := NewGameModel(ctx, opts)
	if err != nil {
		return SessionModel{}, err
	}
	return SessionModel{
		store:  store,
		game:   game,
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}, nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.inHistory {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.updateHistory(msg)
		}
		if _, ok := msg.(tea.WindowSizeMsg); ok {
			next, _ := m.history.Update(msg)
			m.history = next.(HistoryModel)
		}
	}
	return m.updateGame(msg)
}

// updateHistory handles key input while the history board is shown.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	m.history = next.(HistoryModel)

	if m.history.IsQuitting() {
		m.quitting = true
		m.game.Close()
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.inHistory = false
		m.game = m.game.BackFromHistory()
		return m, nil
	}
	return m, cmd
}

// updateGame forwards everything else to the game, which keeps animating
// and listening to the presenter while the history board is open.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.WantsHistory() && !m.inHistory {
		m.history = NewHistoryModel(m.store, m.game.SessionID(), m.width, m.height)
		m.inHistory = true
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inHistory {
		return m.history.View()
	}
	return m.game.View()
}

// Run starts a local session on the terminal.
func Run(ctx context.Context, store *storage.Store, opts GameOptions) error {
	model, err := NewSessionModel(ctx, store, opts)
	if err != nil {
		return err
	}
	defer model.game.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}
