package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tron-sweep/internal/payout"
	"github.com/vovakirdan/tron-sweep/internal/storage"
)

// History board layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the stats sidebar
	sidebarWidth       = 26  // Width of the stats sidebar
	maxRounds          = 200 // Max rounds to load
)

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Scope key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Scope, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Scope},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Scope: key.NewBinding(
			key.WithKeys("tab", "left", "right"),
			key.WithHelp("tab", "session/all"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "h"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the round history board.
type HistoryModel struct {
	store       *storage.Store
	sessionID   string // current session, empty for all sessions only
	allSessions bool
	rounds      []storage.Round
	stats       *storage.Stats
	badges      payout.BadgeCounts
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history board. With a session id it starts on
// that session's rounds; tab switches to the whole history.
func NewHistoryModel(store *storage.Store, sessionID string, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := HistoryModel{
		store:       store,
		sessionID:   sessionID,
		allSessions: sessionID == "",
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Round", Width: 6},
		{Title: "Matches", Width: 18},
		{Title: "Win", Width: 8},
		{Title: "Balance", Width: 9},
		{Title: "Badges", Width: 14},
		{Title: "Played", Width: 14},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads rounds and statistics for the current scope.
func (m *HistoryModel) load() {
	m.rounds, m.stats, m.badges, m.loadErr = nil, nil, nil, nil
	if m.store == nil {
		m.updateTableRows()
		return
	}

	scope := m.sessionID
	if m.allSessions {
		scope = ""
	}

	var err error
	if scope == "" {
		m.rounds, err = m.store.RecentRounds(maxRounds)
	} else {
		m.rounds, err = m.store.SessionRounds(scope)
	}
	if err == nil {
		m.stats, err = m.store.GetStats(scope)
	}
	if err == nil {
		m.badges, err = m.store.BadgeTotals(scope)
	}
	m.loadErr = err
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded rounds.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.rounds))
	for i, r := range m.rounds {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.Round),
			formatMatches(r.Matches),
			humanize.Comma(int64(r.Win)),
			humanize.Comma(int64(r.Balance)),
			formatBadges(r.Badges),
			formatAgo(r.PlayedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func formatMatches(matches []payout.WinningCell) string {
	if len(matches) == 0 {
		return "-"
	}
	parts := make([]string, len(matches))
	for i, wc := range matches {
		parts[i] = fmt.Sprintf("%s x%d", wc.Type, wc.Count)
	}
	return strings.Join(parts, ", ")
}

func formatBadges(counts payout.BadgeCounts) string {
	var parts []string
	for _, b := range []payout.BadgeKind{payout.BadgeDouble, payout.BadgeTriple, payout.BadgeMega} {
		if counts[b] > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d", b, counts[b]))
		}
	}
	for b, n := range counts {
		switch b {
		case payout.BadgeDouble, payout.BadgeTriple, payout.BadgeMega:
		default:
			if n > 0 {
				parts = append(parts, fmt.Sprintf("%s x%d", b, n))
			}
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// Init initializes the history board.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Scope):
			if m.sessionID != "" {
				m.allSessions = !m.allSessions
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "ROUND HISTORY - THIS SESSION"
	if m.allSessions {
		title = "ROUND HISTORY - ALL SESSIONS"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		sidebar := boxStyle.Width(sidebarWidth).Render(m.renderStats())
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", content)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, m.renderStatsLine(), content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is unavailable: no database.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load history:\n" + m.loadErr.Error())
	case len(m.rounds) == 0:
		return emptyStyle.Render("No rounds recorded yet.\nSweep the grid to start!")
	}
	return m.table.View()
}

func (m HistoryModel) renderStats() string {
	if m.stats == nil {
		return "No statistics"
	}
	st := m.stats
	var b strings.Builder
	fmt.Fprintf(&b, "Rounds    %s\n", humanize.Comma(int64(st.Rounds)))
	fmt.Fprintf(&b, "Wins      %s\n", humanize.Comma(int64(st.Wins)))
	fmt.Fprintf(&b, "Hit rate  %s%%\n", st.HitRate().Shift(2).StringFixed(1))
	fmt.Fprintf(&b, "Wagered   %s\n", humanize.Comma(st.TotalCost))
	fmt.Fprintf(&b, "Paid      %s\n", humanize.Comma(st.TotalReward))
	fmt.Fprintf(&b, "Net       %s\n", humanize.Comma(st.Net()))
	fmt.Fprintf(&b, "RTP       %s%%\n", st.RTP().Shift(2).StringFixed(1))
	fmt.Fprintf(&b, "Best      %s\n", humanize.Comma(int64(st.BestReward)))
	fmt.Fprintf(&b, "Badges    %s\n", formatBadges(m.badges))
	fmt.Fprintf(&b, "Last      %s", formatAgo(st.LastPlayed))
	return b.String()
}

func (m HistoryModel) renderStatsLine() string {
	if m.stats == nil {
		return ""
	}
	return labelStyle.Render(fmt.Sprintf("%d rounds  RTP %s%%  net %s",
		m.stats.Rounds, m.stats.RTP().Shift(2).StringFixed(1), humanize.Comma(m.stats.Net())))
}

// IsGoingBack returns true if user wants to go back to the game.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history board on its own.
func RunHistory(store *storage.Store, width, height int) error {
	model := historyProgram{NewHistoryModel(store, "", width, height)}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// historyProgram quits on back when the board runs standalone.
type historyProgram struct {
	HistoryModel
}

func (p historyProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.HistoryModel.Update(msg)
	p.HistoryModel = next.(HistoryModel)
	if p.IsGoingBack() {
		return p, tea.Quit
	}
	return p, cmd
}
