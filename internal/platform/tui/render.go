package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

const cellWidth = 9

var (
	colorDim    = lipgloss.Color("240")
	colorText   = lipgloss.Color("252")
	colorAccent = lipgloss.Color("14")
	colorFlash  = lipgloss.Color("11")
	colorAlert  = lipgloss.Color("9")
)

// typeColors maps cell types to their glow color.
var typeColors = map[board.CellType]lipgloss.Color{
	board.Program: lipgloss.Color("6"),
	board.User:    lipgloss.Color("12"),
	board.Clue:    lipgloss.Color("11"),
	board.Flynn:   lipgloss.Color("208"),
}

// badgeColors maps badge kinds to colors. Unknown kinds use colorAccent.
var badgeColors = map[payout.BadgeKind]lipgloss.Color{
	payout.BadgeDouble: lipgloss.Color("10"),
	payout.BadgeTriple: lipgloss.Color("13"),
	payout.BadgeMega:   lipgloss.Color("208"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(cellWidth).
			Height(2).
			Align(lipgloss.Center)

	labelStyle = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// View renders the game screen.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.engine.State()
	sched := m.engine.Schedule()
	flashing := m.now.Before(m.flashUntil)

	main := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("T R O N   S W E E P"),
		renderHUD(m.balance.value, m.win.value, m.cost, flashing),
		"",
		renderGrid(m.grid.Snapshot(), m.grid.Cols(), m.lastCell),
		"",
		renderBadges(sched.BadgeOrder(), m.badges),
		renderStatus(st, m.status),
		helpStyle.Render(m.help.View(m.keys)),
	)
	if m.popup == nil {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", renderPopup(*m.popup))
}

func renderHUD(balance, win, cost int, flashing bool) string {
	balanceStyle := valueStyle
	if flashing {
		balanceStyle = balanceStyle.Foreground(colorFlash)
	}
	return strings.Join([]string{
		labelStyle.Render("BALANCE ") + balanceStyle.Render(humanize.Comma(int64(balance))),
		labelStyle.Render("WIN ") + valueStyle.Render(humanize.Comma(int64(win))),
		labelStyle.Render("SWEEP ") + valueStyle.Render(humanize.Comma(int64(cost))),
	}, "   ")
}

func renderGrid(cells []board.CellState, cols, lastCell int) string {
	if cols <= 0 {
		return ""
	}
	var rows []string
	for start := 0; start < len(cells); start += cols {
		end := min(start+cols, len(cells))
		row := make([]string, 0, cols)
		for _, c := range cells[start:end] {
			row = append(row, renderCell(c, c.Index == lastCell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c board.CellState, latest bool) string {
	if !c.Revealed {
		return cellStyle.
			Foreground(colorDim).
			BorderForeground(colorDim).
			Render("░░░░░")
	}

	color := typeColors[c.Type]
	style := cellStyle.Foreground(color).BorderForeground(color)
	switch c.Winning {
	case board.WinningYes:
		style = style.Bold(true).Border(lipgloss.DoubleBorder())
	case board.WinningNo:
		style = style.Faint(true).BorderForeground(colorDim)
	default:
		if latest {
			style = style.Bold(true)
		}
	}
	body := strings.ToUpper(c.Type.String()) + "\n" + humanize.Comma(int64(c.BaseValue))
	return style.Render(body)
}

func renderBadges(order []payout.BadgeKind, counts payout.BadgeCounts) string {
	parts := make([]string, 0, len(order))
	for _, b := range order {
		style := labelStyle
		if counts[b] > 0 {
			style = lipgloss.NewStyle().Bold(true).Foreground(badgeColor(b))
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s x%d", strings.ToUpper(string(b)), counts[b])))
	}
	return strings.Join(parts, "   ")
}

func renderStatus(st engine.State, status string) string {
	parts := []string{labelStyle.Render(fmt.Sprintf("round %d", st.Round))}
	if st.Phase.Busy() {
		parts = append(parts, labelStyle.Render(st.Phase.String()))
	}
	if st.Paused {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colorAlert).Render("PAUSED"))
	}
	if st.GameOver {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colorAlert).Render("GAME OVER"))
	}
	if status != "" {
		parts = append(parts, valueStyle.Render(status))
	}
	return strings.Join(parts, "  ")
}

func renderPopup(p popupMsg) string {
	switch payload := p.payload.(type) {
	case engine.BadgePopup:
		color := badgeColor(payload.Badge)
		title := lipgloss.NewStyle().Bold(true).Foreground(color).
			Render(strings.ToUpper(string(payload.Badge)) + "!")
		return popupStyle.BorderForeground(color).
			Render(title + "\n\n" + fmt.Sprintf("x%d", payload.Count))

	case engine.RoundSummary:
		var b strings.Builder
		fmt.Fprintf(&b, "ROUND %d\n\n", payload.Round)
		fmt.Fprintf(&b, "WIN      %s\n", humanize.Comma(int64(payload.Win)))
		fmt.Fprintf(&b, "BALANCE  %s\n\n", humanize.Comma(int64(payload.Balance)))
		if payload.CanContinue {
			b.WriteString("n: next game   r: restart")
			return popupStyle.Render(b.String())
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorAlert).Render("GAME OVER"))
		b.WriteString("\n\nr: restart   q: quit")
		return popupStyle.BorderForeground(colorAlert).Render(b.String())

	case engine.Tutorial:
		return popupStyle.Align(lipgloss.Left).Render(renderTutorial(payload))
	}
	return ""
}

func renderTutorial(t engine.Tutorial) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HOW TO PLAY"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Each sweep costs %s and reveals the grid.\n", humanize.Comma(int64(t.SweepCost)))
	fmt.Fprintf(&b, "%d or more of a kind pays its value.\n\n", t.MatchThreshold)
	for _, tier := range t.Tiers {
		fmt.Fprintf(&b, "%-7s %s matches  x%d\n",
			strings.ToUpper(string(tier.Badge)), tierRange(tier), tier.Multiplier)
	}
	b.WriteString("\nspace: sweep   p: pause   esc: close")
	return b.String()
}

func tierRange(t payout.Tier) string {
	if t.Max == 0 {
		return fmt.Sprintf("%d+", t.Min)
	}
	if t.Max-1 == t.Min {
		return fmt.Sprintf("%d", t.Min)
	}
	return fmt.Sprintf("%d-%d", t.Min, t.Max-1)
}

func badgeColor(b payout.BadgeKind) lipgloss.Color {
	if c, ok := badgeColors[b]; ok {
		return c
	}
	return colorAccent
}

// formatAgo renders a timestamp relative to now for tables.
func formatAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
