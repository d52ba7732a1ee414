package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tron-sweep/internal/payout"
	"github.com/vovakirdan/tron-sweep/internal/platform/tui"
	"github.com/vovakirdan/tron-sweep/internal/storage"
)

var (
	flagHistorySession string
	flagHistoryLimit   int
	flagHistorySummary bool
	flagHistoryTUI     bool
	flagHistoryClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show played rounds and statistics",
	Long: `Display recent rounds and the return to player (RTP) of the history.

Examples:
  sweep history
  sweep history --limit 50
  sweep history --session 3f1c...   # one session only
  sweep history --sessions          # one line per session
  sweep history --tui               # interactive board`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistorySession, "session", "", "Only show this session")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of rounds to show")
	historyCmd.Flags().BoolVar(&flagHistorySummary, "sessions", false, "Summarize per session")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Open the interactive history board")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the whole history")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening history database: %w", err)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		if err := store.ClearRounds(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil

	case flagHistoryTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, width, height)

	case flagHistorySummary:
		return printSessions(store)
	}

	var rounds []storage.Round
	if flagHistorySession != "" {
		rounds, err = store.SessionRounds(flagHistorySession)
		if len(rounds) > flagHistoryLimit && flagHistoryLimit > 0 {
			rounds = rounds[len(rounds)-flagHistoryLimit:]
		}
	} else {
		rounds, err = store.RecentRounds(flagHistoryLimit)
	}
	if err != nil {
		return err
	}

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Play 'sweep play' to start!")
		return nil
	}

	fmt.Printf("  %-8s  %-5s  %-22s  %8s  %9s  %-18s  %s\n",
		"Session", "Round", "Matches", "Win", "Balance", "Badges", "Played")
	fmt.Printf("  %-8s  %-5s  %-22s  %8s  %9s  %-18s  %s\n",
		"-------", "-----", "-------", "---", "-------", "------", "------")
	for _, r := range rounds {
		fmt.Printf("  %-8s  %-5d  %-22s  %8s  %9s  %-18s  %s\n",
			shortID(r.SessionID),
			r.Round,
			matchesText(r.Matches),
			humanize.Comma(int64(r.Win)),
			humanize.Comma(int64(r.Balance)),
			badgesText(r.Badges),
			humanize.Time(r.PlayedAt),
		)
	}

	stats, err := store.GetStats(flagHistorySession)
	if err != nil {
		return err
	}
	fmt.Println()
	printStats(stats)
	return nil
}

func printSessions(store *storage.Store) error {
	sessions, err := store.SessionStats(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-8s  %6s  %5s  %10s  %7s  %s\n", "Session", "Rounds", "Wins", "Net", "RTP", "Last played")
	fmt.Printf("  %-8s  %6s  %5s  %10s  %7s  %s\n", "-------", "------", "----", "---", "---", "-----------")
	for _, st := range sessions {
		fmt.Printf("  %-8s  %6d  %5d  %10s  %6s%%  %s\n",
			shortID(st.SessionID),
			st.Rounds,
			st.Wins,
			humanize.Comma(st.Net()),
			st.RTP().Shift(2).StringFixed(1),
			humanize.Time(st.LastPlayed),
		)
	}
	return nil
}

func printStats(st *storage.Stats) {
	fmt.Printf("Rounds: %s   Wins: %s (%s%%)   Best: %s\n",
		humanize.Comma(int64(st.Rounds)),
		humanize.Comma(int64(st.Wins)),
		st.HitRate().Shift(2).StringFixed(1),
		humanize.Comma(int64(st.BestReward)),
	)
	fmt.Printf("Wagered: %s   Paid: %s   Net: %s   RTP: %s%%\n",
		humanize.Comma(st.TotalCost),
		humanize.Comma(st.TotalReward),
		humanize.Comma(st.Net()),
		st.RTP().Shift(2).StringFixed(1),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func matchesText(matches []payout.WinningCell) string {
	if len(matches) == 0 {
		return "-"
	}
	parts := make([]string, len(matches))
	for i, wc := range matches {
		parts[i] = fmt.Sprintf("%s x%d", wc.Type, wc.Count)
	}
	return strings.Join(parts, ", ")
}

func badgesText(counts payout.BadgeCounts) string {
	var parts []string
	for _, b := range []payout.BadgeKind{payout.BadgeDouble, payout.BadgeTriple, payout.BadgeMega} {
		if counts[b] > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d", b, counts[b]))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
