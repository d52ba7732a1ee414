package storage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stats aggregates the rounds of one session, or of all sessions.
type Stats struct {
	SessionID   string
	Rounds      int
	Wins        int
	TotalCost   int64
	TotalReward int64
	BestReward  int
	LastPlayed  time.Time
}

// RTP is the return to player: total reward over total cost.
func (s Stats) RTP() decimal.Decimal {
	if s.TotalCost == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.TotalReward).Div(decimal.NewFromInt(s.TotalCost)).Round(4)
}

// HitRate is the share of rounds that paid out.
func (s Stats) HitRate() decimal.Decimal {
	if s.Rounds == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Wins)).Div(decimal.NewFromInt(int64(s.Rounds))).Round(4)
}

// Net is total reward minus total cost.
func (s Stats) Net() int64 {
	return s.TotalReward - s.TotalCost
}

const statsColumns = `COUNT(*), COALESCE(SUM(won), 0), COALESCE(SUM(cost), 0),
	COALESCE(SUM(reward), 0), COALESCE(MAX(reward), 0), MAX(played_at)`

// GetStats aggregates the rounds of a session. An empty session id covers
// the whole history.
func (s *Store) GetStats(sessionID string) (*Stats, error) {
	stats := &Stats{SessionID: sessionID}
	var lastPlayed any

	var err error
	if sessionID == "" {
		err = s.db.QueryRow(`SELECT ` + statsColumns + ` FROM rounds`).Scan(
			&stats.Rounds, &stats.Wins, &stats.TotalCost, &stats.TotalReward, &stats.BestReward, &lastPlayed)
	} else {
		err = s.db.QueryRow(`SELECT `+statsColumns+` FROM rounds WHERE session_id = ?`, sessionID).Scan(
			&stats.Rounds, &stats.Wins, &stats.TotalCost, &stats.TotalReward, &stats.BestReward, &lastPlayed)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// SessionStats returns per-session statistics, most recently played first.
func (s *Store) SessionStats(limit int) ([]Stats, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT session_id, `+statsColumns+`
		 FROM rounds
		 GROUP BY session_id
		 ORDER BY MAX(seq) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	defer rows.Close()

	var out []Stats
	for rows.Next() {
		var st Stats
		var lastPlayed any
		if err := rows.Scan(&st.SessionID, &st.Rounds, &st.Wins, &st.TotalCost,
			&st.TotalReward, &st.BestReward, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
