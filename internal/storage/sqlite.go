// Package storage provides SQLite-based persistence for played rounds.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tron-sweep/internal/board"
	"github.com/vovakirdan/tron-sweep/internal/engine"
	"github.com/vovakirdan/tron-sweep/internal/payout"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for round history.
type Store struct {
	db *sql.DB
}

// Round is one settled round.
type Round struct {
	Seq         int64
	ID          string
	SessionID   string
	Round       int
	Cost        int
	Reward      int
	Win         int
	Balance     int
	Won         bool
	FastForward bool
	Matches     []payout.WinningCell
	Badges      payout.BadgeCounts
	PlayedAt    time.Time
}

// RoundFromRecord converts an engine round record.
func RoundFromRecord(rec engine.RoundRecord) Round {
	return Round{
		ID:          rec.ID,
		SessionID:   rec.SessionID,
		Round:       rec.Round,
		Cost:        rec.Cost,
		Reward:      rec.Reward,
		Win:         rec.Win,
		Balance:     rec.Balance,
		Won:         len(rec.Winning) > 0,
		FastForward: rec.FastForward,
		Matches:     rec.Winning,
		Badges:      rec.Badges,
		PlayedAt:    rec.PlayedAt,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			cost INTEGER NOT NULL,
			reward INTEGER NOT NULL DEFAULT 0,
			win INTEGER NOT NULL DEFAULT 0,
			balance INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			fast_forward INTEGER NOT NULL DEFAULT 0,
			played_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_id, round);

		CREATE TABLE IF NOT EXISTS round_matches (
			round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
			cell_type TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (round_id, cell_type)
		);

		CREATE TABLE IF NOT EXISTS round_badges (
			round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
			badge TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (round_id, badge)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRound stores a round with its matches and badges.
func (s *Store) SaveRound(r Round) error {
	if r.ID == "" {
		return errors.New("storage: round id is required")
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rounds
		 (id, session_id, round, cost, reward, win, balance, won, fast_forward, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Round, r.Cost, r.Reward, r.Win, r.Balance,
		r.Won, r.FastForward, r.PlayedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save round: %w", err)
	}

	for _, m := range r.Matches {
		if _, err := tx.Exec(
			"INSERT INTO round_matches (round_id, cell_type, count) VALUES (?, ?, ?)",
			r.ID, m.Type.String(), m.Count,
		); err != nil {
			return fmt.Errorf("storage: cannot save match: %w", err)
		}
	}

	for badge, n := range r.Badges {
		if n <= 0 {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO round_badges (round_id, badge, count) VALUES (?, ?, ?)",
			r.ID, string(badge), n,
		); err != nil {
			return fmt.Errorf("storage: cannot save badge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit round: %w", err)
	}
	return nil
}

// RecordRound implements engine.RoundRecorder.
func (s *Store) RecordRound(rec engine.RoundRecord) error {
	return s.SaveRound(RoundFromRecord(rec))
}

var _ engine.RoundRecorder = (*Store)(nil)

const roundColumns = `seq, id, session_id, round, cost, reward, win, balance, won, fast_forward, played_at`

// RecentRounds returns the latest rounds across all sessions, newest first.
func (s *Store) RecentRounds(limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRounds(
		`SELECT `+roundColumns+` FROM rounds ORDER BY seq DESC LIMIT ?`,
		limit,
	)
}

// SessionRounds returns every round of a session in play order.
func (s *Store) SessionRounds(sessionID string) ([]Round, error) {
	return s.queryRounds(
		`SELECT `+roundColumns+` FROM rounds WHERE session_id = ? ORDER BY round, seq`,
		sessionID,
	)
}

func (s *Store) queryRounds(query string, args ...any) ([]Round, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}

	var rounds []Round
	for rows.Next() {
		var r Round
		var playedAt any
		if err := rows.Scan(
			&r.Seq, &r.ID, &r.SessionID, &r.Round, &r.Cost, &r.Reward,
			&r.Win, &r.Balance, &r.Won, &r.FastForward, &playedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.PlayedAt = parseTime(playedAt)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range rounds {
		if err := s.loadDetails(&rounds[i]); err != nil {
			return nil, err
		}
	}
	return rounds, nil
}

func (s *Store) loadDetails(r *Round) error {
	rows, err := s.db.Query(
		"SELECT cell_type, count FROM round_matches WHERE round_id = ? ORDER BY rowid",
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var wc payout.WinningCell
		if err := rows.Scan(&name, &wc.Count); err != nil {
			return fmt.Errorf("storage: cannot scan match: %w", err)
		}
		t, err := board.ParseCellType(name)
		if err != nil {
			return fmt.Errorf("storage: round %s: %w", r.ID, err)
		}
		wc.Type = t
		r.Matches = append(r.Matches, wc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: row iteration error: %w", err)
	}

	r.Badges, err = s.badgeCounts("SELECT badge, count FROM round_badges WHERE round_id = ?", r.ID)
	return err
}

// BadgeTotals sums awarded badges. An empty session id covers all sessions.
func (s *Store) BadgeTotals(sessionID string) (payout.BadgeCounts, error) {
	if sessionID == "" {
		return s.badgeCounts("SELECT badge, SUM(count) FROM round_badges GROUP BY badge")
	}
	return s.badgeCounts(
		`SELECT b.badge, SUM(b.count)
		 FROM round_badges b JOIN rounds r ON r.id = b.round_id
		 WHERE r.session_id = ?
		 GROUP BY b.badge`,
		sessionID,
	)
}

func (s *Store) badgeCounts(query string, args ...any) (payout.BadgeCounts, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query badges: %w", err)
	}
	defer rows.Close()

	counts := payout.BadgeCounts{}
	for rows.Next() {
		var badge string
		var n int
		if err := rows.Scan(&badge, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan badge: %w", err)
		}
		counts[payout.BadgeKind(badge)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// ClearRounds deletes the whole history.
func (s *Store) ClearRounds() error {
	for _, table := range []string{"round_badges", "round_matches", "rounds"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
