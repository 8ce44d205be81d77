// internal/daily/store.go
//
// SQLite persistence for Daily Challenge results.
// One row per (player, date); the first finished attempt wins the slot.

package daily

import (
	"context"
	"database/sql"
	"strconv"
)

// Result is one player's finished daily game.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Seed      uint64 `json:"seed"`
	Won       bool   `json:"won"`
	Misses    int    `json:"misses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Misses    int    `json:"misses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store reads and writes daily_results.
type Store struct{ db *sql.DB }

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether playerID has a recorded result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, seed, won, misses, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.PlayerID, r.Date, strconv.FormatUint(r.Seed, 10), won, r.Misses, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the winners for date, fewest misses first, then fastest.
// Default limit is 20 if not specified.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, misses, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY misses ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Misses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
