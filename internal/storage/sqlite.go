// Package storage persists user stats, achievements and leaderboards in
// SQLite. Uses the pure-Go modernc.org/sqlite driver to avoid CGO.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store manages the SQLite connection shared by every platform session.
type Store struct {
	db *sqlx.DB
}

// Achievement is the persisted state of one achievement for a user.
type Achievement struct {
	APIName    string
	Achieved   bool
	UnlockedAt time.Time // zero while locked
}

// LeaderboardEntry is a single submitted score.
type LeaderboardEntry struct {
	ID        int64
	Board     string
	User      string
	Score     int
	CreatedAt time.Time
}

type achievementRow struct {
	APIName    string        `db:"api_name"`
	Achieved   bool          `db:"achieved"`
	UnlockedAt sql.NullInt64 `db:"unlocked_at"`
}

type entryRow struct {
	ID        int64  `db:"id"`
	Board     string `db:"board"`
	User      string `db:"user_name"`
	Score     int    `db:"score"`
	CreatedAt int64  `db:"created_at"`
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

	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions share the store; one connection keeps writers serialized.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadStats returns every stored stat value for the user.
func (s *Store) LoadStats(user string, appID uint32) (map[string]float64, error) {
	var rows []struct {
		Name  string  `db:"name"`
		Value float64 `db:"value"`
	}
	err := s.db.Select(&rows,
		"SELECT name, value FROM user_stats WHERE user_name = ? AND app_id = ?",
		user, appID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load stats: %w", err)
	}

	values := make(map[string]float64, len(rows))
	for _, r := range rows {
		values[r.Name] = r.Value
	}
	return values, nil
}

// SaveStats upserts the given stat values in one transaction.
func (s *Store) SaveStats(user string, appID uint32, values map[string]float64, at time.Time) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for name, value := range values {
		_, err := tx.Exec(
			`INSERT INTO user_stats (user_name, app_id, name, value, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (user_name, app_id, name)
			 DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			user, appID, name, value, at.Unix(),
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save stat %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit stats: %w", err)
	}
	return nil
}

// LoadAchievements returns the stored achievement state keyed by API name.
func (s *Store) LoadAchievements(user string, appID uint32) (map[string]Achievement, error) {
	var rows []achievementRow
	err := s.db.Select(&rows,
		"SELECT api_name, achieved, unlocked_at FROM user_achievements WHERE user_name = ? AND app_id = ?",
		user, appID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load achievements: %w", err)
	}

	out := make(map[string]Achievement, len(rows))
	for _, r := range rows {
		a := Achievement{APIName: r.APIName, Achieved: r.Achieved}
		if r.UnlockedAt.Valid {
			a.UnlockedAt = time.Unix(r.UnlockedAt.Int64, 0)
		}
		out[r.APIName] = a
	}
	return out, nil
}

// UnlockAchievements marks the achievements as achieved. The first unlock
// time is kept when an achievement is unlocked again.
func (s *Store) UnlockAchievements(user string, appID uint32, apiNames []string, at time.Time) error {
	if len(apiNames) == 0 {
		return nil
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range apiNames {
		_, err := tx.Exec(
			`INSERT INTO user_achievements (user_name, app_id, api_name, achieved, unlocked_at)
			 VALUES (?, ?, ?, 1, ?)
			 ON CONFLICT (user_name, app_id, api_name)
			 DO UPDATE SET achieved = 1, unlocked_at = COALESCE(user_achievements.unlocked_at, excluded.unlocked_at)`,
			user, appID, name, at.Unix(),
		)
		if err != nil {
			return fmt.Errorf("storage: cannot unlock %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit achievements: %w", err)
	}
	return nil
}

// ResetUser deletes the user's stats and, optionally, achievements.
func (s *Store) ResetUser(user string, appID uint32, achievements bool) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_stats WHERE user_name = ? AND app_id = ?", user, appID); err != nil {
		return fmt.Errorf("storage: cannot reset stats: %w", err)
	}
	if achievements {
		if _, err := tx.Exec("DELETE FROM user_achievements WHERE user_name = ? AND app_id = ?", user, appID); err != nil {
			return fmt.Errorf("storage: cannot reset achievements: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit reset: %w", err)
	}
	return nil
}

// SubmitScore records a score on a leaderboard.
// Returns the ID of the inserted record.
func (s *Store) SubmitScore(appID uint32, board, user string, score int, at time.Time) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO leaderboard_entries (board, app_id, user_name, score, created_at) VALUES (?, ?, ?, ?, ?)",
		board, appID, user, score, at.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot submit score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopEntries returns the best entries on a board. Ascending boards rank the
// lowest score first.
func (s *Store) TopEntries(appID uint32, board string, ascending bool, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	order := "DESC"
	if ascending {
		order = "ASC"
	}

	var rows []entryRow
	err := s.db.Select(&rows,
		`SELECT id, board, user_name, score, created_at
		 FROM leaderboard_entries
		 WHERE app_id = ? AND board = ?
		 ORDER BY score `+order+`, id ASC
		 LIMIT ?`,
		appID, board, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, LeaderboardEntry{
			ID:        r.ID,
			Board:     r.Board,
			User:      r.User,
			Score:     r.Score,
			CreatedAt: time.Unix(r.CreatedAt, 0),
		})
	}
	return entries, nil
}

// EntryCount returns the number of entries on a board.
func (s *Store) EntryCount(appID uint32, board string) (int, error) {
	var n int
	err := s.db.Get(&n,
		"SELECT COUNT(*) FROM leaderboard_entries WHERE app_id = ? AND board = ?",
		appID, board,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count entries: %w", err)
	}
	return n, nil
}

// Rank returns the 1-based position a score holds on a board.
func (s *Store) Rank(appID uint32, board string, score int, ascending bool) (int, error) {
	cmp := ">"
	if ascending {
		cmp = "<"
	}
	var better int
	err := s.db.Get(&better,
		"SELECT COUNT(*) FROM leaderboard_entries WHERE app_id = ? AND board = ? AND score "+cmp+" ?",
		appID, board, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot rank score: %w", err)
	}
	return better + 1, nil
}

// Users lists every user with stored stats for the app.
func (s *Store) Users(appID uint32) ([]string, error) {
	var users []string
	err := s.db.Select(&users,
		"SELECT DISTINCT user_name FROM user_stats WHERE app_id = ? ORDER BY user_name",
		appID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list users: %w", err)
	}
	return users, nil
}
