// Package storage provides SQLite-based persistence for high scores and
// operator settings. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection backing both repositories.
type Store struct {
	db *sql.DB
}

// HighScoreEntry is one entry of the persisted high-score table.
type HighScoreEntry struct {
	Name  string
	Score int64
	Date  time.Time
}

// OperatorSettings is the persisted machine configuration an operator can
// adjust from the service menu.
type OperatorSettings struct {
	BallsPerGame    int
	MaxPlayers      int
	TiltWarnings    int
	BallSaveSeconds float64
}

// DefaultOperatorSettings returns the factory defaults used when no store
// exists yet.
func DefaultOperatorSettings() OperatorSettings {
	return OperatorSettings{
		BallsPerGame:    3,
		MaxPlayers:      4,
		TiltWarnings:    2,
		BallSaveSeconds: 8.0,
	}
}

// Open creates or opens a SQLite database at the given path, creating
// parent directories and running migrations as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);

		CREATE TABLE IF NOT EXISTS operator_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			balls_per_game INTEGER NOT NULL,
			max_players INTEGER NOT NULL,
			tilt_warnings INTEGER NOT NULL,
			ball_save_seconds REAL NOT NULL
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

// LoadHighScores returns entries ordered highest score first. An empty
// table returns an empty, non-nil slice.
func (s *Store) LoadHighScores(limit int) ([]HighScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT name, score, created_at FROM high_scores ORDER BY score DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	entries := make([]HighScoreEntry, 0)
	for rows.Next() {
		var e HighScoreEntry
		var createdAt any
		if err := rows.Scan(&e.Name, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Date = parseTimestamp(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveHighScores replaces the persisted table with entries, which the
// caller has already ordered and truncated to the board size.
func (s *Store) SaveHighScores(entries []HighScoreEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear high scores: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(
			"INSERT INTO high_scores (name, score, created_at) VALUES (?, ?, ?)",
			e.Name, e.Score, e.Date,
		); err != nil {
			return fmt.Errorf("storage: cannot insert high score: %w", err)
		}
	}
	return tx.Commit()
}

// LoadOperatorSettings returns the persisted settings, or
// DefaultOperatorSettings if none have been saved yet.
func (s *Store) LoadOperatorSettings() (OperatorSettings, error) {
	var cfg OperatorSettings
	err := s.db.QueryRow(
		`SELECT balls_per_game, max_players, tilt_warnings, ball_save_seconds FROM operator_settings WHERE id = 1`,
	).Scan(&cfg.BallsPerGame, &cfg.MaxPlayers, &cfg.TiltWarnings, &cfg.BallSaveSeconds)
	if err == sql.ErrNoRows {
		return DefaultOperatorSettings(), nil
	}
	if err != nil {
		return OperatorSettings{}, fmt.Errorf("storage: cannot query operator settings: %w", err)
	}
	return cfg, nil
}

// SaveOperatorSettings persists cfg, replacing any prior row.
func (s *Store) SaveOperatorSettings(cfg OperatorSettings) error {
	_, err := s.db.Exec(
		`INSERT INTO operator_settings (id, balls_per_game, max_players, tilt_warnings, ball_save_seconds)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			balls_per_game = excluded.balls_per_game,
			max_players = excluded.max_players,
			tilt_warnings = excluded.tilt_warnings,
			ball_save_seconds = excluded.ball_save_seconds`,
		cfg.BallsPerGame, cfg.MaxPlayers, cfg.TiltWarnings, cfg.BallSaveSeconds,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save operator settings: %w", err)
	}
	return nil
}

func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
