// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store wraps SQLite access for sessions, words and review progress.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection serializes writers; SQLite allows one at a time anyway.
	raw.SetMaxOpenConns(1)
	// modernc registers as "sqlite"; sqlx binds it like sqlite3.
	db := sqlx.NewDb(raw, "sqlite3")
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			words INTEGER NOT NULL,
			caps_pct REAL NOT NULL,
			punct_pct REAL NOT NULL,
			punct_set TEXT NOT NULL,
			deck_path TEXT NOT NULL,
			total_chars INTEGER NOT NULL,
			total_errors INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			wpm REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_key_errors (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			key_name TEXT NOT NULL,
			errors INTEGER NOT NULL,
			PRIMARY KEY (session_id, key_name)
		);`,
		`CREATE TABLE IF NOT EXISTS session_wrong_words (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL,
			translation TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 0,
			lang TEXT NOT NULL,
			UNIQUE (lang, text)
		);`,
		`CREATE TABLE IF NOT EXISTS learning_progress (
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
			mastery_level REAL NOT NULL,
			ease_factor REAL NOT NULL,
			interval_days INTEGER NOT NULL,
			next_review_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, word_id)
		);`,
		`CREATE TABLE IF NOT EXISTS review_history (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			quality INTEGER NOT NULL,
			reviewed_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_key_errors_key ON session_key_errors(key_name);`,
		`CREATE INDEX IF NOT EXISTS idx_learning_progress_due ON learning_progress(user_id, next_review_at);`,
		`CREATE INDEX IF NOT EXISTS idx_review_history_word ON review_history(user_id, word_id, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

// Review schedules can run far past year 9999, so progress times are unix milliseconds.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// inTx runs fn inside a transaction and rolls back when it fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
