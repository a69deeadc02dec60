// apps/wordbag/internal/store/sqlite.go
//
// SQLite backend for the bag snapshot.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Creating the schema on first use (idempotent, recorded in _migrations).
//   - Replacing the whole word table inside one transaction on Save.
//
// Note: the database is opened per call; the tool is single-threaded and
// touches the snapshot only a handful of times per session.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// migrations are applied in order and recorded by name.
var migrations = []struct {
	name string
	sql  string
}{
	{"001_words", `CREATE TABLE IF NOT EXISTS words (word TEXT PRIMARY KEY);`},
}

// SQLiteSnapshot stores the bag in a SQLite database file.
type SQLiteSnapshot struct {
	path string
}

// NewSQLiteSnapshot returns a snapshot backed by the database at path.
func NewSQLiteSnapshot(path string) *SQLiteSnapshot {
	return &SQLiteSnapshot{path: path}
}

func (s *SQLiteSnapshot) Location() string { return s.path }

/**
 * Exists reports whether the database file exists and has been migrated.
 * A bare file left behind by a crashed first run does not count.
 */
func (s *SQLiteSnapshot) Exists(ctx context.Context) bool {
	if !fileutil.Exists(s.path) {
		return false
	}
	db, err := openDB(s.path)
	if err != nil {
		return false
	}
	defer db.Close()
	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='words'`,
	).Scan(&n)
	return err == nil && n == 1
}

/**
 * Load reads every row of the words table.
 *
 * @returns ErrNoSnapshot if the database was never written.
 */
func (s *SQLiteSnapshot) Load(ctx context.Context) (words.Bag, error) {
	if !s.Exists(ctx) {
		return nil, ErrNoSnapshot
	}
	db, err := openDB(s.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT word FROM words`)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	defer rows.Close()

	out := words.Bag{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
		}
		out[w] = struct{}{}
	}
	return out, rows.Err()
}

/**
 * Save replaces the table contents with b in a single transaction.
 * On any failure the transaction is rolled back and the old rows survive.
 */
func (s *SQLiteSnapshot) Save(ctx context.Context, b words.Bag) error {
	db, err := openDB(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer db.Close()
	if err := migrate(ctx, db); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrIO, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: clear: %v", ErrIO, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words(word) VALUES (?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare: %v", ErrIO, err)
	}
	defer stmt.Close()
	for _, w := range b.Sorted() {
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert %q: %v", ErrIO, w, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrIO, err)
	}
	log.Debug().Str("path", s.path).Int("count", b.Len()).Msg("sqlite snapshot saved")
	return nil
}

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative paths (e.g. ./data/bolsa.db).
 * - Configures busy timeout and WAL journaling mode.
 */
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

/**
 * migrate applies the embedded migrations once each.
 * Uses a _migrations table to track applied names.
 */
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, m.name).Scan(&done)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.name, err)
		}
		log.Info().Str("migration", m.name).Msg("applied")
	}
	return nil
}
