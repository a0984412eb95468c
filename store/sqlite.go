// Package store persists controller state so a reconnecting host resumes
// the placement stages where the previous session left them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the state database at path.
// ":memory:" keeps everything in process.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; also keeps ":memory:" to a single database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			game_id TEXT PRIMARY KEY,
			count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempted (
			game_id TEXT NOT NULL,
			expansion_id TEXT NOT NULL,
			PRIMARY KEY (game_id, expansion_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Game returns the state of one game. It satisfies supply.StateStore.
func (s *SQLite) Game(id string) *Game {
	return &Game{db: s.db, id: id}
}

type Game struct {
	db *sql.DB
	id string
}

func (g *Game) Progress(ctx context.Context) (int, error) {
	var n int
	err := g.db.QueryRowContext(ctx, `SELECT count FROM progress WHERE game_id = ?`, g.id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select progress: %w", err)
	}
	return n, nil
}

func (g *Game) Advance(ctx context.Context) (int, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO progress (game_id, count) VALUES (?, 1)
		ON CONFLICT(game_id) DO UPDATE SET count = count + 1`, g.id); err != nil {
		return 0, fmt.Errorf("advance progress: %w", err)
	}
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count FROM progress WHERE game_id = ?`, g.id).Scan(&n); err != nil {
		return 0, fmt.Errorf("select progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *Game) Attempted(ctx context.Context, expansionID string) (bool, error) {
	var one int
	err := g.db.QueryRowContext(ctx,
		`SELECT 1 FROM attempted WHERE game_id = ? AND expansion_id = ?`, g.id, expansionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select attempted: %w", err)
	}
	return true, nil
}

func (g *Game) MarkAttempted(ctx context.Context, expansionID string) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO attempted (game_id, expansion_id) VALUES (?, ?)`, g.id, expansionID)
	if err != nil {
		return fmt.Errorf("mark attempted: %w", err)
	}
	return nil
}
