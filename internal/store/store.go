// Package store handles SQLite persistence of solves.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/verte-zerg/speedster/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when deleting a solve that does not exist.
var ErrNotFound = errors.New("solve not found")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for solve data.
type Store struct {
	db    *sql.DB
	newID func() string
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := newWithDB(db)
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

func newWithDB(db *sql.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solves (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			duration_ms INTEGER NOT NULL CHECK (duration_ms >= 0)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_solves_timestamp ON solves(timestamp);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create records a completed solve and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, durationMs int64, at time.Time) (model.Solve, error) {
	if durationMs < 0 {
		return model.Solve{}, fmt.Errorf("invalid duration %dms", durationMs)
	}
	solve := model.Solve{
		ID:         s.newID(),
		Timestamp:  at.UTC(),
		DurationMs: durationMs,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solves (id, timestamp, duration_ms) VALUES (?, ?, ?)`,
		solve.ID, solve.Timestamp.Format(timeLayout), solve.DurationMs)
	if err != nil {
		return model.Solve{}, err
	}
	return solve, nil
}

// Delete removes one solve by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM solves WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every solve.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM solves`)
	return err
}

// QueryAll returns the full history ordered oldest first.
func (s *Store) QueryAll(ctx context.Context) ([]model.Solve, error) {
	return s.ListSolves(ctx, nil)
}

// ListSolves returns solves completed at or after since, oldest first.
// A nil since returns the full history.
func (s *Store) ListSolves(ctx context.Context, since *time.Time) ([]model.Solve, error) {
	query := `SELECT id, timestamp, duration_ms FROM solves`
	var args []any
	if since != nil {
		query += ` WHERE timestamp >= ?`
		args = append(args, since.UTC().Format(timeLayout))
	}
	query += ` ORDER BY timestamp ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var solves []model.Solve
	for rows.Next() {
		var solve model.Solve
		var ts string
		if err := rows.Scan(&solve.ID, &ts, &solve.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, err
		}
		solve.Timestamp = parsed
		solves = append(solves, solve)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return solves, nil
}

// Count returns the number of stored solves.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solves`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
