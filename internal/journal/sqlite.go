package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/charleslucas/tbdmud/internal/game"
)

// SQLiteWriter stores one row per resolution in the resolutions table.
type SQLiteWriter struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteWriter{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("setting %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tick INTEGER NOT NULL,
			entry INTEGER NOT NULL,
			due INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			scope TEXT NOT NULL,
			origin TEXT NOT NULL,
			target TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL,
			deliveries INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_tick ON resolutions(tick);`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_origin_tick ON resolutions(origin, tick);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteWriter) Write(ctx context.Context, r game.Resolution) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (tick, entry, due, name, kind, scope, origin, target, outcome, reason, deliveries)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.Tick), int64(r.Entry), int64(r.Due), r.Name, r.Kind, r.Scope,
		r.Origin, r.Target, string(r.Outcome), r.Reason, r.Deliveries,
	)
	if err != nil {
		return fmt.Errorf("inserting resolution: %w", err)
	}
	return nil
}

// Recent returns up to limit records, oldest first, from the newest written.
func (s *SQLiteWriter) Recent(ctx context.Context, limit int) ([]game.Resolution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, entry, due, name, kind, scope, origin, target, outcome, reason, deliveries
		FROM (SELECT * FROM resolutions ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying resolutions: %w", err)
	}
	defer rows.Close()

	var out []game.Resolution
	for rows.Next() {
		var (
			r              game.Resolution
			tick, ent, due int64
			outcome        string
		)
		err := rows.Scan(&tick, &ent, &due, &r.Name, &r.Kind, &r.Scope,
			&r.Origin, &r.Target, &outcome, &r.Reason, &r.Deliveries)
		if err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		r.Tick, r.Entry, r.Due = uint64(tick), uint64(ent), uint64(due)
		r.Outcome = game.Outcome(outcome)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}
