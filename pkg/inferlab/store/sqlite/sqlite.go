// Package sqlite is the SQLite-backed store.Store implementation,
// used when the web front-end is given a history file on disk.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reasonware/inferlab/pkg/inferlab/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite run-history database with
// WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	created_at TEXT NOT NULL,
	success INTEGER NOT NULL,
	goals TEXT,
	final_facts TEXT,
	rule_ids TEXT,
	trace TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces one run record. List-valued fields are
// stored as JSON columns.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	goalsJSON, err := json.Marshal(r.Goals)
	if err != nil {
		return err
	}
	factsJSON, err := json.Marshal(r.FinalFacts)
	if err != nil {
		return err
	}
	rulesJSON, err := json.Marshal(r.RuleIDs)
	if err != nil {
		return err
	}
	traceJSON, err := json.Marshal(r.Trace)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, mode, created_at, success, goals, final_facts, rule_ids, trace)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	mode=excluded.mode,
	created_at=excluded.created_at,
	success=excluded.success,
	goals=excluded.goals,
	final_facts=excluded.final_facts,
	rule_ids=excluded.rule_ids,
	trace=excluded.trace`,
		r.ID, r.Mode, r.CreatedAt.UTC().Format(time.RFC3339Nano), boolToInt(r.Success),
		string(goalsJSON), string(factsJSON), string(rulesJSON), string(traceJSON))
	return err
}

// GetRun returns a run by id.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, mode, created_at, success, goals, final_facts, rule_ids, trace
FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns up to limit runs, newest first. Run ids are ULIDs,
// so the id orders ties within one timestamp.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
SELECT id, mode, created_at, success, goals, final_facts, rule_ids, trace
FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneRuns deletes all but the keep newest runs.
func (s *sqliteStore) PruneRuns(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?`, keep)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var removed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		removed = append(removed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range removed {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id); err != nil {
			return nil, err
		}
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var (
		r         store.Run
		createdAt string
		success   int
		goalsJSON string
		factsJSON string
		rulesJSON string
		traceJSON string
	)
	if err := row.Scan(&r.ID, &r.Mode, &createdAt, &success,
		&goalsJSON, &factsJSON, &rulesJSON, &traceJSON); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = t
	r.Success = success != 0
	if err := json.Unmarshal([]byte(goalsJSON), &r.Goals); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(factsJSON), &r.FinalFacts); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(rulesJSON), &r.RuleIDs); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(traceJSON), &r.Trace); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
