// Package sqlite implements store.Store on top of modernc.org/sqlite:
// open with WAL, init schema on first use, close. Records are keyed by
// ULID and hold JSON-serialised spaces and eval runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
	"github.com/dafhne/engine/pkg/dafhne/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode enabled and the
// schema initialised.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dafhne: opening sqlite store: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("dafhne: enabling wal: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS spaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	genome_json TEXT NOT NULL,
	space_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	accuracy REAL NOT NULL,
	honesty REAL NOT NULL,
	fitness REAL NOT NULL,
	genome_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) PutSpace(ctx context.Context, rec store.SpaceRecord) error {
	genomeJSON, err := json.Marshal(rec.Genome)
	if err != nil {
		return fmt.Errorf("dafhne: marshalling genome: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO spaces (id, name, genome_json, space_json, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name=excluded.name, genome_json=excluded.genome_json, space_json=excluded.space_json`,
		rec.ID, rec.Name, string(genomeJSON), string(rec.SpaceJSON), rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("dafhne: inserting space: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetSpace(ctx context.Context, id string) (store.SpaceRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, genome_json, space_json, created_at FROM spaces WHERE id = ?`, id)
	var rec store.SpaceRecord
	var genomeJSON, createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &genomeJSON, &rec.SpaceJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return store.SpaceRecord{}, internalerr.ErrNotFound
		}
		return store.SpaceRecord{}, fmt.Errorf("dafhne: reading space: %w", err)
	}
	if err := json.Unmarshal([]byte(genomeJSON), &rec.Genome); err != nil {
		return store.SpaceRecord{}, fmt.Errorf("dafhne: unmarshalling genome: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return rec, nil
}

func (s *sqliteStore) ListSpaces(ctx context.Context) ([]store.SpaceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, genome_json, space_json, created_at FROM spaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("dafhne: listing spaces: %w", err)
	}
	defer rows.Close()

	var out []store.SpaceRecord
	for rows.Next() {
		var rec store.SpaceRecord
		var genomeJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &genomeJSON, &rec.SpaceJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("dafhne: scanning space row: %w", err)
		}
		if err := json.Unmarshal([]byte(genomeJSON), &rec.Genome); err != nil {
			return nil, fmt.Errorf("dafhne: unmarshalling genome: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) PutRun(ctx context.Context, rec store.RunRecord) error {
	genomeJSON, err := json.Marshal(rec.Genome)
	if err != nil {
		return fmt.Errorf("dafhne: marshalling run genome: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, accuracy, honesty, fitness, genome_json, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Accuracy, rec.Honesty, rec.Fitness, string(genomeJSON), rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("dafhne: inserting run: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	query := `SELECT id, accuracy, honesty, fitness, genome_json, created_at FROM runs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dafhne: listing runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunRecord
	for rows.Next() {
		var rec store.RunRecord
		var genomeJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Accuracy, &rec.Honesty, &rec.Fitness, &genomeJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("dafhne: scanning run row: %w", err)
		}
		if err := json.Unmarshal([]byte(genomeJSON), &rec.Genome); err != nil {
			return nil, fmt.Errorf("dafhne: unmarshalling run genome: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
