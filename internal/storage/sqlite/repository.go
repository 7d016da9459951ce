// Package sqlite stores leads in a local SQLite database using the pure Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-careassess/internal/storage"
	"github.com/goliatone/go-careassess/pkg/lead"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS leads (
	id                TEXT PRIMARY KEY,
	created_at        INTEGER NOT NULL,
	source            TEXT NOT NULL,
	name              TEXT NOT NULL,
	phone             TEXT NOT NULL,
	email             TEXT NOT NULL,
	best_time         TEXT NOT NULL DEFAULT '',
	care_type         TEXT NOT NULL,
	memory_care_score INTEGER NOT NULL,
	answers           TEXT NOT NULL,
	recommendation    TEXT NOT NULL,
	signals           TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC)`,
}

const selectColumns = `id, created_at, source, name, phone, email, best_time, care_type,
	memory_care_score, answers, recommendation, signals`

var _ lead.Repository = (*Repository)(nil)

// Repository implements lead.Repository on SQLite.
type Repository struct {
	db *sql.DB
}

// Open creates the database file (and its directory) when missing and
// applies the schema.
func Open(ctx context.Context, path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One writer avoids SQLITE_BUSY under concurrent submissions.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("sqlite: enable WAL: %w", err)
	}
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, l lead.Lead) error {
	cols, err := storage.Encode(l)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO leads (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			name = excluded.name,
			phone = excluded.phone,
			email = excluded.email,
			best_time = excluded.best_time,
			care_type = excluded.care_type,
			memory_care_score = excluded.memory_care_score,
			answers = excluded.answers,
			recommendation = excluded.recommendation,
			signals = excluded.signals`,
		cols.ID, l.CreatedAt.UTC().UnixNano(), cols.Source, cols.Name, cols.Phone, cols.Email,
		cols.BestTime, cols.CareType, cols.MemoryCareScore,
		string(cols.Answers), string(cols.Recommendation), string(cols.Signals),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save lead %s: %w", l.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (lead.Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM leads WHERE id = ?`, id)
	l, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lead.Lead{}, lead.ErrNotFound
	}
	if err != nil {
		return lead.Lead{}, fmt.Errorf("sqlite: get lead %s: %w", id, err)
	}
	return l, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]lead.Lead, error) {
	query := `SELECT ` + selectColumns + ` FROM leads ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list leads: %w", err)
	}
	defer rows.Close()

	out := []lead.Lead{}
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (lead.Lead, error) {
	var (
		cols                    storage.Columns
		createdAt               int64
		answers, rec, signalsJS string
	)
	if err := s.Scan(&cols.ID, &createdAt, &cols.Source, &cols.Name, &cols.Phone, &cols.Email,
		&cols.BestTime, &cols.CareType, &cols.MemoryCareScore, &answers, &rec, &signalsJS); err != nil {
		return lead.Lead{}, err
	}
	cols.Answers = []byte(answers)
	cols.Recommendation = []byte(rec)
	cols.Signals = []byte(signalsJS)

	l, err := storage.Decode(cols)
	if err != nil {
		return lead.Lead{}, err
	}
	l.CreatedAt = time.Unix(0, createdAt).UTC()
	return l, nil
}
