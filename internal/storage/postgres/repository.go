// Package postgres stores leads in PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-careassess/internal/storage"
	"github.com/goliatone/go-careassess/pkg/lead"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                UUID PRIMARY KEY,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		source            VARCHAR(32) NOT NULL,
		name              VARCHAR(255) NOT NULL,
		phone             VARCHAR(32) NOT NULL,
		email             VARCHAR(255) NOT NULL,
		best_time         VARCHAR(64) NOT NULL DEFAULT '',
		care_type         VARCHAR(32) NOT NULL,
		memory_care_score SMALLINT NOT NULL,
		answers           JSONB NOT NULL,
		recommendation    JSONB NOT NULL,
		signals           JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_care_type ON leads (care_type)`,
}

const selectColumns = `id::text, created_at, source, name, phone, email, best_time, care_type,
	memory_care_score, answers, recommendation, signals`

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// DefaultPoolConfig matches a small web service.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxConns: 10, MinConns: 2, MaxConnLifetime: time.Hour}
}

var _ lead.Repository = (*Repository)(nil)

// Repository implements lead.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn, pings it and applies the schema.
func Connect(ctx context.Context, dsn string, cfg PoolConfig) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres: DATABASE_URL not set")
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// New wraps an existing pool; the schema is expected to exist.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: apply schema: %w", err)
		}
	}
	return nil
}

// Close releases the pool.
func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) Save(ctx context.Context, l lead.Lead) error {
	cols, err := storage.Encode(l)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO leads (id, created_at, source, name, phone, email, best_time, care_type,
			memory_care_score, answers, recommendation, signals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			best_time = EXCLUDED.best_time,
			care_type = EXCLUDED.care_type,
			memory_care_score = EXCLUDED.memory_care_score,
			answers = EXCLUDED.answers,
			recommendation = EXCLUDED.recommendation,
			signals = EXCLUDED.signals`,
		cols.ID, l.CreatedAt.UTC(), cols.Source, cols.Name, cols.Phone, cols.Email,
		cols.BestTime, cols.CareType, cols.MemoryCareScore,
		string(cols.Answers), string(cols.Recommendation), string(cols.Signals),
	)
	if err != nil {
		return fmt.Errorf("postgres: save lead %s: %w", l.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (lead.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM leads WHERE id::text = $1`, id)
	l, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return lead.Lead{}, lead.ErrNotFound
	}
	if err != nil {
		return lead.Lead{}, fmt.Errorf("postgres: get lead %s: %w", id, err)
	}
	return l, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]lead.Lead, error) {
	query := `SELECT ` + selectColumns + ` FROM leads ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list leads: %w", err)
	}
	defer rows.Close()

	out := []lead.Lead{}
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scan(row pgx.Row) (lead.Lead, error) {
	var (
		cols      storage.Columns
		createdAt time.Time
		score     int16
	)
	if err := row.Scan(&cols.ID, &createdAt, &cols.Source, &cols.Name, &cols.Phone, &cols.Email,
		&cols.BestTime, &cols.CareType, &score, &cols.Answers, &cols.Recommendation, &cols.Signals); err != nil {
		return lead.Lead{}, err
	}
	cols.MemoryCareScore = int(score)

	l, err := storage.Decode(cols)
	if err != nil {
		return lead.Lead{}, err
	}
	l.CreatedAt = createdAt.UTC()
	return l, nil
}
