package facts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool, typically a mock in tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS food_facts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	calories    INTEGER NOT NULL DEFAULT 0,
	protein     INTEGER NOT NULL DEFAULT 0,
	carbs       INTEGER NOT NULL DEFAULT 0,
	fat         INTEGER NOT NULL DEFAULT 0,
	unit_weight INTEGER NOT NULL DEFAULT 0,
	provenance  TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_food_facts_name ON food_facts(name);
`

// Migrate applies the fact-cache schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Lookup implements Store.
func (s *PostgresStore) Lookup(ctx context.Context, name string) (*model.FactEntry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at
		 FROM food_facts WHERE name = $1 LIMIT 1`,
		NormalizeName(name),
	)

	var e model.FactEntry
	err := row.Scan(&e.ID, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat,
		&e.UnitWeight, &e.Provenance, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: lookup %q", name)
	}
	return &e, nil
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, entry model.FactEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO food_facts (id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, NormalizeName(entry.Name), entry.Calories, entry.Protein, entry.Carbs,
		entry.Fat, entry.UnitWeight, string(entry.Provenance), time.Now().UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return eris.Wrapf(err, "postgres: insert %q", entry.Name)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]model.FactEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at
		 FROM food_facts ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list")
	}
	defer rows.Close()

	var entries []model.FactEntry
	for rows.Next() {
		var e model.FactEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat,
			&e.UnitWeight, &e.Provenance, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM food_facts`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count")
}
