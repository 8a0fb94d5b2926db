package facts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS food_facts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	calories    INTEGER NOT NULL DEFAULT 0,
	protein     INTEGER NOT NULL DEFAULT 0,
	carbs       INTEGER NOT NULL DEFAULT 0,
	fat         INTEGER NOT NULL DEFAULT 0,
	unit_weight INTEGER NOT NULL DEFAULT 0,
	provenance  TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_food_facts_name ON food_facts(name);
`

// Migrate applies the fact-cache schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Lookup implements Store.
func (s *SQLiteStore) Lookup(ctx context.Context, name string) (*model.FactEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at
		 FROM food_facts WHERE name = ? LIMIT 1`,
		NormalizeName(name),
	)

	var e model.FactEntry
	var createdAt time.Time
	err := row.Scan(&e.ID, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat,
		&e.UnitWeight, &e.Provenance, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: lookup %q", name)
	}
	e.CreatedAt = createdAt
	return &e, nil
}

// Insert implements Store.
func (s *SQLiteStore) Insert(ctx context.Context, entry model.FactEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_facts (id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, NormalizeName(entry.Name), entry.Calories, entry.Protein, entry.Carbs,
		entry.Fat, entry.UnitWeight, string(entry.Provenance), time.Now().UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return eris.Wrapf(err, "sqlite: insert %q", entry.Name)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]model.FactEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at
		 FROM food_facts ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list")
	}
	defer rows.Close()

	var entries []model.FactEntry
	for rows.Next() {
		var e model.FactEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat,
			&e.UnitWeight, &e.Provenance, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_facts`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count")
}
