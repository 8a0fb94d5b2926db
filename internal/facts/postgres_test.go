package facts

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func factColumns() []string {
	return []string{"id", "name", "calories", "protein", "carbs", "fat", "unit_weight", "provenance", "created_at"}
}

func TestPostgresLookupHit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at`).
		WithArgs("banana").
		WillReturnRows(pgxmock.NewRows(factColumns()).
			AddRow("id-1", "banana", 105, 1, 27, 0, 118, model.ProvenanceCurated, time.Now()))

	entry, err := s.Lookup(context.Background(), "Banana")
	require.NoError(t, err)
	assert.Equal(t, "banana", entry.Name)
	assert.Equal(t, 105, entry.Calories)
	assert.Equal(t, model.ProvenanceCurated, entry.Provenance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLookupMiss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at`).
		WithArgs("unknown food").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Lookup(context.Background(), "unknown food")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO food_facts`).
		WithArgs(pgxmock.AnyArg(), "banana", 105, 1, 27, 0, 118, "ai-crowdsourced", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Insert(context.Background(), model.FactEntry{
		Name:       "Banana",
		Calories:   105,
		Protein:    1,
		Carbs:      27,
		UnitWeight: 118,
		Provenance: model.ProvenanceCrowdsourced,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertUniqueViolation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO food_facts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.Insert(context.Background(), model.FactEntry{Name: "banana", Provenance: model.ProvenanceCrowdsourced})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, calories, protein, carbs, fat, unit_weight, provenance, created_at`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows(factColumns()).
			AddRow("id-1", "banana", 105, 1, 27, 0, 118, model.ProvenanceCurated, time.Now()).
			AddRow("id-2", "oats", 389, 17, 66, 7, 40, model.ProvenanceCrowdsourced, time.Now()))

	entries, err := s.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "banana", entries[0].Name)
	assert.Equal(t, "oats", entries[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCount(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM food_facts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS food_facts`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
