package facts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

const seedYAML = `facts:
  - name: Banana
    calories: 105
    protein: 1
    carbs: 27
    unit_weight: 118
  - name: Ovo
    calories: 70
    protein: 6
    fat: 5
    unit_weight: 50
  - name: ""
    calories: 999
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeedFromYAML(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	inserted, err := SeedFromYAML(ctx, store, writeSeedFile(t, seedYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	entry, err := store.Lookup(ctx, "banana")
	require.NoError(t, err)
	assert.Equal(t, 105, entry.Calories)
	assert.Equal(t, model.ProvenanceCurated, entry.Provenance)

	// Nameless rows are skipped.
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSeedFromYAMLSkipsExisting(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, model.FactEntry{
		Name: "banana", Calories: 90, Provenance: model.ProvenanceCrowdsourced,
	}))

	inserted, err := SeedFromYAML(ctx, store, writeSeedFile(t, seedYAML))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// Seeding never overwrites an existing row.
	entry, err := store.Lookup(ctx, "banana")
	require.NoError(t, err)
	assert.Equal(t, 90, entry.Calories)
}

func TestSeedFromYAMLMissingFile(t *testing.T) {
	store := newTestSQLite(t)
	_, err := SeedFromYAML(context.Background(), store, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSeedFromYAMLMalformed(t *testing.T) {
	store := newTestSQLite(t)
	_, err := SeedFromYAML(context.Background(), store, writeSeedFile(t, "facts: [not: [valid"))
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	for _, name := range []string{"banana", "oats", "rice"} {
		require.NoError(t, store.Insert(ctx, model.FactEntry{
			Name: name, Calories: 100, Protein: 2, Provenance: model.ProvenanceCurated,
		}))
	}

	path := filepath.Join(t.TempDir(), "facts.xlsx")
	exported, err := ExportXLSX(ctx, store, path)
	require.NoError(t, err)
	assert.Equal(t, 3, exported)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportXLSXEmptyStore(t *testing.T) {
	store := newTestSQLite(t)

	path := filepath.Join(t.TempDir(), "facts.xlsx")
	exported, err := ExportXLSX(context.Background(), store, path)
	require.NoError(t, err)
	assert.Zero(t, exported)
}
