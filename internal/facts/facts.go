// Package facts is the crowdsourced nutrition fact cache: a shared store
// keyed by normalized food name that can short-circuit or correct AI-derived
// values. The pipeline performs point lookups and inserts only; entries are
// immutable once written.
package facts

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// ErrNotFound is returned by Lookup when no entry matches the name.
var ErrNotFound = eris.New("facts: entry not found")

// ErrDuplicate is returned by Insert when an entry with the same normalized
// name already exists. Concurrent reconciliations for the same unseen food
// race on insert; the loser gets this and treats it as success.
var ErrDuplicate = eris.New("facts: entry already exists")

// Store is the persistence interface for the fact cache.
type Store interface {
	// Lookup finds an entry by normalized name.
	Lookup(ctx context.Context, name string) (*model.FactEntry, error)
	// Insert persists a new entry. Never updates an existing row.
	Insert(ctx context.Context, entry model.FactEntry) error
	// List returns entries ordered by name.
	List(ctx context.Context, limit, offset int) ([]model.FactEntry, error)
	// Count returns the total number of entries.
	Count(ctx context.Context) (int64, error)
	// Migrate applies the schema.
	Migrate(ctx context.Context) error
	Close() error
}

var nameFolder = cases.Fold()

// NormalizeName lowers a food description into its cache key: Unicode case
// folding plus whitespace collapsing, so "Pão  Integral" and "pão integral"
// hit the same row.
func NormalizeName(name string) string {
	folded := nameFolder.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), " ")
}
