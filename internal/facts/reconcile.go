package facts

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// Reconciler checks AI-derived nutrition items against the shared fact cache.
// The cache is authoritative once populated: a hit fully replaces the
// AI-derived macros, and curated entries are never clobbered because lookup
// takes precedence over insert.
type Reconciler struct {
	store Store
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile resolves one item against the cache. On a miss, an item with at
// least one non-zero macro is written back as ai-crowdsourced so subsequent
// lookups for the same name become deterministic. Store failures degrade to
// returning the AI-derived item unchanged; reconciliation is never fatal.
func (r *Reconciler) Reconcile(ctx context.Context, item model.NutritionItem) model.NutritionItem {
	entry, err := r.store.Lookup(ctx, item.Description)
	if err == nil {
		zap.L().Debug("facts: cache hit",
			zap.String("name", entry.Name),
			zap.String("provenance", string(entry.Provenance)),
		)
		return entry.Item()
	}
	if !errors.Is(err, ErrNotFound) {
		zap.L().Warn("facts: lookup failed, keeping AI values",
			zap.String("name", item.Description),
			zap.Error(err),
		)
		return item
	}

	if !item.HasMacros() {
		return item
	}

	insertErr := r.store.Insert(ctx, model.FactEntry{
		Name:       item.Description,
		Calories:   item.Calories,
		Protein:    item.Protein,
		Carbs:      item.Carbs,
		Fat:        item.Fat,
		UnitWeight: item.UnitWeight,
		Provenance: model.ProvenanceCrowdsourced,
	})
	switch {
	case insertErr == nil:
		zap.L().Info("facts: crowdsourced new entry", zap.String("name", NormalizeName(item.Description)))
	case errors.Is(insertErr, ErrDuplicate):
		// Lost a concurrent insert race; the winning row stands.
	default:
		zap.L().Warn("facts: insert failed",
			zap.String("name", item.Description),
			zap.Error(insertErr),
		)
	}

	return item
}

// ReconcileAll resolves a batch of items in order.
func (r *Reconciler) ReconcileAll(ctx context.Context, items []model.NutritionItem) []model.NutritionItem {
	out := make([]model.NutritionItem, len(items))
	for i, item := range items {
		out[i] = r.Reconcile(ctx, item)
	}
	return out
}
