package model

import "time"

// Provenance marks where a fact-cache entry originated.
type Provenance string

const (
	// ProvenanceCurated entries are seeded from a reviewed dataset and are
	// never written by the pipeline.
	ProvenanceCurated Provenance = "curated"
	// ProvenanceCrowdsourced entries were written back from a user's AI call.
	ProvenanceCrowdsourced Provenance = "ai-crowdsourced"
)

// NutritionItem is the canonical output shape for all food-analysis
// operations. After coercion every macro field is a non-negative integer.
type NutritionItem struct {
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fat         int    `json:"fat"`
	// UnitWeight is grams per one commonly-eaten unit (one slice, one cup).
	UnitWeight int `json:"unit_weight"`
}

// HasMacros reports whether at least one macro field is non-zero. Items with
// all-zero macros are not worth crowdsourcing.
func (n NutritionItem) HasMacros() bool {
	return n.Calories != 0 || n.Protein != 0 || n.Carbs != 0 || n.Fat != 0
}

// FactEntry is a persisted fact-cache row keyed by normalized food name.
// Entries are immutable once written; the pipeline performs point lookups
// and inserts only.
type FactEntry struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Calories   int        `json:"calories"`
	Protein    int        `json:"protein"`
	Carbs      int        `json:"carbs"`
	Fat        int        `json:"fat"`
	UnitWeight int        `json:"unit_weight"`
	Provenance Provenance `json:"provenance"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Item converts a fact entry back into the canonical item shape.
func (f FactEntry) Item() NutritionItem {
	return NutritionItem{
		Description: f.Name,
		Calories:    f.Calories,
		Protein:     f.Protein,
		Carbs:       f.Carbs,
		Fat:         f.Fat,
		UnitWeight:  f.UnitWeight,
	}
}
