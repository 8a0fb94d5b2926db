package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasMacros(t *testing.T) {
	assert.False(t, NutritionItem{Description: "water"}.HasMacros())
	assert.True(t, NutritionItem{Description: "egg", Protein: 6}.HasMacros())
	assert.True(t, NutritionItem{Description: "banana", Calories: 105}.HasMacros())
}

func TestFactEntryItem(t *testing.T) {
	entry := FactEntry{
		Name:       "banana",
		Calories:   105,
		Protein:    1,
		Carbs:      27,
		Fat:        0,
		UnitWeight: 118,
		Provenance: ProvenanceCurated,
	}

	item := entry.Item()
	assert.Equal(t, "banana", item.Description)
	assert.Equal(t, 105, item.Calories)
	assert.Equal(t, 118, item.UnitWeight)
}
