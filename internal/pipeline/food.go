package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/extract"
	"github.com/macrofuel/macrofuel-api/internal/fetch"
	"github.com/macrofuel/macrofuel-api/internal/genai"
	"github.com/macrofuel/macrofuel-api/internal/model"
)

// AnalyzeFoodText breaks a free-text meal description into nutrition items.
// One description may yield multiple items.
func (p *Pipeline) AnalyzeFoodText(ctx context.Context, text string) ([]model.NutritionItem, error) {
	prompt := fmt.Sprintf(foodTextPrompt, text, nutritionSchema)
	return p.analyzeFood(ctx, genai.Request{Prompt: prompt, ExpectsJSON: true})
}

// AnalyzeFoodPhoto identifies food items in a photo and estimates their
// nutrition facts.
func (p *Pipeline) AnalyzeFoodPhoto(ctx context.Context, data []byte, mime string) ([]model.NutritionItem, error) {
	req := genai.Request{
		Prompt:      fmt.Sprintf(foodPhotoPrompt, nutritionSchema),
		ExpectsJSON: true,
		Image: &genai.ImagePayload{
			B64:  fetch.EncodeBase64Chunked(data),
			MIME: mime,
		},
	}
	return p.analyzeFood(ctx, req)
}

func (p *Pipeline) analyzeFood(ctx context.Context, req genai.Request) ([]model.NutritionItem, error) {
	text, err := p.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := extract.Extract(text)
	if err != nil {
		return nil, err
	}
	payload = extract.Coerce(payload)

	items, err := decodeItems(payload)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	items = p.reconciler.ReconcileAll(ctx, items)
	zap.L().Info("food analysis complete", zap.Int("items", len(items)))
	return items, nil
}

// decodeItems accepts the payload shapes providers actually produce: a bare
// array of items, a single item object, or an object wrapping the array
// under "items" or "foods".
func decodeItems(payload any) ([]model.NutritionItem, error) {
	if obj, ok := payload.(map[string]any); ok {
		for _, key := range []string{"items", "foods"} {
			if wrapped, ok := obj[key]; ok {
				payload = wrapped
				break
			}
		}
		if _, still := payload.(map[string]any); still {
			var single model.NutritionItem
			if err := decode(payload, &single); err != nil {
				return nil, err
			}
			if single.Description == "" {
				return nil, nil
			}
			return []model.NutritionItem{single}, nil
		}
	}

	var items []model.NutritionItem
	if err := decode(payload, &items); err != nil {
		return nil, err
	}

	// Drop entries with no description; they carry no reconcilable key.
	out := items[:0]
	for _, it := range items {
		if it.Description != "" {
			out = append(out, it)
		}
	}
	return out, nil
}
