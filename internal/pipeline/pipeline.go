// Package pipeline is the facade over the structured-generation stack: it
// assembles prompts, runs the provider fallback chain, extracts and coerces
// JSON payloads, and reconciles nutrition results against the fact cache.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/macrofuel/macrofuel-api/internal/facts"
	"github.com/macrofuel/macrofuel-api/internal/fetch"
	"github.com/macrofuel/macrofuel-api/internal/genai"
)

// ErrNoItems is returned when a food analysis succeeds at the provider level
// but yields no recognizable items. Callers present a "try again or enter
// manually" path.
var ErrNoItems = eris.New("pipeline: no food items recognized")

// Generator runs the provider fallback chain. *genai.Orchestrator is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, req genai.Request) (string, error)
	GenerateStrict(ctx context.Context, req genai.Request) (string, error)
}

// ObjectFetcher downloads public objects for photo moderation.
type ObjectFetcher interface {
	Get(ctx context.Context, url string) (*fetch.Object, error)
}

// Pipeline exposes the generation operations the rest of the app calls.
type Pipeline struct {
	gen        Generator
	reconciler *facts.Reconciler
	fetcher    ObjectFetcher
}

// New assembles the facade.
func New(gen Generator, reconciler *facts.Reconciler, fetcher ObjectFetcher) *Pipeline {
	return &Pipeline{gen: gen, reconciler: reconciler, fetcher: fetcher}
}

// decode round-trips a coerced payload tree into a typed value.
func decode(payload any, dst any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "pipeline: re-marshal payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return eris.Wrap(err, "pipeline: decode payload")
	}
	return nil
}
