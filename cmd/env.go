package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/macrofuel/macrofuel-api/internal/facts"
	"github.com/macrofuel/macrofuel-api/internal/fetch"
	"github.com/macrofuel/macrofuel-api/internal/genai"
	"github.com/macrofuel/macrofuel-api/internal/pipeline"
	"github.com/macrofuel/macrofuel-api/pkg/anthropic"
	"github.com/macrofuel/macrofuel-api/pkg/gemini"
	"github.com/macrofuel/macrofuel-api/pkg/openai"
)

// appEnv bundles the wired components a command needs.
type appEnv struct {
	Store    facts.Store
	Pipeline *pipeline.Pipeline
}

// Close releases held resources.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv wires the store, provider registry, orchestrator, and facade from
// the loaded configuration.
func initEnv(ctx context.Context) (*appEnv, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	registry := genai.NewRegistry()
	if cfg.Gemini.Key != "" {
		client := gemini.NewClient(cfg.Gemini.Key, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		registry.Register(genai.NewGeminiProvider(client))
	}
	if cfg.OpenAI.Key != "" {
		client := openai.NewClient(cfg.OpenAI.Key, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		registry.Register(genai.NewOpenAIProvider(client, "openai"))
	}
	if cfg.Anthropic.Key != "" {
		registry.Register(genai.NewAnthropicProvider(anthropic.NewClient(cfg.Anthropic.Key)))
	}
	if len(registry.List()) == 0 {
		store.Close()
		return nil, eris.New("no provider API keys configured")
	}

	orch := genai.NewOrchestrator(registry, cfg.Chain(),
		time.Duration(cfg.Pipeline.AttemptTimeoutSecs)*time.Second)

	reconciler := facts.NewReconciler(store)
	pipe := pipeline.New(orch, reconciler, fetch.New())

	return &appEnv{Store: store, Pipeline: pipe}, nil
}

// openStore opens the configured fact-cache backend without migrating.
func openStore(ctx context.Context) (facts.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return facts.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return facts.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
