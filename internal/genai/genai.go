// Package genai defines the provider contract for structured text/vision
// generation and the fallback orchestrator that turns an ordered list of
// provider/model tiers into a single reliable text source.
package genai

import (
	"context"
	"sync"
)

// ImagePayload is an inline image attached to a generation request. B64 is
// the already-encoded payload; callers encode once (in bounded chunks) and
// every adapter reuses it.
type ImagePayload struct {
	B64  string
	MIME string
}

// Request describes one generation call. It is constructed per invocation
// and never persisted.
type Request struct {
	Prompt string
	Image  *ImagePayload
	// ExpectsJSON asks the provider for machine-readable output where the
	// API supports it. Compliance is never guaranteed; the extractor
	// downstream handles prose-wrapped and truncated payloads.
	ExpectsJSON bool
}

// Usage reports token consumption where the provider exposes it.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Result is the raw outcome of one provider call.
type Result struct {
	Text string
	// Suppressed is set when the provider's own safety system refused to
	// answer. It is distinct from empty text and from transport failure:
	// moderation call sites treat it as a BLOCKED verdict, everything else
	// treats it as a failed attempt.
	Suppressed bool
	Usage      Usage
}

// Provider performs one call against one model of an external generation
// endpoint. Implementations make exactly one outbound request per call and
// never retry internally; cancellation of ctx must abort the network call.
type Provider interface {
	Name() string
	Generate(ctx context.Context, model string, req Request) (Result, error)
}

// Registry holds the configured providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not registered.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
