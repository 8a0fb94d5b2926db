package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/resilience"
)

// Spec is one provider/model tier in the fallback chain. Ordering in the
// configured slice defines the fallback sequence: the primary provider's
// tiers (cheap before large) come first, then each secondary provider's.
type Spec struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	Vision   bool   `yaml:"vision" mapstructure:"vision"`
}

func (s Spec) key() string { return s.Provider + "/" + s.Model }

// Orchestrator walks an ordered list of provider tiers sequentially until
// one returns non-empty text. Attempts are never issued in parallel;
// speculative calls to paid providers are wasted spend.
type Orchestrator struct {
	registry *Registry
	specs    []Spec
	timeout  time.Duration
	breakers map[string]*resilience.CircuitBreaker
}

// NewOrchestrator builds an orchestrator over the given tier chain.
// attemptTimeout bounds each individual provider call; exceeding it cancels
// only that call and advances the chain.
func NewOrchestrator(registry *Registry, specs []Spec, attemptTimeout time.Duration) *Orchestrator {
	if attemptTimeout <= 0 {
		attemptTimeout = 45 * time.Second
	}
	breakers := make(map[string]*resilience.CircuitBreaker, len(specs))
	for _, s := range specs {
		breakers[s.key()] = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	return &Orchestrator{
		registry: registry,
		specs:    specs,
		timeout:  attemptTimeout,
		breakers: breakers,
	}
}

// Specs returns the configured tier chain.
func (o *Orchestrator) Specs() []Spec { return o.specs }

// Generate runs the fallback chain and returns the first non-empty text.
// Safety suppression counts as a failed attempt and the chain advances.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (string, error) {
	return o.generate(ctx, req, false)
}

// GenerateStrict is Generate except that a safety suppression aborts the
// chain immediately with a SuppressedError. Moderation uses this: a refusal
// to describe a photo is itself a meaningful verdict, not a reason to ask a
// different model.
func (o *Orchestrator) GenerateStrict(ctx context.Context, req Request) (string, error) {
	return o.generate(ctx, req, true)
}

func (o *Orchestrator) generate(ctx context.Context, req Request, suppressionFatal bool) (string, error) {
	var lastErr error
	attempts := 0

	for _, spec := range o.specs {
		if req.Image != nil && !spec.Vision {
			continue
		}
		prov := o.registry.Get(spec.Provider)
		if prov == nil {
			zap.L().Warn("fallback: provider not registered", zap.String("provider", spec.Provider))
			continue
		}
		attempts++

		text, err := o.attempt(ctx, prov, spec, req)
		if err == nil {
			return text, nil
		}

		if suppressionFatal && IsSuppressed(err) {
			return "", err
		}
		if ctx.Err() != nil {
			// The whole invocation was cancelled, not just one attempt.
			return "", &ExhaustedError{Attempts: attempts, Last: ctx.Err()}
		}

		lastErr = err
		zap.L().Warn("fallback: tier failed, advancing",
			zap.String("provider", spec.Provider),
			zap.String("model", spec.Model),
			zap.Error(err),
		)
	}

	return "", &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// attempt performs one bounded call through the tier's circuit breaker.
func (o *Orchestrator) attempt(ctx context.Context, prov Provider, spec Spec, req Request) (string, error) {
	cb := o.breakers[spec.key()]

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res, err := resilience.ExecuteVal(callCtx, cb, func(ctx context.Context) (Result, error) {
		r, err := prov.Generate(ctx, spec.Model, req)
		if err != nil {
			return Result{}, err
		}
		if r.Suppressed {
			// Suppression must not trip the breaker: the provider is
			// healthy, it just declined this input.
			return r, nil
		}
		if strings.TrimSpace(r.Text) == "" {
			return Result{}, errors.New("empty response text")
		}
		return r, nil
	})
	if err != nil {
		return "", err
	}
	if res.Suppressed {
		return "", &SuppressedError{Provider: spec.Provider, Model: spec.Model}
	}

	if res.Usage.InputTokens > 0 || res.Usage.OutputTokens > 0 {
		zap.L().Debug("generation usage",
			zap.String("provider", spec.Provider),
			zap.String("model", spec.Model),
			zap.Int("input_tokens", res.Usage.InputTokens),
			zap.Int("output_tokens", res.Usage.OutputTokens),
		)
	}
	return res.Text, nil
}
