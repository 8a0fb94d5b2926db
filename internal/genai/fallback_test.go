package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts per-model outcomes and records call order.
type fakeProvider struct {
	name    string
	results map[string]Result
	errs    map[string]error
	calls   []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, model string, req Request) (Result, error) {
	f.calls = append(f.calls, f.name+"/"+model)
	if err := f.errs[model]; err != nil {
		return Result{}, err
	}
	return f.results[model], nil
}

func newTestRegistry(providers ...*fakeProvider) *Registry {
	reg := NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	return reg
}

func TestGenerateFirstTierWins(t *testing.T) {
	alpha := &fakeProvider{
		name:    "alpha",
		results: map[string]Result{"small": {Text: "first answer"}},
	}
	beta := &fakeProvider{name: "beta"}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "beta", Model: "large"},
	}, time.Second)

	text, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "first answer", text)
	assert.Equal(t, []string{"alpha/small"}, alpha.calls)
	assert.Empty(t, beta.calls)
}

func TestGenerateAdvancesInConfiguredOrder(t *testing.T) {
	alpha := &fakeProvider{
		name: "alpha",
		errs: map[string]error{
			"small": errors.New("overloaded"),
			"large": errors.New("overloaded"),
		},
	}
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"mini": {Text: "beta answer"}},
	}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "alpha", Model: "large"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	text, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "beta answer", text)
	assert.Equal(t, []string{"alpha/small", "alpha/large"}, alpha.calls)
	assert.Equal(t, []string{"beta/mini"}, beta.calls)
}

func TestGenerateEmptyTextAdvances(t *testing.T) {
	alpha := &fakeProvider{
		name:    "alpha",
		results: map[string]Result{"small": {Text: "   \n"}},
	}
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"mini": {Text: "usable"}},
	}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	text, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "usable", text)
}

func TestGenerateExhaustion(t *testing.T) {
	alpha := &fakeProvider{
		name: "alpha",
		errs: map[string]error{"small": errors.New("boom")},
	}

	orch := NewOrchestrator(newTestRegistry(alpha), []Spec{
		{Provider: "alpha", Model: "small"},
	}, time.Second)

	_, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, IsExhausted(err))

	var ee *ExhaustedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Attempts)
	assert.ErrorContains(t, ee.Last, "boom")
}

func TestGenerateSkipsUnregisteredProviders(t *testing.T) {
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"mini": {Text: "answer"}},
	}

	orch := NewOrchestrator(newTestRegistry(beta), []Spec{
		{Provider: "ghost", Model: "large"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	text, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestGenerateVisionSkipsTextOnlyTiers(t *testing.T) {
	alpha := &fakeProvider{
		name:    "alpha",
		results: map[string]Result{"text-only": {Text: "should not be used"}},
	}
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"vision": {Text: "described the photo"}},
	}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "text-only", Vision: false},
		{Provider: "beta", Model: "vision", Vision: true},
	}, time.Second)

	req := Request{Prompt: "what is this", Image: &ImagePayload{B64: "aGk=", MIME: "image/png"}}
	text, err := orch.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "described the photo", text)
	assert.Empty(t, alpha.calls)
}

func TestGenerateSuppressionAdvancesChain(t *testing.T) {
	alpha := &fakeProvider{
		name:    "alpha",
		results: map[string]Result{"small": {Suppressed: true}},
	}
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"mini": {Text: "fallback answer"}},
	}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	text, err := orch.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", text)
}

func TestGenerateStrictSuppressionAborts(t *testing.T) {
	alpha := &fakeProvider{
		name:    "alpha",
		results: map[string]Result{"small": {Suppressed: true}},
	}
	beta := &fakeProvider{
		name:    "beta",
		results: map[string]Result{"mini": {Text: "never reached"}},
	}

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	_, err := orch.GenerateStrict(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, IsSuppressed(err))
	assert.Empty(t, beta.calls)

	var se *SuppressedError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "alpha", se.Provider)
	assert.Equal(t, "small", se.Model)
}

func TestGenerateCancelledContext(t *testing.T) {
	alpha := &fakeProvider{
		name: "alpha",
		errs: map[string]error{"small": context.Canceled},
	}
	beta := &fakeProvider{name: "beta"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator(newTestRegistry(alpha, beta), []Spec{
		{Provider: "alpha", Model: "small"},
		{Provider: "beta", Model: "mini"},
	}, time.Second)

	_, err := orch.Generate(ctx, Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	// The chain must not keep calling providers after cancellation.
	assert.Empty(t, beta.calls)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Get("alpha"))
	assert.Empty(t, reg.List())

	reg.Register(&fakeProvider{name: "alpha"})
	require.NotNil(t, reg.Get("alpha"))
	assert.Equal(t, []string{"alpha"}, reg.List())
}
