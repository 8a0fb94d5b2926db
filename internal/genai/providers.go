package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/macrofuel/macrofuel-api/internal/resilience"
	"github.com/macrofuel/macrofuel-api/pkg/anthropic"
	"github.com/macrofuel/macrofuel-api/pkg/gemini"
	"github.com/macrofuel/macrofuel-api/pkg/openai"
)

// defaultMaxTokens bounds completion length on providers that require an
// explicit cap. Plans are the largest payloads and fit comfortably.
const defaultMaxTokens = 4096

// GeminiProvider adapts the Gemini client to the Provider contract.
type GeminiProvider struct {
	client gemini.Client
}

// NewGeminiProvider wraps a Gemini client.
func NewGeminiProvider(client gemini.Client) *GeminiProvider {
	return &GeminiProvider{client: client}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate implements Provider.
func (p *GeminiProvider) Generate(ctx context.Context, model string, req Request) (Result, error) {
	parts := []gemini.Part{{Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, gemini.Part{InlineData: &gemini.InlineData{
			MIMEType: req.Image.MIME,
			Data:     req.Image.B64,
		}})
	}

	greq := gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: parts}},
	}
	if req.ExpectsJSON {
		greq.GenerationConfig = &gemini.GenerationConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := p.client.GenerateContent(ctx, model, greq)
	if err != nil {
		return Result{}, classifyStatus(err)
	}
	if resp.Blocked() {
		return Result{Suppressed: true}, nil
	}

	res := Result{Text: resp.Text()}
	if resp.UsageMetadata != nil {
		res.Usage = Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	return res, nil
}

// OpenAIProvider adapts a chat-completions client to the Provider contract.
type OpenAIProvider struct {
	client openai.Client
	name   string
}

// NewOpenAIProvider wraps an OpenAI-compatible client. name distinguishes
// gateways that speak the same protocol.
func NewOpenAIProvider(client openai.Client, name string) *OpenAIProvider {
	if name == "" {
		name = "openai"
	}
	return &OpenAIProvider{client: client, name: name}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return p.name }

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, model string, req Request) (Result, error) {
	var content any = req.Prompt
	if req.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MIME, req.Image.B64)
		content = []openai.ContentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &openai.ImageURL{URL: dataURL}},
		}
	}

	maxTokens := defaultMaxTokens
	oreq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.Message{{Role: "user", Content: content}},
		MaxTokens: &maxTokens,
	}
	if req.ExpectsJSON {
		oreq.ResponseFormat = &openai.ResponseFormat{Type: "json_object"}
	}

	resp, err := p.client.ChatCompletion(ctx, oreq)
	if err != nil {
		return Result{}, classifyStatus(err)
	}
	if resp.Refused() {
		return Result{Suppressed: true}, nil
	}

	return Result{
		Text: resp.Text(),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// AnthropicProvider adapts the Anthropic SDK client to the Provider contract.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider wraps an Anthropic client.
func NewAnthropicProvider(client anthropic.Client) *AnthropicProvider {
	return &AnthropicProvider{client: client}
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate implements Provider.
func (p *AnthropicProvider) Generate(ctx context.Context, model string, req Request) (Result, error) {
	msg := anthropic.Message{Role: "user", Content: req.Prompt}
	if req.Image != nil {
		msg.Image = &anthropic.ImageAttachment{
			MIMEType: req.Image.MIME,
			Data:     req.Image.B64,
		}
	}

	areq := anthropic.MessageRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropic.Message{msg},
	}
	if req.ExpectsJSON {
		areq.System = "Respond with valid JSON only, no prose and no markdown fences."
	}

	resp, err := p.client.CreateMessage(ctx, areq)
	if err != nil {
		return Result{}, err
	}
	if resp.Refused() {
		return Result{Suppressed: true}, nil
	}

	return Result{
		Text: resp.Text(),
		Usage: Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// classifyStatus tags retryable HTTP statuses from the raw clients as
// transient so breaker and fetch policies can tell them apart.
func classifyStatus(err error) error {
	var ge *gemini.StatusError
	if errors.As(err, &ge) && resilience.IsTransientHTTPStatus(ge.Code) {
		return resilience.NewTransientError(err, ge.Code)
	}
	var oe *openai.StatusError
	if errors.As(err, &oe) && resilience.IsTransientHTTPStatus(oe.Code) {
		return resilience.NewTransientError(err, oe.Code)
	}
	return err
}
