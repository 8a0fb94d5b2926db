package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/macrofuel/macrofuel-api/internal/genai"
)

// Chat answers a free-form coach message. The reply length is capped by
// prompt instruction only; no mechanical truncation is applied. Bypasses
// JSON extraction entirely.
func (p *Pipeline) Chat(ctx context.Context, message, chatContext string) (string, error) {
	if chatContext == "" {
		chatContext = "none"
	}
	prompt := fmt.Sprintf(chatPrompt, chatContext, message)

	text, err := p.gen.Generate(ctx, genai.Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
