package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/fetch"
	"github.com/macrofuel/macrofuel-api/internal/genai"
	"github.com/macrofuel/macrofuel-api/internal/model"
)

// ModerateText reviews user-submitted text against the community rules.
// moderationContext names where the text appears ("profile bio", "comment").
func (p *Pipeline) ModerateText(ctx context.Context, input, moderationContext string) (model.ModerationVerdict, error) {
	if moderationContext == "" {
		moderationContext = "user-submitted content"
	}
	prompt := fmt.Sprintf(moderateTextPrompt, moderationContext, input)
	return p.moderate(ctx, genai.Request{Prompt: prompt})
}

// ModeratePhotoURL fetches a public photo and reviews it. A provider safety
// refusal to describe the photo is itself signal and maps to BLOCKED.
func (p *Pipeline) ModeratePhotoURL(ctx context.Context, url string) (model.ModerationVerdict, error) {
	obj, err := p.fetcher.Get(ctx, url)
	if err != nil {
		return model.ModerationVerdict{}, err
	}
	if !strings.HasPrefix(obj.ContentType, "image/") {
		return model.ModerationVerdict{}, eris.Errorf("pipeline: object at %s is %s, not an image", url, obj.ContentType)
	}

	req := genai.Request{
		Prompt: moderatePhotoPrompt,
		Image: &genai.ImagePayload{
			B64:  fetch.EncodeBase64Chunked(obj.Data),
			MIME: obj.ContentType,
		},
	}
	return p.moderate(ctx, req)
}

// moderate runs the strict chain: suppression is a verdict, not a failure.
func (p *Pipeline) moderate(ctx context.Context, req genai.Request) (model.ModerationVerdict, error) {
	text, err := p.gen.GenerateStrict(ctx, req)
	if genai.IsSuppressed(err) {
		zap.L().Info("moderation: provider suppressed output, blocking")
		return model.ModerationVerdict{Approved: false, Reason: "unspecified"}, nil
	}
	if err != nil {
		return model.ModerationVerdict{}, err
	}

	verdict := model.ParseVerdict(text)
	zap.L().Info("moderation verdict",
		zap.Bool("approved", verdict.Approved),
		zap.String("reason", verdict.Reason),
	)
	return verdict, nil
}
