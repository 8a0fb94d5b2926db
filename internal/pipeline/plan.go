package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/extract"
	"github.com/macrofuel/macrofuel-api/internal/genai"
	"github.com/macrofuel/macrofuel-api/internal/model"
)

// GenerateWorkoutPlan produces a structured multi-week training plan for the
// profile. Plans never touch the fact cache.
func (p *Pipeline) GenerateWorkoutPlan(ctx context.Context, profile model.UserProfile) (*model.WorkoutPlan, error) {
	sessions := profile.WeeklySessions
	if sessions <= 0 {
		sessions = 3
	}
	prompt := fmt.Sprintf(workoutPlanPrompt, formatProfile(profile), sessions)

	var plan model.WorkoutPlan
	if err := p.generatePlan(ctx, prompt, &plan); err != nil {
		return nil, err
	}
	if len(plan.Weeks) == 0 {
		return nil, eris.New("pipeline: workout plan has no weeks")
	}
	zap.L().Info("workout plan generated", zap.Int("weeks", len(plan.Weeks)))
	return &plan, nil
}

// GenerateDietPlan produces a structured multi-week meal plan for the profile.
func (p *Pipeline) GenerateDietPlan(ctx context.Context, profile model.UserProfile) (*model.DietPlan, error) {
	prompt := fmt.Sprintf(dietPlanPrompt, formatProfile(profile))

	var plan model.DietPlan
	if err := p.generatePlan(ctx, prompt, &plan); err != nil {
		return nil, err
	}
	if len(plan.Weeks) == 0 {
		return nil, eris.New("pipeline: diet plan has no weeks")
	}
	zap.L().Info("diet plan generated",
		zap.Int("weeks", len(plan.Weeks)),
		zap.Int("daily_calories", plan.DailyCalories),
	)
	return &plan, nil
}

func (p *Pipeline) generatePlan(ctx context.Context, prompt string, dst any) error {
	text, err := p.gen.Generate(ctx, genai.Request{Prompt: prompt, ExpectsJSON: true})
	if err != nil {
		return err
	}

	payload, err := extract.Extract(text)
	if err != nil {
		return err
	}
	payload = extract.Coerce(payload)

	return decode(payload, dst)
}
