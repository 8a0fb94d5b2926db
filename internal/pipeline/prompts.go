package pipeline

import (
	"fmt"
	"strings"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// nutritionSchema is the item shape every food-analysis prompt asks for.
// Macro fields are described as integers; coercion cleans up providers that
// answer with floats or unit-suffixed strings anyway.
const nutritionSchema = `[
  {
    "description": "name of the food item",
    "calories": <integer kcal>,
    "protein": <integer grams>,
    "carbs": <integer grams>,
    "fat": <integer grams>,
    "unit_weight": <integer grams per one commonly-eaten unit, e.g. one slice or one cup>
  }
]`

const foodTextPrompt = `You are a nutrition analysis engine for a fitness tracking app.
Break the meal description below into individual food items and estimate the
nutrition facts of each. The description may be in any language; keep each
item's description in the user's language.

Meal description: %s

Respond with a JSON array only, no prose, using exactly this shape:
%s

If the text does not describe any food, respond with [].`

const foodPhotoPrompt = `You are a nutrition analysis engine for a fitness tracking app.
Identify every distinct food item visible in this photo and estimate the
nutrition facts of each, using typical portion sizes for what is visible.

Respond with a JSON array only, no prose, using exactly this shape:
%s

If the photo contains no food, respond with [].`

const workoutPlanPrompt = `You are a certified personal trainer creating a progressive training plan.

User profile:
%s

Create a 4-week workout plan with %d sessions per week. Respect any listed
injuries or restrictions. Respond with JSON only, using exactly this shape:
{
  "title": "plan name",
  "weeks": [
    {
      "week": 1,
      "days": [
        {
          "day": "monday",
          "focus": "muscle group or modality",
          "exercises": [
            {"name": "exercise", "sets": 3, "reps": "8-12", "rest_sec": 90, "notes": "optional cue"}
          ]
        }
      ]
    }
  ]
}`

const dietPlanPrompt = `You are a sports nutritionist creating a meal plan.

User profile:
%s

Estimate an appropriate daily calorie target for the profile's goal, then
create a 4-week plan of daily meals. Daily totals should stay within 5%% of
the target. Respond with JSON only, using exactly this shape:
{
  "title": "plan name",
  "daily_calories": <integer kcal>,
  "weeks": [
    {
      "week": 1,
      "days": [
        {
          "day": "monday",
          "meals": [
            {"name": "breakfast", "description": "meal", "calories": 450, "protein": 25, "carbs": 60, "fat": 12}
          ]
        }
      ]
    }
  ]
}`

const moderateTextPrompt = `You are a content moderator for a consumer fitness community.
Rules: no nudity or sexual content, no violence or gore, no harassment, no
spam or advertising, no content unrelated to fitness, nutrition, or everyday
life. Where the content appears: %s.

Content to review:
%s

Reply with exactly one line: "APPROVED" if the content is acceptable, or
"BLOCKED: <short reason>" if it is not.`

const moderatePhotoPrompt = `You are a content moderator for a consumer fitness community.
Rules: no nudity or sexual content, no violence or gore, no harassment, no
spam or advertising. Photos of food, training, progress, and everyday life
are all acceptable.

Review the attached photo. Reply with exactly one line: "APPROVED" if it is
acceptable, or "BLOCKED: <short reason>" if it is not.`

const chatPrompt = `You are a friendly, practical fitness and nutrition coach inside a
tracking app. Answer in the user's language, in at most three short
paragraphs, with concrete actionable advice. Do not give medical diagnoses;
suggest a professional for medical concerns.

User context: %s

User message: %s`

// formatProfile renders a profile as prompt-friendly lines, skipping unset
// fields.
func formatProfile(p model.UserProfile) string {
	var b strings.Builder
	if p.Age > 0 {
		fmt.Fprintf(&b, "- age: %d\n", p.Age)
	}
	if p.Sex != "" {
		fmt.Fprintf(&b, "- sex: %s\n", p.Sex)
	}
	if p.HeightCm > 0 {
		fmt.Fprintf(&b, "- height: %d cm\n", p.HeightCm)
	}
	if p.WeightKg > 0 {
		fmt.Fprintf(&b, "- weight: %.1f kg\n", p.WeightKg)
	}
	if p.Goal != "" {
		fmt.Fprintf(&b, "- goal: %s\n", p.Goal)
	}
	if p.ActivityLevel != "" {
		fmt.Fprintf(&b, "- activity level: %s\n", p.ActivityLevel)
	}
	if p.WeeklySessions > 0 {
		fmt.Fprintf(&b, "- sessions per week: %d\n", p.WeeklySessions)
	}
	if len(p.Restrictions) > 0 {
		fmt.Fprintf(&b, "- restrictions: %s\n", strings.Join(p.Restrictions, ", "))
	}
	if b.Len() == 0 {
		return "- no details provided\n"
	}
	return b.String()
}
