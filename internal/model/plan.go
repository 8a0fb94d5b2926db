package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UserProfile carries the subset of profile data the plan prompts need.
type UserProfile struct {
	Age            int      `json:"age"`
	Sex            string   `json:"sex"`
	HeightCm       int      `json:"height_cm"`
	WeightKg       float64  `json:"weight_kg"`
	Goal           string   `json:"goal"`           // "lose_fat", "gain_muscle", "maintain"
	ActivityLevel  string   `json:"activity_level"` // "sedentary".."athlete"
	WeeklySessions int      `json:"weekly_sessions"`
	Restrictions   []string `json:"restrictions,omitempty"` // injuries, dietary restrictions
}

// FlexString decodes a JSON string or number into a string. Providers mix
// `"reps": "8-12"` and `"reps": 10` freely.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// Exercise is a single prescribed movement inside a workout day.
type Exercise struct {
	Name    string     `json:"name"`
	Sets    int        `json:"sets"`
	Reps    FlexString `json:"reps"` // "8-12", "30s", sometimes a bare number
	RestSec int        `json:"rest_sec"`
	Notes   string     `json:"notes,omitempty"`
}

// WorkoutDay is one training day within a week.
type WorkoutDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutWeek groups the days of one plan week.
type WorkoutWeek struct {
	Week int          `json:"week"`
	Days []WorkoutDay `json:"days"`
}

// WorkoutPlan is a structured multi-week training plan.
type WorkoutPlan struct {
	Title string        `json:"title"`
	Weeks []WorkoutWeek `json:"weeks"`
}

// Meal is one meal inside a diet day.
type Meal struct {
	Name        string `json:"name"` // "breakfast", "lunch"...
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fat         int    `json:"fat"`
}

// DietDay is one day of meals.
type DietDay struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// DietWeek groups the days of one diet week.
type DietWeek struct {
	Week int       `json:"week"`
	Days []DietDay `json:"days"`
}

// DietPlan is a structured multi-week meal plan.
type DietPlan struct {
	Title         string     `json:"title"`
	DailyCalories int        `json:"daily_calories"`
	Weeks         []DietWeek `json:"weeks"`
}
