// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import (
	"fmt"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
)

// mealWindow is the hour range [start, end) in which a meal is expected.
type mealWindow struct {
	meal       models.MealType
	start, end int
}

var mealWindows = []mealWindow{
	{meal: models.MealBreakfast, start: 6, end: 10},
	{meal: models.MealLunch, start: 11, end: 14},
	{meal: models.MealDinner, start: 17, end: 21},
}

// TimeBased reminds the user of meals not yet logged in the current meal
// window, of hydration in the afternoon and of planning in the evening.
type TimeBased struct {
	BaseStrategy
}

// NewTimeBased creates the strategy.
func NewTimeBased() *TimeBased {
	return &TimeBased{BaseStrategy: NewBaseStrategy("time_based")}
}

// Generate emits reminders for the current hour.
func (s *TimeBased) Generate(rc *models.RecommendationContext) []models.Recommendation {
	var out []models.Recommendation
	hour := rc.Hour

	for _, w := range mealWindows {
		if hour < w.start || hour >= w.end || rc.HasLoggedMeal(w.meal) {
			continue
		}
		rec := s.newRecommendation(rc, models.RecTimeBased,
			fmt.Sprintf("Time for %s", w.meal),
			fmt.Sprintf("You have not logged %s yet. Logging right after eating is the most accurate.", w.meal),
			models.PriorityMedium, 0.6)
		rec.Metadata[models.MetaScenario] = string(w.meal) + "_window"
		rec.Metadata[models.MetaMealType] = string(w.meal)
		rec.ExpiresAt = expireAt(rc, time.Duration(w.end-hour)*time.Hour)
		rec.Actions = []models.Action{models.LogMeal{MealType: w.meal}}
		out = append(out, rec)
	}

	if hour >= 14 && hour < 17 {
		rec := s.newRecommendation(rc, models.RecTimeBased,
			"Afternoon hydration check",
			"Have a glass of water now; thirst is often mistaken for hunger.",
			models.PriorityLow, 0.5)
		rec.Metadata[models.MetaScenario] = "hydration"
		rec.Actions = []models.Action{models.SetReminder{Hour: 16, Minute: 0, Message: "Drink a glass of water"}}
		out = append(out, rec)
	}

	if hour >= 20 && hour < 23 {
		rec := s.newRecommendation(rc, models.RecTimeBased,
			"Plan tomorrow's breakfast",
			"Deciding tonight makes a healthy breakfast more likely tomorrow.",
			models.PriorityLow, 0.5)
		rec.Metadata[models.MetaScenario] = "evening_planning"
		out = append(out, rec)
	}

	return out
}
