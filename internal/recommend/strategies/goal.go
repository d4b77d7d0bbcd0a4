// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import (
	"fmt"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// behindScheduleMargin is how far progress may trail elapsed time before a
// goal counts as behind schedule.
const behindScheduleMargin = 0.2

// goalGuidance is the static advice for one goal type.
type goalGuidance struct {
	mealTitle     string
	mealDesc      string
	habitTitle    string
	habitDesc     string
	focusNutrient string
}

var guidanceByGoal = map[models.GoalType]goalGuidance{
	models.GoalWeightLoss: {
		mealTitle:     "Build portion-controlled meals",
		mealDesc:      "Use a smaller plate, fill half with vegetables and keep a palm-sized protein portion.",
		habitTitle:    "Weigh in once a week",
		habitDesc:     "Weekly check-ins at the same time of day show the trend without daily noise.",
		focusNutrient: nutrients.Fiber,
	},
	models.GoalWeightGain: {
		mealTitle:     "Add calorie-dense snacks",
		mealDesc:      "Nuts, dried fruit and smoothies add energy without large volumes.",
		habitTitle:    "Never skip a meal",
		habitDesc:     "Three meals and two snacks make a steady surplus easier.",
		focusNutrient: nutrients.Calories,
	},
	models.GoalMuscleGain: {
		mealTitle:     "Spread protein across every meal",
		mealDesc:      "Aim for 20-40g of protein per meal rather than one large serving.",
		habitTitle:    "Refuel after training",
		habitDesc:     "A protein and carbohydrate snack within two hours of training supports recovery.",
		focusNutrient: nutrients.Protein,
	},
	models.GoalFatReduction: {
		mealTitle:     "Swap refined carbs for whole grains",
		mealDesc:      "Whole grains and legumes keep you full and blood sugar steady.",
		habitTitle:    "Cut sugary drinks",
		habitDesc:     "Replacing one sugary drink a day with water removes a large share of empty calories.",
		focusNutrient: nutrients.Fiber,
	},
	models.GoalHealthImprovement: {
		mealTitle:     "Eat the rainbow",
		mealDesc:      "Include three differently coloured vegetables or fruits each day.",
		habitTitle:    "Cook one more meal at home",
		habitDesc:     "Home-cooked meals are typically lower in sodium and sugar.",
		focusNutrient: nutrients.VitaminC,
	},
	models.GoalNutrientBalance: {
		mealTitle:  "Balance your plate",
		mealDesc:   "Combine protein, whole grains and vegetables at lunch and dinner.",
		habitTitle: "Review your nutrient report weekly",
		habitDesc:  "Knowing which nutrients fall short makes the next shopping list obvious.",
	},
}

// GoalBased produces guidance for every ACTIVE health goal.
type GoalBased struct {
	BaseStrategy
}

// NewGoalBased creates the strategy.
func NewGoalBased() *GoalBased {
	return &GoalBased{BaseStrategy: NewBaseStrategy("goal_based")}
}

// Generate emits one set of recommendations per ACTIVE goal, in goal order.
func (s *GoalBased) Generate(rc *models.RecommendationContext) []models.Recommendation {
	var out []models.Recommendation
	for _, goal := range rc.ActiveGoals() {
		guidance, ok := guidanceByGoal[goal.Type]
		if !ok {
			continue
		}

		behind := goal.Progress < goal.ElapsedFraction(rc.Timestamp)-behindScheduleMargin
		priority := models.PriorityMedium
		confidence := 0.7
		if behind {
			priority = models.PriorityHigh
			confidence = 0.8
		}

		meal := s.newRecommendation(rc, models.RecMealPlan, guidance.mealTitle, guidance.mealDesc, priority, confidence)
		meal.Reason = fmt.Sprintf("%s goal is active", goal.Type.DisplayName())
		meal.Metadata[models.MetaGoalID] = goal.ID
		meal.Metadata[models.MetaGoalType] = string(goal.Type)
		if n := s.focusNutrient(rc, guidance, goal.Type); n != "" {
			if foods := nutrients.Sources(n, rc.Preferences.DietaryRestrictions, rc.Preferences.Dislikes, 3); len(foods) > 0 {
				meal.Actions = append(meal.Actions, models.SuggestFoods{Nutrient: n, Foods: foods})
			}
		}
		out = append(out, meal)

		habit := s.newRecommendation(rc, models.RecHealthGoal, guidance.habitTitle, guidance.habitDesc, models.PriorityLow, 0.6)
		if behind {
			habit.Priority = models.PriorityMedium
			habit.Title = fmt.Sprintf("Catch up on your %s goal", goal.Type.DisplayName())
			habit.Description = fmt.Sprintf("You are %.0f%% of the way there but %.0f%% of the time has passed. %s",
				goal.Progress*100, goal.ElapsedFraction(rc.Timestamp)*100, guidance.habitDesc)
		}
		habit.Metadata[models.MetaGoalID] = goal.ID
		habit.Metadata[models.MetaGoalType] = string(goal.Type)
		out = append(out, habit)
	}
	return out
}

// focusNutrient picks the nutrient to suggest foods for. Nutrient balance goals
// use the largest current deficit.
func (s *GoalBased) focusNutrient(rc *models.RecommendationContext, g goalGuidance, goalType models.GoalType) string {
	if goalType != models.GoalNutrientBalance {
		return g.focusNutrient
	}
	var (
		best    string
		bestPct float64
	)
	for _, gap := range rc.Gaps {
		if gap.IsDeficit() && gap.GapPercentage > bestPct {
			best, bestPct = gap.Nutrient, gap.GapPercentage
		}
	}
	return best
}
