// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

import "github.com/tomtom215/nutricoach/internal/models"

// Achievement IDs.
const (
	AchievementFirstMeal      = "first_meal"
	AchievementStreak3        = "streak_3"
	AchievementStreak7        = "streak_7"
	AchievementStreak30       = "streak_30"
	AchievementRecords100     = "records_100"
	AchievementRecords500     = "records_500"
	AchievementProteinWeek    = "protein_week"
	AchievementFiberWeek      = "fiber_week"
	AchievementVariety10      = "variety_10"
	AchievementVariety25      = "variety_25"
	AchievementBalancedMonth  = "balanced_month"
	AchievementHydrationHabit = "hydration_habit"
)

// catalog is the table of achievements. The Achievement values carry no
// user state; Progression fills it in from the repository.
var catalog = []models.Achievement{
	{
		ID:          AchievementFirstMeal,
		Name:        "First Bite",
		Description: "Log your first meal",
		Type:        models.AchievementDaily,
		Condition:   models.TotalRecords{Count: 1},
		Points:      10,
	},
	{
		ID:          AchievementStreak3,
		Name:        "Getting Started",
		Description: "Log meals three days in a row",
		Type:        models.AchievementDaily,
		Condition:   models.StreakDays{Days: 3},
		Points:      25,
	},
	{
		ID:          AchievementStreak7,
		Name:        "Week Warrior",
		Description: "Log meals seven days in a row",
		Type:        models.AchievementMilestone,
		Condition:   models.StreakDays{Days: 7},
		Points:      50,
	},
	{
		ID:          AchievementStreak30,
		Name:        "Creature of Habit",
		Description: "Log meals thirty days in a row",
		Type:        models.AchievementMilestone,
		Condition:   models.StreakDays{Days: 30},
		Points:      200,
	},
	{
		ID:          AchievementRecords100,
		Name:        "Centurion",
		Description: "Log 100 food records",
		Type:        models.AchievementMilestone,
		Condition:   models.TotalRecords{Count: 100},
		Points:      75,
	},
	{
		ID:          AchievementRecords500,
		Name:        "Archivist",
		Description: "Log 500 food records",
		Type:        models.AchievementMilestone,
		Condition:   models.TotalRecords{Count: 500},
		Points:      250,
	},
	{
		ID:          AchievementProteinWeek,
		Name:        "Protein Pro",
		Description: "Hit your protein target on seven days",
		Type:        models.AchievementSpecial,
		Condition:   models.NutrientTarget{Nutrient: "protein", Days: 7},
		Points:      60,
	},
	{
		ID:          AchievementFiberWeek,
		Name:        "Fiber Fan",
		Description: "Hit your fiber target on seven days",
		Type:        models.AchievementSpecial,
		Condition:   models.NutrientTarget{Nutrient: "fiber", Days: 7},
		Points:      60,
	},
	{
		ID:          AchievementVariety10,
		Name:        "Explorer",
		Description: "Eat from ten different food categories",
		Type:        models.AchievementSpecial,
		Condition:   models.FoodVariety{Categories: 10},
		Points:      40,
	},
	{
		ID:          AchievementVariety25,
		Name:        "Omnivore",
		Description: "Eat from twenty-five different food categories",
		Type:        models.AchievementSpecial,
		Condition:   models.FoodVariety{Categories: 25},
		Points:      120,
	},
	{
		ID:          AchievementBalancedMonth,
		Name:        "Balanced Month",
		Description: "Keep a 30 day streak while hitting protein and fiber targets",
		Type:        models.AchievementSecret,
		Condition: models.AllOf{Conditions: []models.UnlockCondition{
			models.StreakDays{Days: 30},
			models.NutrientTarget{Nutrient: "protein", Days: 20},
			models.NutrientTarget{Nutrient: "fiber", Days: 20},
		}},
		Points: 300,
	},
	{
		ID:          AchievementHydrationHabit,
		Name:        "Well Watered",
		Description: "Meet your water target on fourteen days",
		Type:        models.AchievementDaily,
		Condition:   models.NutrientTarget{Nutrient: "water", Days: 14},
		Points:      40,
	},
}

// Catalog returns a copy of the achievement catalog.
func Catalog() []models.Achievement {
	out := make([]models.Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id string) (models.Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
