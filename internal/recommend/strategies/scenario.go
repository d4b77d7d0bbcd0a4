// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import (
	"strings"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
)

// Scenario is a situation derived from time, day and location.
type Scenario string

const (
	ScenarioBreakfastRush  Scenario = "breakfast_rush"
	ScenarioWeekendBrunch  Scenario = "weekend_brunch"
	ScenarioBusyLunch      Scenario = "busy_lunch"
	ScenarioAfternoonSlump Scenario = "afternoon_slump"
	ScenarioFamilyDinner   Scenario = "family_dinner"
	ScenarioLateNightSnack Scenario = "late_night_snack"
	ScenarioDiningOut      Scenario = "dining_out"
	ScenarioAtGym          Scenario = "at_gym"
	ScenarioTraveling      Scenario = "traveling"
	ScenarioGeneral        Scenario = "general"
)

var scenarioDescriptions = map[Scenario]string{
	ScenarioBreakfastRush:  "Busy weekday morning",
	ScenarioWeekendBrunch:  "Relaxed weekend brunch",
	ScenarioBusyLunch:      "Busy lunch break",
	ScenarioAfternoonSlump: "Afternoon energy dip",
	ScenarioFamilyDinner:   "Dinner at home",
	ScenarioLateNightSnack: "Late-night snacking",
	ScenarioDiningOut:      "Eating out",
	ScenarioAtGym:          "Around a workout",
	ScenarioTraveling:      "On the road",
	ScenarioGeneral:        "Everyday eating",
}

// Description returns the human-readable scenario text.
func (s Scenario) Description() string {
	if d, ok := scenarioDescriptions[s]; ok {
		return d
	}
	return scenarioDescriptions[ScenarioGeneral]
}

// DetectScenario derives the scenario for rc. Location-specific scenarios win
// over time-of-day ones.
func DetectScenario(rc *models.RecommendationContext) Scenario {
	switch rc.Location {
	case models.LocationRestaurant:
		return ScenarioDiningOut
	case models.LocationGym:
		return ScenarioAtGym
	case models.LocationTravel:
		return ScenarioTraveling
	}

	weekend := isWeekend(rc)
	hour := rc.Hour
	switch {
	case hour >= 21 || hour < 5:
		return ScenarioLateNightSnack
	case hour >= 9 && hour < 12 && weekend:
		return ScenarioWeekendBrunch
	case hour >= 6 && hour < 9 && !weekend:
		return ScenarioBreakfastRush
	case hour >= 11 && hour < 14 && !weekend && rc.Location != models.LocationHome:
		return ScenarioBusyLunch
	case hour >= 14 && hour < 17:
		return ScenarioAfternoonSlump
	case hour >= 17 && hour < 21 && rc.Location != models.LocationWork:
		return ScenarioFamilyDinner
	default:
		return ScenarioGeneral
	}
}

func isWeekend(rc *models.RecommendationContext) bool {
	wd := rc.Timestamp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// scenarioAdvice is what ContextAware says for a scenario.
type scenarioAdvice struct {
	title    string
	quick    string
	relaxed  string
	priority models.Priority
	meal     models.MealType
}

var adviceByScenario = map[Scenario]scenarioAdvice{
	ScenarioBreakfastRush: {
		title:    "Grab-and-go breakfast",
		quick:    "Overnight oats or yogurt with fruit take under five minutes.",
		relaxed:  "Eggs on whole grain toast with tomatoes keeps you full until lunch.",
		priority: models.PriorityMedium,
		meal:     models.MealBreakfast,
	},
	ScenarioWeekendBrunch: {
		title:    "Make brunch count",
		quick:    "A veggie omelette with fruit on the side covers protein and fibre.",
		relaxed:  "Try a shakshuka with whole grain bread and a side salad.",
		priority: models.PriorityLow,
		meal:     models.MealBreakfast,
	},
	ScenarioBusyLunch: {
		title:    "Quick balanced lunch",
		quick:    "A grain bowl or wrap with lean protein and vegetables travels well.",
		relaxed:  "Batch-cook a lunch for three days on Sunday.",
		priority: models.PriorityMedium,
		meal:     models.MealLunch,
	},
	ScenarioAfternoonSlump: {
		title:    "Beat the afternoon slump",
		quick:    "A handful of nuts and a piece of fruit beats a sugary snack.",
		relaxed:  "Hummus with vegetable sticks gives steady energy.",
		priority: models.PriorityLow,
		meal:     models.MealSnack,
	},
	ScenarioFamilyDinner: {
		title:    "Balanced dinner at home",
		quick:    "A sheet-pan dinner with vegetables and protein takes 20 minutes hands-off.",
		relaxed:  "Cook a stir-fry with plenty of vegetables and make extra for lunch.",
		priority: models.PriorityMedium,
		meal:     models.MealDinner,
	},
	ScenarioLateNightSnack: {
		title:    "Choose a light late-night snack",
		quick:    "If you are hungry, pick yogurt or a small bowl of fruit.",
		relaxed:  "Herbal tea often settles late cravings.",
		priority: models.PriorityMedium,
		meal:     models.MealSnack,
	},
	ScenarioDiningOut: {
		title:    "Order smart when eating out",
		quick:    "Pick grilled over fried and ask for sauces on the side.",
		relaxed:  "Share a starter and add a side of vegetables.",
		priority: models.PriorityMedium,
	},
	ScenarioAtGym: {
		title:    "Fuel your workout",
		quick:    "A banana before and a protein snack after training.",
		relaxed:  "Plan a meal with protein and carbohydrates within two hours after training.",
		priority: models.PriorityMedium,
		meal:     models.MealSnack,
	},
	ScenarioTraveling: {
		title:    "Eat well on the road",
		quick:    "Pack nuts, fruit and water before you leave.",
		relaxed:  "Look for places that serve salads and grilled proteins.",
		priority: models.PriorityLow,
	},
}

// cuisineTips are ordering tips for eating out, keyed by lower-case cuisine.
var cuisineTips = map[string]string{
	"american":      "At an American diner, swap the fries for a side salad.",
	"chinese":       "Steamed dishes with vegetables beat deep-fried ones, and go easy on soy sauce.",
	"indian":        "Tandoori dishes and dal are lighter than creamy curries.",
	"italian":       "Tomato-based pasta or grilled fish beats cream sauces.",
	"japanese":      "Sashimi, edamame and miso soup are lighter than tempura.",
	"mediterranean": "Grilled meat or fish with salad and hummus fits well.",
	"mexican":       "A burrito bowl with beans and salsa beats fried tortillas.",
	"thai":          "Clear soups and stir-fries are lighter than coconut curries.",
}

// cuisineTip returns the first preferred cuisine with a tip, in preference
// order.
func cuisineTip(prefs *models.UserPreferences) (cuisine, tip string) {
	for _, c := range prefs.Cuisines {
		key := strings.ToLower(strings.TrimSpace(c))
		if t, ok := cuisineTips[key]; ok {
			return key, t
		}
	}
	return "", ""
}

// quickCookingBudget is the cooking time, in minutes, at or below which
// scenarios recommend the quick option.
const quickCookingBudget = 20

// ContextAware derives the current scenario and recommends for it. It also
// covers first-time users and habitual patterns.
type ContextAware struct {
	BaseStrategy
}

// NewContextAware creates the strategy.
func NewContextAware() *ContextAware {
	return &ContextAware{BaseStrategy: NewBaseStrategy("context_aware")}
}

// CurrentScenario returns a human-readable description of the scenario,
// independent of recommendation generation.
func (s *ContextAware) CurrentScenario(rc *models.RecommendationContext) string {
	return DetectScenario(rc).Description()
}

// Generate emits a scenario recommendation plus habit nudges.
func (s *ContextAware) Generate(rc *models.RecommendationContext) []models.Recommendation {
	var out []models.Recommendation

	scenario := DetectScenario(rc)
	if advice, ok := adviceByScenario[scenario]; ok {
		text := advice.relaxed
		budget := rc.Preferences.CookingTimeBudget
		if scenario == ScenarioBreakfastRush || scenario == ScenarioBusyLunch || (budget > 0 && budget <= quickCookingBudget) {
			text = advice.quick
		}
		if rc.Preferences.Budget.Max > 0 && rc.Preferences.Budget.Max < 10 {
			text += " Cooking from staples keeps this within budget."
		}

		rec := s.newRecommendation(rc, models.RecScenario, advice.title, text, advice.priority, 0.65)
		rec.Reason = scenario.Description()
		rec.Metadata[models.MetaScenario] = string(scenario)
		if scenario == ScenarioDiningOut || scenario == ScenarioTraveling {
			if cuisine, tip := cuisineTip(&rc.Preferences); tip != "" {
				rec.Description += " " + tip
				rec.Metadata[models.MetaCuisine] = cuisine
			}
		}
		rec.ExpiresAt = expireAt(rc, 3*time.Hour)
		if advice.meal != "" {
			rec.Actions = append(rec.Actions, models.LogMeal{MealType: advice.meal})
		}
		out = append(out, rec)
	}

	if rc.IsFirstTimeUser {
		rec := s.newRecommendation(rc, models.RecHabit,
			"Log your first meals",
			"Logging three days of meals unlocks personalised nutrient insights.",
			models.PriorityHigh, 0.9)
		rec.Metadata[models.MetaScenario] = "onboarding"
		rec.Actions = []models.Action{models.LogMeal{MealType: models.MealTypeForHour(rc.Hour)}}
		out = append(out, rec)
	}

	if rc.Patterns.SkipsMeal(models.MealBreakfast) {
		rec := s.newRecommendation(rc, models.RecHabit,
			"Try not to skip breakfast",
			"You skip breakfast on most days. Even a small breakfast makes mid-morning snacking less likely.",
			models.PriorityMedium, 0.7)
		rec.Metadata[models.MetaScenario] = "skipped_breakfast"
		rec.Actions = []models.Action{models.SetReminder{Hour: 7, Minute: 30, Message: "Time for a quick breakfast"}}
		out = append(out, rec)
	}

	if rc.Patterns != nil && rc.Patterns.WindowDays > 0 && rc.Patterns.LateNightEatingDays*2 >= rc.Patterns.WindowDays {
		rec := s.newRecommendation(rc, models.RecHabit,
			"Wind down late-night eating",
			"You ate after 22:00 on many recent days. A fixed kitchen-closing time helps sleep and digestion.",
			models.PriorityLow, 0.6)
		rec.Metadata[models.MetaScenario] = "late_night_habit"
		out = append(out, rec)
	}

	return out
}
