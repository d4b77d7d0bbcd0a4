// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
)

// monday is 2026-03-02, a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func contextAt(ts time.Time) *models.RecommendationContext {
	return &models.RecommendationContext{
		UserID:    "user-1",
		Timestamp: ts,
		Hour:      ts.Hour(),
		Date:      ts.Format("2006-01-02"),
	}
}

func TestNutritionalGap_PriorityBySeverity(t *testing.T) {
	rc := contextAt(monday.Add(12 * time.Hour))
	rc.Gaps = []models.NutritionalGap{
		models.NewNutritionalGap("protein", 20, 70, "g"), // SEVERE
		models.NewNutritionalGap("fiber", 20, 30, "g"),   // MODERATE
		models.NewNutritionalGap("calcium", 850, 1000, "mg"),
		models.NewNutritionalGap("iron", 17.5, 18, "mg"), // MILD below reporting floor
	}

	recs := NewNutritionalGap().Generate(rc)
	want := map[string]models.Priority{
		"protein": models.PriorityHigh,
		"fiber":   models.PriorityMedium,
		"calcium": models.PriorityLow,
	}
	if len(recs) != len(want) {
		t.Fatalf("expected %d recommendations, got %d", len(want), len(recs))
	}
	for _, rec := range recs {
		if rec.Type != models.RecNutritionGap {
			t.Errorf("type = %s, want NUTRITION_GAP", rec.Type)
		}
		n := rec.Meta(models.MetaNutrient)
		if rec.Priority != want[n] {
			t.Errorf("%s priority = %v, want %v", n, rec.Priority, want[n])
		}
	}
}

func TestNutritionalGap_TrustsCarriedSeverity(t *testing.T) {
	rc := contextAt(monday)
	rc.Gaps = []models.NutritionalGap{{
		Nutrient: "protein", Current: 45, Recommended: 70,
		GapPercentage: 35.7, Severity: models.SeveritySevere,
	}}

	recs := NewNutritionalGap().Generate(rc)
	if len(recs) != 1 || recs[0].Priority != models.PriorityHigh {
		t.Fatalf("expected one HIGH recommendation, got %+v", recs)
	}
}

func TestNutritionalGap_ExcessOnlyForLimitedNutrients(t *testing.T) {
	rc := contextAt(monday)
	rc.Gaps = []models.NutritionalGap{
		models.NewNutritionalGap("sodium", 3500, 2300, "mg"),
		models.NewNutritionalGap("protein", 100, 70, "g"),
	}

	recs := NewNutritionalGap().Generate(rc)
	if len(recs) != 1 {
		t.Fatalf("expected only the sodium recommendation, got %d", len(recs))
	}
	if recs[0].Meta(models.MetaNutrient) != "sodium" || !strings.HasPrefix(recs[0].Title, "Cut back") {
		t.Errorf("unexpected recommendation %q", recs[0].Title)
	}
}

func TestNutritionalGap_RespectsDislikes(t *testing.T) {
	rc := contextAt(monday)
	rc.Gaps = []models.NutritionalGap{models.NewNutritionalGap("protein", 10, 70, "g")}
	rc.Preferences.DislikedFoods = []string{"Eggs", "tofu"}

	recs := NewNutritionalGap().Generate(rc)
	for _, a := range recs[0].Actions {
		sf, ok := a.(models.SuggestFoods)
		if !ok {
			continue
		}
		for _, f := range sf.Foods {
			if f == "eggs" || f == "tofu" {
				t.Errorf("disliked food %q suggested", f)
			}
		}
	}
}

func TestGoalBased_OnlyActiveGoals(t *testing.T) {
	rc := contextAt(monday)
	rc.Goals = []models.HealthGoal{
		{ID: "g1", Type: models.GoalMuscleGain, Status: models.GoalActive, StartDate: monday.AddDate(0, 0, -7)},
		{ID: "g2", Type: models.GoalWeightLoss, Status: models.GoalPaused},
		{ID: "g3", Type: models.GoalFatReduction, Status: models.GoalCompleted},
	}

	recs := NewGoalBased().Generate(rc)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations for the single active goal, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Meta(models.MetaGoalID) != "g1" {
			t.Errorf("recommendation for goal %q, want g1", rec.Meta(models.MetaGoalID))
		}
		if rec.Meta(models.MetaGoalType) != string(models.GoalMuscleGain) {
			t.Errorf("goal_type = %q", rec.Meta(models.MetaGoalType))
		}
	}
	if recs[0].Type != models.RecMealPlan {
		t.Errorf("first recommendation type = %s, want MEAL_PLAN", recs[0].Type)
	}
}

func TestGoalBased_BehindScheduleRaisesPriority(t *testing.T) {
	rc := contextAt(monday)
	rc.Goals = []models.HealthGoal{{
		ID: "g1", Type: models.GoalWeightLoss, Status: models.GoalActive,
		StartDate: monday.AddDate(0, 0, -20), EndDate: monday.AddDate(0, 0, 10),
		Progress: 0.1,
	}}

	recs := NewGoalBased().Generate(rc)
	if recs[0].Priority != models.PriorityHigh {
		t.Errorf("meal plan priority = %v, want HIGH when behind schedule", recs[0].Priority)
	}
	if !strings.Contains(recs[1].Title, "Catch up") {
		t.Errorf("habit title = %q, want catch-up wording", recs[1].Title)
	}
}

func TestDetectScenario(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	tests := []struct {
		name     string
		ts       time.Time
		location models.Location
		want     Scenario
	}{
		{"weekday lunch at work", monday.Add(12 * time.Hour), models.LocationWork, ScenarioBusyLunch},
		{"weekday lunch at home", monday.Add(12 * time.Hour), models.LocationHome, ScenarioGeneral},
		{"late night", monday.Add(23 * time.Hour), models.LocationHome, ScenarioLateNightSnack},
		{"early hours", monday.Add(2 * time.Hour), models.LocationUnknown, ScenarioLateNightSnack},
		{"weekday morning", monday.Add(7 * time.Hour), models.LocationUnknown, ScenarioBreakfastRush},
		{"weekend brunch", saturday.Add(10 * time.Hour), models.LocationHome, ScenarioWeekendBrunch},
		{"afternoon", monday.Add(15 * time.Hour), models.LocationWork, ScenarioAfternoonSlump},
		{"dinner", monday.Add(19 * time.Hour), models.LocationHome, ScenarioFamilyDinner},
		{"restaurant overrides time", monday.Add(23 * time.Hour), models.LocationRestaurant, ScenarioDiningOut},
		{"gym", monday.Add(18 * time.Hour), models.LocationGym, ScenarioAtGym},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := contextAt(tt.ts)
			rc.Location = tt.location
			if got := DetectScenario(rc); got != tt.want {
				t.Errorf("DetectScenario = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestContextAware_CurrentScenario(t *testing.T) {
	rc := contextAt(monday.Add(23 * time.Hour))
	s := NewContextAware()
	if got := s.CurrentScenario(rc); got != "Late-night snacking" {
		t.Errorf("CurrentScenario = %q", got)
	}
}

func TestContextAware_GenerateScenarioAndHabits(t *testing.T) {
	rc := contextAt(monday.Add(12 * time.Hour))
	rc.Location = models.LocationWork
	rc.IsFirstTimeUser = true
	rc.Patterns = &models.EatingPatternAnalysis{
		WindowDays:          7,
		LateNightEatingDays: 4,
		MealTimings:         []models.MealTiming{{MealType: models.MealBreakfast, SkipRate: 0.8}},
	}

	recs := NewContextAware().Generate(rc)
	scenarios := make(map[string]bool)
	for _, rec := range recs {
		scenarios[rec.Meta(models.MetaScenario)] = true
	}
	for _, want := range []string{string(ScenarioBusyLunch), "onboarding", "skipped_breakfast", "late_night_habit"} {
		if !scenarios[want] {
			t.Errorf("missing %s recommendation; got %v", want, scenarios)
		}
	}
}

func TestContextAware_CuisineTipWhenEatingOut(t *testing.T) {
	scenarioRec := func(rc *models.RecommendationContext) models.Recommendation {
		t.Helper()
		for _, rec := range NewContextAware().Generate(rc) {
			if rec.Type == models.RecScenario {
				return rec
			}
		}
		t.Fatal("no scenario recommendation")
		return models.Recommendation{}
	}

	rc := contextAt(monday.Add(19 * time.Hour))
	rc.Location = models.LocationRestaurant
	rc.Preferences.Cuisines = []string{"klingon", "Japanese", "thai"}
	rec := scenarioRec(rc)
	if rec.Meta(models.MetaCuisine) != "japanese" {
		t.Errorf("cuisine = %q, want the first known preference", rec.Meta(models.MetaCuisine))
	}
	if !strings.Contains(rec.Description, "Sashimi") {
		t.Errorf("Description = %q, want the japanese tip", rec.Description)
	}

	rc.Preferences.Cuisines = nil
	if rec := scenarioRec(rc); rec.Meta(models.MetaCuisine) != "" {
		t.Errorf("cuisine = %q without preferences", rec.Meta(models.MetaCuisine))
	}

	// At home the cuisine does not change the advice.
	rc.Location = models.LocationHome
	rc.Preferences.Cuisines = []string{"japanese"}
	if rec := scenarioRec(rc); rec.Meta(models.MetaCuisine) != "" || strings.Contains(rec.Description, "Sashimi") {
		t.Errorf("home scenario = %+v, want no cuisine tip", rec)
	}
}

func TestTimeBased_SkipsLoggedMeals(t *testing.T) {
	rc := contextAt(monday.Add(12 * time.Hour))
	recs := NewTimeBased().Generate(rc)
	if len(recs) != 1 || recs[0].Meta(models.MetaMealType) != string(models.MealLunch) {
		t.Fatalf("expected one lunch reminder, got %+v", recs)
	}

	rc.LoggedMealsToday = []models.MealType{models.MealLunch}
	if recs := NewTimeBased().Generate(rc); len(recs) != 0 {
		t.Errorf("expected no reminder once lunch is logged, got %d", len(recs))
	}
}

func TestLocationBased(t *testing.T) {
	rc := contextAt(monday.Add(12 * time.Hour))
	if recs := NewLocationBased().Generate(rc); len(recs) != 0 {
		t.Errorf("expected no recommendation without location, got %d", len(recs))
	}

	rc.Location = models.LocationTravel
	recs := NewLocationBased().Generate(rc)
	if len(recs) != 1 || recs[0].Meta(models.MetaLocation) != "travel" {
		t.Errorf("unexpected location recommendations %+v", recs)
	}
}

func TestStrategies_DoNotMutateContext(t *testing.T) {
	rc := contextAt(monday.Add(12 * time.Hour))
	rc.Gaps = []models.NutritionalGap{models.NewNutritionalGap("protein", 20, 70, "g")}
	rc.Goals = []models.HealthGoal{{ID: "g", Type: models.GoalNutrientBalance, Status: models.GoalActive}}
	before := len(rc.Gaps) + len(rc.Goals)

	for _, s := range []interface {
		Generate(*models.RecommendationContext) []models.Recommendation
	}{NewNutritionalGap(), NewGoalBased(), NewContextAware(), NewTimeBased(), NewLocationBased()} {
		s.Generate(rc)
	}
	if len(rc.Gaps)+len(rc.Goals) != before || rc.Gaps[0].Nutrient != "protein" {
		t.Error("strategy mutated the context")
	}
}
