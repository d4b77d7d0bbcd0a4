// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nutricoach/internal/models"
)

var testNow = time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

// mockNutrition implements NutritionAnalysisProvider for testing.
type mockNutrition struct {
	gaps     []models.NutritionalGap
	patterns *models.EatingPatternAnalysis
	scores   []models.DailyScore
	gapsErr  error
	delay    time.Duration
}

func (m *mockNutrition) GetNutritionalGaps(ctx context.Context, _ string, _ int) ([]models.NutritionalGap, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.gapsErr != nil {
		return nil, m.gapsErr
	}
	return m.gaps, nil
}

func (m *mockNutrition) GetEatingPatterns(context.Context, string) (*models.EatingPatternAnalysis, error) {
	return m.patterns, nil
}

func (m *mockNutrition) GetHealthScoreHistory(context.Context, string, int) ([]models.DailyScore, error) {
	return m.scores, nil
}

// mockRecords implements RecordProvider for testing.
type mockRecords struct {
	all   []models.FoodRecord
	today []models.FoodRecord
	err   error
}

func (m *mockRecords) GetUserRecords(context.Context, string, time.Time) ([]models.FoodRecord, error) {
	return m.all, m.err
}

func (m *mockRecords) GetTodayRecords(context.Context, string, time.Time) ([]models.FoodRecord, error) {
	return m.today, m.err
}

func (m *mockRecords) GetStreakDays(context.Context, string, time.Time) (int, error) {
	return 0, m.err
}

func (m *mockRecords) GetFoodVarietyCount(context.Context, string, time.Time) (int, error) {
	return 0, m.err
}

type mockGoals struct {
	goals []models.HealthGoal
	err   error
}

func (m *mockGoals) GetActiveGoals(context.Context, string) ([]models.HealthGoal, error) {
	return m.goals, m.err
}

type mockPlans struct {
	plans []models.ImprovementPlan
}

func (m *mockPlans) GetActivePlans(context.Context, string) ([]models.ImprovementPlan, error) {
	return m.plans, nil
}

type mockPreferences struct {
	prefs models.UserPreferences
	err   error
	calls int
}

func (m *mockPreferences) GetPreferences(context.Context, string) (models.UserPreferences, error) {
	m.calls++
	return m.prefs, m.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FetchTimeout = 50 * time.Millisecond
	return cfg
}

func newTestAggregator(t *testing.T, n NutritionAnalysisProvider, r RecordProvider, g GoalRepository) *Aggregator {
	t.Helper()
	a, err := NewAggregator(testConfig(), n, r, g, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	return a
}

func TestAssemble_AllFacets(t *testing.T) {
	nutrition := &mockNutrition{
		gaps: []models.NutritionalGap{models.NewNutritionalGap("protein", 45, 70, "g")},
		scores: []models.DailyScore{
			{Date: testNow.AddDate(0, 0, -2), Score: 50},
			{Date: testNow.AddDate(0, 0, -1), Score: 64},
		},
	}
	records := &mockRecords{
		all: []models.FoodRecord{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}},
		today: []models.FoodRecord{
			{ID: "r3", MealType: models.MealBreakfast},
			{ID: "r4", MealType: models.MealBreakfast},
			{ID: "r5", MealType: models.MealLunch},
		},
	}
	goals := &mockGoals{goals: []models.HealthGoal{{ID: "g1", Status: models.GoalActive}}}

	a := newTestAggregator(t, nutrition, records, goals)
	rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Location: models.LocationWork, Now: testNow})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(rc.Gaps) != 1 || rc.Gaps[0].Nutrient != "protein" {
		t.Errorf("Gaps = %+v, want protein gap", rc.Gaps)
	}
	if rc.HealthScore != 64 {
		t.Errorf("HealthScore = %v, want latest history score 64", rc.HealthScore)
	}
	if len(rc.Goals) != 1 {
		t.Errorf("Goals = %d, want 1", len(rc.Goals))
	}
	if rc.UsageCount != 3 || rc.IsFirstTimeUser {
		t.Errorf("UsageCount = %d, IsFirstTimeUser = %v; want 3, false", rc.UsageCount, rc.IsFirstTimeUser)
	}
	if len(rc.LoggedMealsToday) != 2 {
		t.Errorf("LoggedMealsToday = %v, want breakfast and lunch", rc.LoggedMealsToday)
	}
	if rc.Hour != 12 || rc.Date != "2026-03-10" || rc.MealType != models.MealLunch {
		t.Errorf("temporal fields = (%d, %s, %s)", rc.Hour, rc.Date, rc.MealType)
	}
	if rc.PlanTracking {
		t.Error("PlanTracking should be false without a plan lister")
	}
}

func TestAssemble_FailedFacetDegrades(t *testing.T) {
	nutrition := &mockNutrition{gapsErr: errors.New("analysis backend down")}
	goals := &mockGoals{err: errors.New("goal store down")}
	records := &mockRecords{}

	a := newTestAggregator(t, nutrition, records, goals)
	rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("Assemble() error = %v, want degraded context", err)
	}
	if len(rc.Gaps) != 0 || len(rc.Goals) != 0 {
		t.Errorf("failed facets should be empty, got gaps=%d goals=%d", len(rc.Gaps), len(rc.Goals))
	}
	if !rc.IsFirstTimeUser {
		t.Error("no records should mean a first-time user")
	}
}

func TestAssemble_SlowFacetTimesOut(t *testing.T) {
	nutrition := &mockNutrition{
		gaps:  []models.NutritionalGap{models.NewNutritionalGap("fiber", 10, 30, "g")},
		delay: time.Second,
	}
	a := newTestAggregator(t, nutrition, nil, nil)

	start := time.Now()
	rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Assemble() took %v, facet timeout not applied", elapsed)
	}
	if len(rc.Gaps) != 0 {
		t.Errorf("timed-out gaps facet should be empty, got %d", len(rc.Gaps))
	}
}

func TestAssemble_ParentCancellation(t *testing.T) {
	nutrition := &mockNutrition{delay: time.Second}
	a := newTestAggregator(t, nutrition, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Assemble(ctx, Request{UserID: "u1", Now: testNow})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Assemble() error = %v, want context.Canceled", err)
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerFailures = 2
	cfg.BreakerCooldown = time.Hour
	cb := newBreaker("test-provider", cfg, zerolog.Nop())

	calls := 0
	var lastErr error
	for i := 0; i < 4; i++ {
		_, lastErr = execute(cb, func() (int, error) {
			calls++
			return 0, errors.New("boom")
		})
	}

	if calls != 2 {
		t.Errorf("provider calls = %d, want 2 before the circuit opened", calls)
	}
	if !errors.Is(lastErr, gobreaker.ErrOpenState) {
		t.Errorf("last error = %v, want ErrOpenState", lastErr)
	}
}

func TestBreaker_IgnoresCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerFailures = 1
	cb := newBreaker("test-cancel", cfg, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, _ = execute(cb, func() (int, error) { return 0, context.Canceled })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed after cancellations", cb.State())
	}
}

func TestAssemble_PlanTracking(t *testing.T) {
	plans := &mockPlans{plans: []models.ImprovementPlan{{ID: "p1", Status: models.PlanActive}}}
	a := newTestAggregator(t, nil, nil, nil).WithPlans(plans)

	rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !rc.PlanTracking || len(rc.ActivePlans) != 1 {
		t.Errorf("PlanTracking = %v, plans = %d; want true, 1", rc.PlanTracking, len(rc.ActivePlans))
	}
}

func TestAssemble_Preferences(t *testing.T) {
	stored := models.UserPreferences{DislikedFoods: []string{"eggs"}, Cuisines: []string{"thai"}}

	t.Run("stored preferences fill an empty request", func(t *testing.T) {
		prefs := &mockPreferences{prefs: stored}
		a := newTestAggregator(t, nil, nil, nil).WithPreferences(prefs)
		rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Now: testNow})
		if err != nil {
			t.Fatalf("Assemble() error = %v", err)
		}
		if !rc.Preferences.Dislikes("eggs") || len(rc.Preferences.Cuisines) != 1 {
			t.Errorf("Preferences = %+v, want the stored ones", rc.Preferences)
		}
	})

	t.Run("request preferences win", func(t *testing.T) {
		prefs := &mockPreferences{prefs: stored}
		a := newTestAggregator(t, nil, nil, nil).WithPreferences(prefs)
		req := Request{
			UserID:      "u1",
			Now:         testNow,
			Preferences: models.UserPreferences{DietaryRestrictions: []string{"vegan"}},
		}
		rc, err := a.Assemble(context.Background(), req)
		if err != nil {
			t.Fatalf("Assemble() error = %v", err)
		}
		if rc.Preferences.Dislikes("eggs") || !rc.Preferences.HasRestriction("vegan") {
			t.Errorf("Preferences = %+v, want the request ones", rc.Preferences)
		}
		if prefs.calls != 0 {
			t.Errorf("stored preferences read %d times, want 0", prefs.calls)
		}
	})

	t.Run("failure degrades to none", func(t *testing.T) {
		prefs := &mockPreferences{err: errors.New("store down")}
		a := newTestAggregator(t, nil, nil, nil).WithPreferences(prefs)
		rc, err := a.Assemble(context.Background(), Request{UserID: "u1", Now: testNow})
		if err != nil {
			t.Fatalf("Assemble() error = %v", err)
		}
		if !rc.Preferences.IsZero() {
			t.Errorf("Preferences = %+v, want empty", rc.Preferences)
		}
	})
}

func TestAssemble_RequiresUserID(t *testing.T) {
	a := newTestAggregator(t, nil, nil, nil)
	for _, id := range []string{"", "alice:mallory", "a/b"} {
		if _, err := a.Assemble(context.Background(), Request{UserID: id}); err == nil {
			t.Errorf("Assemble(%q) should fail", id)
		}
	}
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name    string
		history []models.DailyScore
		gaps    []models.NutritionalGap
		want    float64
	}{
		{name: "no data is neutral", want: NeutralHealthScore},
		{
			name:    "unsorted history uses latest",
			history: []models.DailyScore{{Date: testNow, Score: 80}, {Date: testNow.AddDate(0, 0, -1), Score: 40}},
			want:    80,
		},
		{
			name: "derived from deficit gaps",
			gaps: []models.NutritionalGap{
				models.NewNutritionalGap("protein", 35, 70, "g"), // 50%
				models.NewNutritionalGap("fiber", 27, 30, "g"),   // 10%
			},
			want: 70,
		},
		{
			name: "sodium under its limit is not a deficit",
			gaps: []models.NutritionalGap{
				models.NewNutritionalGap("protein", 35, 70, "g"),
				models.NewNutritionalGap("sodium", 1000, 2300, "mg"),
			},
			want: 50,
		},
		{
			name: "no deficits is full score",
			gaps: []models.NutritionalGap{models.NewNutritionalGap("protein", 80, 70, "g")},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthScore(tt.history, tt.gaps)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("HealthScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
