// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package snapshot assembles the immutable recommendation context from the
// collaborators that own nutrition analysis, food records, goals and plans.
//
// Every facet is fetched concurrently with its own timeout behind a circuit
// breaker per provider. A facet that fails degrades to its empty value so a
// slow or broken provider costs some recommendations, never the whole list.
// Cancelling the caller's context aborts the assembly.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
)

// NutritionAnalysisProvider computes gaps, patterns and scores from records.
type NutritionAnalysisProvider interface {
	GetNutritionalGaps(ctx context.Context, userID string, days int) ([]models.NutritionalGap, error)
	GetEatingPatterns(ctx context.Context, userID string) (*models.EatingPatternAnalysis, error)
	GetHealthScoreHistory(ctx context.Context, userID string, days int) ([]models.DailyScore, error)
}

// RecordProvider reads the user's food records.
type RecordProvider interface {
	// GetUserRecords returns records logged at or after since. A zero since
	// returns every record.
	GetUserRecords(ctx context.Context, userID string, since time.Time) ([]models.FoodRecord, error)

	// GetTodayRecords returns the records logged on the calendar day of day.
	GetTodayRecords(ctx context.Context, userID string, day time.Time) ([]models.FoodRecord, error)

	// GetStreakDays returns the number of consecutive days with a record,
	// ending at asOf or the day before it.
	GetStreakDays(ctx context.Context, userID string, asOf time.Time) (int, error)

	// GetFoodVarietyCount returns the number of distinct food categories
	// logged since the given time.
	GetFoodVarietyCount(ctx context.Context, userID string, since time.Time) (int, error)
}

// GoalRepository reads health goals.
type GoalRepository interface {
	GetActiveGoals(ctx context.Context, userID string) ([]models.HealthGoal, error)
}

// PlanLister reads improvement plans. It is optional.
type PlanLister interface {
	GetActivePlans(ctx context.Context, userID string) ([]models.ImprovementPlan, error)
}

// PreferencesProvider reads stored user preferences. A user without stored
// preferences gets the zero value and no error.
type PreferencesProvider interface {
	GetPreferences(ctx context.Context, userID string) (models.UserPreferences, error)
}

// Request carries the caller-supplied part of the context.
type Request struct {
	UserID      string                 `json:"user_id" validate:"required,userid"`
	Preferences models.UserPreferences `json:"preferences"`
	Location    models.Location        `json:"location,omitempty" validate:"omitempty,oneof=home work restaurant gym travel"`
	MealType    models.MealType        `json:"meal_type,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack"`

	// Now is the request time. A zero value means the engine clock.
	Now time.Time `json:"now,omitempty"`
}

// Config tunes snapshot assembly.
type Config struct {
	// GapWindowDays is the analysis window for nutritional gaps.
	GapWindowDays int

	// ScoreHistoryDays is how much health-score history is loaded.
	ScoreHistoryDays int

	// FetchTimeout bounds every facet fetch independently.
	FetchTimeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens a
	// provider's circuit.
	BreakerFailures uint32

	// BreakerCooldown is how long an open circuit rejects calls before
	// letting a trial call through.
	BreakerCooldown time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		GapWindowDays:    7,
		ScoreHistoryDays: 30,
		FetchTimeout:     2 * time.Second,
		BreakerFailures:  5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.GapWindowDays < 1 {
		return fmt.Errorf("gap_window_days must be positive, got %d", c.GapWindowDays)
	}
	if c.ScoreHistoryDays < 1 {
		return fmt.Errorf("score_history_days must be positive, got %d", c.ScoreHistoryDays)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %v", c.FetchTimeout)
	}
	if c.BreakerFailures == 0 {
		return fmt.Errorf("breaker_failures must be positive")
	}
	return nil
}
