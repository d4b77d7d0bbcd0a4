// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import (
	"strings"
	"time"
)

// MealType is the meal a record or recommendation belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypeForHour returns the meal conventionally eaten at the given hour.
func MealTypeForHour(hour int) MealType {
	switch {
	case hour >= 5 && hour < 10:
		return MealBreakfast
	case hour >= 11 && hour < 14:
		return MealLunch
	case hour >= 17 && hour < 21:
		return MealDinner
	default:
		return MealSnack
	}
}

// Location is where the user currently is.
type Location string

const (
	LocationUnknown    Location = ""
	LocationHome       Location = "home"
	LocationWork       Location = "work"
	LocationRestaurant Location = "restaurant"
	LocationGym        Location = "gym"
	LocationTravel     Location = "travel"
)

// PriceRange is a per-meal budget.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price is within the range. A zero Max means unbounded.
func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max <= 0 || price <= r.Max
}

// UserPreferences holds dietary and practical preferences.
type UserPreferences struct {
	DietaryRestrictions []string   `json:"dietary_restrictions,omitempty"`
	DislikedFoods       []string   `json:"disliked_foods,omitempty"`
	Cuisines            []string   `json:"cuisines,omitempty"`
	CookingTimeBudget   int        `json:"cooking_time_budget_minutes,omitempty"`
	Budget              PriceRange `json:"budget"`
}

// Dislikes reports whether food matches a disliked food, case-insensitively.
func (p *UserPreferences) Dislikes(food string) bool {
	for _, d := range p.DislikedFoods {
		if strings.EqualFold(strings.TrimSpace(d), food) {
			return true
		}
	}
	return false
}

// IsZero reports whether no preference is set.
func (p *UserPreferences) IsZero() bool {
	return len(p.DietaryRestrictions) == 0 && len(p.DislikedFoods) == 0 &&
		len(p.Cuisines) == 0 && p.CookingTimeBudget == 0 && p.Budget == PriceRange{}
}

// HasRestriction reports whether restriction is among the dietary restrictions.
func (p *UserPreferences) HasRestriction(restriction string) bool {
	for _, r := range p.DietaryRestrictions {
		if strings.EqualFold(r, restriction) {
			return true
		}
	}
	return false
}

// RecommendationContext is the immutable snapshot every strategy reads.
// It is assembled once per request and never mutated afterwards.
type RecommendationContext struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`

	Gaps         []NutritionalGap       `json:"gaps"`
	Patterns     *EatingPatternAnalysis `json:"patterns,omitempty"`
	HealthScore  float64                `json:"health_score"`
	ScoreHistory []DailyScore           `json:"score_history,omitempty"`
	Goals        []HealthGoal           `json:"goals"`
	ActivePlans  []ImprovementPlan      `json:"active_plans,omitempty"`

	// PlanTracking is true when ActivePlans was loaded from a plan repository.
	// Without it no plan-related recommendations are produced.
	PlanTracking bool `json:"plan_tracking"`

	Preferences UserPreferences `json:"preferences"`

	Location         Location   `json:"location,omitempty"`
	MealType         MealType   `json:"meal_type,omitempty"`
	Hour             int        `json:"hour"`
	Date             string     `json:"date"`
	LoggedMealsToday []MealType `json:"logged_meals_today,omitempty"`

	IsFirstTimeUser bool `json:"is_first_time_user"`
	UsageCount      int  `json:"usage_count"`
}

// GapFor returns the gap for nutrient, if any.
func (c *RecommendationContext) GapFor(nutrient string) (NutritionalGap, bool) {
	for _, g := range c.Gaps {
		if strings.EqualFold(g.Nutrient, nutrient) {
			return g, true
		}
	}
	return NutritionalGap{}, false
}

// ActiveGoals returns the goals in ACTIVE status, in snapshot order.
func (c *RecommendationContext) ActiveGoals() []HealthGoal {
	var out []HealthGoal
	for i := range c.Goals {
		if c.Goals[i].IsActive() {
			out = append(out, c.Goals[i])
		}
	}
	return out
}

// HasLoggedMeal reports whether a record for meal exists today.
func (c *RecommendationContext) HasLoggedMeal(meal MealType) bool {
	for _, m := range c.LoggedMealsToday {
		if m == meal {
			return true
		}
	}
	return false
}

// IsWeekend reports whether the snapshot timestamp falls on Saturday or Sunday.
func (c *RecommendationContext) IsWeekend() bool {
	wd := c.Timestamp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
