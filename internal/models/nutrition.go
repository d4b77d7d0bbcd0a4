// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies how far intake falls short of the recommended amount.
type Severity int

const (
	// SeverityMild is a gap below 20%.
	SeverityMild Severity = iota + 1
	// SeverityModerate is a gap from 20% to 50%.
	SeverityModerate
	// SeveritySevere is a gap above 50%.
	SeveritySevere
)

// Gap percentage boundaries between severity tiers.
const (
	ModerateGapThreshold = 20.0
	SevereGapThreshold   = 50.0
)

// String returns the wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "MILD"
	case SeverityModerate:
		return "MODERATE"
	case SeveritySevere:
		return "SEVERE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "MILD", "LOW":
		*s = SeverityMild
	case "MODERATE", "MEDIUM":
		*s = SeverityModerate
	case "SEVERE", "HIGH":
		*s = SeveritySevere
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// SeverityForGap maps a gap percentage to its tier.
func SeverityForGap(gapPercentage float64) Severity {
	switch {
	case gapPercentage > SevereGapThreshold:
		return SeveritySevere
	case gapPercentage >= ModerateGapThreshold:
		return SeverityModerate
	default:
		return SeverityMild
	}
}

// NutritionalGap is the shortfall of one nutrient against its recommended intake.
// A negative GapPercentage means intake exceeds the recommendation.
type NutritionalGap struct {
	// Nutrient is the canonical nutrient name (protein, fiber, vitamin_c, ...).
	Nutrient string `json:"nutrient"`

	// Current is the observed average daily intake.
	Current float64 `json:"current"`

	// Recommended is the target daily intake.
	Recommended float64 `json:"recommended"`

	// Unit is the measurement unit (g, mg, mcg, kcal).
	Unit string `json:"unit,omitempty"`

	// GapPercentage is (Recommended-Current)/Recommended*100.
	GapPercentage float64 `json:"gap_percentage"`

	// Severity is the tier carried with the gap. Providers may assign it
	// directly; NewNutritionalGap derives it from GapPercentage.
	Severity Severity `json:"severity"`
}

// NewNutritionalGap builds a gap from observed and recommended intake.
// A non-positive recommended amount yields a zero gap.
func NewNutritionalGap(nutrient string, current, recommended float64, unit string) NutritionalGap {
	var pct float64
	if recommended > 0 {
		pct = (recommended - current) / recommended * 100
	}
	return NutritionalGap{
		Nutrient:      nutrient,
		Current:       current,
		Recommended:   recommended,
		Unit:          unit,
		GapPercentage: pct,
		Severity:      SeverityForGap(pct),
	}
}

// IsDeficit reports whether intake is below the recommendation.
func (g NutritionalGap) IsDeficit() bool {
	return g.GapPercentage > 0
}

// MealTiming summarizes when a user usually logs a given meal.
type MealTiming struct {
	MealType    MealType `json:"meal_type"`
	AverageHour float64  `json:"average_hour"`
	SkipRate    float64  `json:"skip_rate"`
}

// EatingPatternAnalysis describes habitual eating behaviour over a window.
type EatingPatternAnalysis struct {
	// MealTimings holds one entry per meal type seen in the window.
	MealTimings []MealTiming `json:"meal_timings"`

	// LateNightEatingDays counts days with records after 22:00.
	LateNightEatingDays int `json:"late_night_eating_days"`

	// AverageMealsPerDay over days that have at least one record.
	AverageMealsPerDay float64 `json:"average_meals_per_day"`

	// TopCategories are the most frequent food categories, most frequent first.
	TopCategories []string `json:"top_categories"`

	// WindowDays is the number of days analysed.
	WindowDays int `json:"window_days"`
}

// SkipsMeal reports whether the meal is skipped on at least half of the days.
func (p *EatingPatternAnalysis) SkipsMeal(meal MealType) bool {
	if p == nil {
		return false
	}
	for _, mt := range p.MealTimings {
		if mt.MealType == meal {
			return mt.SkipRate >= 0.5
		}
	}
	return false
}

// DailyScore is one point in the health score history.
type DailyScore struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// FoodRecord is a logged food item. Nutrient values are already resolved.
type FoodRecord struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	FoodName  string             `json:"food_name"`
	Category  string             `json:"category"`
	MealType  MealType           `json:"meal_type"`
	Nutrients map[string]float64 `json:"nutrients,omitempty"`
	LoggedAt  time.Time          `json:"logged_at"`
}
