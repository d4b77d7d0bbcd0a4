// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import (
	"fmt"
	"math"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// MinMildGap is the smallest gap percentage a MILD gap needs to be reported.
const MinMildGap = 10.0

// NutritionalGap turns nutrient gaps into NUTRITION_GAP recommendations.
// SEVERE gaps are HIGH priority, MODERATE are MEDIUM and MILD are LOW
// (omitted below MinMildGap). Excess intake of limited nutrients such as
// sodium produces a "cut back" recommendation.
type NutritionalGap struct {
	BaseStrategy
}

// NewNutritionalGap creates the strategy.
func NewNutritionalGap() *NutritionalGap {
	return &NutritionalGap{BaseStrategy: NewBaseStrategy("nutritional_gap")}
}

// Generate emits at most one recommendation per gap, in gap order.
func (s *NutritionalGap) Generate(rc *models.RecommendationContext) []models.Recommendation {
	var out []models.Recommendation
	for _, gap := range rc.Gaps {
		var (
			rec models.Recommendation
			ok  bool
		)
		if gap.IsDeficit() {
			rec, ok = s.deficit(rc, gap)
		} else {
			rec, ok = s.excess(rc, gap)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

func (s *NutritionalGap) deficit(rc *models.RecommendationContext, gap models.NutritionalGap) (models.Recommendation, bool) {
	if nutrients.IsLimited(gap.Nutrient) {
		return models.Recommendation{}, false
	}

	severity := gap.Severity
	if severity == 0 {
		severity = models.SeverityForGap(gap.GapPercentage)
	}
	if severity == models.SeverityMild && gap.GapPercentage < MinMildGap {
		return models.Recommendation{}, false
	}

	name := nutrients.DisplayName(gap.Nutrient)
	rec := s.newRecommendation(rc,
		models.RecNutritionGap,
		fmt.Sprintf("Boost your %s intake", name),
		fmt.Sprintf("You are averaging %s%s of %s%s %s a day, %.0f%% below target.",
			formatAmount(gap.Current), gap.Unit, formatAmount(gap.Recommended), gap.Unit, name, gap.GapPercentage),
		priorityFor(severity),
		confidenceFor(severity),
	)
	rec.Reason = fmt.Sprintf("%s gap is %s", name, severity)
	rec.Metadata[models.MetaNutrient] = gap.Nutrient
	rec.Metadata[models.MetaSeverity] = severity.String()

	if foods := nutrients.Sources(gap.Nutrient, rc.Preferences.DietaryRestrictions, rc.Preferences.Dislikes, 3); len(foods) > 0 {
		rec.Actions = append(rec.Actions, models.SuggestFoods{Nutrient: gap.Nutrient, Foods: foods})
	}
	rec.Actions = append(rec.Actions, models.Navigate{Route: "/nutrients/" + gap.Nutrient})
	return rec, true
}

func (s *NutritionalGap) excess(rc *models.RecommendationContext, gap models.NutritionalGap) (models.Recommendation, bool) {
	if !nutrients.IsLimited(gap.Nutrient) {
		return models.Recommendation{}, false
	}
	over := -gap.GapPercentage
	if over < MinMildGap {
		return models.Recommendation{}, false
	}

	severity := models.SeverityForGap(over)
	name := nutrients.DisplayName(gap.Nutrient)
	rec := s.newRecommendation(rc,
		models.RecNutritionGap,
		fmt.Sprintf("Cut back on %s", name),
		fmt.Sprintf("%s intake is %.0f%% above the recommended limit.", name, over),
		priorityFor(severity),
		confidenceFor(severity),
	)
	rec.Reason = fmt.Sprintf("%s excess is %s", name, severity)
	rec.Metadata[models.MetaNutrient] = gap.Nutrient
	rec.Metadata[models.MetaSeverity] = severity.String()
	rec.Actions = []models.Action{models.ShowEducationalTip{
		Topic:   "reduce_" + gap.Nutrient,
		Content: fmt.Sprintf("Check labels for hidden %s and favour fresh, unprocessed foods.", name),
	}}
	return rec, true
}

func priorityFor(s models.Severity) models.Priority {
	switch s {
	case models.SeveritySevere:
		return models.PriorityHigh
	case models.SeverityModerate:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func confidenceFor(s models.Severity) float64 {
	switch s {
	case models.SeveritySevere:
		return 0.9
	case models.SeverityModerate:
		return 0.75
	default:
		return 0.55
	}
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
