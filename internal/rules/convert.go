// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package rules

import (
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// ToRecommendations turns rule matches into recommendations. Deficiency rules
// become FOOD_SUGGESTION recommendations carrying the nutrient; score and
// combined rules become EDUCATIONAL ones.
func ToRecommendations(matches []Match, rc *models.RecommendationContext, now time.Time) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(matches))
	for _, m := range matches {
		rec := models.Recommendation{
			UserID:      rc.UserID,
			Type:        models.RecEducational,
			Title:       m.Rule.Name,
			Description: m.Rule.Message,
			Priority:    m.Rule.Priority,
			Confidence:  m.Confidence,
			Reason:      "rule " + m.Rule.ID,
			Metadata: map[string]string{
				models.MetaRuleID:   m.Rule.ID,
				models.MetaStrategy: "rules",
			},
			CreatedAt: now,
		}

		if gap, ok := m.Rule.Condition.(models.NutrientGapCondition); ok && m.Rule.Type == models.RuleNutrientDeficiency {
			rec.Type = models.RecFoodSuggestion
			rec.Metadata[models.MetaNutrient] = gap.Nutrient
		}

		rec.Actions = resolveActions(m.Rule.Actions, rc)
		out = append(out, rec)
	}
	return out
}

// resolveActions fills SuggestFoods actions that name no foods from the
// nutrient catalog, honouring restrictions and dislikes.
func resolveActions(actions []models.Action, rc *models.RecommendationContext) []models.Action {
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if sf, ok := a.(models.SuggestFoods); ok && len(sf.Foods) == 0 {
			sf.Foods = nutrients.Sources(sf.Nutrient, rc.Preferences.DietaryRestrictions, rc.Preferences.Dislikes, 3)
			if len(sf.Foods) == 0 {
				continue
			}
			a = sf
		}
		out = append(out, a)
	}
	return out
}
