// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

import (
	"strings"

	"github.com/tomtom215/nutricoach/internal/models"
)

// Evaluate reports whether cond holds for agg and how close it is, in [0,1].
// AllOf is satisfied only when every child is; its progress is the mean of
// the children. An empty AllOf and unknown conditions are never satisfied.
func Evaluate(cond models.UnlockCondition, agg models.UserAggregates) (satisfied bool, progress float64) {
	switch c := cond.(type) {
	case models.StreakDays:
		return ratio(agg.StreakDays, c.Days)
	case models.TotalRecords:
		return ratio(agg.TotalRecords, c.Count)
	case models.NutrientTarget:
		return ratio(nutrientDays(agg, c.Nutrient), c.Days)
	case models.FoodVariety:
		return ratio(agg.FoodCategories, c.Categories)
	case models.AllOf:
		if len(c.Conditions) == 0 {
			return false, 0
		}
		all := true
		var sum float64
		for _, child := range c.Conditions {
			ok, p := Evaluate(child, agg)
			all = all && ok
			sum += p
		}
		return all, sum / float64(len(c.Conditions))
	default:
		return false, 0
	}
}

func ratio(have, need int) (bool, float64) {
	if need <= 0 {
		return true, 1
	}
	return have >= need, models.Clamp01(float64(have) / float64(need))
}

func nutrientDays(agg models.UserAggregates, nutrient string) int {
	if days, ok := agg.NutrientTargetDays[nutrient]; ok {
		return days
	}
	for k, days := range agg.NutrientTargetDays {
		if strings.EqualFold(k, nutrient) {
			return days
		}
	}
	return 0
}
