// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package strategies

import "github.com/tomtom215/nutricoach/internal/models"

// LocationBased gives a tip for where the user is.
type LocationBased struct {
	BaseStrategy
}

// NewLocationBased creates the strategy.
func NewLocationBased() *LocationBased {
	return &LocationBased{BaseStrategy: NewBaseStrategy("location_based")}
}

// Generate emits at most one recommendation for the current location.
func (s *LocationBased) Generate(rc *models.RecommendationContext) []models.Recommendation {
	var title, text string
	switch rc.Location {
	case models.LocationHome:
		if rc.Preferences.CookingTimeBudget > 0 && rc.Preferences.CookingTimeBudget < 30 {
			title, text = "Stock quick staples", "Keep frozen vegetables, eggs and canned beans for meals in under 15 minutes."
		} else {
			title, text = "Batch cook for the week", "Cooking two portions tonight means a healthy lunch tomorrow."
		}
	case models.LocationWork:
		title, text = "Keep a desk-friendly snack", "Fruit, nuts or yogurt in the office beats the vending machine."
	case models.LocationRestaurant:
		title, text = "Check the menu before you go", "Choosing in advance makes the healthier option easier to stick to."
	case models.LocationGym:
		title, text = "Hydrate during training", "Drink water before, during and after the session."
	case models.LocationTravel:
		title, text = "Pack a travel snack kit", "Nuts, fruit and a refillable bottle keep you away from airport fast food."
	default:
		return nil
	}

	rec := s.newRecommendation(rc, models.RecScenario, title, text, models.PriorityLow, 0.5)
	rec.Metadata[models.MetaScenario] = "location:" + string(rc.Location)
	rec.Metadata[models.MetaLocation] = string(rc.Location)
	return []models.Recommendation{rec}
}
