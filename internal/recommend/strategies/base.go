// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package strategies implements the recommendation strategies used by the
// recommendation engine.
//
// Each strategy satisfies recommend.Strategy: a pure function from a
// recommendation context to a list of recommendations. Strategies never
// perform I/O and never mutate the context, so a single instance is safe for
// concurrent use across users.
//
// # Strategies
//
//   - NutritionalGap: one recommendation per significant nutrient gap
//   - GoalBased: guidance for every ACTIVE health goal
//   - ContextAware: scenario detection (busy lunch, late-night snack, ...)
//   - TimeBased: meal window and hydration reminders
//   - LocationBased: tips for home, work, restaurants, the gym and travel
package strategies

import (
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
)

// BaseStrategy carries the strategy name.
type BaseStrategy struct {
	name string
}

// NewBaseStrategy creates a base with the given name.
func NewBaseStrategy(name string) BaseStrategy {
	return BaseStrategy{name: name}
}

// Name returns the strategy identifier.
func (b *BaseStrategy) Name() string {
	return b.name
}

// newRecommendation fills the fields every strategy sets the same way. IDs are
// assigned by the engine after deduplication.
func (b *BaseStrategy) newRecommendation(
	rc *models.RecommendationContext,
	recType models.RecommendationType,
	title, description string,
	priority models.Priority,
	confidence float64,
) models.Recommendation {
	return models.Recommendation{
		UserID:      rc.UserID,
		Type:        recType,
		Title:       title,
		Description: description,
		Priority:    priority,
		Confidence:  models.Clamp01(confidence),
		Metadata:    map[string]string{models.MetaStrategy: b.name},
		CreatedAt:   rc.Timestamp,
	}
}

// expireAt returns a pointer to rc.Timestamp plus d.
func expireAt(rc *models.RecommendationContext, d time.Duration) *time.Time {
	t := rc.Timestamp.Add(d)
	return &t
}
