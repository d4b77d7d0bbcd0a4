// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/nutricoach/internal/models"
)

const planStrategy = "plans"

// planRecommendations adds plan nudges: a plan offer for every active goal
// with no active plan, and progress nudges for stalled or nearly finished
// plans. Nothing is produced unless plans were loaded for the context.
func (e *Engine) planRecommendations(rc *models.RecommendationContext) []models.Recommendation {
	if !rc.PlanTracking {
		return nil
	}

	planned := make(map[string]struct{}, len(rc.ActivePlans))
	for i := range rc.ActivePlans {
		if rc.ActivePlans[i].IsActive() && rc.ActivePlans[i].GoalID != "" {
			planned[rc.ActivePlans[i].GoalID] = struct{}{}
		}
	}

	var out []models.Recommendation
	for _, goal := range rc.ActiveGoals() {
		if _, ok := planned[goal.ID]; ok {
			continue
		}
		out = append(out, createPlanRecommendation(rc, &goal))
	}

	cfg := e.config.Plans
	for i := range rc.ActivePlans {
		p := &rc.ActivePlans[i]
		if !p.IsActive() {
			continue
		}
		switch {
		case p.Progress < cfg.StalledProgress && p.DaysPassed(rc.Timestamp) > cfg.StalledAfterDays:
			out = append(out, planNudge(rc, p,
				"Get back on track with "+p.Title,
				fmt.Sprintf("You are %d days into this plan with %.0f%% done. Pick one task for today.",
					p.DaysPassed(rc.Timestamp), math.Round(p.Progress*100)),
				0.6))
		case p.Progress > cfg.FinishingProgress && p.DaysRemaining(rc.Timestamp) < cfg.FinishingDaysLeft:
			out = append(out, planNudge(rc, p,
				"Almost there: "+p.Title,
				fmt.Sprintf("%.0f%% complete with %d days left. Finish strong.",
					math.Round(p.Progress*100), p.DaysRemaining(rc.Timestamp)),
				0.7))
		}
	}
	return out
}

func createPlanRecommendation(rc *models.RecommendationContext, goal *models.HealthGoal) models.Recommendation {
	return models.Recommendation{
		UserID:      rc.UserID,
		Type:        models.RecMealPlan,
		Title:       "Start a " + strings.ToLower(goal.Type.DisplayName()) + " plan",
		Description: fmt.Sprintf("A week-by-week plan turns %q into daily tasks you can tick off.", goal.Title),
		Priority:    models.PriorityMedium,
		Confidence:  0.7,
		Reason:      "active goal without a plan",
		Actions: []models.Action{
			models.CreatePlan{GoalID: goal.ID, GoalType: goal.Type},
		},
		Metadata: map[string]string{
			models.MetaStrategy: planStrategy,
			models.MetaGoalID:   goal.ID,
			models.MetaGoalType: string(goal.Type),
		},
		CreatedAt: rc.Timestamp,
	}
}

func planNudge(rc *models.RecommendationContext, p *models.ImprovementPlan, title, desc string, confidence float64) models.Recommendation {
	return models.Recommendation{
		UserID:      rc.UserID,
		Type:        models.RecPlanProgress,
		Title:       title,
		Description: desc,
		Priority:    models.PriorityLow,
		Confidence:  confidence,
		Reason:      "plan progress",
		Actions: []models.Action{
			models.ViewPlan{PlanID: p.ID},
		},
		Metadata: map[string]string{
			models.MetaStrategy: planStrategy,
			models.MetaPlanID:   p.ID,
		},
		CreatedAt: rc.Timestamp,
	}
}
