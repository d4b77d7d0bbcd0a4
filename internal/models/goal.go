// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import "time"

// GoalType is the kind of health goal a user pursues.
type GoalType string

const (
	GoalWeightLoss        GoalType = "weight_loss"
	GoalWeightGain        GoalType = "weight_gain"
	GoalMuscleGain        GoalType = "muscle_gain"
	GoalFatReduction      GoalType = "fat_reduction"
	GoalHealthImprovement GoalType = "health_improvement"
	GoalNutrientBalance   GoalType = "nutrient_balance"
)

// AllGoalTypes lists every goal type in display order.
var AllGoalTypes = []GoalType{
	GoalWeightLoss, GoalWeightGain, GoalMuscleGain,
	GoalFatReduction, GoalHealthImprovement, GoalNutrientBalance,
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	for _, known := range AllGoalTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName returns a short human label.
func (t GoalType) DisplayName() string {
	switch t {
	case GoalWeightLoss:
		return "Weight loss"
	case GoalWeightGain:
		return "Weight gain"
	case GoalMuscleGain:
		return "Muscle gain"
	case GoalFatReduction:
		return "Fat reduction"
	case GoalHealthImprovement:
		return "Health improvement"
	case GoalNutrientBalance:
		return "Nutrient balance"
	default:
		return string(t)
	}
}

// GoalStatus is the lifecycle state of a health goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalPaused    GoalStatus = "PAUSED"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalAbandoned GoalStatus = "ABANDONED"
	GoalFailed    GoalStatus = "FAILED"
)

// Milestone is an intermediate checkpoint on the way to a goal.
type Milestone struct {
	Title       string     `json:"title"`
	TargetValue float64    `json:"target_value"`
	DueDate     time.Time  `json:"due_date"`
	ReachedAt   *time.Time `json:"reached_at,omitempty"`
}

// HealthGoal is a user goal. The engine only reads goals.
type HealthGoal struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Type         GoalType    `json:"type"`
	Title        string      `json:"title"`
	CurrentValue float64     `json:"current_value"`
	TargetValue  float64     `json:"target_value"`
	Unit         string      `json:"unit,omitempty"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date,omitempty"`
	Progress     float64     `json:"progress"`
	Milestones   []Milestone `json:"milestones,omitempty"`
	Status       GoalStatus  `json:"status"`
}

// IsActive reports whether the goal is ACTIVE.
func (g *HealthGoal) IsActive() bool {
	return g.Status == GoalActive
}

// ElapsedFraction is the share of the goal's time window already passed, in [0,1].
// Goals without an end date report 0.
func (g *HealthGoal) ElapsedFraction(now time.Time) float64 {
	if g.EndDate.IsZero() || !g.EndDate.After(g.StartDate) {
		return 0
	}
	total := g.EndDate.Sub(g.StartDate)
	elapsed := now.Sub(g.StartDate)
	return Clamp01(float64(elapsed) / float64(total))
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
