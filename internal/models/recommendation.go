// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// RecommendationType categorises a recommendation.
type RecommendationType string

const (
	RecNutritionGap   RecommendationType = "NUTRITION_GAP"
	RecHealthGoal     RecommendationType = "HEALTH_GOAL"
	RecMealPlan       RecommendationType = "MEAL_PLAN"
	RecFoodSuggestion RecommendationType = "FOOD_SUGGESTION"
	RecEducational    RecommendationType = "EDUCATIONAL"
	RecHabit          RecommendationType = "HABIT"
	RecTimeBased      RecommendationType = "TIME_BASED"
	RecScenario       RecommendationType = "SCENARIO"
	RecPlanProgress   RecommendationType = "PLAN_PROGRESS"
)

// Priority orders recommendations. Higher values rank first.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// String returns the wire name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePriority parses LOW, MEDIUM or HIGH case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}

// Metadata keys shared by strategies, the factory and the store.
const (
	MetaNutrient = "nutrient"
	MetaSeverity = "severity"
	MetaGoalID   = "goal_id"
	MetaGoalType = "goal_type"
	MetaPlanID   = "plan_id"
	MetaScenario = "scenario"
	MetaRuleID   = "rule_id"
	MetaStrategy = "strategy"
	MetaMealType = "meal_type"
	MetaLocation = "location"
	MetaCuisine  = "cuisine"
)

// Recommendation is one actionable suggestion for a user.
type Recommendation struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    Priority           `json:"priority"`
	Confidence  float64            `json:"confidence"`
	Reason      string             `json:"reason,omitempty"`
	Actions     []Action           `json:"-"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	IsRead      bool               `json:"is_read"`
	IsApplied   bool               `json:"is_applied"`
}

// MarshalJSON encodes actions as tagged envelopes.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	type plain Recommendation
	envs := make([]ActionEnvelope, 0, len(r.Actions))
	for _, a := range r.Actions {
		env, err := EncodeAction(a)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return json.Marshal(struct {
		plain
		Actions []ActionEnvelope `json:"actions"`
	}{plain: plain(r), Actions: envs})
}

// UnmarshalJSON decodes tagged action envelopes.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	type plain Recommendation
	var aux struct {
		plain
		Actions []ActionEnvelope `json:"actions"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Recommendation(aux.plain)
	r.Actions = make([]Action, 0, len(aux.Actions))
	for _, env := range aux.Actions {
		a, err := DecodeAction(env)
		if err != nil {
			return err
		}
		r.Actions = append(r.Actions, a)
	}
	return nil
}

// Meta returns a metadata value or "".
func (r *Recommendation) Meta(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

// IsExpired reports whether the recommendation has an expiry before now.
func (r *Recommendation) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
