// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ActionKind names an Action variant on the wire.
type ActionKind string

const (
	ActionSuggestFoods       ActionKind = "suggest_foods"
	ActionShowEducationalTip ActionKind = "show_educational_tip"
	ActionCreatePlan         ActionKind = "create_plan"
	ActionViewPlan           ActionKind = "view_plan"
	ActionSetReminder        ActionKind = "set_reminder"
	ActionLogMeal            ActionKind = "log_meal"
	ActionNavigate           ActionKind = "navigate"
)

// Action is the closed set of follow-ups a recommendation offers.
type Action interface {
	Kind() ActionKind
}

// SuggestFoods proposes concrete foods, usually for a nutrient.
type SuggestFoods struct {
	Nutrient string   `json:"nutrient,omitempty"`
	Foods    []string `json:"foods"`
}

// ShowEducationalTip shows a short explanatory text.
type ShowEducationalTip struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// CreatePlan offers to create an improvement plan for a goal.
type CreatePlan struct {
	GoalID   string   `json:"goal_id"`
	GoalType GoalType `json:"goal_type"`
}

// ViewPlan opens an existing plan.
type ViewPlan struct {
	PlanID string `json:"plan_id"`
}

// SetReminder schedules a reminder at a local time.
type SetReminder struct {
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Message string `json:"message"`
}

// LogMeal opens meal logging for a meal type.
type LogMeal struct {
	MealType MealType `json:"meal_type"`
}

// Navigate opens an in-app route.
type Navigate struct {
	Route string `json:"route"`
}

func (SuggestFoods) Kind() ActionKind       { return ActionSuggestFoods }
func (ShowEducationalTip) Kind() ActionKind { return ActionShowEducationalTip }
func (CreatePlan) Kind() ActionKind         { return ActionCreatePlan }
func (ViewPlan) Kind() ActionKind           { return ActionViewPlan }
func (SetReminder) Kind() ActionKind        { return ActionSetReminder }
func (LogMeal) Kind() ActionKind            { return ActionLogMeal }
func (Navigate) Kind() ActionKind           { return ActionNavigate }

// ActionEnvelope is the tagged JSON form of an Action.
type ActionEnvelope struct {
	Kind    ActionKind      `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeAction wraps an action in its envelope.
func EncodeAction(a Action) (ActionEnvelope, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return ActionEnvelope{}, fmt.Errorf("encode %s action: %w", a.Kind(), err)
	}
	return ActionEnvelope{Kind: a.Kind(), Payload: payload}, nil
}

// DecodeAction restores an action from its envelope.
func DecodeAction(env ActionEnvelope) (Action, error) {
	var (
		action Action
		err    error
	)
	switch env.Kind {
	case ActionSuggestFoods:
		var a SuggestFoods
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionShowEducationalTip:
		var a ShowEducationalTip
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionCreatePlan:
		var a CreatePlan
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionViewPlan:
		var a ViewPlan
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionSetReminder:
		var a SetReminder
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionLogMeal:
		var a LogMeal
		err = json.Unmarshal(env.Payload, &a)
		action = a
	case ActionNavigate:
		var a Navigate
		err = json.Unmarshal(env.Payload, &a)
		action = a
	default:
		return nil, fmt.Errorf("unknown action kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s action: %w", env.Kind, err)
	}
	return action, nil
}
