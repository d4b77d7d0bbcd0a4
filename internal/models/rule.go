// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import "math"

// Comparator compares an observed value against a threshold.
type Comparator string

const (
	GreaterThan    Comparator = "GREATER_THAN"
	LessThan       Comparator = "LESS_THAN"
	Equal          Comparator = "EQUAL"
	GreaterOrEqual Comparator = "GREATER_OR_EQUAL"
	LessOrEqual    Comparator = "LESS_OR_EQUAL"
)

// equalEpsilon is the tolerance for EQUAL on floating point values.
const equalEpsilon = 1e-9

// Compare applies the comparator. Unknown comparators never match.
func (c Comparator) Compare(value, threshold float64) bool {
	switch c {
	case GreaterThan:
		return value > threshold
	case LessThan:
		return value < threshold
	case Equal:
		return math.Abs(value-threshold) < equalEpsilon
	case GreaterOrEqual:
		return value >= threshold
	case LessOrEqual:
		return value <= threshold
	default:
		return false
	}
}

// LogicalOperator joins the children of a composite condition.
type LogicalOperator string

const (
	And LogicalOperator = "AND"
	Or  LogicalOperator = "OR"
)

// Condition is the closed set of rule conditions. Implementations are
// NutrientGapCondition, HealthScoreCondition and CompositeCondition.
type Condition interface {
	isCondition()
}

// NutrientGapCondition matches on the gap percentage of a single nutrient.
type NutrientGapCondition struct {
	Nutrient   string     `json:"nutrient"`
	Threshold  float64    `json:"threshold"`
	Comparator Comparator `json:"comparator"`
}

// HealthScoreCondition matches on the snapshot health score.
type HealthScoreCondition struct {
	Score      float64    `json:"score"`
	Comparator Comparator `json:"comparator"`
}

// CompositeCondition combines child conditions with AND or OR.
type CompositeCondition struct {
	Operator   LogicalOperator `json:"operator"`
	Conditions []Condition     `json:"conditions"`
}

func (NutrientGapCondition) isCondition() {}
func (HealthScoreCondition) isCondition() {}
func (CompositeCondition) isCondition()   {}

// RuleType groups rules by what they react to.
type RuleType string

const (
	RuleNutrientDeficiency RuleType = "NUTRIENT_DEFICIENCY"
	RuleHealthScore        RuleType = "HEALTH_SCORE"
	RuleCombined           RuleType = "COMBINED"
)

// Rule is a read-only recommendation rule.
type Rule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      RuleType  `json:"type"`
	Condition Condition `json:"-"`
	Actions   []Action  `json:"-"`
	Priority  Priority  `json:"priority"`
	Message   string    `json:"message"`
}
