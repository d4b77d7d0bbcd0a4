// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package rules

import (
	"errors"
	"fmt"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

// ErrInvalidRule is returned by ValidateRule.
var ErrInvalidRule = errors.New("invalid rule")

func deficiency(id, nutrient string, threshold float64, priority models.Priority, msg string) models.Rule {
	return models.Rule{
		ID:   id,
		Name: nutrients.DisplayName(nutrient) + " intake is low",
		Type: models.RuleNutrientDeficiency,
		Condition: models.NutrientGapCondition{
			Nutrient:   nutrient,
			Threshold:  threshold,
			Comparator: models.GreaterThan,
		},
		Actions:  []models.Action{models.SuggestFoods{Nutrient: nutrient}},
		Priority: priority,
		Message:  msg,
	}
}

// DefaultRules returns the built-in rule catalog. The slice is freshly
// allocated on each call.
func DefaultRules() []models.Rule {
	return []models.Rule{
		deficiency("protein-deficiency", nutrients.Protein, 30, models.PriorityHigh,
			"Protein supports muscle repair and keeps you full for longer."),
		deficiency("fiber-deficiency", nutrients.Fiber, 30, models.PriorityMedium,
			"Fiber feeds gut bacteria and steadies blood sugar."),
		deficiency("calcium-deficiency", nutrients.Calcium, 30, models.PriorityMedium,
			"Calcium keeps bones and teeth strong."),
		deficiency("iron-deficiency", nutrients.Iron, 30, models.PriorityMedium,
			"Iron carries oxygen in the blood; low intake shows up as tiredness."),
		deficiency("vitamin-c-deficiency", nutrients.VitaminC, 40, models.PriorityLow,
			"Vitamin C supports immunity and helps absorb plant iron."),
		{
			ID:   "low-health-score",
			Name: "Your nutrition score needs attention",
			Type: models.RuleHealthScore,
			Condition: models.HealthScoreCondition{
				Score:      60,
				Comparator: models.LessThan,
			},
			Actions: []models.Action{
				models.ShowEducationalTip{
					Topic:   "balanced_plate",
					Content: "Fill half the plate with vegetables, a quarter with protein and a quarter with whole grains.",
				},
				models.Navigate{Route: "/insights/score"},
			},
			Priority: models.PriorityMedium,
			Message:  "Small, consistent changes move the score the most.",
		},
		{
			ID:   "protein-and-score",
			Name: "Build meals around protein",
			Type: models.RuleCombined,
			Condition: models.CompositeCondition{
				Operator: models.And,
				Conditions: []models.Condition{
					models.NutrientGapCondition{Nutrient: nutrients.Protein, Threshold: 20, Comparator: models.GreaterThan},
					models.HealthScoreCondition{Score: 70, Comparator: models.LessThan},
				},
			},
			Actions: []models.Action{
				models.ShowEducationalTip{
					Topic:   "protein_first",
					Content: "Start each meal by choosing the protein, then add vegetables and carbohydrates.",
				},
			},
			Priority: models.PriorityMedium,
			Message:  "Protein is low and the overall score is below target.",
		},
		{
			ID:   "bone-health",
			Name: "Look after bone health",
			Type: models.RuleCombined,
			Condition: models.CompositeCondition{
				Operator: models.Or,
				Conditions: []models.Condition{
					models.NutrientGapCondition{Nutrient: nutrients.Calcium, Threshold: 40, Comparator: models.GreaterThan},
					models.NutrientGapCondition{Nutrient: nutrients.VitaminD, Threshold: 40, Comparator: models.GreaterThan},
				},
			},
			Actions: []models.Action{
				models.ShowEducationalTip{
					Topic:   "bone_health",
					Content: "Calcium needs vitamin D to be absorbed. Pair dairy or fortified foods with time outdoors.",
				},
			},
			Priority: models.PriorityLow,
			Message:  "Calcium or vitamin D intake is well below target.",
		},
	}
}

// ValidateRule checks the structural requirements of a rule.
//
//nolint:gocritic // hugeParam: rules are passed by value throughout the package
func ValidateRule(rule models.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	}
	if rule.Condition == nil {
		return fmt.Errorf("%w: rule %s has no condition", ErrInvalidRule, rule.ID)
	}
	if err := validateCondition(rule.Condition); err != nil {
		return fmt.Errorf("%w: rule %s: %w", ErrInvalidRule, rule.ID, err)
	}
	return nil
}

func validateCondition(cond models.Condition) error {
	switch c := cond.(type) {
	case models.NutrientGapCondition:
		if c.Nutrient == "" {
			return errors.New("nutrient gap condition without nutrient")
		}
		return validateComparator(c.Comparator)
	case models.HealthScoreCondition:
		return validateComparator(c.Comparator)
	case models.CompositeCondition:
		if c.Operator != models.And && c.Operator != models.Or {
			return fmt.Errorf("unknown operator %q", c.Operator)
		}
		if len(c.Conditions) == 0 {
			return errors.New("composite condition without children")
		}
		for _, sub := range c.Conditions {
			if sub == nil {
				return errors.New("nil child condition")
			}
			if err := validateCondition(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported condition %T", cond)
	}
}

func validateComparator(c models.Comparator) error {
	switch c {
	case models.GreaterThan, models.LessThan, models.Equal, models.GreaterOrEqual, models.LessOrEqual:
		return nil
	default:
		return fmt.Errorf("unknown comparator %q", c)
	}
}
