// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package rules evaluates declarative recommendation rules against a
// recommendation context.
//
// Conditions form a closed set (nutrient gap, health score, composite) and are
// evaluated with exhaustive type switches. Evaluation is pure: a missing
// nutrient makes its condition false, it never fails.
package rules

import (
	"math"

	"github.com/tomtom215/nutricoach/internal/models"
)

// Confidence curve tunables. Confidence grows with the margin by which a
// condition is exceeded and never leaves [0,1].
const (
	mildBase         = 0.50
	moderateBase     = 0.65
	severeBase       = 0.82
	gapMarginSlope   = 0.005
	gapMarginCap     = 0.15
	scoreBase        = 0.50
	scoreMarginSlope = 0.015
	scoreMarginCap   = 0.45
)

// Match is a rule that matched together with its confidence.
type Match struct {
	Rule       models.Rule
	Confidence float64
}

// Matcher evaluates rules. The zero value is ready to use.
type Matcher struct{}

// NewMatcher returns a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// MatchRule reports whether the rule's condition holds for rc.
//
//nolint:gocritic // hugeParam: rules are small and passed by value for immutability
func (m *Matcher) MatchRule(rule models.Rule, rc *models.RecommendationContext) bool {
	if rule.Condition == nil || rc == nil {
		return false
	}
	return matches(rule.Condition, rc)
}

// CalculateConfidence returns the confidence of a rule for rc, in [0,1].
// Non-matching rules have confidence 0.
//
//nolint:gocritic // hugeParam: see MatchRule
func (m *Matcher) CalculateConfidence(rule models.Rule, rc *models.RecommendationContext) float64 {
	if !m.MatchRule(rule, rc) {
		return 0
	}
	return clamp01(confidence(rule.Condition, rc))
}

// MatchRules returns the matching rules in input order.
func (m *Matcher) MatchRules(rules []models.Rule, rc *models.RecommendationContext) []models.Rule {
	var out []models.Rule
	for _, r := range rules {
		if m.MatchRule(r, rc) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate returns matching rules with their confidence, in input order.
func (m *Matcher) Evaluate(rules []models.Rule, rc *models.RecommendationContext) []Match {
	var out []Match
	for _, r := range rules {
		if !m.MatchRule(r, rc) {
			continue
		}
		out = append(out, Match{Rule: r, Confidence: clamp01(confidence(r.Condition, rc))})
	}
	return out
}

func matches(cond models.Condition, rc *models.RecommendationContext) bool {
	switch c := cond.(type) {
	case models.NutrientGapCondition:
		gap, ok := rc.GapFor(c.Nutrient)
		if !ok {
			return false
		}
		return c.Comparator.Compare(gap.GapPercentage, c.Threshold)
	case models.HealthScoreCondition:
		return c.Comparator.Compare(rc.HealthScore, c.Score)
	case models.CompositeCondition:
		return matchComposite(c, rc)
	default:
		return false
	}
}

func matchComposite(c models.CompositeCondition, rc *models.RecommendationContext) bool {
	if len(c.Conditions) == 0 {
		return false
	}
	switch c.Operator {
	case models.And:
		for _, sub := range c.Conditions {
			if !matches(sub, rc) {
				return false
			}
		}
		return true
	case models.Or:
		for _, sub := range c.Conditions {
			if matches(sub, rc) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// confidence assumes cond matches rc.
func confidence(cond models.Condition, rc *models.RecommendationContext) float64 {
	switch c := cond.(type) {
	case models.NutrientGapCondition:
		gap, ok := rc.GapFor(c.Nutrient)
		if !ok {
			return 0
		}
		margin := math.Abs(gap.GapPercentage - c.Threshold)
		return severityBase(gap) + math.Min(gapMarginCap, margin*gapMarginSlope)
	case models.HealthScoreCondition:
		margin := math.Abs(rc.HealthScore - c.Score)
		return scoreBase + math.Min(scoreMarginCap, margin*scoreMarginSlope)
	case models.CompositeCondition:
		return compositeConfidence(c, rc)
	default:
		return 0
	}
}

func compositeConfidence(c models.CompositeCondition, rc *models.RecommendationContext) float64 {
	switch c.Operator {
	case models.And:
		if len(c.Conditions) == 0 {
			return 0
		}
		var sum float64
		for _, sub := range c.Conditions {
			sum += clamp01(confidence(sub, rc))
		}
		return sum / float64(len(c.Conditions))
	case models.Or:
		var best float64
		for _, sub := range c.Conditions {
			if !matches(sub, rc) {
				continue
			}
			best = math.Max(best, clamp01(confidence(sub, rc)))
		}
		return best
	default:
		return 0
	}
}

func severityBase(gap models.NutritionalGap) float64 {
	severity := gap.Severity
	if severity == 0 {
		severity = models.SeverityForGap(gap.GapPercentage)
	}
	switch severity {
	case models.SeveritySevere:
		return severeBase
	case models.SeverityModerate:
		return moderateBase
	default:
		return mildBase
	}
}

func clamp01(v float64) float64 {
	return models.Clamp01(v)
}
