// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package models defines the data types shared across NutriCoach.

# Type Categories

Snapshot inputs:
  - RecommendationContext: immutable per-request view of a user
  - NutritionalGap, EatingPatternAnalysis, DailyScore, FoodRecord
  - HealthGoal, UserPreferences, Location, MealType

Rules and recommendations:
  - Rule with the sealed Condition variants (NutrientGapCondition,
    HealthScoreCondition, CompositeCondition)
  - Recommendation, Priority, RecommendationType
  - Action with its sealed variants, stored as an ActionEnvelope

Plans:
  - ImprovementPlan, WeeklyPlan, DailyTask, DailyProgress, PlanStatistics
  - PlanStatus and the CanTransition state machine

Gamification:
  - Achievement with the sealed UnlockCondition variants, AchievementState,
    UserAggregates
  - Challenge, Event

API:
  - APIResponse, Metadata, APIError

# Serialization

Types carry json tags and are stored as JSON documents by internal/store.
Sealed interfaces (Condition, Action, UnlockCondition) cannot be decoded
directly; they round-trip through tagged envelopes such as ActionEnvelope.
Severity and Priority marshal as their upper-case names.
*/
package models
