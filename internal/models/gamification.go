// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import "time"

// AchievementType groups achievements for display.
type AchievementType string

const (
	AchievementDaily     AchievementType = "DAILY"
	AchievementMilestone AchievementType = "MILESTONE"
	AchievementSpecial   AchievementType = "SPECIAL"
	AchievementSecret    AchievementType = "SECRET"
)

// UnlockCondition is the closed set of achievement conditions. Implementations
// are StreakDays, TotalRecords, NutrientTarget, FoodVariety and AllOf.
type UnlockCondition interface {
	isUnlockCondition()
}

// StreakDays requires a logging streak of at least Days consecutive days.
type StreakDays struct {
	Days int `json:"days"`
}

// TotalRecords requires at least Count food records overall.
type TotalRecords struct {
	Count int `json:"count"`
}

// NutrientTarget requires the daily target of Nutrient to be met on Days days.
type NutrientTarget struct {
	Nutrient string `json:"nutrient"`
	Days     int    `json:"days"`
}

// FoodVariety requires at least Categories distinct food categories.
type FoodVariety struct {
	Categories int `json:"categories"`
}

// AllOf requires every child condition. There is no OR variant.
type AllOf struct {
	Conditions []UnlockCondition `json:"conditions"`
}

func (StreakDays) isUnlockCondition()     {}
func (TotalRecords) isUnlockCondition()   {}
func (NutrientTarget) isUnlockCondition() {}
func (FoodVariety) isUnlockCondition()    {}
func (AllOf) isUnlockCondition()          {}

// Achievement is a catalog entry combined with one user's unlock state.
type Achievement struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        AchievementType `json:"type"`
	Condition   UnlockCondition `json:"-"`
	Points      int             `json:"points"`
	UnlockedAt  *time.Time      `json:"unlocked_at,omitempty"`
	Progress    float64         `json:"progress"`
}

// IsUnlocked reports whether the achievement has been unlocked.
func (a *Achievement) IsUnlocked() bool {
	return a.UnlockedAt != nil
}

// AchievementState is the persisted per-user part of an achievement.
type AchievementState struct {
	UserID        string     `json:"user_id"`
	AchievementID string     `json:"achievement_id"`
	Progress      float64    `json:"progress"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
}

// UserAggregates are the counters achievement conditions are evaluated against.
type UserAggregates struct {
	StreakDays         int            `json:"streak_days"`
	TotalRecords       int            `json:"total_records"`
	NutrientTargetDays map[string]int `json:"nutrient_target_days,omitempty"`
	FoodCategories     int            `json:"food_categories"`
}

// ChallengePeriod is how long a challenge runs.
type ChallengePeriod string

const (
	ChallengeDaily  ChallengePeriod = "DAILY"
	ChallengeWeekly ChallengePeriod = "WEEKLY"
)

// ChallengeType is what a challenge measures.
type ChallengeType string

const (
	ChallengeLogMeals   ChallengeType = "log_meals"
	ChallengeHydration  ChallengeType = "hydration"
	ChallengeNutrient   ChallengeType = "nutrient"
	ChallengeVegetables ChallengeType = "vegetables"
	ChallengeVariety    ChallengeType = "variety"
	ChallengeStreak     ChallengeType = "streak"
	ChallengePlanTasks  ChallengeType = "plan_tasks"
)

// Difficulty scales challenge targets and rewards.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Challenge is a time-boxed task with a numeric target.
type Challenge struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Period        ChallengePeriod `json:"period"`
	PeriodKey     string          `json:"period_key"`
	Type          ChallengeType   `json:"type"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Difficulty    Difficulty      `json:"difficulty"`
	Nutrient      string          `json:"nutrient,omitempty"`
	Target        float64         `json:"target"`
	Unit          string          `json:"unit,omitempty"`
	Progress      float64         `json:"progress"`
	Completed     bool            `json:"completed"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	RewardPoints  int             `json:"reward_points"`
	RewardGranted bool            `json:"reward_granted"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Ratio is Progress/Target clamped to [0,1].
func (c *Challenge) Ratio() float64 {
	if c.Target <= 0 {
		return 0
	}
	return Clamp01(c.Progress / c.Target)
}

// EventType identifies a notification.
type EventType string

const (
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventLevelUp             EventType = "level_up"
	EventRewardGranted       EventType = "reward_granted"
	EventChallengeCompleted  EventType = "challenge_completed"
	EventWeekCompleted       EventType = "plan_week_completed"
)

// Event is a user-facing notification produced by progression.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body,omitempty"`
	Points int       `json:"points,omitempty"`
	Level  int       `json:"level,omitempty"`
	RefID  string    `json:"ref_id,omitempty"`
	At     time.Time `json:"at"`
}
