// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package gamification unlocks achievements, tracks reward points and levels,
and runs time-boxed daily and weekly challenges.

Achievements are defined by a static catalog of UnlockCondition values
evaluated against UserAggregates. An achievement unlocks at most once per
user: repeated evaluation or explicit unlock never moves UnlockedAt and never
grants points twice.

Points are kept in a Ledger. Levels are derived from the running total using
LevelThresholds, and crossing a threshold emits a level_up event.

Challenges complete when progress reaches the target or when completed
explicitly. Their reward is granted exactly once, guarded by the persisted
RewardGranted flag. Expired challenges are removed by PurgeExpired, which the
host runs from its maintenance service.

Mutations are single-writer per user; callers serialize concurrent updates
to the same achievement or challenge.
*/
package gamification

import (
	"context"
	"errors"

	"github.com/tomtom215/nutricoach/internal/models"
)

var (
	// ErrAchievementNotFound is returned for an ID missing from the catalog.
	ErrAchievementNotFound = errors.New("achievement not found")

	// ErrChallengeNotFound is returned when a challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrInvalidDelta is returned for a non-positive progress increment.
	ErrInvalidDelta = errors.New("progress delta must be positive")

	// ErrChallengeCompleted is returned when progressing a completed challenge.
	ErrChallengeCompleted = errors.New("challenge already completed")
)

// AchievementRepository persists per-user achievement state.
type AchievementRepository interface {
	// GetAchievementStates returns every stored state of a user keyed by achievement ID.
	GetAchievementStates(ctx context.Context, userID string) (map[string]models.AchievementState, error)
	SaveAchievementState(ctx context.Context, state *models.AchievementState) error
}

// ChallengeRepository persists challenges.
type ChallengeRepository interface {
	SaveChallenge(ctx context.Context, c *models.Challenge) error

	// GetChallenge returns ErrChallengeNotFound when the challenge does not exist.
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)

	ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error)

	// DeleteChallenges removes every challenge for which match returns true
	// and returns the number removed.
	DeleteChallenges(ctx context.Context, match func(*models.Challenge) bool) (int, error)
}

// Ledger stores reward point balances.
type Ledger interface {
	// AddPoints credits points and returns the new total.
	AddPoints(ctx context.Context, userID string, points int, source string) (int, error)
	Points(ctx context.Context, userID string) (int, error)
}

// Notifier receives progression events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event models.Event)
}
