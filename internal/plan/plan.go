// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package plan generates multi-week improvement plans from health goals and
// advances them as the user records daily task completion.
//
// A plan is created in DRAFT by Generator and moved through its lifecycle by
// Tracker:
//
//	DRAFT ──► ACTIVE ◄──► PAUSED
//	  │         │  │         │
//	  │         │  └─► FAILED ◄┘
//	  │         └─► COMPLETED
//	  └──────────┴─► CANCELLED
//
// COMPLETED is only ever reached through Tracker.Complete. Progress never
// decreases while a plan is ACTIVE.
//
// Tracker methods are not serialized per plan; callers that may update the
// same plan concurrently must hold a per-plan lock.
package plan

import (
	"context"
	"errors"

	"github.com/tomtom215/nutricoach/internal/models"
)

var (
	// ErrPlanNotFound is returned when a plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrInvalidTransition is returned for a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid plan status transition")

	// ErrPlanNotActive is returned when progress is recorded on a plan that is not ACTIVE.
	ErrPlanNotActive = errors.New("plan is not active")

	// ErrWeekNotCurrent is returned when completing a week other than the current one.
	ErrWeekNotCurrent = errors.New("week is not the current plan week")

	// ErrWeekNotComplete is returned when weekly progress is below the completion threshold.
	ErrWeekNotComplete = errors.New("week progress below completion threshold")

	// ErrInvalidGoal is returned when a goal cannot be turned into a plan.
	ErrInvalidGoal = errors.New("goal cannot be planned")

	// ErrInvalidProgress is returned for malformed daily progress input.
	ErrInvalidProgress = errors.New("invalid daily progress")
)

// Repository persists plans and their daily progress.
type Repository interface {
	CreatePlan(ctx context.Context, p *models.ImprovementPlan) error

	// GetPlan returns ErrPlanNotFound when the plan does not exist.
	GetPlan(ctx context.Context, planID string) (*models.ImprovementPlan, error)

	UpdatePlan(ctx context.Context, p *models.ImprovementPlan) error
	DeletePlan(ctx context.Context, planID string) error
	ListPlans(ctx context.Context, userID string) ([]models.ImprovementPlan, error)
	GetActivePlans(ctx context.Context, userID string) ([]models.ImprovementPlan, error)

	// SaveDailyProgress upserts the record for (plan, date).
	SaveDailyProgress(ctx context.Context, dp *models.DailyProgress) error

	// RecentDailyProgress returns up to limit records, most recent date first.
	RecentDailyProgress(ctx context.Context, planID string, limit int) ([]models.DailyProgress, error)
}

// Notifier receives plan events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event models.Event)
}

// Rewarder credits milestone points to a user.
type Rewarder interface {
	GrantPoints(ctx context.Context, userID string, points int, source string) error
}

// ComputeStatistics summarises plans.
func ComputeStatistics(plans []models.ImprovementPlan) models.PlanStatistics {
	var stats models.PlanStatistics
	var progressSum float64
	for i := range plans {
		p := &plans[i]
		stats.TotalPlans++
		progressSum += p.Progress
		stats.TotalCompletedWeeks += len(p.CompletedWeeks)
		switch p.Status {
		case models.PlanActive:
			stats.ActivePlans++
		case models.PlanCompleted:
			stats.CompletedPlans++
		case models.PlanFailed:
			stats.FailedPlans++
		case models.PlanCancelled:
			stats.CancelledPlans++
		}
	}
	if stats.TotalPlans > 0 {
		stats.AverageProgress = progressSum / float64(stats.TotalPlans)
	}
	return stats
}
