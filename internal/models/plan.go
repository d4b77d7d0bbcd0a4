// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package models

import (
	"math"
	"sort"
	"time"
)

// WeekCompletionThreshold is the weekly progress at which a week counts as complete.
const WeekCompletionThreshold = 0.70

// PlanStatus is the lifecycle state of an improvement plan.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "DRAFT"
	PlanActive    PlanStatus = "ACTIVE"
	PlanPaused    PlanStatus = "PAUSED"
	PlanCompleted PlanStatus = "COMPLETED"
	PlanFailed    PlanStatus = "FAILED"
	PlanCancelled PlanStatus = "CANCELLED"
)

// planTransitions lists the allowed target states for each state.
var planTransitions = map[PlanStatus][]PlanStatus{
	PlanDraft:  {PlanActive, PlanCancelled},
	PlanActive: {PlanPaused, PlanCompleted, PlanFailed, PlanCancelled},
	PlanPaused: {PlanActive, PlanFailed, PlanCancelled},
}

// CanTransition reports whether a plan may move from one status to another.
func CanTransition(from, to PlanStatus) bool {
	for _, allowed := range planTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s PlanStatus) IsTerminal() bool {
	return s == PlanCompleted || s == PlanFailed || s == PlanCancelled
}

// TaskCategory groups daily tasks.
type TaskCategory string

const (
	TaskNutrition TaskCategory = "nutrition"
	TaskHydration TaskCategory = "hydration"
	TaskExercise  TaskCategory = "exercise"
	TaskHabit     TaskCategory = "habit"
	TaskTracking  TaskCategory = "tracking"
)

// DailyTask is a task the user is asked to do every day of a week.
type DailyTask struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    TaskCategory `json:"category"`
	Required    bool         `json:"required"`
	TargetValue float64      `json:"target_value,omitempty"`
	Unit        string       `json:"unit,omitempty"`
}

// WeeklyTargets are the numeric targets for one week. Zero means "no target".
type WeeklyTargets struct {
	Calories          float64 `json:"calories,omitempty"`
	ProteinGrams      float64 `json:"protein_grams,omitempty"`
	FiberGrams        float64 `json:"fiber_grams,omitempty"`
	WaterML           float64 `json:"water_ml,omitempty"`
	VegetableServings float64 `json:"vegetable_servings,omitempty"`
	ExerciseMinutes   float64 `json:"exercise_minutes,omitempty"`
	MaxSugarGrams     float64 `json:"max_sugar_grams,omitempty"`
	MaxSodiumMg       float64 `json:"max_sodium_mg,omitempty"`
}

// WeeklyPlan is the content of one plan week.
type WeeklyPlan struct {
	WeekNumber      int           `json:"week_number"`
	Focus           string        `json:"focus"`
	Targets         WeeklyTargets `json:"targets"`
	Tasks           []DailyTask   `json:"tasks"`
	SuccessCriteria []string      `json:"success_criteria"`
}

// RequiredTasks returns the required tasks in order.
func (w *WeeklyPlan) RequiredTasks() []DailyTask {
	var out []DailyTask
	for _, t := range w.Tasks {
		if t.Required {
			out = append(out, t)
		}
	}
	return out
}

// Progress is the share of required tasks completed. When the week has no
// required tasks, all tasks count instead. Unknown IDs are ignored.
func (w *WeeklyPlan) Progress(completedTaskIDs []string) float64 {
	done := make(map[string]struct{}, len(completedTaskIDs))
	for _, id := range completedTaskIDs {
		done[id] = struct{}{}
	}

	pool := w.RequiredTasks()
	if len(pool) == 0 {
		pool = w.Tasks
	}
	if len(pool) == 0 {
		return 0
	}

	count := 0
	for _, t := range pool {
		if _, ok := done[t.ID]; ok {
			count++
		}
	}
	return float64(count) / float64(len(pool))
}

// IsCompleted reports whether progress reaches WeekCompletionThreshold.
func (w *WeeklyPlan) IsCompleted(completedTaskIDs []string) bool {
	return w.Progress(completedTaskIDs) >= WeekCompletionThreshold
}

// PlanMilestone rewards reaching a week of the plan.
type PlanMilestone struct {
	Week         int        `json:"week"`
	Title        string     `json:"title"`
	RewardPoints int        `json:"reward_points"`
	ReachedAt    *time.Time `json:"reached_at,omitempty"`
}

// ImprovementPlan is a multi-week plan attached to a goal type.
type ImprovementPlan struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	GoalType           GoalType        `json:"goal_type"`
	GoalID             string          `json:"goal_id,omitempty"`
	DurationDays       int             `json:"duration_days"`
	TotalWeeks         int             `json:"total_weeks"`
	CurrentWeek        int             `json:"current_week"`
	WeeklyPlans        []WeeklyPlan    `json:"weekly_plans"`
	DailyTaskTemplates []DailyTask     `json:"daily_task_templates"`
	Status             PlanStatus      `json:"status"`
	Progress           float64         `json:"progress"`
	CompletedWeeks     []int           `json:"completed_weeks"`
	Milestones         []PlanMilestone `json:"milestones"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// DaysPassed is the number of whole days since StartDate, clamped to [0, DurationDays].
func (p *ImprovementPlan) DaysPassed(now time.Time) int {
	days := int(math.Floor(now.Sub(p.StartDate).Hours() / 24))
	switch {
	case days < 0:
		return 0
	case days > p.DurationDays:
		return p.DurationDays
	default:
		return days
	}
}

// DaysRemaining is DurationDays minus DaysPassed.
func (p *ImprovementPlan) DaysRemaining(now time.Time) int {
	return p.DurationDays - p.DaysPassed(now)
}

// IsActive reports whether the plan is ACTIVE.
func (p *ImprovementPlan) IsActive() bool {
	return p.Status == PlanActive
}

// Week returns the weekly plan with the given number.
func (p *ImprovementPlan) Week(number int) (*WeeklyPlan, bool) {
	for i := range p.WeeklyPlans {
		if p.WeeklyPlans[i].WeekNumber == number {
			return &p.WeeklyPlans[i], true
		}
	}
	return nil, false
}

// IsWeekCompleted reports whether week is recorded as completed.
func (p *ImprovementPlan) IsWeekCompleted(week int) bool {
	for _, w := range p.CompletedWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// MarkWeekCompleted adds week to CompletedWeeks, keeping it sorted and unique.
func (p *ImprovementPlan) MarkWeekCompleted(week int) {
	if week < 1 || week > p.TotalWeeks || p.IsWeekCompleted(week) {
		return
	}
	p.CompletedWeeks = append(p.CompletedWeeks, week)
	sort.Ints(p.CompletedWeeks)
}

// DailyProgress is the task completion recorded for one plan day.
type DailyProgress struct {
	PlanID           string    `json:"plan_id"`
	UserID           string    `json:"user_id"`
	Date             string    `json:"date"`
	Week             int       `json:"week"`
	CompletedTaskIDs []string  `json:"completed_task_ids"`
	CompletionRate   float64   `json:"completion_rate"`
	Notes            string    `json:"notes,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// PlanStatistics summarises all plans of a user.
type PlanStatistics struct {
	TotalPlans          int     `json:"total_plans"`
	ActivePlans         int     `json:"active_plans"`
	CompletedPlans      int     `json:"completed_plans"`
	FailedPlans         int     `json:"failed_plans"`
	CancelledPlans      int     `json:"cancelled_plans"`
	AverageProgress     float64 `json:"average_progress"`
	TotalCompletedWeeks int     `json:"total_completed_weeks"`
}
