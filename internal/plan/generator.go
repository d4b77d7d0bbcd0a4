// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

const (
	// DefaultDurationDays is used when the goal has no end date.
	DefaultDurationDays = 28

	// MinDurationDays and MaxDurationDays bound the plan length.
	MinDurationDays = 7
	MaxDurationDays = 84

	// QuickMealBudget is the cooking-time budget, in minutes, at or below
	// which plans include a quick-meal task.
	QuickMealBudget = 20

	// maxGapTasks is the number of nutrient gaps turned into tasks.
	maxGapTasks = 2
)

// Generator builds improvement plans from goals. It is stateless apart from
// its clock and safe for concurrent use.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// WithClock overrides the generator clock.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GeneratePlanForGoal builds a DRAFT plan for goal. rc may be nil; when set,
// its gaps and preferences personalise the weekly tasks.
func (g *Generator) GeneratePlanForGoal(goal *models.HealthGoal, rc *models.RecommendationContext) (*models.ImprovementPlan, error) {
	if goal == nil {
		return nil, fmt.Errorf("%w: nil goal", ErrInvalidGoal)
	}
	tmpl, ok := goalTemplates[goal.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown goal type %q", ErrInvalidGoal, goal.Type)
	}

	now := g.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := durationDays(goal, start)
	totalWeeks := int(math.Ceil(float64(days) / 7))

	extras := personalTasks(rc)

	weeks := make([]models.WeeklyPlan, 0, totalWeeks)
	for w := 1; w <= totalWeeks; w++ {
		ph := phaseFor(w, totalWeeks)
		weeks = append(weeks, models.WeeklyPlan{
			WeekNumber:      w,
			Focus:           phases[ph].focus,
			Targets:         interpolate(tmpl.start, tmpl.end, w, totalWeeks),
			Tasks:           weekTasks(w, ph, tmpl.tasks, extras),
			SuccessCriteria: []string{phases[ph].criteria, fmt.Sprintf("Complete %.0f%% of required tasks", models.WeekCompletionThreshold*100)},
		})
	}

	p := &models.ImprovementPlan{
		ID:                 uuid.NewString(),
		UserID:             goal.UserID,
		Title:              fmt.Sprintf("%s plan: %s", goal.Type.DisplayName(), goal.Title),
		Description:        fmt.Sprintf("A %d-week plan towards %q.", totalWeeks, goal.Title),
		GoalType:           goal.Type,
		GoalID:             goal.ID,
		DurationDays:       days,
		TotalWeeks:         totalWeeks,
		CurrentWeek:        1,
		WeeklyPlans:        weeks,
		DailyTaskTemplates: weeks[0].Tasks,
		Status:             models.PlanDraft,
		CompletedWeeks:     []int{},
		Milestones:         milestones(totalWeeks),
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, days),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return p, nil
}

// durationDays derives the plan length from the goal end date, clamped to
// [MinDurationDays, MaxDurationDays].
func durationDays(goal *models.HealthGoal, start time.Time) int {
	if goal.EndDate.IsZero() || !goal.EndDate.After(start) {
		return DefaultDurationDays
	}
	days := int(math.Ceil(goal.EndDate.Sub(start).Hours() / 24))
	switch {
	case days < MinDurationDays:
		return MinDurationDays
	case days > MaxDurationDays:
		return MaxDurationDays
	default:
		return days
	}
}

// personalTasks returns tasks for the largest MODERATE or SEVERE gaps and a
// quick-meal task for users with little time to cook.
func personalTasks(rc *models.RecommendationContext) []taskTemplate {
	if rc == nil {
		return nil
	}

	var gaps []models.NutritionalGap
	for _, gap := range rc.Gaps {
		if !gap.IsDeficit() || nutrients.IsLimited(gap.Nutrient) {
			continue
		}
		severity := gap.Severity
		if severity == 0 {
			severity = models.SeverityForGap(gap.GapPercentage)
		}
		if severity == models.SeveritySevere || severity == models.SeverityModerate {
			gaps = append(gaps, gap)
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].GapPercentage > gaps[j].GapPercentage
	})
	if len(gaps) > maxGapTasks {
		gaps = gaps[:maxGapTasks]
	}

	var out []taskTemplate
	for _, gap := range gaps {
		title := fmt.Sprintf("Eat a good source of %s", nutrients.DisplayName(gap.Nutrient))
		if foods := nutrients.Sources(gap.Nutrient, rc.Preferences.DietaryRestrictions, rc.Preferences.Dislikes, 2); len(foods) > 0 {
			title = fmt.Sprintf("Eat a good source of %s (e.g. %s)", nutrients.DisplayName(gap.Nutrient), joinFoods(foods))
		}
		out = append(out, taskTemplate{
			slug:     "gap-" + gap.Nutrient,
			title:    title,
			category: models.TaskNutrition,
			required: true,
			target:   gap.Recommended,
			unit:     gap.Unit,
		})
	}

	if budget := rc.Preferences.CookingTimeBudget; budget > 0 && budget <= QuickMealBudget {
		out = append(out, taskTemplate{
			slug:     "quick-meal",
			title:    fmt.Sprintf("Prepare a meal in under %d minutes", budget),
			category: models.TaskHabit,
			target:   float64(budget),
			unit:     "min",
		})
	}
	return out
}

func weekTasks(week, ph int, goalTasks, extras []taskTemplate) []models.DailyTask {
	var tasks []models.DailyTask
	add := func(t taskTemplate) {
		tasks = append(tasks, models.DailyTask{
			ID:          fmt.Sprintf("w%d-%s", week, t.slug),
			Title:       t.title,
			Category:    t.category,
			Required:    t.required,
			TargetValue: t.target,
			Unit:        t.unit,
		})
	}
	for _, t := range commonTasks {
		add(t)
	}
	for _, t := range goalTasks {
		if t.fromPhase <= ph {
			add(t)
		}
	}
	for _, t := range extras {
		add(t)
	}
	return tasks
}

func milestones(totalWeeks int) []models.PlanMilestone {
	half := int(math.Ceil(float64(totalWeeks) / 2))
	if half >= totalWeeks {
		return []models.PlanMilestone{{Week: totalWeeks, Title: "Plan complete", RewardPoints: 100}}
	}
	return []models.PlanMilestone{
		{Week: half, Title: "Halfway there", RewardPoints: 50},
		{Week: totalWeeks, Title: "Plan complete", RewardPoints: 100},
	}
}

func joinFoods(foods []string) string {
	switch len(foods) {
	case 0:
		return ""
	case 1:
		return foods[0]
	default:
		return foods[0] + " or " + foods[1]
	}
}
