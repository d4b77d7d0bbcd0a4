// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
)

// Config tunes progress tracking.
type Config struct {
	// DailyTaskQuota is the number of tasks a day is measured against when the
	// current week defines none.
	DailyTaskQuota int

	// ProgressWindowDays is how many recent daily records feed plan progress.
	ProgressWindowDays int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{DailyTaskQuota: 5, ProgressWindowDays: 7}
}

// Tracker drives the plan lifecycle and records progress.
type Tracker struct {
	repo     Repository
	cfg      Config
	logger   zerolog.Logger
	now      func() time.Time
	notifier Notifier
	rewards  Rewarder
}

// NewTracker creates a tracker over repo.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTracker(repo Repository, cfg Config, logger zerolog.Logger) *Tracker {
	if cfg.DailyTaskQuota <= 0 {
		cfg.DailyTaskQuota = DefaultConfig().DailyTaskQuota
	}
	if cfg.ProgressWindowDays <= 0 {
		cfg.ProgressWindowDays = DefaultConfig().ProgressWindowDays
	}
	return &Tracker{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With().Str("component", "plan").Logger(),
		now:    time.Now,
	}
}

// WithNotifier sets the receiver of plan events.
func (t *Tracker) WithNotifier(n Notifier) *Tracker {
	t.notifier = n
	return t
}

// WithRewards sets where milestone points are credited.
func (t *Tracker) WithRewards(r Rewarder) *Tracker {
	t.rewards = r
	return t
}

// WithClock overrides the tracker clock.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Create stores a new plan. Only DRAFT plans are accepted.
func (t *Tracker) Create(ctx context.Context, p *models.ImprovementPlan) error {
	if p.Status != models.PlanDraft {
		return fmt.Errorf("%w: new plans must be DRAFT, got %s", ErrInvalidTransition, p.Status)
	}
	if err := t.repo.CreatePlan(ctx, p); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	t.logger.Info().Str("plan_id", p.ID).Str("user_id", p.UserID).Int("weeks", p.TotalWeeks).Msg("Plan created")
	return nil
}

// Get returns a plan by ID.
func (t *Tracker) Get(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.repo.GetPlan(ctx, planID)
}

// List returns every plan of a user.
func (t *Tracker) List(ctx context.Context, userID string) ([]models.ImprovementPlan, error) {
	return t.repo.ListPlans(ctx, userID)
}

// Activate starts a DRAFT plan. The schedule is anchored at the activation day.
func (t *Tracker) Activate(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.transition(ctx, planID, models.PlanActive, func(p *models.ImprovementPlan, now time.Time) {
		if p.Status == models.PlanDraft {
			p.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			p.EndDate = p.StartDate.AddDate(0, 0, p.DurationDays)
		}
	})
}

// Pause suspends an ACTIVE plan.
func (t *Tracker) Pause(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.transition(ctx, planID, models.PlanPaused, nil)
}

// Resume reactivates a PAUSED plan.
func (t *Tracker) Resume(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	p, err := t.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PlanPaused {
		return nil, fmt.Errorf("%w: resume from %s", ErrInvalidTransition, p.Status)
	}
	return t.transition(ctx, planID, models.PlanActive, nil)
}

// Complete marks an ACTIVE plan COMPLETED. Plans never complete on their own.
func (t *Tracker) Complete(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.transition(ctx, planID, models.PlanCompleted, nil)
}

// Fail marks a plan FAILED.
func (t *Tracker) Fail(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.transition(ctx, planID, models.PlanFailed, nil)
}

// Cancel marks a plan CANCELLED.
func (t *Tracker) Cancel(ctx context.Context, planID string) (*models.ImprovementPlan, error) {
	return t.transition(ctx, planID, models.PlanCancelled, nil)
}

func (t *Tracker) transition(
	ctx context.Context,
	planID string,
	to models.PlanStatus,
	apply func(p *models.ImprovementPlan, now time.Time),
) (*models.ImprovementPlan, error) {
	p, err := t.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	from := p.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	now := t.now()
	if apply != nil {
		apply(p, now)
	}
	p.Status = to
	p.UpdatedAt = now

	if err := t.repo.UpdatePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	metrics.PlanTransitions.WithLabelValues(string(to)).Inc()
	t.logger.Info().
		Str("plan_id", p.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Plan status changed")
	return p, nil
}

// SaveDailyProgress records the tasks completed on date (YYYY-MM-DD) and
// raises plan progress to the mean completion of the recent days. Progress
// never decreases.
func (t *Tracker) SaveDailyProgress(
	ctx context.Context,
	planID, date string,
	completedTaskIDs []string,
	notes string,
) (*models.DailyProgress, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: date %q: %w", ErrInvalidProgress, date, err)
	}

	p, err := t.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("%w: status %s", ErrPlanNotActive, p.Status)
	}

	dp := &models.DailyProgress{
		PlanID:           p.ID,
		UserID:           p.UserID,
		Date:             date,
		Week:             p.CurrentWeek,
		CompletedTaskIDs: uniqueIDs(completedTaskIDs),
		CompletionRate:   t.completionRate(p, completedTaskIDs),
		Notes:            notes,
		RecordedAt:       t.now(),
	}
	if err := t.repo.SaveDailyProgress(ctx, dp); err != nil {
		return nil, fmt.Errorf("save daily progress: %w", err)
	}

	recent, err := t.repo.RecentDailyProgress(ctx, p.ID, t.cfg.ProgressWindowDays)
	if err != nil {
		return nil, fmt.Errorf("load recent progress: %w", err)
	}
	if mean := meanCompletion(recent); mean > p.Progress {
		p.Progress = models.Clamp01(mean)
		p.UpdatedAt = t.now()
		if err := t.repo.UpdatePlan(ctx, p); err != nil {
			return nil, fmt.Errorf("update plan progress: %w", err)
		}
	}

	t.logger.Debug().
		Str("plan_id", p.ID).
		Str("date", date).
		Float64("completion", dp.CompletionRate).
		Float64("progress", p.Progress).
		Msg("Daily progress saved")
	return dp, nil
}

// completionRate is the share of the day's quota completed, at most 1. The
// quota is the number of tasks in the current week, or the configured quota
// when the week defines none. Only IDs of the current week's tasks count
// when it has tasks.
func (t *Tracker) completionRate(p *models.ImprovementPlan, completed []string) float64 {
	ids := uniqueIDs(completed)
	week, ok := p.Week(p.CurrentWeek)
	if !ok || len(week.Tasks) == 0 {
		return models.Clamp01(float64(len(ids)) / float64(t.cfg.DailyTaskQuota))
	}

	valid := make(map[string]struct{}, len(week.Tasks))
	for _, task := range week.Tasks {
		valid[task.ID] = struct{}{}
	}
	n := 0
	for _, id := range ids {
		if _, ok := valid[id]; ok {
			n++
		}
	}
	return models.Clamp01(float64(n) / float64(len(week.Tasks)))
}

// CompleteWeek marks week complete when it is the current week and the
// completed tasks reach models.WeekCompletionThreshold, then advances the
// plan to the next week. Completing an already completed week is a no-op.
func (t *Tracker) CompleteWeek(ctx context.Context, planID string, week int, completedTaskIDs []string) (*models.ImprovementPlan, error) {
	p, err := t.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p.IsWeekCompleted(week) {
		return p, nil
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("%w: status %s", ErrPlanNotActive, p.Status)
	}
	if week != p.CurrentWeek {
		return nil, fmt.Errorf("%w: week %d, current %d", ErrWeekNotCurrent, week, p.CurrentWeek)
	}
	wp, ok := p.Week(week)
	if !ok {
		return nil, fmt.Errorf("%w: week %d has no content", ErrWeekNotCurrent, week)
	}
	if progress := wp.Progress(completedTaskIDs); progress < models.WeekCompletionThreshold {
		return nil, fmt.Errorf("%w: %.0f%% < %.0f%%", ErrWeekNotComplete, progress*100, models.WeekCompletionThreshold*100)
	}

	now := t.now()
	p.MarkWeekCompleted(week)
	if p.CurrentWeek < p.TotalWeeks {
		p.CurrentWeek++
	}
	reached := t.reachMilestones(p, week, now)
	p.UpdatedAt = now

	if err := t.repo.UpdatePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	metrics.PlanWeeksCompleted.Inc()

	t.notify(ctx, models.Event{
		Type:   models.EventWeekCompleted,
		UserID: p.UserID,
		Title:  fmt.Sprintf("Week %d complete", week),
		Body:   fmt.Sprintf("%s: %d of %d weeks done.", p.Title, len(p.CompletedWeeks), p.TotalWeeks),
		RefID:  p.ID,
		At:     now,
	})
	for _, m := range reached {
		t.grantMilestone(ctx, p, m, now)
	}

	t.logger.Info().
		Str("plan_id", p.ID).
		Int("week", week).
		Int("current_week", p.CurrentWeek).
		Msg("Plan week completed")
	return p, nil
}

// Statistics summarises every plan of a user.
func (t *Tracker) Statistics(ctx context.Context, userID string) (models.PlanStatistics, error) {
	plans, err := t.repo.ListPlans(ctx, userID)
	if err != nil {
		return models.PlanStatistics{}, fmt.Errorf("list plans: %w", err)
	}
	return ComputeStatistics(plans), nil
}

func (t *Tracker) reachMilestones(p *models.ImprovementPlan, week int, now time.Time) []models.PlanMilestone {
	var reached []models.PlanMilestone
	for i := range p.Milestones {
		m := &p.Milestones[i]
		if m.Week == week && m.ReachedAt == nil {
			at := now
			m.ReachedAt = &at
			reached = append(reached, *m)
		}
	}
	return reached
}

func (t *Tracker) grantMilestone(ctx context.Context, p *models.ImprovementPlan, m models.PlanMilestone, now time.Time) {
	if t.rewards != nil && m.RewardPoints > 0 {
		if err := t.rewards.GrantPoints(ctx, p.UserID, m.RewardPoints, "plan_milestone"); err != nil {
			t.logger.Warn().Err(err).Str("plan_id", p.ID).Int("week", m.Week).Msg("Failed to grant milestone points")
		}
	}
	t.notify(ctx, models.Event{
		Type:   models.EventRewardGranted,
		UserID: p.UserID,
		Title:  m.Title,
		Body:   fmt.Sprintf("Milestone reached in %s.", p.Title),
		Points: m.RewardPoints,
		RefID:  p.ID,
		At:     now,
	})
}

func (t *Tracker) notify(ctx context.Context, e models.Event) {
	if t.notifier == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	t.notifier.Notify(ctx, e)
}

func meanCompletion(recent []models.DailyProgress) float64 {
	if len(recent) == 0 {
		return 0
	}
	var sum float64
	for i := range recent {
		sum += recent[i].CompletionRate
	}
	return sum / float64(len(recent))
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
