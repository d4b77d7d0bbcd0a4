// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package plan

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/models"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// mockRepository is an in-memory Repository.
type mockRepository struct {
	mu       sync.Mutex
	plans    map[string]models.ImprovementPlan
	progress map[string]map[string]models.DailyProgress
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		plans:    map[string]models.ImprovementPlan{},
		progress: map[string]map[string]models.DailyProgress{},
	}
}

func (m *mockRepository) CreatePlan(_ context.Context, p *models.ImprovementPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = *p
	return nil
}

func (m *mockRepository) GetPlan(_ context.Context, id string) (*models.ImprovementPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	p.CompletedWeeks = append([]int(nil), p.CompletedWeeks...)
	p.Milestones = append([]models.PlanMilestone(nil), p.Milestones...)
	return &p, nil
}

func (m *mockRepository) UpdatePlan(_ context.Context, p *models.ImprovementPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return ErrPlanNotFound
	}
	m.plans[p.ID] = *p
	return nil
}

func (m *mockRepository) DeletePlan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

func (m *mockRepository) ListPlans(_ context.Context, userID string) ([]models.ImprovementPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ImprovementPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) GetActivePlans(ctx context.Context, userID string) ([]models.ImprovementPlan, error) {
	all, _ := m.ListPlans(ctx, userID)
	var out []models.ImprovementPlan
	for _, p := range all {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepository) SaveDailyProgress(_ context.Context, dp *models.DailyProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.progress[dp.PlanID] == nil {
		m.progress[dp.PlanID] = map[string]models.DailyProgress{}
	}
	m.progress[dp.PlanID][dp.Date] = *dp
	return nil
}

func (m *mockRepository) RecentDailyProgress(_ context.Context, planID string, limit int) ([]models.DailyProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DailyProgress
	for _, dp := range m.progress[planID] {
		out = append(out, dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

type recordingRewarder struct {
	points int
}

func (r *recordingRewarder) GrantPoints(_ context.Context, _ string, points int, _ string) error {
	r.points += points
	return nil
}

func testGoal() *models.HealthGoal {
	return &models.HealthGoal{
		ID:     "goal-1",
		UserID: "user-1",
		Type:   models.GoalMuscleGain,
		Title:  "Gain 3kg of muscle",
		Status: models.GoalActive,
	}
}

func newTestTracker(repo Repository) *Tracker {
	return NewTracker(repo, DefaultConfig(), zerolog.Nop()).WithClock(func() time.Time { return testNow })
}

// activePlan stores a generated plan and activates it.
func activePlan(t *testing.T, repo *mockRepository, tr *Tracker) *models.ImprovementPlan {
	t.Helper()
	p, err := NewGenerator().WithClock(func() time.Time { return testNow }).GeneratePlanForGoal(testGoal(), nil)
	if err != nil {
		t.Fatalf("GeneratePlanForGoal() error = %v", err)
	}
	if err := tr.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	p, err = tr.Activate(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	return p
}

func requiredIDs(w *models.WeeklyPlan) []string {
	var ids []string
	for _, task := range w.RequiredTasks() {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestGeneratePlanForGoal_Duration(t *testing.T) {
	tests := []struct {
		name      string
		end       time.Time
		wantDays  int
		wantWeeks int
	}{
		{name: "no end date uses default", wantDays: DefaultDurationDays, wantWeeks: 4},
		{name: "short goal clamps to minimum", end: testNow.AddDate(0, 0, 3), wantDays: MinDurationDays, wantWeeks: 1},
		{name: "long goal clamps to maximum", end: testNow.AddDate(1, 0, 0), wantDays: MaxDurationDays, wantWeeks: 12},
		{name: "partial week rounds up", end: time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), wantDays: 20, wantWeeks: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := testGoal()
			goal.EndDate = tt.end
			p, err := NewGenerator().WithClock(func() time.Time { return testNow }).GeneratePlanForGoal(goal, nil)
			if err != nil {
				t.Fatalf("GeneratePlanForGoal() error = %v", err)
			}
			if p.DurationDays != tt.wantDays || p.TotalWeeks != tt.wantWeeks {
				t.Errorf("duration = %d days / %d weeks, want %d / %d", p.DurationDays, p.TotalWeeks, tt.wantDays, tt.wantWeeks)
			}
			if len(p.WeeklyPlans) != p.TotalWeeks {
				t.Errorf("weekly plans = %d, want %d", len(p.WeeklyPlans), p.TotalWeeks)
			}
			if p.Status != models.PlanDraft || p.CurrentWeek != 1 {
				t.Errorf("new plan status = %s week %d, want DRAFT week 1", p.Status, p.CurrentWeek)
			}
		})
	}
}

func TestGeneratePlanForGoal_Personalised(t *testing.T) {
	severe := models.NewNutritionalGap("protein", 30, 100, "g")
	moderate := models.NewNutritionalGap("fiber", 20, 30, "g")
	mild := models.NewNutritionalGap("iron", 16, 18, "mg")
	calcium := models.NewNutritionalGap("calcium", 600, 1000, "mg")
	rc := &models.RecommendationContext{
		Gaps: []models.NutritionalGap{mild, moderate, severe, calcium},
		Preferences: models.UserPreferences{
			CookingTimeBudget: 15,
		},
	}

	p, err := NewGenerator().GeneratePlanForGoal(testGoal(), rc)
	if err != nil {
		t.Fatalf("GeneratePlanForGoal() error = %v", err)
	}

	week1 := p.WeeklyPlans[0]
	var gapTasks []string
	quick := false
	for _, task := range week1.Tasks {
		if strings.HasPrefix(task.ID, "w1-gap-") {
			gapTasks = append(gapTasks, strings.TrimPrefix(task.ID, "w1-gap-"))
		}
		if task.ID == "w1-quick-meal" {
			quick = true
		}
	}
	if len(gapTasks) != 2 || gapTasks[0] != "protein" || gapTasks[1] != "calcium" {
		t.Errorf("gap tasks = %v, want the two largest non-mild gaps [protein calcium]", gapTasks)
	}
	if !quick {
		t.Error("a 15 minute cooking budget should add a quick-meal task")
	}
}

func TestGeneratePlanForGoal_GapWithoutSeverity(t *testing.T) {
	// Gaps decoded from older documents may carry no severity.
	rc := &models.RecommendationContext{
		Gaps: []models.NutritionalGap{
			{Nutrient: "fiber", Current: 5, Recommended: 30, Unit: "g", GapPercentage: 83},
			{Nutrient: "iron", Current: 16, Recommended: 18, Unit: "mg", GapPercentage: 11},
		},
	}

	p, err := NewGenerator().GeneratePlanForGoal(testGoal(), rc)
	if err != nil {
		t.Fatalf("GeneratePlanForGoal() error = %v", err)
	}
	var gapTasks []string
	for _, task := range p.WeeklyPlans[0].Tasks {
		if strings.HasPrefix(task.ID, "w1-gap-") {
			gapTasks = append(gapTasks, strings.TrimPrefix(task.ID, "w1-gap-"))
		}
	}
	if len(gapTasks) != 1 || gapTasks[0] != "fiber" {
		t.Errorf("gap tasks = %v, want [fiber] from its gap percentage", gapTasks)
	}
}

func TestGeneratePlanForGoal_InvalidGoal(t *testing.T) {
	g := NewGenerator()
	if _, err := g.GeneratePlanForGoal(nil, nil); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("nil goal error = %v, want ErrInvalidGoal", err)
	}
	goal := testGoal()
	goal.Type = "bulk_up"
	if _, err := g.GeneratePlanForGoal(goal, nil); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("unknown type error = %v, want ErrInvalidGoal", err)
	}
}

func TestGeneratePlanForGoal_Milestones(t *testing.T) {
	p, err := NewGenerator().GeneratePlanForGoal(testGoal(), nil)
	if err != nil {
		t.Fatalf("GeneratePlanForGoal() error = %v", err)
	}
	if len(p.Milestones) != 2 || p.Milestones[0].Week != 2 || p.Milestones[1].Week != 4 {
		t.Errorf("milestones = %+v, want weeks 2 and 4", p.Milestones)
	}
}

func TestTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)
	p := activePlan(t, repo, tr)

	if p.Status != models.PlanActive {
		t.Fatalf("status = %s, want ACTIVE", p.Status)
	}
	if _, err := tr.Activate(ctx, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Activate() twice error = %v, want ErrInvalidTransition", err)
	}
	if _, err := tr.Resume(ctx, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resume() of ACTIVE plan error = %v, want ErrInvalidTransition", err)
	}
	if p, _ = tr.Pause(ctx, p.ID); p.Status != models.PlanPaused {
		t.Errorf("after Pause() status = %s", p.Status)
	}
	if p, _ = tr.Resume(ctx, p.ID); p.Status != models.PlanActive {
		t.Errorf("after Resume() status = %s", p.Status)
	}
	if p, _ = tr.Complete(ctx, p.ID); p.Status != models.PlanCompleted {
		t.Errorf("after Complete() status = %s", p.Status)
	}
	if _, err := tr.Cancel(ctx, p.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Cancel() of COMPLETED plan error = %v, want ErrInvalidTransition", err)
	}
	if _, err := tr.Pause(ctx, "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Pause() of missing plan error = %v, want ErrPlanNotFound", err)
	}
}

func TestTracker_CreateRequiresDraft(t *testing.T) {
	tr := newTestTracker(newMockRepository())
	p := &models.ImprovementPlan{ID: "p", Status: models.PlanActive}
	if err := tr.Create(context.Background(), p); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Create() of ACTIVE plan error = %v, want ErrInvalidTransition", err)
	}
}

func TestTracker_SaveDailyProgress_NonDecreasing(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)
	p := activePlan(t, repo, tr)

	week := p.WeeklyPlans[0]
	all := make([]string, 0, len(week.Tasks))
	for _, task := range week.Tasks {
		all = append(all, task.ID)
	}

	dp, err := tr.SaveDailyProgress(ctx, p.ID, "2026-03-02", all, "great day")
	if err != nil {
		t.Fatalf("SaveDailyProgress() error = %v", err)
	}
	if dp.CompletionRate != 1 {
		t.Errorf("CompletionRate = %v, want 1", dp.CompletionRate)
	}
	got, _ := repo.GetPlan(ctx, p.ID)
	if got.Progress != 1 {
		t.Errorf("Progress = %v, want 1 after one perfect day", got.Progress)
	}

	// A bad day lowers the mean but never the stored progress.
	if _, err := tr.SaveDailyProgress(ctx, p.ID, "2026-03-03", nil, ""); err != nil {
		t.Fatalf("SaveDailyProgress() error = %v", err)
	}
	got, _ = repo.GetPlan(ctx, p.ID)
	if got.Progress != 1 {
		t.Errorf("Progress = %v, want 1 (non-decreasing)", got.Progress)
	}
}

func TestTracker_SaveDailyProgress_CountsOnlyWeekTasks(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)
	p := activePlan(t, repo, tr)

	first := p.WeeklyPlans[0].Tasks[0].ID
	dp, err := tr.SaveDailyProgress(ctx, p.ID, "2026-03-02", []string{first, first, "w9-bogus"}, "")
	if err != nil {
		t.Fatalf("SaveDailyProgress() error = %v", err)
	}
	want := 1 / float64(len(p.WeeklyPlans[0].Tasks))
	if dp.CompletionRate != want {
		t.Errorf("CompletionRate = %v, want %v", dp.CompletionRate, want)
	}
}

func TestTracker_SaveDailyProgress_Rejects(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)
	p := activePlan(t, repo, tr)

	if _, err := tr.SaveDailyProgress(ctx, p.ID, "03/02/2026", nil, ""); !errors.Is(err, ErrInvalidProgress) {
		t.Errorf("bad date error = %v, want ErrInvalidProgress", err)
	}
	if _, err := tr.Pause(ctx, p.ID); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if _, err := tr.SaveDailyProgress(ctx, p.ID, "2026-03-02", nil, ""); !errors.Is(err, ErrPlanNotActive) {
		t.Errorf("paused plan error = %v, want ErrPlanNotActive", err)
	}
}

func TestTracker_CompleteWeek(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	notifier := &recordingNotifier{}
	rewards := &recordingRewarder{}
	tr := newTestTracker(repo).WithNotifier(notifier).WithRewards(rewards)
	p := activePlan(t, repo, tr)

	week1 := &p.WeeklyPlans[0]
	if _, err := tr.CompleteWeek(ctx, p.ID, 1, nil); !errors.Is(err, ErrWeekNotComplete) {
		t.Errorf("CompleteWeek() with nothing done error = %v, want ErrWeekNotComplete", err)
	}
	if _, err := tr.CompleteWeek(ctx, p.ID, 2, requiredIDs(&p.WeeklyPlans[1])); !errors.Is(err, ErrWeekNotCurrent) {
		t.Errorf("CompleteWeek() of future week error = %v, want ErrWeekNotCurrent", err)
	}

	got, err := tr.CompleteWeek(ctx, p.ID, 1, requiredIDs(week1))
	if err != nil {
		t.Fatalf("CompleteWeek() error = %v", err)
	}
	if got.CurrentWeek != 2 || !got.IsWeekCompleted(1) {
		t.Errorf("after week 1: current = %d, completed = %v", got.CurrentWeek, got.CompletedWeeks)
	}

	// Idempotent.
	again, err := tr.CompleteWeek(ctx, p.ID, 1, nil)
	if err != nil || again.CurrentWeek != 2 || len(again.CompletedWeeks) != 1 {
		t.Errorf("repeat CompleteWeek() = %+v, %v; want unchanged", again.CompletedWeeks, err)
	}

	// Week 2 carries the halfway milestone.
	if _, err := tr.CompleteWeek(ctx, p.ID, 2, requiredIDs(&p.WeeklyPlans[1])); err != nil {
		t.Fatalf("CompleteWeek(2) error = %v", err)
	}
	if rewards.points != 50 {
		t.Errorf("milestone points = %d, want 50", rewards.points)
	}
	if len(notifier.events) != 3 {
		t.Errorf("events = %d, want two week completions and one reward", len(notifier.events))
	}
}

func TestTracker_CompleteWeek_LastWeekDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)
	p := activePlan(t, repo, tr)

	for w := 1; w <= p.TotalWeeks; w++ {
		if _, err := tr.CompleteWeek(ctx, p.ID, w, requiredIDs(&p.WeeklyPlans[w-1])); err != nil {
			t.Fatalf("CompleteWeek(%d) error = %v", w, err)
		}
	}
	got, _ := repo.GetPlan(ctx, p.ID)
	if got.CurrentWeek != got.TotalWeeks {
		t.Errorf("CurrentWeek = %d, want %d", got.CurrentWeek, got.TotalWeeks)
	}
	if len(got.CompletedWeeks) != got.TotalWeeks {
		t.Errorf("CompletedWeeks = %v", got.CompletedWeeks)
	}
	if got.Status != models.PlanActive {
		t.Errorf("status = %s, plans only complete explicitly", got.Status)
	}
}

func TestTracker_Statistics(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	tr := newTestTracker(repo)

	a := activePlan(t, repo, tr)
	b := activePlan(t, repo, tr)
	if _, err := tr.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if _, err := tr.CompleteWeek(ctx, a.ID, 1, requiredIDs(&a.WeeklyPlans[0])); err != nil {
		t.Fatalf("CompleteWeek() error = %v", err)
	}

	stats, err := tr.Statistics(ctx, "user-1")
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.TotalPlans != 2 || stats.ActivePlans != 1 || stats.CancelledPlans != 1 || stats.TotalCompletedWeeks != 1 {
		t.Errorf("Statistics() = %+v", stats)
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		week, total, want int
	}{
		{1, 4, 0}, {2, 4, 1}, {3, 4, 2}, {4, 4, 3},
		{1, 1, 0},
		{1, 12, 0}, {6, 12, 1}, {12, 12, 3},
	}
	for _, tt := range tests {
		if got := phaseFor(tt.week, tt.total); got != tt.want {
			t.Errorf("phaseFor(%d, %d) = %d, want %d", tt.week, tt.total, got, tt.want)
		}
	}
}
