// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package gamification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/models"
)

var testNow = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC) // Wednesday

type mockAchievements struct {
	mu     sync.Mutex
	states map[string]map[string]models.AchievementState
	saves  int
}

func newMockAchievements() *mockAchievements {
	return &mockAchievements{states: map[string]map[string]models.AchievementState{}}
}

func (m *mockAchievements) GetAchievementStates(_ context.Context, userID string) (map[string]models.AchievementState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.AchievementState, len(m.states[userID]))
	for k, v := range m.states[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *mockAchievements) SaveAchievementState(_ context.Context, st *models.AchievementState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states[st.UserID] == nil {
		m.states[st.UserID] = map[string]models.AchievementState{}
	}
	m.states[st.UserID][st.AchievementID] = *st
	m.saves++
	return nil
}

type mockLedger struct {
	mu     sync.Mutex
	points map[string]int
	err    error
}

func (m *mockLedger) AddPoints(_ context.Context, userID string, points int, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.points == nil {
		m.points = map[string]int{}
	}
	m.points[userID] += points
	return m.points[userID], nil
}

func (m *mockLedger) Points(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[userID], nil
}

type mockChallenges struct {
	mu    sync.Mutex
	items map[string]models.Challenge
}

func newMockChallenges() *mockChallenges {
	return &mockChallenges{items: map[string]models.Challenge{}}
}

func (m *mockChallenges) SaveChallenge(_ context.Context, c *models.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = *c
	return nil
}

func (m *mockChallenges) GetChallenge(_ context.Context, id string) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return &c, nil
}

func (m *mockChallenges) ListChallenges(_ context.Context, userID string) ([]models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Challenge
	for _, c := range m.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockChallenges) DeleteChallenges(_ context.Context, match func(*models.Challenge) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, c := range m.items {
		if match(&c) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
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

func (n *recordingNotifier) count(t models.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Type == t {
			c++
		}
	}
	return c
}

func newTestProgression() (*Progression, *mockAchievements, *mockLedger, *recordingNotifier) {
	repo := newMockAchievements()
	ledger := &mockLedger{}
	notifier := &recordingNotifier{}
	p := NewProgression(repo, ledger, zerolog.Nop()).
		WithNotifier(notifier).
		WithClock(func() time.Time { return testNow })
	return p, repo, ledger, notifier
}

func TestEvaluate(t *testing.T) {
	agg := models.UserAggregates{
		StreakDays:         5,
		TotalRecords:       120,
		NutrientTargetDays: map[string]int{"protein": 7, "fiber": 3},
		FoodCategories:     12,
	}

	tests := []struct {
		name         string
		cond         models.UnlockCondition
		wantOK       bool
		wantProgress float64
	}{
		{"streak short", models.StreakDays{Days: 10}, false, 0.5},
		{"streak met", models.StreakDays{Days: 5}, true, 1},
		{"records met", models.TotalRecords{Count: 100}, true, 1},
		{"nutrient met", models.NutrientTarget{Nutrient: "protein", Days: 7}, true, 1},
		{"nutrient case insensitive", models.NutrientTarget{Nutrient: "Fiber", Days: 6}, false, 0.5},
		{"nutrient missing", models.NutrientTarget{Nutrient: "iron", Days: 7}, false, 0},
		{"variety met", models.FoodVariety{Categories: 12}, true, 1},
		{"all of met", models.AllOf{Conditions: []models.UnlockCondition{
			models.StreakDays{Days: 5}, models.TotalRecords{Count: 10},
		}}, true, 1},
		{"all of partial", models.AllOf{Conditions: []models.UnlockCondition{
			models.StreakDays{Days: 5}, models.StreakDays{Days: 10},
		}}, false, 0.75},
		{"all of empty", models.AllOf{}, false, 0},
		{"nil condition", nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, progress := Evaluate(tt.cond, agg)
			if ok != tt.wantOK || progress != tt.wantProgress {
				t.Errorf("Evaluate() = (%v, %v), want (%v, %v)", ok, progress, tt.wantOK, tt.wantProgress)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points, level, toNext int
	}{
		{0, 1, 100},
		{99, 1, 1},
		{100, 2, 200},
		{599, 3, 1},
		{600, 4, 400},
		{4499, 9, 1},
		{4500, 10, 0},
		{99999, 10, 0},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.level {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.points, got, tt.level)
		}
		if got := PointsToNextLevel(tt.points); got != tt.toNext {
			t.Errorf("PointsToNextLevel(%d) = %d, want %d", tt.points, got, tt.toNext)
		}
	}
}

func TestCatalog_IDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog() {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Condition == nil || a.Points <= 0 {
			t.Errorf("achievement %q needs a condition and points", a.ID)
		}
	}
}

func TestEvaluateAchievements(t *testing.T) {
	ctx := context.Background()
	p, repo, ledger, notifier := newTestProgression()

	agg := models.UserAggregates{StreakDays: 3, TotalRecords: 50}
	unlocked, err := p.EvaluateAchievements(ctx, "user-1", agg)
	if err != nil {
		t.Fatalf("EvaluateAchievements() error = %v", err)
	}
	ids := map[string]bool{}
	for _, a := range unlocked {
		ids[a.ID] = true
		if a.UnlockedAt == nil || !a.UnlockedAt.Equal(testNow) {
			t.Errorf("%s UnlockedAt = %v, want %v", a.ID, a.UnlockedAt, testNow)
		}
	}
	if len(unlocked) != 2 || !ids[AchievementFirstMeal] || !ids[AchievementStreak3] {
		t.Errorf("unlocked = %v, want first_meal and streak_3", ids)
	}
	if got := ledger.points["user-1"]; got != 35 {
		t.Errorf("points = %d, want 35", got)
	}
	if notifier.count(models.EventAchievementUnlocked) != 2 || notifier.count(models.EventRewardGranted) != 2 {
		t.Errorf("events = %+v", notifier.events)
	}

	// Partial progress is stored for locked achievements.
	st := repo.states["user-1"][AchievementRecords100]
	if st.Progress != 0.5 || st.UnlockedAt != nil {
		t.Errorf("records_100 state = %+v, want progress 0.5 locked", st)
	}
}

func TestEvaluateAchievements_Idempotent(t *testing.T) {
	ctx := context.Background()
	p, _, ledger, notifier := newTestProgression()
	agg := models.UserAggregates{StreakDays: 7, TotalRecords: 10}

	if _, err := p.EvaluateAchievements(ctx, "user-1", agg); err != nil {
		t.Fatalf("EvaluateAchievements() error = %v", err)
	}
	pointsBefore := ledger.points["user-1"]
	eventsBefore := len(notifier.events)

	p.WithClock(func() time.Time { return testNow.Add(time.Hour) })
	unlocked, err := p.EvaluateAchievements(ctx, "user-1", agg)
	if err != nil {
		t.Fatalf("EvaluateAchievements() error = %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("second evaluation unlocked %d achievements", len(unlocked))
	}
	if ledger.points["user-1"] != pointsBefore || len(notifier.events) != eventsBefore {
		t.Error("second evaluation changed points or emitted events")
	}
}

func TestEvaluateAchievements_ProgressMonotonic(t *testing.T) {
	ctx := context.Background()
	p, repo, _, _ := newTestProgression()

	if _, err := p.EvaluateAchievements(ctx, "u", models.UserAggregates{TotalRecords: 80}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EvaluateAchievements(ctx, "u", models.UserAggregates{TotalRecords: 20}); err != nil {
		t.Fatal(err)
	}
	if got := repo.states["u"][AchievementRecords100].Progress; got != 0.8 {
		t.Errorf("progress = %v, want 0.8 kept", got)
	}
}

func TestUnlock(t *testing.T) {
	ctx := context.Background()
	p, _, ledger, _ := newTestProgression()

	a, first, err := p.Unlock(ctx, "user-1", AchievementStreak30)
	if err != nil || !first {
		t.Fatalf("Unlock() = %v, %v; want first unlock", first, err)
	}
	at := *a.UnlockedAt

	p.WithClock(func() time.Time { return testNow.Add(24 * time.Hour) })
	again, first, err := p.Unlock(ctx, "user-1", AchievementStreak30)
	if err != nil || first {
		t.Fatalf("second Unlock() = %v, %v; want no-op", first, err)
	}
	if !again.UnlockedAt.Equal(at) {
		t.Errorf("UnlockedAt moved from %v to %v", at, again.UnlockedAt)
	}
	if got := ledger.points["user-1"]; got != 200 {
		t.Errorf("points = %d, want 200 granted once", got)
	}

	if _, _, err := p.Unlock(ctx, "user-1", "nope"); !errors.Is(err, ErrAchievementNotFound) {
		t.Errorf("unknown id error = %v, want ErrAchievementNotFound", err)
	}
}

func TestGrantPoints_LevelUp(t *testing.T) {
	ctx := context.Background()
	p, _, _, notifier := newTestProgression()

	if err := p.GrantPoints(ctx, "u", 90, "test"); err != nil {
		t.Fatal(err)
	}
	if notifier.count(models.EventLevelUp) != 0 {
		t.Error("level up emitted below threshold")
	}
	if err := p.GrantPoints(ctx, "u", 250, "test"); err != nil {
		t.Fatal(err)
	}
	if notifier.count(models.EventLevelUp) != 1 {
		t.Fatalf("level up events = %d, want 1", notifier.count(models.EventLevelUp))
	}
	last := notifier.events[len(notifier.events)-1]
	if last.Level != 3 || last.Points != 340 {
		t.Errorf("level up event = %+v, want level 3 at 340 points", last)
	}

	points, level, toNext, err := p.Level(ctx, "u")
	if err != nil || points != 340 || level != 3 || toNext != 260 {
		t.Errorf("Level() = %d, %d, %d, %v", points, level, toNext, err)
	}
}

func TestAward_LedgerFailureKeepsUnlock(t *testing.T) {
	ctx := context.Background()
	p, repo, ledger, _ := newTestProgression()
	ledger.err = errors.New("ledger down")

	if _, _, err := p.Unlock(ctx, "u", AchievementFirstMeal); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if repo.states["u"][AchievementFirstMeal].UnlockedAt == nil {
		t.Error("unlock should be stored when points cannot be granted")
	}
}

func TestAchievements_MergesState(t *testing.T) {
	ctx := context.Background()
	p, _, _, _ := newTestProgression()
	if _, _, err := p.Unlock(ctx, "u", AchievementVariety10); err != nil {
		t.Fatal(err)
	}
	list, err := p.Achievements(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(catalog) {
		t.Fatalf("len = %d, want %d", len(list), len(catalog))
	}
	for _, a := range list {
		if (a.ID == AchievementVariety10) != a.IsUnlocked() {
			t.Errorf("%s unlocked = %v", a.ID, a.IsUnlocked())
		}
	}
}
