// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
	"github.com/tomtom215/nutricoach/internal/validation"
)

// NeutralHealthScore is used when neither score history nor gaps are known.
const NeutralHealthScore = 70.0

// Facet names used in logs and metrics.
const (
	FacetGaps        = "gaps"
	FacetPatterns    = "patterns"
	FacetScores      = "scores"
	FacetGoals       = "goals"
	FacetRecords     = "records"
	FacetToday       = "today"
	FacetPlans       = "plans"
	FacetPreferences = "preferences"
)

// Aggregator builds recommendation contexts. It is safe for concurrent use.
type Aggregator struct {
	cfg    Config
	logger zerolog.Logger

	nutrition NutritionAnalysisProvider
	records   RecordProvider
	goals     GoalRepository
	plans     PlanLister
	prefs     PreferencesProvider

	nutritionCB *gobreaker.CircuitBreaker[any]
	recordsCB   *gobreaker.CircuitBreaker[any]
	goalsCB     *gobreaker.CircuitBreaker[any]
	plansCB     *gobreaker.CircuitBreaker[any]
	prefsCB     *gobreaker.CircuitBreaker[any]
}

// NewAggregator creates an aggregator. Any provider may be nil, in which case
// its facets are always empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(
	cfg Config,
	nutrition NutritionAnalysisProvider,
	records RecordProvider,
	goals GoalRepository,
	logger zerolog.Logger,
) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot config: %w", err)
	}
	logger = logger.With().Str("component", "snapshot").Logger()
	return &Aggregator{
		cfg:         cfg,
		logger:      logger,
		nutrition:   nutrition,
		records:     records,
		goals:       goals,
		nutritionCB: newBreaker("nutrition-provider", cfg, logger),
		recordsCB:   newBreaker("record-provider", cfg, logger),
		goalsCB:     newBreaker("goal-repository", cfg, logger),
		plansCB:     newBreaker("plan-repository", cfg, logger),
		prefsCB:     newBreaker("preferences-repository", cfg, logger),
	}, nil
}

// WithPlans enables plan tracking. Contexts assembled afterwards carry the
// user's active plans and PlanTracking set.
func (a *Aggregator) WithPlans(plans PlanLister) *Aggregator {
	a.plans = plans
	return a
}

// WithPreferences enables stored preferences. They are used whenever the
// request carries none of its own.
func (a *Aggregator) WithPreferences(prefs PreferencesProvider) *Aggregator {
	a.prefs = prefs
	return a
}

// Assemble fetches every facet concurrently and joins them into a context.
// Facet failures degrade to empty values; only cancellation of ctx fails the
// call.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Aggregator) Assemble(ctx context.Context, req Request) (*models.RecommendationContext, error) {
	if !validation.ValidUserID(req.UserID) {
		return nil, fmt.Errorf("assemble: invalid user id %q", req.UserID)
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	var (
		gaps     []models.NutritionalGap
		patterns *models.EatingPatternAnalysis
		scores   []models.DailyScore
		goals    []models.HealthGoal
		all      []models.FoodRecord
		today    []models.FoodRecord
		plans    []models.ImprovementPlan
		stored   models.UserPreferences
	)

	g, gctx := errgroup.WithContext(ctx)
	userID := req.UserID

	if a.nutrition != nil {
		g.Go(func() error {
			gaps = fetch(gctx, a, FacetGaps, a.nutritionCB, func(c context.Context) ([]models.NutritionalGap, error) {
				return a.nutrition.GetNutritionalGaps(c, userID, a.cfg.GapWindowDays)
			})
			return nil
		})
		g.Go(func() error {
			patterns = fetch(gctx, a, FacetPatterns, a.nutritionCB, func(c context.Context) (*models.EatingPatternAnalysis, error) {
				return a.nutrition.GetEatingPatterns(c, userID)
			})
			return nil
		})
		g.Go(func() error {
			scores = fetch(gctx, a, FacetScores, a.nutritionCB, func(c context.Context) ([]models.DailyScore, error) {
				return a.nutrition.GetHealthScoreHistory(c, userID, a.cfg.ScoreHistoryDays)
			})
			return nil
		})
	}
	if a.goals != nil {
		g.Go(func() error {
			goals = fetch(gctx, a, FacetGoals, a.goalsCB, func(c context.Context) ([]models.HealthGoal, error) {
				return a.goals.GetActiveGoals(c, userID)
			})
			return nil
		})
	}
	if a.records != nil {
		g.Go(func() error {
			all = fetch(gctx, a, FacetRecords, a.recordsCB, func(c context.Context) ([]models.FoodRecord, error) {
				return a.records.GetUserRecords(c, userID, time.Time{})
			})
			return nil
		})
		g.Go(func() error {
			today = fetch(gctx, a, FacetToday, a.recordsCB, func(c context.Context) ([]models.FoodRecord, error) {
				return a.records.GetTodayRecords(c, userID, now)
			})
			return nil
		})
	}
	if a.plans != nil {
		g.Go(func() error {
			plans = fetch(gctx, a, FacetPlans, a.plansCB, func(c context.Context) ([]models.ImprovementPlan, error) {
				return a.plans.GetActivePlans(c, userID)
			})
			return nil
		})
	}

	if a.prefs != nil && req.Preferences.IsZero() {
		g.Go(func() error {
			stored = fetch(gctx, a, FacetPreferences, a.prefsCB, func(c context.Context) (models.UserPreferences, error) {
				return a.prefs.GetPreferences(c, userID)
			})
			return nil
		})
	}

	_ = g.Wait() // facets never fail the group
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefs := req.Preferences
	if prefs.IsZero() {
		prefs = stored
	}

	mealType := req.MealType
	if mealType == "" {
		mealType = models.MealTypeForHour(now.Hour())
	}

	return &models.RecommendationContext{
		UserID:           userID,
		Timestamp:        now,
		Gaps:             gaps,
		Patterns:         patterns,
		HealthScore:      HealthScore(scores, gaps),
		ScoreHistory:     scores,
		Goals:            goals,
		ActivePlans:      plans,
		PlanTracking:     a.plans != nil,
		Preferences:      prefs,
		Location:         req.Location,
		MealType:         mealType,
		Hour:             now.Hour(),
		Date:             now.Format(time.DateOnly),
		LoggedMealsToday: loggedMeals(today),
		IsFirstTimeUser:  len(all) == 0,
		UsageCount:       len(all),
	}, nil
}

// fetch runs one facet with its own timeout. Errors are logged and counted,
// and the zero value is returned.
func fetch[T any](
	ctx context.Context,
	a *Aggregator,
	facet string,
	cb *gobreaker.CircuitBreaker[any],
	fn func(context.Context) (T, error),
) T {
	start := time.Now()
	fctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	v, err := execute(cb, func() (T, error) { return fn(fctx) })
	metrics.RecordSnapshotFacet(facet, time.Since(start), err)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Warn().Err(err).Str("facet", facet).Msg("Snapshot facet degraded to empty")
		}
		var zero T
		return zero
	}
	return v
}

// HealthScore returns the most recent score in history. Without history the
// score is derived from deficit gaps of nutrients that are not limited;
// without either it is NeutralHealthScore.
func HealthScore(history []models.DailyScore, gaps []models.NutritionalGap) float64 {
	if len(history) > 0 {
		latest := history[0]
		for _, s := range history[1:] {
			if s.Date.After(latest.Date) {
				latest = s
			}
		}
		return latest.Score
	}

	var sum float64
	var n int
	for i := range gaps {
		if !gaps[i].IsDeficit() || nutrients.IsLimited(gaps[i].Nutrient) {
			continue
		}
		p := gaps[i].GapPercentage
		if p > 100 {
			p = 100
		}
		sum += p
		n++
	}
	if n == 0 {
		if len(gaps) == 0 {
			return NeutralHealthScore
		}
		return 100
	}
	return 100 - sum/float64(n)
}

func loggedMeals(records []models.FoodRecord) []models.MealType {
	var meals []models.MealType
	seen := make(map[models.MealType]struct{}, 4)
	for i := range records {
		m := records[i].MealType
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		meals = append(meals, m)
	}
	return meals
}
