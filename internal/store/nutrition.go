// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
	"github.com/tomtom215/nutricoach/internal/snapshot"
)

const (
	// patternWindowDays is the window eating patterns are derived from.
	patternWindowDays = 14

	// lateNightHour is the hour from which a record counts as late-night eating.
	lateNightHour = 22

	topCategoryCount = 5
)

// NutritionAnalyzer derives nutrition analysis from stored food records. It
// implements snapshot.NutritionAnalysisProvider.
type NutritionAnalyzer struct {
	records *RecordRepository
	now     func() time.Time
}

// NewNutritionAnalyzer creates an analyzer over records.
func NewNutritionAnalyzer(records *RecordRepository) *NutritionAnalyzer {
	return &NutritionAnalyzer{records: records, now: time.Now}
}

// WithClock overrides the analyzer clock.
func (a *NutritionAnalyzer) WithClock(now func() time.Time) *NutritionAnalyzer {
	a.now = now
	return a
}

// GetNutritionalGaps compares the average daily intake over the last days
// against reference intakes. Only days with records count. A nutrient the
// user has logged before but not within the window is reported as a full
// gap; nutrients never logged are not reported.
func (a *NutritionAnalyzer) GetNutritionalGaps(ctx context.Context, userID string, days int) ([]models.NutritionalGap, error) {
	now := a.now()
	all, err := a.records.GetUserRecords(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	start := windowStart(now, days)
	var recent []models.FoodRecord
	for i := range all {
		if !all[i].LoggedAt.Before(start) {
			recent = append(recent, all[i])
		}
	}
	return gapsFor(dailyTotals(recent, now.Location()), trackedNutrients(all)), nil
}

// GetEatingPatterns summarises meal timing over the last two weeks. It
// returns nil when there are no records.
func (a *NutritionAnalyzer) GetEatingPatterns(ctx context.Context, userID string) (*models.EatingPatternAnalysis, error) {
	now := a.now()
	loc := now.Location()
	recs, err := a.records.GetUserRecords(ctx, userID, windowStart(now, patternWindowDays))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	type mealStats struct {
		hourSum float64
		n       int
		days    map[string]struct{}
	}
	meals := make(map[models.MealType]*mealStats)
	activeDays := make(map[string]struct{})
	lateDays := make(map[string]struct{})
	mealsPerDay := make(map[string]map[models.MealType]struct{})
	catCount := make(map[string]int)

	for i := range recs {
		at := recs[i].LoggedAt.In(loc)
		day := at.Format(time.DateOnly)
		activeDays[day] = struct{}{}
		if at.Hour() >= lateNightHour {
			lateDays[day] = struct{}{}
		}
		if recs[i].Category != "" {
			catCount[recs[i].Category]++
		}

		mt := recs[i].MealType
		if mt == "" {
			mt = models.MealTypeForHour(at.Hour())
		}
		st, ok := meals[mt]
		if !ok {
			st = &mealStats{days: make(map[string]struct{})}
			meals[mt] = st
		}
		st.hourSum += float64(at.Hour()) + float64(at.Minute())/60
		st.n++
		st.days[day] = struct{}{}

		if mealsPerDay[day] == nil {
			mealsPerDay[day] = make(map[models.MealType]struct{})
		}
		mealsPerDay[day][mt] = struct{}{}
	}

	p := &models.EatingPatternAnalysis{
		LateNightEatingDays: len(lateDays),
		WindowDays:          patternWindowDays,
	}
	for _, mt := range []models.MealType{models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack} {
		timing := models.MealTiming{MealType: mt, SkipRate: 1}
		if st, ok := meals[mt]; ok {
			timing.AverageHour = st.hourSum / float64(st.n)
			timing.SkipRate = 1 - float64(len(st.days))/float64(len(activeDays))
		}
		p.MealTimings = append(p.MealTimings, timing)
	}

	var mealTotal int
	for _, m := range mealsPerDay {
		mealTotal += len(m)
	}
	p.AverageMealsPerDay = float64(mealTotal) / float64(len(activeDays))
	p.TopCategories = topCategories(catCount, topCategoryCount)
	return p, nil
}

// GetHealthScoreHistory scores each day with records over the last days,
// oldest first.
func (a *NutritionAnalyzer) GetHealthScoreHistory(ctx context.Context, userID string, days int) ([]models.DailyScore, error) {
	now := a.now()
	loc := now.Location()
	recs, err := a.records.GetUserRecords(ctx, userID, windowStart(now, days))
	if err != nil {
		return nil, err
	}

	tracked := trackedNutrients(recs)
	var out []models.DailyScore
	for day, totals := range dailyTotals(recs, loc) {
		date, err := time.ParseInLocation(time.DateOnly, day, loc)
		if err != nil {
			continue
		}
		gaps := gapsFor(map[string]map[string]float64{day: totals}, tracked)
		out = append(out, models.DailyScore{Date: date, Score: snapshot.HealthScore(nil, gaps)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// windowStart is the first day of a window of days ending today.
func windowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return startOfDay(now).AddDate(0, 0, -(days - 1))
}

// gapsFor averages per-day totals and compares them with reference intakes.
// Tracked nutrients missing from totals follow the logged ones with zero
// intake.
func gapsFor(totals map[string]map[string]float64, tracked map[string]bool) []models.NutritionalGap {
	if len(totals) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, day := range totals {
		for nutrient, amount := range day {
			sums[nutrient] += amount
		}
	}

	names := make([]string, 0, len(sums))
	for n := range sums {
		names = append(names, n)
	}
	sort.Strings(names)

	var gaps []models.NutritionalGap
	for _, n := range names {
		intake, ok := nutrients.DailyIntake(n)
		if !ok {
			continue
		}
		avg := sums[n] / float64(len(totals))
		gaps = append(gaps, models.NewNutritionalGap(n, avg, intake.Amount, intake.Unit))
	}

	missing := make([]string, 0, len(tracked))
	for n := range tracked {
		if _, ok := sums[n]; !ok {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	for _, n := range missing {
		if intake, ok := nutrients.DailyIntake(n); ok {
			gaps = append(gaps, models.NewNutritionalGap(n, 0, intake.Amount, intake.Unit))
		}
	}
	return gaps
}

// trackedNutrients returns the reference nutrients named in recs that are
// not limited. Missing intake of a limited nutrient is not a gap.
func trackedNutrients(recs []models.FoodRecord) map[string]bool {
	tracked := make(map[string]bool)
	for i := range recs {
		for n := range recs[i].Nutrients {
			if _, ok := nutrients.DailyIntake(n); ok && !nutrients.IsLimited(n) {
				tracked[n] = true
			}
		}
	}
	return tracked
}

func topCategories(counts map[string]int, n int) []string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}
