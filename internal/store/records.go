// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/nutrients"
)

const bucketRecords = "records"

// RecordRepository stores food records. It implements
// snapshot.RecordProvider.
type RecordRepository struct {
	s *Store
}

// NewRecordRepository creates a record repository.
func NewRecordRepository(s *Store) *RecordRepository {
	return &RecordRepository{s: s}
}

// recordKey orders a user's records by time. The timestamp is zero padded
// so lexical order is chronological.
func recordKey(userID string, at time.Time, id string) string {
	return fmt.Sprintf("%s%020d:%s", userScope(prefixRecord, userID), at.UnixNano(), id)
}

// SaveRecord stores a food record, assigning an ID and LoggedAt when unset.
func (r *RecordRepository) SaveRecord(_ context.Context, rec *models.FoodRecord) (err error) {
	defer observe("save", bucketRecords, time.Now(), &err)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.LoggedAt.IsZero() {
		rec.LoggedAt = time.Now()
	}
	return r.s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, recordKey(rec.UserID, rec.LoggedAt, rec.ID), rec)
	})
}

// GetUserRecords returns records logged at or after since, oldest first. A
// zero since returns every record.
func (r *RecordRepository) GetUserRecords(_ context.Context, userID string, since time.Time) (_ []models.FoodRecord, err error) {
	defer observe("list", bucketRecords, time.Now(), &err)
	var out []models.FoodRecord
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, userScope(prefixRecord, userID), false, func(_ string, rec *models.FoodRecord) bool {
			if since.IsZero() || !rec.LoggedAt.Before(since) {
				out = append(out, *rec)
			}
			return true
		})
	})
	return out, err
}

// GetTodayRecords returns the records logged on the calendar day of day, in
// day's location.
func (r *RecordRepository) GetTodayRecords(ctx context.Context, userID string, day time.Time) ([]models.FoodRecord, error) {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)
	recs, err := r.GetUserRecords(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for i := range recs {
		if recs[i].LoggedAt.Before(end) {
			out = append(out, recs[i])
		}
	}
	return out, nil
}

// GetStreakDays counts consecutive days with at least one record, ending at
// asOf. When nothing is logged on asOf yet the streak ending the day before
// is returned, so a streak survives until the day is over.
func (r *RecordRepository) GetStreakDays(ctx context.Context, userID string, asOf time.Time) (int, error) {
	recs, err := r.GetUserRecords(ctx, userID, time.Time{})
	if err != nil {
		return 0, err
	}
	return streakDays(recs, asOf), nil
}

// GetFoodVarietyCount returns the number of distinct food categories logged
// since the given time.
func (r *RecordRepository) GetFoodVarietyCount(ctx context.Context, userID string, since time.Time) (int, error) {
	recs, err := r.GetUserRecords(ctx, userID, since)
	if err != nil {
		return 0, err
	}
	return len(categories(recs)), nil
}

// Aggregates computes the counters achievements are evaluated against.
func (r *RecordRepository) Aggregates(ctx context.Context, userID string, asOf time.Time) (models.UserAggregates, error) {
	recs, err := r.GetUserRecords(ctx, userID, time.Time{})
	if err != nil {
		return models.UserAggregates{}, err
	}

	agg := models.UserAggregates{
		StreakDays:         streakDays(recs, asOf),
		TotalRecords:       len(recs),
		FoodCategories:     len(categories(recs)),
		NutrientTargetDays: make(map[string]int),
	}
	for _, totals := range dailyTotals(recs, asOf.Location()) {
		for nutrient, amount := range totals {
			if nutrients.IsLimited(nutrient) {
				continue
			}
			if intake, ok := nutrients.DailyIntake(nutrient); ok && amount >= intake.Amount {
				agg.NutrientTargetDays[nutrient]++
			}
		}
	}
	return agg, nil
}

func streakDays(recs []models.FoodRecord, asOf time.Time) int {
	days := make(map[string]struct{}, len(recs))
	loc := asOf.Location()
	for i := range recs {
		days[recs[i].LoggedAt.In(loc).Format(time.DateOnly)] = struct{}{}
	}

	day := startOfDay(asOf)
	if _, ok := days[day.Format(time.DateOnly)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func categories(recs []models.FoodRecord) map[string]struct{} {
	out := make(map[string]struct{})
	for i := range recs {
		if c := strings.ToLower(strings.TrimSpace(recs[i].Category)); c != "" {
			out[c] = struct{}{}
		}
	}
	return out
}

// dailyTotals sums nutrients per calendar day in loc.
func dailyTotals(recs []models.FoodRecord, loc *time.Location) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for i := range recs {
		day := recs[i].LoggedAt.In(loc).Format(time.DateOnly)
		totals, ok := out[day]
		if !ok {
			totals = make(map[string]float64)
			out[day] = totals
		}
		for nutrient, amount := range recs[i].Nutrients {
			totals[strings.ToLower(nutrient)] += amount
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
