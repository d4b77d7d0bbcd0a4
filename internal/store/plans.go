// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/plan"
)

const (
	bucketPlans    = "plans"
	bucketProgress = "plan_progress"
)

// PlanRepository stores improvement plans and their daily progress. It
// implements plan.Repository.
type PlanRepository struct {
	s *Store
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(s *Store) *PlanRepository {
	return &PlanRepository{s: s}
}

func planKey(planID string) string             { return prefixPlan + planID }
func planUserKey(userID, planID string) string { return userScope(prefixPlanUser, userID) + planID }
func progressKey(planID, date string) string   { return prefixProgress + planID + ":" + date }

// CreatePlan stores a new plan.
func (r *PlanRepository) CreatePlan(_ context.Context, p *models.ImprovementPlan) (err error) {
	defer observe("create", bucketPlans, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, planKey(p.ID))
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("plan %s already exists", p.ID)
		}
		if err := setJSON(txn, planKey(p.ID), p); err != nil {
			return err
		}
		return txn.Set([]byte(planUserKey(p.UserID, p.ID)), []byte{})
	})
}

// GetPlan returns plan.ErrPlanNotFound when the plan does not exist.
func (r *PlanRepository) GetPlan(_ context.Context, planID string) (_ *models.ImprovementPlan, err error) {
	defer observe("get", bucketPlans, time.Now(), &err)
	var p models.ImprovementPlan
	err = r.s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, planKey(planID), &p)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, plan.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlan replaces an existing plan.
func (r *PlanRepository) UpdatePlan(_ context.Context, p *models.ImprovementPlan) (err error) {
	defer observe("update", bucketPlans, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, planKey(p.ID))
		if err != nil {
			return err
		}
		if !found {
			return plan.ErrPlanNotFound
		}
		return setJSON(txn, planKey(p.ID), p)
	})
}

// DeletePlan removes a plan with its index entry and daily progress.
func (r *PlanRepository) DeletePlan(_ context.Context, planID string) (err error) {
	defer observe("delete", bucketPlans, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		var p models.ImprovementPlan
		if err := getJSON(txn, planKey(planID), &p); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if !errors.Is(err, ErrCorruptRecord) {
				return err
			}
		}
		if p.UserID != "" {
			if err := deleteKey(txn, planUserKey(p.UserID, planID)); err != nil {
				return err
			}
		}
		for _, key := range scanKeys(txn, prefixProgress+planID+":") {
			if err := deleteKey(txn, key); err != nil {
				return err
			}
		}
		return deleteKey(txn, planKey(planID))
	})
}

// ListPlans returns every plan of a user, oldest first.
func (r *PlanRepository) ListPlans(_ context.Context, userID string) (_ []models.ImprovementPlan, err error) {
	defer observe("list", bucketPlans, time.Now(), &err)
	var out []models.ImprovementPlan
	err = r.s.db.View(func(txn *badger.Txn) error {
		prefix := userScope(prefixPlanUser, userID)
		for _, key := range scanKeys(txn, prefix) {
			planID := strings.TrimPrefix(key, prefix)
			var p models.ImprovementPlan
			if err := getJSON(txn, planKey(planID), &p); err != nil {
				if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorruptRecord) {
					r.s.logger.Warn().Err(err).Str("plan_id", planID).Msg("Skipping unreadable plan")
					continue
				}
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPlans(out)
	return out, nil
}

// GetActivePlans returns the ACTIVE plans of a user.
func (r *PlanRepository) GetActivePlans(ctx context.Context, userID string) ([]models.ImprovementPlan, error) {
	all, err := r.ListPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for i := range all {
		if all[i].IsActive() {
			active = append(active, all[i])
		}
	}
	return active, nil
}

// SaveDailyProgress upserts the record for (plan, date).
func (r *PlanRepository) SaveDailyProgress(_ context.Context, dp *models.DailyProgress) (err error) {
	defer observe("save", bucketProgress, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, progressKey(dp.PlanID, dp.Date), dp)
	})
}

// RecentDailyProgress returns up to limit records, most recent date first.
// Dates are ISO formatted so key order is date order.
func (r *PlanRepository) RecentDailyProgress(_ context.Context, planID string, limit int) (_ []models.DailyProgress, err error) {
	defer observe("list", bucketProgress, time.Now(), &err)
	var out []models.DailyProgress
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, prefixProgress+planID+":", true, func(_ string, dp *models.DailyProgress) bool {
			out = append(out, *dp)
			return limit <= 0 || len(out) < limit
		})
	})
	return out, err
}

// GetUserPlanStatistics summarises every plan of a user.
func (r *PlanRepository) GetUserPlanStatistics(ctx context.Context, userID string) (models.PlanStatistics, error) {
	plans, err := r.ListPlans(ctx, userID)
	if err != nil {
		return models.PlanStatistics{}, err
	}
	return plan.ComputeStatistics(plans), nil
}

func sortPlans(plans []models.ImprovementPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
}
