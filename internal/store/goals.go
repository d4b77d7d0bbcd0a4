// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nutricoach/internal/models"
)

const bucketGoals = "goals"

// GoalRepository stores health goals.
type GoalRepository struct {
	s *Store
}

// NewGoalRepository creates a goal repository.
func NewGoalRepository(s *Store) *GoalRepository {
	return &GoalRepository{s: s}
}

func goalKey(userID, goalID string) string {
	return userScope(prefixGoal, userID) + goalID
}

// SaveGoal upserts a goal.
func (r *GoalRepository) SaveGoal(_ context.Context, g *models.HealthGoal) (err error) {
	defer observe("save", bucketGoals, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, goalKey(g.UserID, g.ID), g)
	})
}

// GetGoal returns ErrNotFound when the goal does not exist.
func (r *GoalRepository) GetGoal(_ context.Context, userID, goalID string) (_ *models.HealthGoal, err error) {
	defer observe("get", bucketGoals, time.Now(), &err)
	var g models.HealthGoal
	err = r.s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, goalKey(userID, goalID), &g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGoal removes a goal.
func (r *GoalRepository) DeleteGoal(_ context.Context, userID, goalID string) (err error) {
	defer observe("delete", bucketGoals, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		return deleteKey(txn, goalKey(userID, goalID))
	})
}

// ListGoals returns every goal of a user.
func (r *GoalRepository) ListGoals(_ context.Context, userID string) (_ []models.HealthGoal, err error) {
	defer observe("list", bucketGoals, time.Now(), &err)
	var out []models.HealthGoal
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, userScope(prefixGoal, userID), false, func(_ string, g *models.HealthGoal) bool {
			out = append(out, *g)
			return true
		})
	})
	return out, err
}

// GetActiveGoals returns the ACTIVE goals of a user.
func (r *GoalRepository) GetActiveGoals(ctx context.Context, userID string) ([]models.HealthGoal, error) {
	all, err := r.ListGoals(ctx, userID)
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
