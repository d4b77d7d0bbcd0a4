// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nutricoach/internal/models"
)

const bucketPreferences = "preferences"

// PreferencesRepository stores one preferences document per user.
type PreferencesRepository struct {
	s *Store
}

// NewPreferencesRepository creates a preferences repository.
func NewPreferencesRepository(s *Store) *PreferencesRepository {
	return &PreferencesRepository{s: s}
}

func preferencesKey(userID string) string {
	return userScope(prefixPreferences, userID)
}

// GetPreferences returns the stored preferences, or the zero value when the
// user never saved any.
func (r *PreferencesRepository) GetPreferences(_ context.Context, userID string) (_ models.UserPreferences, err error) {
	defer observe("get", bucketPreferences, time.Now(), &err)
	var p models.UserPreferences
	err = r.s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, preferencesKey(userID), &p)
	})
	if errors.Is(err, ErrNotFound) {
		return models.UserPreferences{}, nil
	}
	return p, err
}

// SavePreferences replaces the preferences of a user.
func (r *PreferencesRepository) SavePreferences(_ context.Context, userID string, p *models.UserPreferences) (err error) {
	defer observe("save", bucketPreferences, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, preferencesKey(userID), p)
	})
}
