// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/recommend"
)

const bucketRecommendations = "recommendations"

// RecommendationRepository stores generated recommendations with their
// read and applied flags. It implements recommend.Repository.
type RecommendationRepository struct {
	s *Store
}

// NewRecommendationRepository creates a recommendation repository.
func NewRecommendationRepository(s *Store) *RecommendationRepository {
	return &RecommendationRepository{s: s}
}

func recommendationKey(userID, id string) string {
	return userScope(prefixRecommend, userID) + id
}

// SaveRecommendations upserts recs. Flags of recommendations already stored
// are kept, so regenerating a list never marks a read item unread.
func (r *RecommendationRepository) SaveRecommendations(_ context.Context, userID string, recs []models.Recommendation) (err error) {
	defer observe("save", bucketRecommendations, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		for i := range recs {
			rec := recs[i]
			key := recommendationKey(userID, rec.ID)

			var existing models.Recommendation
			switch err := getJSON(txn, key, &existing); {
			case err == nil:
				rec.IsRead = rec.IsRead || existing.IsRead
				rec.IsApplied = rec.IsApplied || existing.IsApplied
				if !existing.CreatedAt.IsZero() {
					rec.CreatedAt = existing.CreatedAt
				}
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorruptRecord):
			default:
				return err
			}
			if err := setJSON(txn, key, &rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkRead flags a recommendation as read.
func (r *RecommendationRepository) MarkRead(_ context.Context, userID, id string) (err error) {
	defer observe("mark_read", bucketRecommendations, time.Now(), &err)
	return r.update(userID, id, func(rec *models.Recommendation) { rec.IsRead = true })
}

// MarkApplied flags a recommendation as applied. Applied implies read.
func (r *RecommendationRepository) MarkApplied(_ context.Context, userID, id string) (err error) {
	defer observe("mark_applied", bucketRecommendations, time.Now(), &err)
	return r.update(userID, id, func(rec *models.Recommendation) {
		rec.IsApplied = true
		rec.IsRead = true
	})
}

func (r *RecommendationRepository) update(userID, id string, apply func(*models.Recommendation)) error {
	return r.s.db.Update(func(txn *badger.Txn) error {
		key := recommendationKey(userID, id)
		var rec models.Recommendation
		if err := getJSON(txn, key, &rec); err != nil {
			if errors.Is(err, ErrNotFound) {
				return recommend.ErrRecommendationNotFound
			}
			return err
		}
		apply(&rec)
		return setJSON(txn, key, &rec)
	})
}

// ListRecommendations returns up to limit recommendations, newest first. A
// non-positive limit returns all.
func (r *RecommendationRepository) ListRecommendations(_ context.Context, userID string, limit int) (_ []models.Recommendation, err error) {
	defer observe("list", bucketRecommendations, time.Now(), &err)
	var out []models.Recommendation
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, userScope(prefixRecommend, userID), false, func(_ string, rec *models.Recommendation) bool {
			out = append(out, *rec)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteExpiredRecommendations removes recommendations whose ExpiresAt is
// before now and returns the number removed.
func (r *RecommendationRepository) DeleteExpiredRecommendations(_ context.Context, now time.Time) (n int, err error) {
	defer observe("purge", bucketRecommendations, time.Now(), &err)
	var expired []string
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, prefixRecommend, false, func(key string, rec *models.Recommendation) bool {
			if rec.IsExpired(now) {
				expired = append(expired, key)
			}
			return true
		})
	})
	if err != nil {
		return 0, err
	}
	err = r.s.db.Update(func(txn *badger.Txn) error {
		for _, key := range expired {
			if err := deleteKey(txn, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(expired), nil
}
