// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nutricoach/internal/gamification"
	"github.com/tomtom215/nutricoach/internal/models"
)

const (
	bucketAchievements = "achievements"
	bucketChallenges   = "challenges"
	bucketPoints       = "points"

	// ledgerAttempts bounds the retries of a balance update that lost a
	// transaction conflict.
	ledgerAttempts = 10
	ledgerBackoff  = 2 * time.Millisecond
)

// AchievementRepository stores per-user achievement state. It implements
// gamification.AchievementRepository.
type AchievementRepository struct {
	s *Store
}

// NewAchievementRepository creates an achievement repository.
func NewAchievementRepository(s *Store) *AchievementRepository {
	return &AchievementRepository{s: s}
}

// GetAchievementStates returns every stored state of a user keyed by achievement ID.
func (r *AchievementRepository) GetAchievementStates(_ context.Context, userID string) (_ map[string]models.AchievementState, err error) {
	defer observe("list", bucketAchievements, time.Now(), &err)
	out := make(map[string]models.AchievementState)
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, userScope(prefixAchievement, userID), false, func(_ string, st *models.AchievementState) bool {
			out[st.AchievementID] = *st
			return true
		})
	})
	return out, err
}

// SaveAchievementState upserts one state.
func (r *AchievementRepository) SaveAchievementState(_ context.Context, st *models.AchievementState) (err error) {
	defer observe("save", bucketAchievements, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, userScope(prefixAchievement, st.UserID)+st.AchievementID, st)
	})
}

// ChallengeRepository stores challenges. It implements
// gamification.ChallengeRepository.
type ChallengeRepository struct {
	s *Store
}

// NewChallengeRepository creates a challenge repository.
func NewChallengeRepository(s *Store) *ChallengeRepository {
	return &ChallengeRepository{s: s}
}

func challengeKey(id string) string             { return prefixChallenge + id }
func challengeUserKey(userID, id string) string { return userScope(prefixChallengeUser, userID) + id }

// SaveChallenge upserts a challenge.
func (r *ChallengeRepository) SaveChallenge(_ context.Context, c *models.Challenge) (err error) {
	defer observe("save", bucketChallenges, time.Now(), &err)
	return r.s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, challengeKey(c.ID), c); err != nil {
			return err
		}
		return txn.Set([]byte(challengeUserKey(c.UserID, c.ID)), []byte{})
	})
}

// GetChallenge returns gamification.ErrChallengeNotFound when the challenge
// does not exist.
func (r *ChallengeRepository) GetChallenge(_ context.Context, id string) (_ *models.Challenge, err error) {
	defer observe("get", bucketChallenges, time.Now(), &err)
	var c models.Challenge
	err = r.s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, challengeKey(id), &c)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, gamification.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChallenges returns the challenges of a user.
func (r *ChallengeRepository) ListChallenges(_ context.Context, userID string) (_ []models.Challenge, err error) {
	defer observe("list", bucketChallenges, time.Now(), &err)
	var out []models.Challenge
	err = r.s.db.View(func(txn *badger.Txn) error {
		prefix := userScope(prefixChallengeUser, userID)
		for _, key := range scanKeys(txn, prefix) {
			id := strings.TrimPrefix(key, prefix)
			var c models.Challenge
			if err := getJSON(txn, challengeKey(id), &c); err != nil {
				if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorruptRecord) {
					r.s.logger.Warn().Err(err).Str("challenge_id", id).Msg("Skipping unreadable challenge")
					continue
				}
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

// DeleteChallenges removes every challenge for which match returns true.
func (r *ChallengeRepository) DeleteChallenges(_ context.Context, match func(*models.Challenge) bool) (n int, err error) {
	defer observe("purge", bucketChallenges, time.Now(), &err)
	var doomed []models.Challenge
	err = r.s.db.View(func(txn *badger.Txn) error {
		return scan(r.s, txn, prefixChallenge, false, func(_ string, c *models.Challenge) bool {
			if match(c) {
				doomed = append(doomed, *c)
			}
			return true
		})
	})
	if err != nil {
		return 0, err
	}

	err = r.s.db.Update(func(txn *badger.Txn) error {
		for i := range doomed {
			if err := deleteKey(txn, challengeKey(doomed[i].ID)); err != nil {
				return err
			}
			if err := deleteKey(txn, challengeUserKey(doomed[i].UserID, doomed[i].ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(doomed), nil
}

// ledgerBalance is the stored point balance of a user.
type ledgerBalance struct {
	Points     int       `json:"points"`
	LastSource string    `json:"last_source,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LedgerRepository stores reward point balances. It implements
// gamification.Ledger.
type LedgerRepository struct {
	s *Store
}

// NewLedgerRepository creates a ledger repository.
func NewLedgerRepository(s *Store) *LedgerRepository {
	return &LedgerRepository{s: s}
}

func pointsKey(userID string) string { return userScope(prefixPoints, userID) }

// AddPoints credits points and returns the new total. Credits to one user
// are serialised, and a transaction that still loses a conflict is retried,
// so concurrent rewards are all counted.
func (r *LedgerRepository) AddPoints(ctx context.Context, userID string, points int, source string) (total int, err error) {
	defer observe("add", bucketPoints, time.Now(), &err)
	unlock := r.s.locks.Lock(pointsKey(userID))
	defer unlock()

	for attempt := 1; ; attempt++ {
		total, err = r.addPoints(userID, points, source)
		if !errors.Is(err, badger.ErrConflict) || attempt == ledgerAttempts {
			break
		}
		r.s.logger.Debug().Str("user_id", userID).Int("attempt", attempt).Msg("Retrying point credit after conflict")
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * ledgerBackoff):
		}
	}
	if err != nil {
		return 0, fmt.Errorf("credit %d points to %s: %w", points, userID, err)
	}
	return total, nil
}

func (r *LedgerRepository) addPoints(userID string, points int, source string) (total int, err error) {
	err = r.s.db.Update(func(txn *badger.Txn) error {
		var bal ledgerBalance
		if err := getJSON(txn, pointsKey(userID), &bal); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		bal.Points += points
		bal.LastSource = source
		bal.UpdatedAt = time.Now().UTC()
		total = bal.Points
		return setJSON(txn, pointsKey(userID), &bal)
	})
	return total, err
}

// Points returns the current balance of a user.
func (r *LedgerRepository) Points(_ context.Context, userID string) (_ int, err error) {
	defer observe("get", bucketPoints, time.Now(), &err)
	var bal ledgerBalance
	err = r.s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, pointsKey(userID), &bal)
	})
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal.Points, nil
}
