// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package store persists goals, food records, plans, recommendations and
gamification state in BadgerDB.

Every record is stored as a JSON document under a typed key prefix. Records
owned by a user carry a user scope, <len>:<userID>:, in the key so per-user
listings are prefix scans. The length keeps the scope of "alice" from
matching keys of "alice:mallory":

	goal:<scope><goalID>                models.HealthGoal
	record:<scope><unixnano>:<id>       models.FoodRecord
	plan:<planID>                       models.ImprovementPlan
	plan_user:<scope><planID>           plan ID (index)
	progress:<planID>:<YYYY-MM-DD>      models.DailyProgress
	rec:<scope><recID>                  models.Recommendation
	ach:<scope><achievementID>          models.AchievementState
	challenge:<challengeID>             models.Challenge
	challenge_user:<scope><id>          challenge ID (index)
	points:<scope>                      ledgerBalance
	prefs:<scope>                       models.UserPreferences

A document that fails to decode yields ErrCorruptRecord for single reads.
Listings skip and log corrupt documents so one bad record never hides the
rest.
*/
package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
)

// Key prefixes.
const (
	prefixGoal          = "goal:"
	prefixRecord        = "record:"
	prefixPlan          = "plan:"
	prefixPlanUser      = "plan_user:"
	prefixProgress      = "progress:"
	prefixRecommend     = "rec:"
	prefixAchievement   = "ach:"
	prefixChallenge     = "challenge:"
	prefixChallengeUser = "challenge_user:"
	prefixPoints        = "points:"
	prefixPreferences   = "prefs:"
)

// userScope is the key prefix of everything prefix holds for userID.
func userScope(prefix, userID string) string {
	return prefix + strconv.Itoa(len(userID)) + ":" + userID + ":"
}

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCorruptRecord is returned when a stored document cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Config configures the BadgerDB store.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string `koanf:"path" validate:"required_without=InMemory"`

	// InMemory keeps all data in memory.
	InMemory bool `koanf:"in_memory"`
}

// Store owns the BadgerDB handle shared by the repositories.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger

	// locks serialises read-modify-write sequences on shared documents
	// such as a user's point balance.
	locks *KeyedMutex
}

// Open opens the database described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil) // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
		locks:  NewKeyedMutex(),
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs one round of value log garbage collection. It returns nil when
// there was nothing to collect.
func (s *Store) RunGC(discardRatio float64) error {
	if s.db.Opts().InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// observe records an operation metric. Use with defer and a named error.
func observe(operation, bucket string, start time.Time, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	if errors.Is(e, ErrNotFound) {
		e = nil
	}
	metrics.RecordStoreOperation(operation, bucket, time.Since(start), e)
}

// getJSON decodes the document at key into v.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
		}
		return nil
	})
}

// setJSON encodes v and stores it at key.
func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// deleteKey removes key, ignoring missing keys.
func deleteKey(txn *badger.Txn, key string) error {
	if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// exists reports whether key is present.
func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get %s: %w", key, err)
	}
}

// scan decodes every document under prefix, calling fn with each value in
// key order. Corrupt documents are logged and skipped. reverse iterates
// from the largest key.
func scan[T any](s *Store, txn *badger.Txn, prefix string, reverse bool, fn func(key string, v *T) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = []byte(prefix)
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := []byte(prefix)
	if reverse {
		seek = append([]byte(prefix), 0xFF)
	}
	for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
		item := it.Item()
		key := string(item.Key())

		var v T
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Skipping corrupt record")
			continue
		}
		if !fn(key, &v) {
			return nil
		}
	}
	return nil
}

// scanKeys returns the keys under prefix without loading values.
func scanKeys(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []string
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys
}
