// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"fmt"
	"time"
)

// MaxRecommendations is the hard cap on the length of a generated list.
const MaxRecommendations = 10

// Config holds recommendation engine configuration.
type Config struct {
	Limits LimitsConfig `json:"limits"`
	Cache  CacheConfig  `json:"cache"`
	Plans  PlanConfig   `json:"plans"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxResults is the number of recommendations returned, at most MaxRecommendations.
	// Default: 10.
	MaxResults int `json:"max_results"`

	// TodayLimit is the default N for the today's-top-N query.
	// Default: 3.
	TodayLimit int `json:"today_limit"`
}

// CacheConfig contains caching parameters for generated lists.
type CacheConfig struct {
	// Enabled controls whether generated lists are cached per user.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached list is served.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the number of users whose lists are kept. The least
	// recently inserted list is evicted first.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// PlanConfig tunes the plan nudges added next to strategy output.
type PlanConfig struct {
	// StalledProgress is the progress below which an active plan is stalled.
	// Default: 0.3.
	StalledProgress float64 `json:"stalled_progress"`

	// StalledAfterDays is how many days must pass before a plan can stall.
	// Default: 7.
	StalledAfterDays int `json:"stalled_after_days"`

	// FinishingProgress is the progress above which a plan is nearly done.
	// Default: 0.8.
	FinishingProgress float64 `json:"finishing_progress"`

	// FinishingDaysLeft is the remaining days under which a plan is finishing.
	// Default: 7.
	FinishingDaysLeft int `json:"finishing_days_left"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxResults: MaxRecommendations,
			TodayLimit: 3,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
		},
		Plans: PlanConfig{
			StalledProgress:   0.3,
			StalledAfterDays:  7,
			FinishingProgress: 0.8,
			FinishingDaysLeft: 7,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.MaxResults < 1 || c.Limits.MaxResults > MaxRecommendations {
		return fmt.Errorf("limits.max_results must be in [1, %d], got %d", MaxRecommendations, c.Limits.MaxResults)
	}
	if c.Limits.TodayLimit < 1 {
		return fmt.Errorf("limits.today_limit must be positive, got %d", c.Limits.TodayLimit)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	if c.Plans.StalledProgress < 0 || c.Plans.StalledProgress > 1 {
		return fmt.Errorf("plans.stalled_progress must be in [0, 1], got %f", c.Plans.StalledProgress)
	}
	if c.Plans.FinishingProgress < 0 || c.Plans.FinishingProgress > 1 {
		return fmt.Errorf("plans.finishing_progress must be in [0, 1], got %f", c.Plans.FinishingProgress)
	}
	if c.Plans.StalledAfterDays < 0 || c.Plans.FinishingDaysLeft < 0 {
		return fmt.Errorf("plans day thresholds must be non-negative")
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
