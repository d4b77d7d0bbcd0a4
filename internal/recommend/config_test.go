// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Limits.MaxResults != MaxRecommendations {
		t.Errorf("Limits.MaxResults = %d, want %d", cfg.Limits.MaxResults, MaxRecommendations)
	}
	if cfg.Plans.StalledProgress >= cfg.Plans.FinishingProgress {
		t.Errorf("stalled threshold %v should be below finishing threshold %v",
			cfg.Plans.StalledProgress, cfg.Plans.FinishingProgress)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero max results", mutate: func(c *Config) { c.Limits.MaxResults = 0 }, wantErr: true},
		{name: "max results above cap", mutate: func(c *Config) { c.Limits.MaxResults = 11 }, wantErr: true},
		{name: "zero today limit", mutate: func(c *Config) { c.Limits.TodayLimit = 0 }, wantErr: true},
		{name: "zero ttl with cache", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: true},
		{name: "zero ttl without cache", mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }},
		{name: "zero cache entries", mutate: func(c *Config) { c.Cache.MaxEntries = 0 }, wantErr: true},
		{name: "stalled progress above one", mutate: func(c *Config) { c.Plans.StalledProgress = 1.5 }, wantErr: true},
		{name: "negative finishing days", mutate: func(c *Config) { c.Plans.FinishingDaysLeft = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Cache.TTL = time.Hour
	clone.Limits.MaxResults = 3

	if cfg.Cache.TTL == time.Hour || cfg.Limits.MaxResults == 3 {
		t.Error("modifying the clone changed the original")
	}
}
