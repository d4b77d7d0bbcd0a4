// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Store        StoreConfig        `koanf:"store"`
	Engine       EngineConfig       `koanf:"engine"`
	Plan         PlanConfig         `koanf:"plan"`
	Gamification GamificationConfig `koanf:"gamification"`
	Notify       NotifyConfig       `koanf:"notify"`
	Security     SecurityConfig     `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development dev production prod"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig holds BadgerDB settings.
type StoreConfig struct {
	// Path is the data directory. Not used when InMemory is set.
	Path     string `koanf:"path" validate:"required_without=InMemory"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often value log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval" validate:"gt=0"`

	// GCDiscardRatio is the fraction of stale data a value log file needs
	// before it is rewritten.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio" validate:"gt=0,lt=1"`
}

// EngineConfig tunes recommendation generation and snapshot assembly.
type EngineConfig struct {
	MaxResults int `koanf:"max_results" validate:"min=1,max=10"`
	TodayLimit int `koanf:"today_limit" validate:"min=1,max=10"`

	CacheEnabled  bool          `koanf:"cache_enabled"`
	CacheCapacity int           `koanf:"cache_capacity" validate:"min=1"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	GapWindowDays    int           `koanf:"gap_window_days" validate:"min=1,max=90"`
	ScoreHistoryDays int           `koanf:"score_history_days" validate:"min=1,max=365"`
	FetchTimeout     time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
	BreakerFailures  uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`

	// Plan nudges.
	StalledProgress   float64 `koanf:"stalled_progress" validate:"gte=0,lte=1"`
	StalledAfterDays  int     `koanf:"stalled_after_days" validate:"gte=0"`
	FinishingProgress float64 `koanf:"finishing_progress" validate:"gte=0,lte=1"`
	FinishingDaysLeft int     `koanf:"finishing_days_left" validate:"gte=0"`
}

// PlanConfig tunes plan progress tracking.
type PlanConfig struct {
	DailyTaskQuota     int `koanf:"daily_task_quota" validate:"min=1"`
	ProgressWindowDays int `koanf:"progress_window_days" validate:"min=1,max=28"`
}

// GamificationConfig tunes the maintenance cycle.
type GamificationConfig struct {
	// MaintenanceInterval is how often expired challenges, recommendations
	// and cache entries are purged.
	MaintenanceInterval time.Duration `koanf:"maintenance_interval" validate:"gt=0"`
}

// NotifyConfig holds the in-process event bus settings.
type NotifyConfig struct {
	Topic      string `koanf:"topic" validate:"required"`
	BufferSize int64  `koanf:"buffer_size" validate:"gte=0"`

	// LogEvents subscribes a consumer that logs every published event.
	LogEvents bool `koanf:"log_events"`

	// StreamEvents serves events to WebSocket clients at
	// /ws/users/{userID}/events.
	StreamEvents bool `koanf:"stream_events"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
