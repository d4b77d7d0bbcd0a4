// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/snapshot"
)

var (
	// ErrNoRepository is returned by operations that need persistence when no
	// repository is configured.
	ErrNoRepository = errors.New("recommendation repository not configured")

	// ErrRecommendationNotFound is returned when marking an unknown recommendation.
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// Strategy produces recommendations from a context. Implementations must be
// pure: no I/O, no mutation of the context.
type Strategy interface {
	// Name returns the strategy identifier used in logs and metadata.
	Name() string

	// Generate returns the strategy's recommendations for rc.
	Generate(rc *models.RecommendationContext) []models.Recommendation
}

// Assembler builds the recommendation context for a request.
// snapshot.Aggregator is the production implementation.
type Assembler interface {
	Assemble(ctx context.Context, req snapshot.Request) (*models.RecommendationContext, error)
}

// Repository persists generated recommendations and their read/applied state.
type Repository interface {
	// SaveRecommendations upserts recs, keeping read/applied flags of
	// recommendations that already exist.
	SaveRecommendations(ctx context.Context, userID string, recs []models.Recommendation) error

	// MarkRead flags a recommendation as read. It returns
	// ErrRecommendationNotFound for unknown IDs.
	MarkRead(ctx context.Context, userID, id string) error

	// MarkApplied flags a recommendation as acted upon.
	MarkApplied(ctx context.Context, userID, id string) error

	// ListRecommendations returns the most recent recommendations, newest first.
	ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
}

// Response is the result of Engine.Recommend.
type Response struct {
	// UserID is the user the list was generated for.
	UserID string `json:"user_id"`

	// Recommendations is the ranked, deduplicated list.
	Recommendations []models.Recommendation `json:"recommendations"`

	// Scenario is the human-readable scenario at generation time.
	Scenario string `json:"scenario,omitempty"`

	// GeneratedAt is the context timestamp the list was generated for.
	GeneratedAt time.Time `json:"generated_at"`

	// CacheHit is true when the list was served from the cache.
	CacheHit bool `json:"cache_hit"`

	// LatencyMS is the end-to-end latency of the call.
	LatencyMS int64 `json:"latency_ms"`
}

// Metrics is a snapshot of the engine counters.
type Metrics struct {
	RequestCount  int64    `json:"request_count"`
	CacheHits     int64    `json:"cache_hits"`
	CacheMisses   int64    `json:"cache_misses"`
	ErrorCount    int64    `json:"error_count"`
	PersistErrors int64    `json:"persist_errors"`
	Generated     int64    `json:"generated"`
	Strategies    []string `json:"strategies"`
	RuleCount     int      `json:"rule_count"`
}
