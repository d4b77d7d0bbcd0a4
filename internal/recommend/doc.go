// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package recommend implements the recommendation engine.
//
// # Architecture
//
// A request flows through three stages:
//
//   - Assembly: a snapshot.Aggregator loads gaps, patterns, scores, goals and
//     plans into one immutable models.RecommendationContext
//   - Generation: every registered Strategy plus the rule set runs against the
//     context; plan nudges are added when plans were loaded
//   - Finalisation: deduplication, stable ranking and the result cap
//
// # Ordering Guarantees
//
//   - Duplicates share (type, title, type-specific metadata); the first
//     generated one is kept, so strategy registration order matters
//   - Ranking is by priority then confidence, both descending; ties keep
//     generation order
//   - At most MaxRecommendations are returned
//   - IDs are derived from user, day and dedup key, so the same advice keeps
//     its ID for the whole day
//
// # Usage
//
//	engine, err := recommend.NewDefaultEngine(recommend.DefaultConfig(), logger)
//	engine.SetAssembler(aggregator)
//	engine.SetRepository(store.NewRecommendationRepository(db))
//
//	resp, err := engine.Recommend(ctx, snapshot.Request{UserID: userID})
//	top := recommend.TopN(resp.Recommendations, 3)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Generated lists are cached per user
// until their TTL expires or InvalidateUser is called.
package recommend
