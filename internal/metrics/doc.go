// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed by the API server at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

Recommendations:
  - recommend_requests_total{result}: hit, miss or error
  - recommend_duration_seconds
  - recommendations_generated_total{type}
  - recommend_persist_errors_total

Snapshot assembly:
  - snapshot_facet_duration_seconds{facet}
  - snapshot_facet_failures_total{facet}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Progression:
  - plan_transitions_total{to_status}
  - plan_weeks_completed_total
  - achievements_unlocked_total{type}
  - challenges_completed_total{period}
  - points_awarded_total{source}
  - notifications_published_total{event_type, result}

Storage and maintenance:
  - store_operation_duration_seconds{operation, bucket}
  - store_errors_total{operation, bucket}
  - maintenance_runs_total{task, result}

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation("miss", time.Since(start))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
