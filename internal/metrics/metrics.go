// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Recommendations returned after deduplication and ranking, by type",
		},
		[]string{"type"},
	)

	RecommendPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_persist_errors_total",
			Help: "Failed attempts to persist generated recommendations",
		},
	)

	// Snapshot Metrics
	SnapshotFacetDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_facet_duration_seconds",
			Help:    "Duration of snapshot facet fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"facet"},
	)

	SnapshotFacetFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_facet_failures_total",
			Help: "Snapshot facets that degraded to their empty value",
		},
		[]string{"facet"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Plan Metrics
	PlanTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_transitions_total",
			Help: "Improvement plan status transitions",
		},
		[]string{"to_status"},
	)

	PlanWeeksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plan_weeks_completed_total",
			Help: "Plan weeks marked complete",
		},
	)

	// Gamification Metrics
	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements unlocked",
		},
		[]string{"type"},
	)

	ChallengesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenges_completed_total",
			Help: "Challenges completed",
		},
		[]string{"period"},
	)

	PointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Points credited to user ledgers",
		},
		[]string{"source"},
	)

	// Notification Metrics
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Notification events published",
		},
		[]string{"event_type", "result"},
	)

	EventStreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_stream_clients",
			Help: "Connected event stream WebSocket clients",
		},
	)

	EventStreamDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_stream_dropped_total",
			Help: "Events dropped because a stream client or the hub was full",
		},
	)

	// Maintenance Metrics
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_runs_total",
			Help: "Background maintenance task runs",
		},
		[]string{"task", "result"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "bucket"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Store operation errors",
		},
		[]string{"operation", "bucket"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one engine call. result is "hit", "miss" or "error".
func RecordRecommendation(result string, duration time.Duration) {
	RecommendRequests.WithLabelValues(result).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordGenerated counts returned recommendations by type.
func RecordGenerated(recType string, n int) {
	RecommendationsGenerated.WithLabelValues(recType).Add(float64(n))
}

// RecordSnapshotFacet records a facet fetch. Failed fetches are counted separately.
func RecordSnapshotFacet(facet string, duration time.Duration, err error) {
	SnapshotFacetDuration.WithLabelValues(facet).Observe(duration.Seconds())
	if err != nil {
		SnapshotFacetFailures.WithLabelValues(facet).Inc()
	}
}

// RecordStoreOperation records a store operation metric
func RecordStoreOperation(operation, bucket string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, bucket).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation, bucket).Inc()
	}
}

// RecordNotification records a published notification.
func RecordNotification(eventType string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsPublished.WithLabelValues(eventType, result).Inc()
}

// RecordMaintenance records a maintenance task run.
func RecordMaintenance(task string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MaintenanceRuns.WithLabelValues(task, result).Inc()
}
