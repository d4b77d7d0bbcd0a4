// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))

	RecordAPIRequest("GET", "/api/v1/health", "200", 5*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/health", "200", 7*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordSnapshotFacet(t *testing.T) {
	tests := []struct {
		name        string
		facet       string
		err         error
		wantFailure float64
	}{
		{name: "success", facet: "test_gaps", err: nil, wantFailure: 0},
		{name: "failure", facet: "test_goals", err: errors.New("timeout"), wantFailure: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SnapshotFacetFailures.WithLabelValues(tt.facet))
			RecordSnapshotFacet(tt.facet, time.Millisecond, tt.err)
			after := testutil.ToFloat64(SnapshotFacetFailures.WithLabelValues(tt.facet))
			if after-before != tt.wantFailure {
				t.Errorf("failure delta = %v, want %v", after-before, tt.wantFailure)
			}
		})
	}
}

func TestRecordNotificationAndMaintenance(t *testing.T) {
	okBefore := testutil.ToFloat64(NotificationsPublished.WithLabelValues("level_up", "success"))
	failBefore := testutil.ToFloat64(MaintenanceRuns.WithLabelValues("purge", "failure"))

	RecordNotification("level_up", nil)
	RecordMaintenance("purge", errors.New("disk full"))

	if d := testutil.ToFloat64(NotificationsPublished.WithLabelValues("level_up", "success")) - okBefore; d != 1 {
		t.Errorf("notification success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(MaintenanceRuns.WithLabelValues("purge", "failure")) - failBefore; d != 1 {
		t.Errorf("maintenance failure delta = %v, want 1", d)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("hit"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordRecommendation("hit", time.Millisecond)
		}()
	}
	wg.Wait()

	if d := testutil.ToFloat64(RecommendRequests.WithLabelValues("hit")) - before; d != 50 {
		t.Errorf("recommend hit delta = %v, want 50", d)
	}
}
