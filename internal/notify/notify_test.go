// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
)

func TestNotifier_PublishSubscribe(t *testing.T) {
	n := New(DefaultConfig(), zerolog.Nop())
	defer n.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := n.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := models.Event{
		ID:     "evt-1",
		Type:   models.EventAchievementUnlocked,
		UserID: "user-1",
		Title:  "First Bite",
		Points: 10,
		At:     time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
	}
	n.Notify(ctx, sent)

	select {
	case got := <-events:
		if got.ID != sent.ID || got.Type != sent.Type || got.Points != sent.Points || !got.At.Equal(sent.At) {
			t.Errorf("received %+v, want %+v", got, sent)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNotifier_SubscribeAfterClose(t *testing.T) {
	n := New(DefaultConfig(), zerolog.Nop())
	if err := n.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := n.Subscribe(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe() after Close error = %v, want ErrClosed", err)
	}
}

func TestNotifier_NotifyAfterCloseIsCounted(t *testing.T) {
	n := New(Config{Topic: "test.closed"}, zerolog.Nop())
	_ = n.Close()

	counter := metrics.NotificationsPublished.WithLabelValues(string(models.EventLevelUp), "failure")
	before := testutil.ToFloat64(counter)

	// Must not panic or block.
	n.Notify(context.Background(), models.Event{Type: models.EventLevelUp, UserID: "u"})

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestNotifier_SubscriptionEndsWithContext(t *testing.T) {
	n := New(DefaultConfig(), zerolog.Nop())
	defer n.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := n.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not end")
	}
}
