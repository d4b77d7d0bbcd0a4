// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/models"
)

type fakeEventSource struct {
	ch  chan models.Event
	err error
}

func (f *fakeEventSource) Subscribe(context.Context) (<-chan models.Event, error) {
	return f.ch, f.err
}

// syncBuffer guards a bytes.Buffer shared with the service goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEventLogServiceLogsEvents(t *testing.T) {
	src := &fakeEventSource{ch: make(chan models.Event, 1)}
	var out syncBuffer
	svc := NewEventLogService(src, zerolog.New(&out))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	src.ch <- models.Event{ID: "e1", Type: models.EventLevelUp, UserID: "u1", Level: 2}

	deadline := time.Now().Add(time.Second)
	for !strings.Contains(out.String(), `"event_id":"e1"`) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	logged := out.String()
	for _, want := range []string{`"event_id":"e1"`, `"user_id":"u1"`, `"level":2`} {
		if !strings.Contains(logged, want) {
			t.Errorf("log %q missing %s", logged, want)
		}
	}
}

func TestEventLogServiceErrors(t *testing.T) {
	t.Run("subscribe failure", func(t *testing.T) {
		svc := NewEventLogService(&fakeEventSource{err: errors.New("closed")}, zerolog.Nop())
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("channel closed while running", func(t *testing.T) {
		ch := make(chan models.Event)
		close(ch)
		svc := NewEventLogService(&fakeEventSource{ch: ch}, zerolog.Nop())
		err := svc.Serve(context.Background())
		if err == nil || errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want subscription error", err)
		}
	})
}
