// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/websocket"
)

func newStreamServer(t *testing.T, hub *websocket.Hub) *httptest.Server {
	t.Helper()
	h := NewHandler(Deps{}, Limits{})
	if hub != nil {
		h.WithEventStream(hub, []string{"https://app.example.com"})
	}
	srv := httptest.NewServer(NewRouter(h, NewMiddleware(testMiddlewareConfig())))
	t.Cleanup(srv.Close)
	return srv
}

func streamURL(srv *httptest.Server, userID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/users/" + userID + "/events"
}

func TestEventStream(t *testing.T) {
	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	srv := newStreamServer(t, hub)

	conn, resp, err := gorillaws.DefaultDialer.Dial(streamURL(srv, "u1"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	deadline := time.Now().Add(time.Second)
	for hub.UserClientCount("u1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.BroadcastEvent(models.Event{Type: models.EventAchievementUnlocked, UserID: "u2", Title: "other user"})
	hub.BroadcastEvent(models.Event{Type: models.EventLevelUp, UserID: "u1", Level: 3})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string       `json:"type"`
		Data models.Event `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != string(models.EventLevelUp) || msg.Data.Level != 3 {
		t.Errorf("message = %+v, want level_up for u1", msg)
	}

	if err := conn.WriteJSON(map[string]string{"type": websocket.MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() pong error = %v", err)
	}
	if msg.Type != websocket.MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestEventStream_RejectsOrigin(t *testing.T) {
	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	srv := newStreamServer(t, hub)

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	conn, resp, err := gorillaws.DefaultDialer.Dial(streamURL(srv, "u1"), header)
	if err == nil {
		conn.Close()
		t.Fatal("Dial() succeeded from an unauthorized origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}

	header.Set("Origin", "https://app.example.com")
	conn, _, err = gorillaws.DefaultDialer.Dial(streamURL(srv, "u1"), header)
	if err != nil {
		t.Fatalf("Dial() from allowed origin error = %v", err)
	}
	conn.Close()
}

func TestEventStream_Unavailable(t *testing.T) {
	srv := newStreamServer(t, nil)

	resp, err := http.Get(srv.URL + "/ws/users/u1/events")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
