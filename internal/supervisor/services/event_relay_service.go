// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package services

import (
	"context"

	"github.com/tomtom215/nutricoach/internal/models"
)

// EventSink receives relayed events. Satisfied by *websocket.Hub.
type EventSink interface {
	BroadcastEvent(event models.Event)
}

// EventRelayService forwards every published event to a sink, such as the
// WebSocket hub that streams events to clients.
type EventRelayService struct {
	source EventSource
	sink   EventSink
	name   string
}

// NewEventRelayService creates the relay.
func NewEventRelayService(source EventSource, sink EventSink) *EventRelayService {
	return &EventRelayService{source: source, sink: sink, name: "event-relay"}
}

// Serve implements suture.Service.
func (s *EventRelayService) Serve(ctx context.Context) error {
	return consumeEvents(ctx, s.source, s.sink.BroadcastEvent)
}

// String names the service in supervisor events.
func (s *EventRelayService) String() string {
	return s.name
}
