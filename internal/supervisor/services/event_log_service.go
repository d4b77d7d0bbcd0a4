// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/models"
)

var errSubscriptionClosed = errors.New("event subscription closed")

// EventSource delivers published events until ctx ends.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan models.Event, error)
}

// EventLogService writes every progression event to the log. It is the
// in-process stand-in for a push notification consumer.
type EventLogService struct {
	source EventSource
	logger zerolog.Logger
	name   string
}

// NewEventLogService creates the consumer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventLogService(source EventSource, logger zerolog.Logger) *EventLogService {
	return &EventLogService{
		source: source,
		logger: logger.With().Str("service", "event-log").Logger(),
		name:   "event-log",
	}
}

// Serve implements suture.Service.
func (s *EventLogService) Serve(ctx context.Context) error {
	return consumeEvents(ctx, s.source, func(e models.Event) {
		s.logger.Info().
			Str("event_id", e.ID).
			Str("event_type", string(e.Type)).
			Str("user_id", e.UserID).
			Str("title", e.Title).
			Int("points", e.Points).
			Int("level", e.Level).
			Msg("progression event")
	})
}

// String names the service in supervisor events.
func (s *EventLogService) String() string {
	return s.name
}

// consumeEvents subscribes to source and calls handle for every event until
// ctx ends. A closed event channel while ctx is still live is reported as an
// error so the supervisor resubscribes.
func consumeEvents(ctx context.Context, source EventSource, handle func(models.Event)) error {
	events, err := source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errSubscriptionClosed
			}
			handle(e)
		}
	}
}
