// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

// Package notify publishes progression events (achievement unlocks, level
// ups, rewards, completed challenges and plan weeks) on an in-process
// Watermill Go channel pub/sub.
//
// Notify is fire-and-forget: publish failures are logged and counted but
// never returned, so a broken notification path cannot fail the operation
// that produced the event.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/logging"
	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
)

// Message metadata keys.
const (
	MetadataEventType     = "event_type"
	MetadataUserID        = "user_id"
	MetadataCorrelationID = "correlation_id"
)

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("notifier closed")

// Config configures the notifier.
type Config struct {
	// Topic is the pub/sub topic events are published on.
	Topic string `koanf:"topic" validate:"required"`

	// BufferSize is the per-subscriber output buffer.
	BufferSize int64 `koanf:"buffer_size" validate:"min=0"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{Topic: "nutricoach.events", BufferSize: 256}
}

// Notifier publishes events to subscribers of its topic.
type Notifier struct {
	pubsub *gochannel.GoChannel
	topic  string
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// New creates a notifier.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) *Notifier {
	if cfg.Topic == "" {
		cfg.Topic = DefaultConfig().Topic
	}
	logger = logger.With().Str("component", "notify").Logger()
	wmLogger := watermill.NewSlogLogger(slog.New(logging.NewSlogHandler(logger)))

	return &Notifier{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, wmLogger),
		topic:  cfg.Topic,
		logger: logger,
	}
}

// Notify publishes event. Errors are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, event models.Event) {
	err := n.publish(ctx, event)
	metrics.RecordNotification(string(event.Type), err)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("event_type", string(event.Type)).
			Str("user_id", event.UserID).
			Msg("Failed to publish notification")
	}
}

func (n *Notifier) publish(ctx context.Context, event models.Event) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	id := event.ID
	if id == "" {
		id = watermill.NewUUID()
	}
	msg := message.NewMessage(id, payload)
	msg.Metadata.Set(MetadataEventType, string(event.Type))
	msg.Metadata.Set(MetadataUserID, event.UserID)
	if cid := logging.CorrelationIDFromContext(ctx); cid != "" {
		msg.Metadata.Set(MetadataCorrelationID, cid)
	}

	if err := n.pubsub.Publish(n.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe returns a channel of decoded events. The channel closes when ctx
// is done or the notifier is closed. Undecodable messages are acked and
// dropped.
func (n *Notifier) Subscribe(ctx context.Context) (<-chan models.Event, error) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return nil, ErrClosed
	}
	messages, err := n.pubsub.Subscribe(ctx, n.topic)
	n.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan models.Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var event models.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				n.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable notification")
				msg.Ack()
				continue
			}
			select {
			case out <- event:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

// Close stops the pub/sub. Subscriber channels are closed.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.pubsub.Close()
}
