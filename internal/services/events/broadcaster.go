package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
)

// ChannelPrefix is prepended to the session id to name the Pub/Sub channel.
const ChannelPrefix = "game-events:"

// DefaultBufferSize bounds the signals waiting to be published.
const DefaultBufferSize = 128

// Event is the wire form of one engine signal.
type Event struct {
	Type      signal.Kind     `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	At        time.Time       `json:"at"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Broadcaster publishes engine signals to Redis Pub/Sub so that other
// processes (a companion web view, a soundboard) can follow a session.
// Emit queues without blocking; Run publishes in order.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
	queue       chan signal.Signal
	dropped     atomic.Int64
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
		queue:       make(chan signal.Signal, DefaultBufferSize),
	}
}

// Channel returns the Pub/Sub channel for a session.
func Channel(sessionID uuid.UUID) string {
	return ChannelPrefix + sessionID.String()
}

// Emit implements signal.Sink.
func (b *Broadcaster) Emit(s signal.Signal) {
	select {
	case b.queue <- s:
	default:
		n := b.dropped.Add(1)
		b.logger.Warn("Event queue full, dropping signal", "kind", s.Kind, "dropped", n)
	}
}

// Dropped returns how many signals were discarded because the queue was full.
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Run publishes queued signals until ctx is done. Publish failures are
// logged and do not stop the loop.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-b.queue:
			_ = b.Publish(ctx, s)
		}
	}
}

// Publish sends one signal immediately.
func (b *Broadcaster) Publish(ctx context.Context, s signal.Signal) error {
	data, err := s.MarshalPayload()
	if err != nil {
		b.logger.Error("Failed to marshal event payload", "error", err, "kind", s.Kind)
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	event := Event{
		Type:      s.Kind,
		SessionID: s.SessionID.String(),
		At:        s.At,
		Data:      data,
	}
	return b.publishToGame(ctx, s.SessionID, event)
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
