package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
)

func setup(t *testing.T) (*Broadcaster, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil))), client
}

func subscribe(t *testing.T, client *redis.Client, sessionID uuid.UUID) <-chan *redis.Message {
	t.Helper()
	ctx := context.Background()
	sub := client.Subscribe(ctx, Channel(sessionID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub.Channel()
}

func receive(t *testing.T, ch <-chan *redis.Message) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublish(t *testing.T) {
	b, client := setup(t)
	session := uuid.New()
	msgs := subscribe(t, client, session)

	err := b.Publish(context.Background(), signal.Signal{
		Kind:      signal.MusicEnabledChanged,
		SessionID: session,
		Payload:   true,
		At:        time.Now(),
	})
	require.NoError(t, err)

	ev := receive(t, msgs)
	assert.Equal(t, signal.MusicEnabledChanged, ev.Type)
	assert.Equal(t, session.String(), ev.SessionID)
	assert.JSONEq(t, "true", string(ev.Data))
}

func TestRun_PublishesQueuedSignalsInOrder(t *testing.T) {
	b, client := setup(t)
	session := uuid.New()
	msgs := subscribe(t, client, session)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	b.Emit(signal.Signal{Kind: signal.EntryChanged, SessionID: session, Payload: map[string]string{"id": "7"}})
	b.Emit(signal.Signal{Kind: signal.VolumeChanged, SessionID: session, Payload: 0.4})

	first := receive(t, msgs)
	second := receive(t, msgs)
	assert.Equal(t, signal.EntryChanged, first.Type)
	assert.JSONEq(t, `{"id":"7"}`, string(first.Data))
	assert.Equal(t, signal.VolumeChanged, second.Type)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEmit_DropsWhenFull(t *testing.T) {
	b, _ := setup(t)
	for i := 0; i < DefaultBufferSize+3; i++ {
		b.Emit(signal.Signal{Kind: signal.AudioCue})
	}
	assert.Equal(t, int64(3), b.Dropped())
}

func TestPublish_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := b.Publish(context.Background(), signal.Signal{Kind: signal.Error, SessionID: uuid.New(), Payload: "boom"})
	assert.Error(t, err)
}

func TestPublish_UnmarshalablePayload(t *testing.T) {
	b, _ := setup(t)
	err := b.Publish(context.Background(), signal.Signal{Kind: signal.Error, Payload: make(chan int)})
	assert.Error(t, err)
}
