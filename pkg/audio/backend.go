package audio

import (
	"context"
	"log/slog"
)

// Backend plays audio. Each call returns once the operation has taken
// effect. Ended reports channels whose track finished on its own; a nil
// channel means the backend never reports completion.
type Backend interface {
	Play(ctx context.Context, ch Channel, path string, volume float64) error
	Pause(ctx context.Context, ch Channel) error
	Resume(ctx context.Context, ch Channel) error
	Stop(ctx context.Context, ch Channel) error
	SetVolume(ctx context.Context, volume float64) error
	Ended() <-chan Channel
}

// LogBackend logs playback instead of producing sound. It is the console
// default, since playback itself is left to the host.
type LogBackend struct {
	Log *slog.Logger
}

// NewLogBackend creates a LogBackend.
func NewLogBackend(log *slog.Logger) *LogBackend {
	if log == nil {
		log = slog.Default()
	}
	return &LogBackend{Log: log}
}

func (b *LogBackend) Play(ctx context.Context, ch Channel, path string, volume float64) error {
	b.Log.InfoContext(ctx, "audio play", "channel", ch, "path", path, "volume", volume)
	return nil
}

func (b *LogBackend) Pause(ctx context.Context, ch Channel) error {
	b.Log.InfoContext(ctx, "audio pause", "channel", ch)
	return nil
}

func (b *LogBackend) Resume(ctx context.Context, ch Channel) error {
	b.Log.InfoContext(ctx, "audio resume", "channel", ch)
	return nil
}

func (b *LogBackend) Stop(ctx context.Context, ch Channel) error {
	b.Log.InfoContext(ctx, "audio stop", "channel", ch)
	return nil
}

func (b *LogBackend) SetVolume(ctx context.Context, volume float64) error {
	b.Log.InfoContext(ctx, "audio volume", "volume", volume)
	return nil
}

func (b *LogBackend) Ended() <-chan Channel { return nil }
