package audio

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
)

type recordingBackend struct {
	mu    sync.Mutex
	calls []string
	ended chan Channel
	fail  bool
}

func (b *recordingBackend) record(format string, args ...interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
	if b.fail {
		return fmt.Errorf("device unavailable")
	}
	return nil
}

func (b *recordingBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *recordingBackend) Play(_ context.Context, ch Channel, path string, v float64) error {
	return b.record("play %s %s %.1f", ch, path, v)
}
func (b *recordingBackend) Pause(_ context.Context, ch Channel) error  { return b.record("pause %s", ch) }
func (b *recordingBackend) Resume(_ context.Context, ch Channel) error { return b.record("resume %s", ch) }
func (b *recordingBackend) Stop(_ context.Context, ch Channel) error   { return b.record("stop %s", ch) }
func (b *recordingBackend) SetVolume(_ context.Context, v float64) error {
	return b.record("volume %.1f", v)
}
func (b *recordingBackend) Ended() <-chan Channel { return b.ended }

func runDirector(t *testing.T, d *Director) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestDirector_AppliesCuesInOrder(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDirector(backend, DefaultSoundtrack(), nil)
	runDirector(t, d)

	d.Enqueue(
		Cue{Kind: CuePause, Channel: ChannelAmbient},
		Cue{Kind: CueEnterBattle},
		Cue{Kind: CuePlay, Channel: ChannelBattle, Track: "Battle1.mp3", Volume: 0.4},
	)
	d.Emit(signal.Signal{Kind: signal.AudioCue, Payload: Cue{Kind: CueVolume, Volume: 0.5}})
	d.Emit(signal.Signal{Kind: signal.EntryChanged, Payload: Cue{Kind: CueStop, Channel: ChannelBattle}})

	want := []string{
		"pause ambient",
		"play battle audio/Battle1.mp3 0.4",
		"volume 0.5",
	}
	require.Eventually(t, func() bool { return len(backend.Calls()) == len(want) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, want, backend.Calls())
}

func TestDirector_RelaysEnded(t *testing.T) {
	backend := &recordingBackend{ended: make(chan Channel, 1)}
	d := NewDirector(backend, nil, nil)

	got := make(chan Channel, 1)
	d.OnEnded = func(_ context.Context, ch Channel) { got <- ch }
	runDirector(t, d)

	backend.ended <- ChannelAmbient
	select {
	case ch := <-got:
		assert.Equal(t, ChannelAmbient, ch)
	case <-time.After(time.Second):
		t.Fatal("ended event not relayed")
	}
}

func TestDirector_BackendErrorsDoNotStopRun(t *testing.T) {
	backend := &recordingBackend{fail: true}
	d := NewDirector(backend, nil, nil)
	runDirector(t, d)

	d.Enqueue(Cue{Kind: CueStop, Channel: ChannelBattle}, Cue{Kind: CueResume, Channel: ChannelAmbient})
	require.Eventually(t, func() bool { return len(backend.Calls()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDirector_RunStopsOnCancel(t *testing.T) {
	d := NewDirector(NewLogBackend(nil), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Run(ctx), context.Canceled)
}
