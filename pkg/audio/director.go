package audio

import (
	"context"
	"log/slog"

	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
)

// DefaultQueueSize is the cue buffer of a Director.
const DefaultQueueSize = 64

// Director applies cues to a Backend one at a time, in the order they were
// produced, so a pause always completes before the next track starts. It
// also relays the backend's track-ended events to OnEnded.
type Director struct {
	backend    Backend
	soundtrack *Soundtrack
	log        *slog.Logger
	cues       chan Cue

	// OnEnded is called from Run when a channel's track finishes.
	OnEnded func(ctx context.Context, ch Channel)
}

// NewDirector creates a Director. Track files are resolved against st.
func NewDirector(backend Backend, st *Soundtrack, log *slog.Logger) *Director {
	if st == nil {
		st = DefaultSoundtrack()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Director{
		backend:    backend,
		soundtrack: st,
		log:        log,
		cues:       make(chan Cue, DefaultQueueSize),
	}
}

// Enqueue queues cues without blocking. Cues that do not fit are dropped
// and logged.
func (d *Director) Enqueue(cues ...Cue) {
	for _, c := range cues {
		select {
		case d.cues <- c:
		default:
			d.log.Warn("audio cue dropped, queue full", "cue", c.String())
		}
	}
}

// Emit lets the Director sit on the engine's signal sink; only audio cue
// signals are taken.
func (d *Director) Emit(s signal.Signal) {
	if s.Kind != signal.AudioCue {
		return
	}
	if c, ok := s.Payload.(Cue); ok {
		d.Enqueue(c)
	}
}

// Run applies cues until ctx is done. Backend errors are logged and do not
// stop the loop.
func (d *Director) Run(ctx context.Context) error {
	ended := d.backend.Ended()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-d.cues:
			if err := d.apply(ctx, c); err != nil {
				d.log.Error("audio cue failed", "cue", c.String(), "error", err)
			}
		case ch, ok := <-ended:
			if !ok {
				ended = nil
				continue
			}
			d.log.Debug("audio track ended", "channel", ch)
			if d.OnEnded != nil {
				d.OnEnded(ctx, ch)
			}
		}
	}
}

func (d *Director) apply(ctx context.Context, c Cue) error {
	switch c.Kind {
	case CuePlay:
		return d.backend.Play(ctx, c.Channel, d.soundtrack.Path(c.Track), c.Volume)
	case CuePause:
		return d.backend.Pause(ctx, c.Channel)
	case CueResume:
		return d.backend.Resume(ctx, c.Channel)
	case CueStop:
		return d.backend.Stop(ctx, c.Channel)
	case CueVolume:
		return d.backend.SetVolume(ctx, c.Volume)
	}
	// Battle markers are for the presentation.
	return nil
}
