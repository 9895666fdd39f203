// Package signal carries engine notifications to presentation and audio
// collaborators.
package signal

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names a signal.
type Kind string

const (
	EntryChanged        Kind = "entry.changed"
	ModeChanged         Kind = "mode.changed"
	MusicEnabledChanged Kind = "music.enabled_changed"
	AudioCue            Kind = "audio.cue"
	VolumeChanged       Kind = "volume.changed"
	Error               Kind = "error"
)

// Signal is one notification. Payload is a value copy owned by the receiver.
type Signal struct {
	Kind      Kind        `json:"kind"`
	SessionID uuid.UUID   `json:"session_id"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

// MarshalPayload encodes the payload as JSON.
func (s Signal) MarshalPayload() ([]byte, error) {
	return json.Marshal(s.Payload)
}

// Sink receives signals. Emit must not block for long: the engine calls it
// while holding its lock.
type Sink interface {
	Emit(s Signal)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Signal)

// Emit calls f.
func (f SinkFunc) Emit(s Signal) { f(s) }

// Discard drops every signal.
var Discard Sink = SinkFunc(func(Signal) {})

// Multi fans a signal out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(sig Signal) {
		for _, s := range live {
			s.Emit(sig)
		}
	})
}

// Filter forwards only the listed kinds.
func Filter(next Sink, kinds ...Kind) Sink {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	return SinkFunc(func(sig Signal) {
		if want[sig.Kind] {
			next.Emit(sig)
		}
	})
}

// Recorder keeps every signal it receives.
type Recorder struct {
	mu      sync.Mutex
	signals []Signal
}

// Emit records s.
func (r *Recorder) Emit(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, s)
}

// Signals returns a copy of everything recorded.
func (r *Recorder) Signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Signal, len(r.signals))
	copy(out, r.signals)
	return out
}

// Kinds returns the kinds recorded, in order.
func (r *Recorder) Kinds() []Kind {
	sigs := r.Signals()
	kinds := make([]Kind, len(sigs))
	for i, s := range sigs {
		kinds[i] = s.Kind
	}
	return kinds
}

// OfKind returns the recorded signals of one kind.
func (r *Recorder) OfKind(k Kind) []Signal {
	var out []Signal
	for _, s := range r.Signals() {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = nil
}
