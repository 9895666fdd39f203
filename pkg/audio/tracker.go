package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
)

// Tracker remembers the current mode and which channels are sounding, and
// turns mode changes into cues. It updates inBattle and the battle track on
// the game state whether or not music is enabled; cues are produced only
// while music is enabled.
//
// Tracker is not safe for concurrent use; the engine serializes access.
type Tracker struct {
	soundtrack *Soundtrack
	roller     dice.Roller
	log        *slog.Logger

	mode      Mode
	track     string
	sounding  bool
	suspended bool
	paused    map[Channel]string
	volume    *float64
}

// NewTracker creates a tracker in the silent ambient state. A nil roller
// uses dice.DefaultRoller.
func NewTracker(st *Soundtrack, roller dice.Roller, log *slog.Logger) *Tracker {
	if st == nil {
		st = DefaultSoundtrack()
	}
	if roller == nil {
		roller = dice.DefaultRoller
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		soundtrack: st,
		roller:     roller,
		log:        log,
		mode:       Mode{Kind: Ambient, Source: SourceDefault},
		track:      st.AmbientFile(0),
		paused:     make(map[Channel]string),
	}
}

// Mode returns the current mode.
func (t *Tracker) Mode() Mode { return t.mode }

// Track returns the file of the current mode, resolved against the
// soundtrack.
func (t *Tracker) Track() string { return t.track }

// Sounding reports whether a channel is currently playing.
func (t *Tracker) Sounding() bool { return t.sounding }

// Soundtrack returns the manifest in use.
func (t *Tracker) Soundtrack() *Soundtrack { return t.soundtrack }

// Transition moves to next. Re-deriving the mode already in effect yields
// no cues and never restarts a playing track.
func (t *Tracker) Transition(next Mode, gs *state.GameState) ([]Cue, error) {
	if t.same(next) {
		t.mode.Source = next.Source
		if t.sounding || !gs.MusicEnabled {
			return nil, nil
		}
		return t.start(), nil
	}

	prevCh, prevTrack := t.mode.Channel(), t.track
	track, err := t.resolveTrack(next, gs)
	if err != nil {
		return nil, err
	}

	t.log.Debug("music mode changed", "from", t.mode.String(), "to", next.String(), "source", next.Source)
	t.mode = next
	t.track = track
	t.bookkeep(gs)

	if !gs.MusicEnabled {
		return nil, nil
	}
	var cues []Cue
	if t.sounding {
		cues = append(cues, t.leave(prevCh, prevTrack, next.Channel())...)
	}
	return append(cues, t.start()...), nil
}

// MusicOn starts playback of the current mode after music was enabled.
func (t *Tracker) MusicOn(gs *state.GameState) []Cue {
	if !gs.MusicEnabled || t.sounding {
		return nil
	}
	return t.start()
}

// MusicOff silences playback after music was disabled. Ambient is paused
// so it can resume in place; battle and special tracks stop.
func (t *Tracker) MusicOff() []Cue {
	if t.suspended {
		t.suspended = false
		if ch := t.mode.Channel(); ch != ChannelAmbient {
			return t.halt(ch, t.track, false)
		}
		return nil
	}
	if !t.sounding {
		return nil
	}
	t.sounding = false
	ch := t.mode.Channel()
	return t.halt(ch, t.track, ch == ChannelAmbient)
}

// Suspend pauses whatever is sounding, for a modal. The mode is kept, so a
// suspended battle emits no exit marker.
func (t *Tracker) Suspend() []Cue {
	if !t.sounding {
		return nil
	}
	ch := t.mode.Channel()
	t.sounding = false
	t.suspended = true
	t.paused[ch] = t.track
	return []Cue{{Kind: CuePause, Channel: ch, Track: t.track}}
}

// Unsuspend resumes what Suspend paused, if music is still enabled. Music
// switched on while suspended starts normally.
func (t *Tracker) Unsuspend(gs *state.GameState) []Cue {
	if !t.suspended {
		return t.MusicOn(gs)
	}
	t.suspended = false
	if !gs.MusicEnabled {
		return nil
	}
	ch := t.mode.Channel()
	t.sounding = true
	if paused, ok := t.paused[ch]; ok && paused == t.track {
		delete(t.paused, ch)
		return []Cue{{Kind: CueResume, Channel: ch, Track: t.track}}
	}
	delete(t.paused, ch)
	return []Cue{t.play(ch, t.track)}
}

// AmbientEnded handles the backend reporting that the ambient track
// finished. The default playlist advances; an explicit ambient track loops.
func (t *Tracker) AmbientEnded(gs *state.GameState) []Cue {
	if !gs.MusicEnabled || gs.InBattle || !t.sounding || t.mode.Channel() != ChannelAmbient {
		return nil
	}
	if t.mode.Track == "" && len(t.soundtrack.Ambient.Tracks) > 0 {
		gs.CurrentAmbientTrack = (gs.CurrentAmbientTrack + 1) % len(t.soundtrack.Ambient.Tracks)
		t.track = t.soundtrack.AmbientFile(gs.CurrentAmbientTrack)
	}
	delete(t.paused, ChannelAmbient)
	return []Cue{t.play(ChannelAmbient, t.track)}
}

// Reset stops every channel and returns to silent ambient, as for a new
// game.
func (t *Tracker) Reset(gs *state.GameState) []Cue {
	var cues []Cue
	if t.sounding || t.suspended {
		ch := t.mode.Channel()
		cues = append(cues, t.halt(ch, t.track, false)...)
	}
	for _, ch := range Channels {
		if _, ok := t.paused[ch]; ok {
			cues = append(cues, Cue{Kind: CueStop, Channel: ch})
		}
	}
	t.paused = make(map[Channel]string)
	t.sounding = false
	t.suspended = false
	t.mode = Mode{Kind: Ambient, Source: SourceDefault}
	t.track = t.soundtrack.AmbientFile(gs.CurrentAmbientTrack)
	t.bookkeep(gs)
	return cues
}

// Volume returns the volume a channel plays at.
func (t *Tracker) Volume(ch Channel) float64 {
	if t.volume != nil {
		return *t.volume
	}
	return t.soundtrack.Playlist(ch).Volume
}

// AdjustVolume moves the volume of every channel by delta, clamped to
// 0..1, and returns the volume cue.
func (t *Tracker) AdjustVolume(delta float64) Cue {
	v := t.Volume(t.mode.Channel()) + delta
	v = math.Round(math.Max(0, math.Min(1, v))*100) / 100
	t.volume = &v
	return Cue{Kind: CueVolume, Volume: v}
}

func (t *Tracker) same(next Mode) bool {
	if t.mode.Kind != next.Kind {
		return false
	}
	if next.Kind == Battle && next.Track == "" {
		return true
	}
	return t.mode.Track == next.Track
}

func (t *Tracker) resolveTrack(m Mode, gs *state.GameState) (string, error) {
	switch m.Kind {
	case Battle:
		if m.Track != "" {
			return m.Track, nil
		}
		n := len(t.soundtrack.Battle.Tracks)
		if n == 0 {
			return "", nil
		}
		pick, err := t.roller.Roll(n)
		if err != nil {
			return "", fmt.Errorf("failed to pick battle track: %w", err)
		}
		if pick < 1 || pick > n {
			return "", fmt.Errorf("battle track pick %d outside 1..%d", pick, n)
		}
		return t.soundtrack.Battle.Tracks[pick-1].File, nil
	case Special:
		return m.Track, nil
	}
	if m.Track != "" {
		return m.Track, nil
	}
	return t.soundtrack.AmbientFile(gs.CurrentAmbientTrack), nil
}

func (t *Tracker) bookkeep(gs *state.GameState) {
	gs.InBattle = t.mode.Kind == Battle
	if !gs.InBattle {
		gs.CurrentBattleTrack = nil
		return
	}
	if idx, ok := t.soundtrack.BattleIndex(t.track); ok {
		gs.CurrentBattleTrack = &idx
	} else {
		gs.CurrentBattleTrack = nil
	}
}

// leave silences the previous channel on the way to next. Ambient pauses
// to keep its position unless ambient is also the next channel.
func (t *Tracker) leave(prev Channel, prevTrack string, next Channel) []Cue {
	if prev == next && prev != ChannelBattle {
		return nil
	}
	return t.halt(prev, prevTrack, prev == ChannelAmbient)
}

func (t *Tracker) halt(ch Channel, track string, pause bool) []Cue {
	var cues []Cue
	if pause {
		t.paused[ch] = track
		cues = append(cues, Cue{Kind: CuePause, Channel: ch, Track: track})
	} else {
		delete(t.paused, ch)
		cues = append(cues, Cue{Kind: CueStop, Channel: ch})
	}
	if ch == ChannelBattle {
		cues = append(cues, Cue{Kind: CueExitBattle})
	}
	return cues
}

func (t *Tracker) start() []Cue {
	ch := t.mode.Channel()
	t.sounding = true

	var cues []Cue
	if ch == ChannelBattle {
		cues = append(cues, Cue{Kind: CueEnterBattle, Track: t.track})
	}
	if paused, ok := t.paused[ch]; ok && paused == t.track {
		delete(t.paused, ch)
		return append(cues, Cue{Kind: CueResume, Channel: ch, Track: t.track})
	}
	if _, ok := t.paused[ch]; ok {
		delete(t.paused, ch)
	}
	return append(cues, t.play(ch, t.track))
}

func (t *Tracker) play(ch Channel, track string) Cue {
	return Cue{Kind: CuePlay, Channel: ch, Track: track, Volume: t.Volume(ch)}
}
