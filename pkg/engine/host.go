package engine

import (
	"context"

	"github.com/iRKakashi/dragon-lance-web/pkg/audio"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
)

// VolumeStep is the volume change of one volume-up or volume-down command.
const VolumeStep = 0.1

// Restart begins a new game. All music stops; if music was enabled it
// starts again from the ambient playlist.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return err
	}
	e.reset()
	e.log.Info("game restarted")
	return e.show(e.startEntry)
}

// ToggleMusic flips music on or off and returns the new setting. While a
// modal is open, turning music on waits for the modal to close.
func (e *Engine) ToggleMusic() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return false, err
	}
	e.gs.MusicEnabled = !e.gs.MusicEnabled
	e.log.Info("music toggled", "enabled", e.gs.MusicEnabled, "in_battle", e.gs.InBattle)
	e.emit(signal.MusicEnabledChanged, e.gs.MusicEnabled)

	if e.gs.MusicEnabled {
		if e.modal == nil {
			e.emitCues(e.tracker.MusicOn(e.gs))
		}
	} else {
		e.emitCues(e.tracker.MusicOff())
	}
	e.emitView()
	return e.gs.MusicEnabled, nil
}

// AdjustVolume moves the volume by delta, clamped to 0..1, and returns the
// new volume.
func (e *Engine) AdjustVolume(delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return 0, err
	}
	cue := e.tracker.AdjustVolume(delta)
	e.log.Debug("volume changed", "volume", cue.Volume)
	e.emit(signal.VolumeChanged, cue.Volume)
	e.emitCues([]audio.Cue{cue})
	return cue.Volume, nil
}

// AmbientEnded is called when the ambient track finishes playing. The
// playlist advances if music is on and no battle is under way.
func (e *Engine) AmbientEnded(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready() != nil {
		return
	}
	cues := e.tracker.AmbientEnded(e.gs)
	if len(cues) > 0 {
		e.log.Debug("ambient track ended", "next_track", e.gs.CurrentAmbientTrack)
	}
	e.emitCues(cues)
}
