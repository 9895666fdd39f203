package engine

import (
	"context"
	"strings"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
	"github.com/iRKakashi/dragon-lance-web/internal/logger"
	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

// Save writes the session to slot; an empty slot means
// storage.DefaultSlot. The session is copied under the lock and written
// without it.
func (e *Engine) Save(ctx context.Context, slot string) (*SaveDocument, error) {
	slot = slotOrDefault(slot)
	e.mu.Lock()
	if err := e.ready(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.storage == nil {
		e.mu.Unlock()
		return nil, gerrors.Persistencef("no save storage configured")
	}
	doc := state.NewSaveDocument(e.gs, e.pc, e.now())
	log := e.log
	e.mu.Unlock()

	if err := e.storage.SaveGame(ctx, slot, doc); err != nil {
		logger.WithError(log, err).Error("save failed", "slot", slot)
		return nil, gerrors.WrapWithCodef(err, gerrors.CodePersistence, "failed to save slot %q", slot)
	}
	log.Info("game saved", "slot", slot, "entry_id", doc.GameState.CurrentEntryID)
	return doc, nil
}

// Load restores the session saved in slot and shows its current entry. On
// any failure the running session is left untouched.
func (e *Engine) Load(ctx context.Context, slot string) error {
	slot = slotOrDefault(slot)
	e.mu.Lock()
	if err := e.ready(); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.storage == nil {
		e.mu.Unlock()
		return gerrors.Persistencef("no save storage configured")
	}
	log := e.log
	e.mu.Unlock()

	doc, err := e.storage.LoadGame(ctx, slot)
	if err != nil {
		logger.WithError(log, err).Error("load failed", "slot", slot)
		return gerrors.WrapWithCodef(err, gerrors.CodePersistence, "failed to load slot %q", slot)
	}
	if doc == nil {
		return gerrors.Persistencef("no save in slot %q", slot)
	}
	if err := doc.Validate(); err != nil {
		return gerrors.WrapWithCodef(err, gerrors.CodePersistence, "save in slot %q is invalid", slot)
	}
	if !e.store.Has(doc.GameState.CurrentEntryID) {
		return gerrors.Persistencef("save in slot %q points at unknown entry %q", slot, doc.GameState.CurrentEntryID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	e.restore(doc)
	e.log.Info("game loaded", "slot", slot, "entry_id", e.gs.CurrentEntryID, "saved_at", doc.Timestamp)
	return e.show(e.gs.CurrentEntryID)
}

// restore installs a save document. Callers hold the lock.
func (e *Engine) restore(doc *SaveDocument) {
	gs := doc.GameState.Clone()
	musicChanged := gs.MusicEnabled != e.gs.MusicEnabled

	e.emitCues(e.tracker.Reset(gs))
	e.gs = gs
	e.pc = doc.PlayerCharacter.Clone()
	if e.pc == nil {
		e.pc = actor.NewPlayerCharacter()
	}
	e.pc.SetStats(e.pc.Stats)
	e.builder = actor.NewBuilder()
	e.modal = nil
	e.pending = ""
	e.locked = false
	e.lastErr = nil
	e.bindSession()
	if musicChanged {
		e.emit(signal.MusicEnabledChanged, gs.MusicEnabled)
	}
}

// ListSaves returns the saved slots, newest first.
func (e *Engine) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	if e.storage == nil {
		return nil, gerrors.Persistencef("no save storage configured")
	}
	infos, err := e.storage.ListSaves(ctx)
	if err != nil {
		return nil, gerrors.WrapWithCode(err, gerrors.CodePersistence, "failed to list saves")
	}
	return infos, nil
}

// DeleteSave removes a slot.
func (e *Engine) DeleteSave(ctx context.Context, slot string) error {
	if e.storage == nil {
		return gerrors.Persistencef("no save storage configured")
	}
	slot = slotOrDefault(slot)
	if err := e.storage.DeleteSave(ctx, slot); err != nil {
		return gerrors.WrapWithCodef(err, gerrors.CodePersistence, "failed to delete slot %q", slot)
	}
	e.log.Info("save deleted", "slot", slot)
	return nil
}

func slotOrDefault(slot string) string {
	if s := strings.TrimSpace(slot); s != "" {
		return s
	}
	return storage.DefaultSlot
}
