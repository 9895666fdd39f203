package engine

import (
	"context"
	"time"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// Choose selects the choice at index on the current entry. Its sets apply
// immediately. A navigation is recorded and choice input stays locked
// until Advance; a skill check or the character builder opens a modal. Any
// choice made while locked returns ErrInputLocked and changes nothing.
func (e *Engine) Choose(ctx context.Context, index int) (Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return Effect{}, err
	}
	if e.locked || e.modal != nil {
		return Effect{}, ErrInputLocked
	}
	if e.entry == nil || e.lastErr != nil {
		return Effect{}, gerrors.FailedPreconditionf("no entry is being shown")
	}
	if index < 0 || index >= len(e.entry.Choices) {
		return Effect{}, gerrors.InvalidArgumentf("choice %d out of range, entry %q has %d", index, e.entry.ID, len(e.entry.Choices))
	}

	choice := &e.entry.Choices[index]
	before := e.gs.Clone()
	pcBefore := e.pc.Clone()

	eff := Resolve(e.gs, choice)
	for _, err := range eff.Skipped {
		e.log.Warn("skipped choice assignment", "entry_id", e.entry.ID, "choice", index, "error", err)
	}
	e.log.Info("choice made", "entry_id", e.entry.ID, "choice", index, "text", choice.Text, "effect", eff.Kind.String())

	if species, ok := choice.Sets.Get("species"); ok {
		if e.openBuilder(species.String(), eff, before, pcBefore) {
			eff.Held = true
			return eff, nil
		}
	}

	switch eff.Kind {
	case EffectSkillCheck:
		e.openSkillCheck(eff.SkillCheck, before, pcBefore)
	case EffectNavigate:
		e.navSeq++
		e.locked = true
		e.pending = eff.Destination
		eff.Navigation = e.navSeq
		e.emitView()
	default:
		e.emitView()
	}
	return eff, nil
}

// Advance completes a pending navigation and releases choice input.
func (e *Engine) Advance(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return err
	}
	if e.pending == "" {
		return gerrors.FailedPreconditionf("no navigation is pending")
	}
	return e.navigate(e.pending)
}

// AdvanceIf advances only while navigation n is the pending one. A
// navigation dropped by Restart, Load, GoTo or CancelNavigation, or replaced
// by a later choice, is ignored and reported as false.
func (e *Engine) AdvanceIf(ctx context.Context, n uint64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return false, err
	}
	if !e.isPending(n) {
		e.log.Debug("stale navigation ignored", "navigation", n)
		return false, nil
	}
	return true, e.navigate(e.pending)
}

func (e *Engine) isPending(n uint64) bool {
	return e.pending != "" && n == e.navSeq
}

// ChooseAndWait chooses, waits the navigation delay and advances. Cancelling
// ctx during the wait releases the input lock without navigating.
func (e *Engine) ChooseAndWait(ctx context.Context, index int) (Effect, error) {
	eff, err := e.Choose(ctx, index)
	if err != nil || eff.Kind != EffectNavigate || eff.Held {
		return eff, err
	}
	if e.navDelay > 0 {
		timer := time.NewTimer(e.navDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			e.cancelNavigation(eff.Navigation)
			return eff, ctx.Err()
		case <-timer.C:
		}
	}
	_, err = e.AdvanceIf(ctx, eff.Navigation)
	return eff, err
}

// CancelNavigation drops a pending navigation. The sets already applied are
// kept.
func (e *Engine) CancelNavigation() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == "" {
		return
	}
	e.dropPending()
}

func (e *Engine) cancelNavigation(n uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isPending(n) {
		return
	}
	e.dropPending()
}

func (e *Engine) dropPending() {
	e.log.Debug("navigation cancelled", "destination", e.pending)
	e.pending = ""
	e.locked = false
	e.emitView()
}

// GoTo jumps straight to an entry, abandoning any modal or pending
// navigation. It exists for debugging adventures.
func (e *Engine) GoTo(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return err
	}
	if !e.store.Has(id) {
		return gerrors.EntryNotFound(id)
	}
	e.log.Info("debug jump", "entry_id", id)
	if e.modal != nil {
		e.emitCues(e.tracker.Unsuspend(e.gs))
		e.modal = nil
	}
	return e.navigate(id)
}

// SetCharacter overwrites character axes on the game state and re-renders.
// It exists for debugging conditional text.
func (e *Engine) SetCharacter(values map[story.Axis]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ready(); err != nil {
		return err
	}
	next := e.gs.Clone()
	for _, axis := range story.Axes {
		v, ok := values[axis]
		if !ok {
			continue
		}
		if err := next.Apply(axisAssignment(axis, v)); err != nil {
			return gerrors.WrapWithCode(err, gerrors.CodeInvalidArgument, "invalid character value")
		}
	}
	e.gs = next
	if sp, ok := values[story.AxisSpecies]; ok && sp != "" {
		e.pc.Race = sp
	}
	e.emitView()
	return nil
}

// navigate shows id and unlocks input. Callers hold the lock.
func (e *Engine) navigate(id string) error {
	e.pending = ""
	e.locked = false
	return e.show(id)
}
