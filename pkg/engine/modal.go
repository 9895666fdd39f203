package engine

import (
	"context"
	"encoding/json"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/skillcheck"
	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
	"github.com/iRKakashi/dragon-lance-web/pkg/textfilter"
)

// ModalKind names the modal in front of the entry.
type ModalKind string

const (
	ModalSkillCheck ModalKind = "skill_check"
	ModalBuilder    ModalKind = "character_builder"
)

// modal holds what is needed to finish or undo the choice that opened it.
type modal struct {
	kind        ModalKind
	check       *story.SkillCheck
	result      *skillcheck.Result
	destination string
	err         error

	gsBefore *state.GameState
	pcBefore *actor.PlayerCharacter
}

func (e *Engine) openSkillCheck(check *story.SkillCheck, before *state.GameState, pcBefore *actor.PlayerCharacter) {
	e.modal = &modal{
		kind:     ModalSkillCheck,
		check:    check,
		gsBefore: before,
		pcBefore: pcBefore,
	}
	e.emitCues(e.tracker.Suspend())
	e.emitView()
}

// RollSkillCheck rolls for the open skill check. Rolling again returns the
// first result.
func (e *Engine) RollSkillCheck() (skillcheck.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalSkillCheck)
	if err != nil {
		return skillcheck.Result{}, err
	}
	if m.result != nil {
		return *m.result, nil
	}

	res, err := skillcheck.Evaluate(*m.check, e.pc, e.roller)
	if err != nil {
		e.log.Error("skill check roll failed", "skill", m.check.Skill, "error", err)
		return skillcheck.Result{}, gerrors.WrapWithCode(err, gerrors.CodeInternal, "skill check roll failed")
	}
	m.result = &res
	e.log.Info("skill check rolled", "entry_id", e.gs.CurrentEntryID, "result", res.String())
	e.emitView()
	return res, nil
}

// ContinueSkillCheck closes the modal and navigates to the outcome's entry.
func (e *Engine) ContinueSkillCheck(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalSkillCheck)
	if err != nil {
		return err
	}
	if m.result == nil {
		return gerrors.FailedPreconditionf("skill check has not been rolled")
	}
	e.modal = nil
	e.emitCues(e.tracker.Unsuspend(e.gs))
	return e.navigate(m.result.Destination)
}

// CancelSkillCheck closes the modal and undoes the choice's sets.
func (e *Engine) CancelSkillCheck() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalSkillCheck)
	if err != nil {
		return err
	}
	e.log.Info("skill check cancelled", "skill", m.check.Skill)
	e.closeModal(m)
	return nil
}

// openBuilder starts the character builder for a species choice when the
// builder is enabled and the character is not finished yet. It reports
// whether the builder took over the choice.
func (e *Engine) openBuilder(species string, eff Effect, before *state.GameState, pcBefore *actor.PlayerCharacter) bool {
	if species == "" {
		return false
	}
	if !e.builderEnabled {
		e.pc.Race = species
		return false
	}
	if e.pc.IsComplete {
		return false
	}
	if err := e.builder.SelectRace(species); err != nil {
		e.log.Warn("character builder did not open", "species", species, "error", err)
		return false
	}
	e.pc.Race = species
	e.modal = &modal{
		kind:     ModalBuilder,
		gsBefore: before,
		pcBefore: pcBefore,
	}
	switch eff.Kind {
	case EffectNavigate:
		e.modal.destination = eff.Destination
	case EffectSkillCheck:
		e.log.Warn("skill check on a species choice is ignored by the character builder", "skill", eff.SkillCheck.Skill)
	}
	e.log.Info("character builder opened", "species", species)
	e.emitCues(e.tracker.Suspend())
	e.emitView()
	return true
}

// SelectRace changes the race while the builder asks for a name.
func (e *Engine) SelectRace(race string) error {
	return e.builderStep(func(b *actor.Builder) error {
		if err := b.SelectRace(race); err != nil {
			return err
		}
		if err := e.gs.Apply(axisAssignment(story.AxisSpecies, b.Race())); err != nil {
			return err
		}
		e.pc.Race = b.Race()
		return nil
	})
}

// SetName records the typed name, cleaned of control characters.
func (e *Engine) SetName(name string) error {
	return e.builderStep(func(b *actor.Builder) error {
		b.SetName(textfilter.CleanName(name))
		return nil
	})
}

// ConfirmIdentity moves the builder on to ability scores.
func (e *Engine) ConfirmIdentity() error {
	return e.builderStep(func(b *actor.Builder) error {
		return b.ConfirmIdentity()
	})
}

// AssignAbility sets one ability score in the builder.
func (e *Engine) AssignAbility(a actor.Ability, score int) error {
	return e.builderStep(func(b *actor.Builder) error {
		return b.Assign(a, score)
	})
}

// UnassignAbility clears one ability score in the builder.
func (e *Engine) UnassignAbility(a actor.Ability) error {
	return e.builderStep(func(b *actor.Builder) error {
		b.Unassign(a)
		return nil
	})
}

// ConfirmAbilities finishes the character and carries out the navigation
// the species choice was holding. A *ValidationError leaves everything as
// it was and is shown in the builder view.
func (e *Engine) ConfirmAbilities(ctx context.Context) (*actor.PlayerCharacter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalBuilder)
	if err != nil {
		return nil, err
	}
	pc, err := e.builder.ConfirmAbilities()
	if err != nil {
		m.err = err
		e.emitView()
		return nil, err
	}

	e.pc = pc
	e.modal = nil
	e.log.Info("character created", "name", pc.Name, "race", pc.Race, "stats", pc.Stats)
	e.emitCues(e.tracker.Unsuspend(e.gs))
	if m.destination == "" {
		e.emitView()
		return pc.Clone(), nil
	}
	return pc.Clone(), e.navigate(m.destination)
}

// CancelBuilder closes the builder and undoes the species choice. Typed
// fields are kept for the next attempt.
func (e *Engine) CancelBuilder() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalBuilder)
	if err != nil {
		return err
	}
	e.builder.Cancel()
	e.log.Info("character builder cancelled")
	e.closeModal(m)
	return nil
}

func (e *Engine) builderStep(step func(b *actor.Builder) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.openModal(ModalBuilder)
	if err != nil {
		return err
	}
	err = step(e.builder)
	m.err = err
	e.emitView()
	return err
}

func (e *Engine) openModal(kind ModalKind) (*modal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.modal == nil || e.modal.kind != kind {
		return nil, gerrors.FailedPreconditionf("no %s is open", kind)
	}
	return e.modal, nil
}

// closeModal restores the state from before the choice. Music settings made
// while the modal was open survive the restore.
func (e *Engine) closeModal(m *modal) {
	restored := m.gsBefore
	restored.MusicEnabled = e.gs.MusicEnabled
	restored.InBattle = e.gs.InBattle
	restored.CurrentBattleTrack = e.gs.CurrentBattleTrack
	restored.CurrentAmbientTrack = e.gs.CurrentAmbientTrack
	e.gs = restored
	e.pc = m.pcBefore
	e.modal = nil
	e.emitCues(e.tracker.Unsuspend(e.gs))
	e.emitView()
}

func axisAssignment(axis story.Axis, value string) story.Assignment {
	raw := json.RawMessage("null")
	if value != "" {
		b, _ := json.Marshal(value)
		raw = b
	}
	return story.Assignment{Key: string(axis), Value: raw}
}
